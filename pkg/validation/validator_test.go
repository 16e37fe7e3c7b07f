package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"max=5"`
}

type named struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

func TestToDetails_FieldErrors(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&sample{Email: "nope", Password: "short", Name: "toolongname"})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "must be between 8 and 72 characters long", d["password"])
	assert.Equal(t, "must be at most 5 characters long", d["name"])
}

func TestToDetails_Required(t *testing.T) {
	Init()

	d := ToDetails(binding.Validator.ValidateStruct(&sample{}))
	assert.Equal(t, "is required", d["email"])
	assert.Equal(t, "is required", d["password"])
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{bad"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

func TestNotBlank(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&named{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, "must not be blank", ToDetails(err)["name"])

	assert.NoError(t, binding.Validator.ValidateStruct(&named{Name: " Ann "}))
}
