package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(CORS(origins))
	e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return e
}

func getWithOrigin(e *gin.Engine, origin string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", origin)
	e.ServeHTTP(w, req)
	return w
}

func TestCORS_WildcardDoesNotAllowCredentials(t *testing.T) {
	for _, origins := range [][]string{{"*"}, nil} {
		w := getWithOrigin(corsEngine(origins), "https://evil.example")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestCORS_ExplicitList(t *testing.T) {
	e := corsEngine([]string{"https://app.example"})

	w := getWithOrigin(e, "https://app.example")
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = getWithOrigin(e, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
