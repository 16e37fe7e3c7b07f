package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

type stubResolver map[string]*entity.User

func (s stubResolver) Resolve(_ context.Context, token string) (*entity.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, application.ErrUnauthorized
}

func newAuthEngine(r Resolver, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	chain := append([]gin.HandlerFunc{Auth(r)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	e.GET("/me", chain...)
	return e
}

func TestAuth(t *testing.T) {
	alice := &entity.User{ID: 1, Email: "a@x.com", Role: entity.RoleUser}
	e := newAuthEngine(stubResolver{"good": alice})

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer good") }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: "good"}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	users := stubResolver{
		"admin": {ID: 1, Role: entity.RoleAdmin},
		"user":  {ID: 2, Role: entity.RoleUser},
	}
	e := newAuthEngine(users, RequireRole(entity.RoleAdmin))

	for token, want := range map[string]int{"admin": http.StatusOK, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
		assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
