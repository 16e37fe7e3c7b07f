package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sp-website-api/pkg/response"
)

// Pinger is a named dependency probed by /health.
type Pinger struct {
	Name string
	Ping func(ctx context.Context) error
}

type SystemHandler struct {
	AppName string
	Checks  []Pinger
}

func NewSystemHandler(appName string, checks ...Pinger) *SystemHandler {
	return &SystemHandler{AppName: appName, Checks: checks}
}

func (h *SystemHandler) Root(c *gin.Context) {
	msg := "Welcome to " + h.AppName
	response.Send(c, response.Success[any](c, http.StatusOK, gin.H{"message": msg}, msg, nil))
}

// Health reports "healthy" when every configured dependency answers.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.Checks))
	healthy := true
	for _, chk := range h.Checks {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = err.Error()
			healthy = false
			continue
		}
		deps[chk.Name] = "ok"
	}

	if !healthy {
		response.Send(c, response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", gin.H{"status": "unhealthy", "dependencies": deps}))
		return
	}
	response.Send(c, response.Success[any](c, http.StatusOK, gin.H{"status": "healthy", "dependencies": deps}, "healthy", nil))
}
