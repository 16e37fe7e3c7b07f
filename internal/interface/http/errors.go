package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
	"github.com/oksasatya/sp-website-api/pkg/response"
	"github.com/oksasatya/sp-website-api/pkg/validation"
)

// fail maps err onto the error envelope. Only unexpected failures are logged.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	ae := application.AsAppError(err)
	switch ae.Kind {
	case application.KindInternal:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(response.RequestIDKey),
			"path":       c.FullPath(),
		})
	case application.KindUnauthorized:
		c.Header("WWW-Authenticate", "Bearer")
	}
	response.Send(c, response.Error[any](c, ae.Status(), ae.Message, nil))
}

func invalidPayload(c *gin.Context, err error) {
	response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
}
