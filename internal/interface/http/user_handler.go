package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/interface/middleware"
	"github.com/oksasatya/sp-website-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type listQuery struct {
	Limit  int `form:"limit" binding:"omitempty,gte=0,max=200"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,gte=0,max=50"`
}

type updateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,notblank,max=100"`
	Password string `json:"password" binding:"omitempty,pwd"`
}

func (h *UserHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), middleware.CurrentUser(c), q.Limit, q.Offset)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"users": page.Users}, "ok",
		map[string]any{"limit": page.Limit, "offset": page.Offset, "count": len(page.Users)}))
}

func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), middleware.CurrentUser(c), q.Q, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"users": hits}, "ok", nil))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, u, "ok", nil))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), id, application.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, u, "profile updated", nil))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success[any](c, http.StatusOK, gin.H{"id": id}, "user deleted", nil))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid id", map[string]string{"id": "must be a positive integer"}))
		return 0, false
	}
	return id, true
}
