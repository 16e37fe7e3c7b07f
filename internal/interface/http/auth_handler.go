package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	"github.com/oksasatya/sp-website-api/internal/interface/middleware"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
	"github.com/oksasatya/sp-website-api/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
	// Cookies is nil unless the cookie transport is enabled.
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

// loginRequest also binds the OAuth2 password form (username/password).
type loginRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type emailRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.setCookies(c, res.TokenPair)
	response.Send(c, response.Success(c, http.StatusCreated, res, "user registered", nil))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.setCookies(c, res.TokenPair)
	response.Send(c, response.Success(c, http.StatusOK, res, "login successful", nil))
}

// Refresh takes the token from the JSON body, else from the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidPayload(c, err)
		return
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(helpers.RefreshCookie)
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.setCookies(c, *pair)
	response.Send(c, response.Success(c, http.StatusOK, pair, "token refreshed", nil))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	msg := h.Svc.Logout(c.Request.Context())
	response.Send(c, response.Success[any](c, http.StatusOK, gin.H{"message": msg}, msg, nil))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		// form field, then ?email=
		req.Email = c.Query("email")
		if req.Email == "" {
			invalidPayload(c, err)
			return
		}
	}
	msg := h.Svc.ForgotPassword(c.Request.Context(), req.Email)
	response.Send(c, response.Success[any](c, http.StatusOK, gin.H{"message": msg}, msg, nil))
}

func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.BootstrapAdmin(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.setCookies(c, res.TokenPair)
	response.Send(c, response.Success(c, http.StatusCreated, res, application.MsgAdminCreated, nil))
}

func (h *AuthHandler) PromoteToAdmin(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.PromoteToAdmin(c.Request.Context(), middleware.CurrentUser(c), req.Email)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, res, res.Message, nil))
}

func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		fail(c, h.Logger, application.ErrUnauthorized)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, application.NewUserSummary(u), "ok", nil))
}

func (h *AuthHandler) setCookies(c *gin.Context, p application.TokenPair) {
	if h.Cookies == nil {
		return
	}
	h.Cookies.SetPair(c, p.AccessToken, p.AccessTokenExpiry, p.RefreshToken, p.RefreshTokenExpiry)
}
