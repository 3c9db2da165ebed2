package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
	"github.com/oksasatya/go-ddd-identity/pkg/validation"
)

// AuthService is the part of the application service the auth endpoints
// need.
type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) (*application.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*application.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*application.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type AuthHandler struct {
	Svc     AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger, cookies *helpers.CookieManager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,max=256"`
	FirstName string `json:"first_name" binding:"required,personname"`
	LastName  string `json:"last_name" binding:"required,personname"`
	Password  string `json:"password" binding:"required,pwd"`
	Role      string `json:"role" binding:"omitempty,oneof=Employee Manager Admin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,max=256"`
	Password string `json:"password" binding:"required,pwd"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) setCookies(c *gin.Context, res *application.AuthResponse) {
	if h.Cookies == nil {
		return
	}
	h.Cookies.SetPair(c, res.AccessToken, res.AccessTokenExpiry, res.RefreshToken, res.RefreshTokenExpiry)
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	h.setCookies(c, res)
	response.Success(c, http.StatusCreated, res, "registered", nil)
}

// Login POST /api/auth/login
// Unknown emails and wrong passwords get the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch shared.CodeOf(err) {
		case shared.CodeNotFound, shared.CodeInvalidCredentials:
			response.Error(c, http.StatusUnauthorized, "Invalid email or password.", gin.H{"code": shared.CodeInvalidCredentials})
		default:
			writeError(c, err)
		}
		return
	}
	h.setCookies(c, res)
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// Refresh POST /api/auth/refresh
// The token comes from the body or, failing that, the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshTokenCookie)
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	res, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	h.setCookies(c, res)
	response.Success(c, http.StatusOK, res, "token refreshed", nil)
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		writeError(c, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
