package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-identity/pkg/pagination"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
	"github.com/oksasatya/go-ddd-identity/pkg/validation"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*repository.UserProfile, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	Deactivate(ctx context.Context, userID uuid.UUID, reason string) error
	ListUsers(ctx context.Context, pageNumber, pageSize int) (pagination.PagedResult[repository.UserProfile], error)
	SearchUsers(ctx context.Context, q string, size int) ([]repository.UserProfile, error)
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,pwd"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

type deactivateRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type pageMeta struct {
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	PageNumber      int   `json:"page_number"`
	PageSize        int   `json:"page_size"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	p, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// ChangePassword PUT /api/profile/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

// List GET /api/users?page=&page_size= (admin)
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(pagination.DefaultPageSize)))
	res, err := h.Svc.ListUsers(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Items, "users", pageMeta{
		TotalCount:      res.TotalCount,
		TotalPages:      res.TotalPages(),
		PageNumber:      res.PageNumber,
		PageSize:        res.PageSize,
		HasPreviousPage: res.HasPreviousPage(),
		HasNextPage:     res.HasNextPage(),
	})
}

// Search GET /api/users/search?q=&size= (admin)
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "query is required", gin.H{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	res, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "users", gin.H{"count": len(res)})
}

// Deactivate POST /api/users/:id/deactivate (admin)
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", gin.H{"id": "must be a valid UUID"})
		return
	}
	var req deactivateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	if err := h.Svc.Deactivate(c.Request.Context(), id, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true}, "user deactivated", nil)
}
