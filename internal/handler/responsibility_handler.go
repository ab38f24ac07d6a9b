package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/response"
)

type currentUserLoader interface {
	CurrentUser(ctx context.Context, claims *models.JWTClaims) (*models.User, error)
}

type responsibilityResolver interface {
	Resolve(ctx context.Context, user *models.User) (*models.Responsibilities, error)
}

// ResponsibilityHandler serves the caller's officer responsibilities.
type ResponsibilityHandler struct {
	users    currentUserLoader
	resolver responsibilityResolver
}

// NewResponsibilityHandler constructs the handler.
func NewResponsibilityHandler(users currentUserLoader, resolver responsibilityResolver) *ResponsibilityHandler {
	return &ResponsibilityHandler{users: users, resolver: resolver}
}

// Me godoc
// @Summary Officer responsibilities of the current user
// @Description responsibilities is null when the user holds no officer role.
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/responsibilities [get]
func (h *ResponsibilityHandler) Me(c *gin.Context) {
	if h.users == nil || h.resolver == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	user, err := h.users.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.resolver.Resolve(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ResponsibilitiesResponse{
		HasOfficerRole:   result != nil,
		Responsibilities: result,
	}, nil)
}
