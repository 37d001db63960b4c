// File: internal/auth/handler.go
package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gatherus_backend/internal/common"
	"gatherus_backend/internal/flow"
)

// Handler exposes the auth form operations on a client flow.
type Handler struct {
	flows   *flow.Manager
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(flows *flow.Manager, service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		flows:   flows,
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the auth routes on the per-flow group.
func (h *Handler) RegisterRoutes(flowGroup *gin.RouterGroup, rateLimitMW gin.HandlerFunc) {
	authGroup := flowGroup.Group("/auth", rateLimitMW)
	{
		authGroup.POST("/sign-up", h.signUp)
		authGroup.POST("/sign-in", h.signIn)
		authGroup.POST("/sign-out", h.signOut)
	}
}

func (h *Handler) signUp(c *gin.Context) {
	f, ok := h.resolveFlow(c)
	if !ok {
		return
	}

	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Sign-up: Invalid request body", zap.Error(err))
		respondBindingError(c, err)
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), f.Client(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Account created successfully!", gin.H{
		"session": SessionResponse{UserID: session.UserID, Email: session.Email},
		"route":   f.Route(),
	})
}

func (h *Handler) signIn(c *gin.Context) {
	f, ok := h.resolveFlow(c)
	if !ok {
		return
	}

	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Sign-in: Invalid request body", zap.Error(err))
		respondBindingError(c, err)
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), f.Client(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Signed in successfully!", gin.H{
		"session": SessionResponse{UserID: session.UserID, Email: session.Email},
		"route":   f.Route(),
	})
}

func (h *Handler) signOut(c *gin.Context) {
	f, ok := h.resolveFlow(c)
	if !ok {
		return
	}

	h.service.SignOut(f.Client())
	common.RespondOK(c, "Signed out successfully!", gin.H{"route": f.Route()})
}

func (h *Handler) resolveFlow(c *gin.Context) (*flow.Flow, bool) {
	f, ok := h.flows.Get(c.Param("flowID"))
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown flow id."))
		return nil, false
	}
	return f, true
}

func respondBindingError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
