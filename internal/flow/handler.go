// File: internal/flow/handler.go
package flow

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gatherus_backend/internal/common"
	"gatherus_backend/internal/identity"
	"gatherus_backend/internal/profile"
)

// NavigateRequest moves a flow between the authenticated screens.
type NavigateRequest struct {
	Route string `json:"route" binding:"required,oneof=home location_picker"`
}

// StateResponse is the client-facing view of a flow.
type StateResponse struct {
	FlowID          string            `json:"flow_id"`
	Route           Route             `json:"route"`
	SessionState    SessionState      `json:"session_state"`
	Session         *identity.Session `json:"session,omitempty"`
	Profile         *profile.Profile  `json:"profile,omitempty"`
	NeedsOnboarding *bool             `json:"needs_onboarding,omitempty"`
}

// Handler exposes the flow lifecycle over HTTP.
type Handler struct {
	flows  *Manager
	logger *zap.Logger
}

// NewHandler creates a new flow handler.
func NewHandler(flows *Manager, logger *zap.Logger) *Handler {
	return &Handler{flows: flows, logger: logger}
}

// RegisterRoutes sets up the flow lifecycle routes.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, flowGroup *gin.RouterGroup) {
	v1.POST("/flows", h.create)
	flowGroup.GET("", h.get)
	flowGroup.DELETE("", h.remove)
	flowGroup.POST("/navigate", h.navigate)
}

func (h *Handler) create(c *gin.Context) {
	f := h.flows.Create()
	common.RespondCreated(c, "Flow created.", stateView(f))
}

func (h *Handler) get(c *gin.Context) {
	f, ok := h.resolveFlow(c)
	if !ok {
		return
	}
	common.RespondOK(c, "", stateView(f))
}

func (h *Handler) remove(c *gin.Context) {
	if !h.flows.Remove(c.Param("flowID")) {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown flow id."))
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) navigate(c *gin.Context) {
	f, ok := h.resolveFlow(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Navigate: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := f.Navigate(Route(req.Route)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", stateView(f))
}

func (h *Handler) resolveFlow(c *gin.Context) (*Flow, bool) {
	f, ok := h.flows.Get(c.Param("flowID"))
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown flow id."))
		return nil, false
	}
	return f, true
}

func stateView(f *Flow) StateResponse {
	resp := StateResponse{
		FlowID:       f.ID(),
		Route:        f.Route(),
		SessionState: f.SessionState(),
		Session:      f.Session(),
	}

	if resp.SessionState == StateAuthenticated {
		if p := f.Profile(); p != nil {
			resp.Profile = p
			needs := profile.NeedsOnboarding(p)
			resp.NeedsOnboarding = &needs
		}
	}
	return resp
}
