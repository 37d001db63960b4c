// File: internal/location/handler.go
package location

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gatherus_backend/internal/city"
	"gatherus_backend/internal/common"
)

// Flow is the slice of a client flow the location endpoints need.
type Flow interface {
	Picker() *Picker
	SessionUserID() (string, bool)
	NavigateHome()
}

// FlowResolver looks live flows up by id.
type FlowResolver interface {
	Flow(id string) (Flow, bool)
}

// SaveLocationRequest selects and confirms a city in one call.
type SaveLocationRequest struct {
	CityID string `json:"city_id" binding:"required"`
}

// Handler exposes the location picker operations on a client flow.
type Handler struct {
	flows  FlowResolver
	logger *zap.Logger
}

// NewHandler creates a new location handler.
func NewHandler(flows FlowResolver, logger *zap.Logger) *Handler {
	return &Handler{flows: flows, logger: logger}
}

// RegisterRoutes sets up the location routes on the per-flow group.
func (h *Handler) RegisterRoutes(flowGroup *gin.RouterGroup) {
	locationGroup := flowGroup.Group("/location")
	{
		locationGroup.GET("/cities", h.listCities)
		locationGroup.POST("", h.saveLocation)
	}
}

func (h *Handler) listCities(c *gin.Context) {
	common.RespondOK(c, "", gin.H{"cities": city.All()})
}

// saveLocation selects the requested city on the flow's picker, confirms it
// and advances the flow to home on success. On failure the client stays on
// the picker to retry.
func (h *Handler) saveLocation(c *gin.Context) {
	f, ok := h.flows.Flow(c.Param("flowID"))
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown flow id."))
		return
	}

	userID, ok := f.SessionUserID()
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated user"))
		return
	}

	picker := f.Picker()
	if picker == nil {
		common.RespondWithError(c, common.ErrConflict.WithDetails("The location picker is not active."))
		return
	}

	var req SaveLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Save location: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := picker.Select(req.CityID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	if err := picker.Confirm(c.Request.Context(), userID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	f.NavigateHome()
	common.RespondOK(c, "Location saved.", gin.H{
		"selected": picker.Selected(),
		"route":    "home",
	})
}
