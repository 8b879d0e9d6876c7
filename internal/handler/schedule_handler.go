package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/levada-tours/service-booking/internal/application"
	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/platform/auth"
	"github.com/levada-tours/service-booking/internal/platform/middleware"
	"github.com/levada-tours/service-booking/internal/platform/response"
)

// ScheduleHandler handles HTTP requests for run-state queries and vehicle
// blocking.
type ScheduleHandler struct {
	service *application.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(service *application.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// RegisterRoutes registers all schedule routes on the given router group.
func (h *ScheduleHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	schedule := r.Group("/api/v1/schedule")
	schedule.Use(middleware.Auth(jwtManager))
	{
		schedule.GET("/:date", h.DaySchedule)
		schedule.GET("/:date/vehicles/:vehicleId", h.GetRunState)
		schedule.POST("/check", h.PreviewAdmission)
	}

	blocks := r.Group("/api/v1/blocks")
	blocks.Use(middleware.Auth(jwtManager))
	{
		blocks.GET("", h.ListBlocks)
		blocks.POST("", h.BlockVehicle)
		blocks.POST("/range", h.BlockVehicleRange)
		blocks.DELETE("/:id", h.UnblockVehicle)
	}
}

// DaySchedule handles GET /api/v1/schedule/:date.
func (h *ScheduleHandler) DaySchedule(c *gin.Context) {
	result, err := h.service.DaySchedule(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRunState handles GET /api/v1/schedule/:date/vehicles/:vehicleId.
func (h *ScheduleHandler) GetRunState(c *gin.Context) {
	result, err := h.service.GetRunState(c.Request.Context(), c.Param("date"), c.Param("vehicleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PreviewAdmission handles POST /api/v1/schedule/check. Rejections are
// 200s with allowed=false; only malformed requests error.
func (h *ScheduleHandler) PreviewAdmission(c *gin.Context) {
	var req application.AdmissionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PreviewAdmission(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBlocks handles GET /api/v1/blocks?from=...&to=...
func (h *ScheduleHandler) ListBlocks(c *gin.Context) {
	today := time.Now().UTC().Format(tour.DateLayout)
	from := c.DefaultQuery("from", today)
	to := c.DefaultQuery("to", from)

	result, err := h.service.ListBlocks(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// BlockVehicle handles POST /api/v1/blocks.
func (h *ScheduleHandler) BlockVehicle(c *gin.Context) {
	var req application.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BlockVehicle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// BlockVehicleRange handles POST /api/v1/blocks/range.
func (h *ScheduleHandler) BlockVehicleRange(c *gin.Context) {
	var req application.RangeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BlockVehicleRange(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UnblockVehicle handles DELETE /api/v1/blocks/:id.
func (h *ScheduleHandler) UnblockVehicle(c *gin.Context) {
	if err := h.service.UnblockVehicle(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
