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

// AdminHandler handles fleet management, rate management, and reporting.
// All routes require the admin role.
type AdminHandler struct {
	vehicles *application.VehicleService
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(vehicles *application.VehicleService, bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{vehicles: vehicles, bookings: bookings}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.Auth(jwtManager)
	adminMW := middleware.RequireRole(auth.RoleAdmin)

	vehicles := r.Group("/api/v1/vehicles")
	vehicles.Use(authMW)
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.POST("", adminMW, h.CreateVehicle)
		vehicles.PUT("/:id", adminMW, h.UpdateVehicle)
	}

	rates := r.Group("/api/v1/rates")
	rates.Use(authMW)
	{
		rates.GET("", h.ListRates)
		rates.POST("", adminMW, h.CreateRate)
		rates.PUT("/:id", adminMW, h.UpdateRate)
	}

	reports := r.Group("/api/v1/reports")
	reports.Use(authMW, adminMW)
	{
		reports.GET("/revenue", h.RevenueReport)
	}
}

// ListVehicles handles GET /api/v1/vehicles. ?active=true restricts to the
// bookable fleet.
func (h *AdminHandler) ListVehicles(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	result, err := h.vehicles.ListVehicles(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *AdminHandler) GetVehicle(c *gin.Context) {
	result, err := h.vehicles.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateVehicle handles POST /api/v1/vehicles.
func (h *AdminHandler) CreateVehicle(c *gin.Context) {
	var req application.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateVehicle handles PUT /api/v1/vehicles/:id.
func (h *AdminHandler) UpdateVehicle(c *gin.Context) {
	var req application.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.UpdateVehicle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListRates handles GET /api/v1/rates.
func (h *AdminHandler) ListRates(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	result, err := h.vehicles.ListRates(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateRate handles POST /api/v1/rates.
func (h *AdminHandler) CreateRate(c *gin.Context) {
	var req application.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.CreateRate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateRate handles PUT /api/v1/rates/:id.
func (h *AdminHandler) UpdateRate(c *gin.Context) {
	var req application.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.UpdateRate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RevenueReport handles GET /api/v1/reports/revenue?from=...&to=...
func (h *AdminHandler) RevenueReport(c *gin.Context) {
	today := time.Now().UTC().Format(tour.DateLayout)
	from := c.DefaultQuery("from", today)
	to := c.DefaultQuery("to", from)

	result, err := h.bookings.RevenueReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
