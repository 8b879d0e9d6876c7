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

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(middleware.Auth(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}

	guests := r.Group("/api/v1/guests")
	guests.Use(middleware.Auth(jwtManager))
	{
		guests.GET("/:id/bookings", h.ListGuestBookings)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings?from=...&to=... Defaults to the
// current day when the range is omitted.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	today := time.Now().UTC().Format(tour.DateLayout)
	from := c.DefaultQuery("from", today)
	to := c.DefaultQuery("to", from)

	result, err := h.service.ListBookings(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListGuestBookings handles GET /api/v1/guests/:id/bookings.
func (h *BookingHandler) ListGuestBookings(c *gin.Context) {
	result, err := h.service.ListGuestBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
