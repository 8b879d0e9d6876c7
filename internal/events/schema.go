package events

import "time"

// Topics.
const (
	TopicBookingEvents  = "booking.events"
	TopicScheduleEvents = "schedule.events"
	TopicPaymentEvents  = "payment.events"
)

// Event types.
const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	VehicleBlocked   = "schedule.vehicle_blocked"
	VehicleUnblocked = "schedule.vehicle_unblocked"
	PaymentRecorded  = "payment.recorded"
)

// BookingEvent is published on create, update, and cancel.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	VehicleID    string    `json:"vehicle_id"`
	Date         string    `json:"date"`
	TourOptionID string    `json:"tour_option_id"`
	RateType     string    `json:"rate_type"`
	Seats        int       `json:"seats"`
	Status       string    `json:"status"`
	Total        float64   `json:"total"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// VehicleBlockedEvent is published for each block written, single or ranged.
type VehicleBlockedEvent struct {
	BlockID    string    `json:"block_id"`
	VehicleID  string    `json:"vehicle_id"`
	Date       string    `json:"date"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentRecordedEvent is consumed from the payments service; Method must be
// one of the booking payment statuses.
type PaymentRecordedEvent struct {
	BookingID  string    `json:"booking_id"`
	Method     string    `json:"method"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
