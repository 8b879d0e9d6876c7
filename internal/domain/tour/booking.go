package tour

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for tour dates (calendar days, no time component).
const DateLayout = "2006-01-02"

// DefaultSeatCapacity is used when a vehicle does not specify its own capacity.
const DefaultSeatCapacity = 6

// RateType distinguishes how a booking occupies a vehicle.
type RateType string

const (
	RateShared  RateType = "SHARED"
	RatePrivate RateType = "PRIVATE"
)

// IsValid returns true if the rate type is recognized.
func (r RateType) IsValid() bool {
	return r == RateShared || r == RatePrivate
}

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusTentative BookingStatus = "TENTATIVE"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusDone      BookingStatus = "DONE"
	StatusCancelled BookingStatus = "CANCELLED"
)

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusTentative, StatusConfirmed, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// PaymentStatus records how (or whether) a booking has been paid.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentCash          PaymentStatus = "CASH"
	PaymentCard          PaymentStatus = "CARD"
	PaymentPaypal        PaymentStatus = "PAYPAL"
	PaymentBankTransfer  PaymentStatus = "BANK_TRANSFER"
	PaymentComplimentary PaymentStatus = "COMPLIMENTARY"
)

// IsValid returns true if the payment status is recognized.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentCash, PaymentCard, PaymentPaypal, PaymentBankTransfer, PaymentComplimentary:
		return true
	}
	return false
}

// PricingMode selects between normal price resolution and a free-form override.
type PricingMode string

const (
	PricingStandard PricingMode = "STANDARD"
	PricingFree     PricingMode = "FREE"
)

// PickupInfo holds where and when guests are collected for a run.
type PickupInfo struct {
	Location string `json:"location"`
	Time     string `json:"time"`
	Notes    string `json:"notes,omitempty"`
}

// Reminder is an optional note surfaced to staff on a given date.
type Reminder struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// Booking is a single reservation of seats on one vehicle for one date.
// It is a plain record: the engine operates on snapshots of these, it never
// mutates them.
type Booking struct {
	ID             string
	VehicleID      string
	Date           string // DateLayout
	GuestID        string
	LeadGuestName  string
	Phone          string
	Email          string
	TourOptionID   string
	MarketSourceID string
	RateType       RateType
	Seats          int
	Status         BookingStatus
	PaymentStatus  PaymentStatus

	PricingMode    PricingMode
	CustomPrice    float64
	TotalPrice     *float64 // nil means no stored total
	PricePerPerson float64
	PrivatePrice   float64

	Pickup   PickupInfo
	Notes    string
	Reminder *Reminder

	CreatedAt time.Time
}

// RunID derives the composite tour-run key for a (date, vehicle) pair.
// A booking's run membership is always derived from its own date and vehicle,
// never stored independently.
func RunID(date, vehicleID string) string {
	return date + "-" + vehicleID
}

// RunID returns the tour run this booking belongs to.
func (b Booking) RunID() string {
	return RunID(b.Date, b.VehicleID)
}

// ValidationResult maps field names to human-readable problems.
type ValidationResult struct {
	Errors map[string]string
}

// IsValid reports whether the booking passed all field checks.
func (v ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

// ValidateBooking runs the field-level checks applied before a booking is
// created or updated. It never rejects structurally, only reports problems.
func ValidateBooking(b Booking, seatCapacity int) ValidationResult {
	if seatCapacity <= 0 {
		seatCapacity = DefaultSeatCapacity
	}
	errs := map[string]string{}

	if strings.TrimSpace(b.LeadGuestName) == "" {
		errs["leadGuestName"] = "Lead guest name is required"
	}
	if strings.TrimSpace(b.Phone) == "" && strings.TrimSpace(b.Email) == "" {
		errs["phone"] = "Phone or Email is required"
		errs["email"] = "Phone or Email is required"
	}
	if strings.TrimSpace(b.Date) == "" {
		errs["date"] = "Tour date is required"
	} else if _, err := time.Parse(DateLayout, b.Date); err != nil {
		errs["date"] = "Tour date must be YYYY-MM-DD"
	}
	if b.TourOptionID == "" {
		errs["tourOptionId"] = "Tour option is required"
	}
	if b.Seats < 1 {
		errs["seats"] = "Pax must be at least 1"
	} else if b.Seats > seatCapacity {
		errs["seats"] = fmt.Sprintf("Max capacity is %d", seatCapacity)
	}
	if !b.RateType.IsValid() {
		errs["rateType"] = "Rate type must be SHARED or PRIVATE"
	}
	if strings.TrimSpace(b.Pickup.Location) == "" {
		errs["pickupLocation"] = "Pickup location is required"
	}
	if strings.TrimSpace(b.Pickup.Time) == "" {
		errs["pickupTime"] = "Pickup time is required"
	}
	if b.MarketSourceID == "" {
		errs["marketSourceId"] = "Market source is required"
	}
	if !b.Status.IsValid() {
		errs["status"] = "Booking status is required"
	}
	if !b.PaymentStatus.IsValid() {
		errs["paymentStatus"] = "Payment status is required"
	}

	return ValidationResult{Errors: errs}
}
