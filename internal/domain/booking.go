package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

type Booking struct {
	ID              int64         `json:"id"`
	ListingID       int64         `json:"listing_id"`
	GuestID         int64         `json:"guest_id"`
	CheckIn         time.Time     `json:"-"`
	CheckOut        time.Time     `json:"-"`
	Guests          int           `json:"guests"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	SpecialRequests string        `json:"special_requests"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Nights is the length of the stay; a same-day range is zero nights.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// IsUpcoming reports whether the stay has not started yet.
func (b *Booking) IsUpcoming() bool {
	return b.CheckIn.After(Today())
}

// IsInProgress reports whether today falls inside the stay.
func (b *Booking) IsInProgress() bool {
	today := Today()
	return !b.CheckIn.After(today) && !b.CheckOut.Before(today)
}

// Overlaps applies the half-open interval rule: [a,b) and [c,d) overlap
// iff a < d and c < b, so back-to-back stays on the same day do not clash.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// Blocks reports whether the booking's status makes its date range
// unavailable to others.
func (b *Booking) Blocks() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanCancel reports whether the guest may still cancel: only pending or
// confirmed stays whose check-in is still in the future.
func (b *Booking) CanCancel() bool {
	return b.Blocks() && b.IsUpcoming()
}

type CreateBookingRequest struct {
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests"`
}

// Dates parses and validates the requested range. The returned times are
// UTC midnights.
func (r *CreateBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = ParseDate(r.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, Validationf("check_in must be a date in the form %s", DateLayout)
	}
	checkOut, err = ParseDate(r.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, Validationf("check_out must be a date in the form %s", DateLayout)
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, Validationf("check_out must be after check_in")
	}
	if checkIn.Before(Today()) {
		return time.Time{}, time.Time{}, Validationf("check_in cannot be in the past")
	}
	return checkIn, checkOut, nil
}

// BookingDTO carries a booking over the wire with calendar-date strings.
type BookingDTO struct {
	ID              int64   `json:"id"`
	ListingID       int64   `json:"listing_id"`
	GuestID         int64   `json:"guest_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Guests          int     `json:"guests"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"`
	SpecialRequests string  `json:"special_requests"`
	Nights          int     `json:"nights"`
	IsUpcoming      bool    `json:"is_upcoming"`
	IsInProgress    bool    `json:"is_in_progress"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func (b *Booking) DTO() BookingDTO {
	return BookingDTO{
		ID:              b.ID,
		ListingID:       b.ListingID,
		GuestID:         b.GuestID,
		CheckIn:         b.CheckIn.Format(DateLayout),
		CheckOut:        b.CheckOut.Format(DateLayout),
		Guests:          b.Guests,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		Nights:          b.Nights(),
		IsUpcoming:      b.IsUpcoming(),
		IsInProgress:    b.IsInProgress(),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}
