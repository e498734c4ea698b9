package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/harborstay/harborstay/internal/domain"
)

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid listing id", CodeInvalidInput)
		return
	}

	var req domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	booking, err := h.bookings.Create(r.Context(), actorID(r), listingID, &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking.DTO())
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id", CodeInvalidInput)
		return
	}

	booking, err := h.bookings.Get(r.Context(), actorID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking.DTO())
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	status, ok := parseStatusFilter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status filter", CodeInvalidInput)
		return
	}
	limit, offset := parsePagination(r)

	bookings, err := h.bookings.ListMine(r.Context(), actorID(r), status, limit, offset)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingsPage(bookings))
}

func (h *Handlers) ListHostBookings(w http.ResponseWriter, r *http.Request) {
	status, ok := parseStatusFilter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status filter", CodeInvalidInput)
		return
	}
	limit, offset := parsePagination(r)

	bookings, err := h.bookings.ListForHost(r.Context(), actorID(r), status, limit, offset)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingsPage(bookings))
}

func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id", CodeInvalidInput)
		return
	}

	booking, err := h.bookings.Confirm(r.Context(), actorID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking.DTO())
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id", CodeInvalidInput)
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), actorID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking.DTO())
}

func parseStatusFilter(r *http.Request) (domain.BookingStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", true
	}
	return domain.ParseBookingStatus(raw)
}

func bookingsPage(bookings []domain.Booking) map[string]any {
	dtos := make([]domain.BookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, bookings[i].DTO())
	}
	return map[string]any{"bookings": dtos, "count": len(dtos)}
}
