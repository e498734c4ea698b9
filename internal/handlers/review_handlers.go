package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/harborstay/harborstay/internal/domain"
)

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id", CodeInvalidInput)
		return
	}

	var req domain.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	review, err := h.reviews.Create(r.Context(), actorID(r), bookingID, &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

func (h *Handlers) ListListingReviews(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid listing id", CodeInvalidInput)
		return
	}

	reviews, err := h.reviews.ListForListing(r.Context(), listingID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews, "count": len(reviews)})
}

func (h *Handlers) RespondToReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid review id", CodeInvalidInput)
		return
	}

	var req domain.HostResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	review, err := h.reviews.AddHostResponse(r.Context(), actorID(r), reviewID, &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}
