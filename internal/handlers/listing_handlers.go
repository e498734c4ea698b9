package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/harborstay/harborstay/internal/domain"
)

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	listing, err := h.listings.Create(r.Context(), actorID(r), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, listing)
}

func (h *Handlers) SearchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := domain.ListingFilter{
		Location: q.Get("location"),
	}
	f.Guests, _ = strconv.Atoi(q.Get("guests"))
	f.Bedrooms, _ = strconv.Atoi(q.Get("bedrooms"))
	f.Bathrooms, _ = strconv.ParseFloat(q.Get("bathrooms"), 64)
	f.Limit, f.Offset = parsePagination(r)

	if v := q.Get("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_price must be a number", CodeInvalidInput)
			return
		}
		f.MinPrice = &p
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_price must be a number", CodeInvalidInput)
			return
		}
		f.MaxPrice = &p
	}
	if v := q.Get("property_type"); v != "" {
		pt, ok := domain.ParsePropertyType(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid property_type", CodeInvalidInput)
			return
		}
		f.PropertyType = pt
	}

	listings, err := h.listings.Search(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"listings": listings, "count": len(listings)})
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid listing id", CodeInvalidInput)
		return
	}

	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *Handlers) ListMyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListMine(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"listings": listings, "count": len(listings)})
}

func (h *Handlers) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid listing id", CodeInvalidInput)
		return
	}

	var patch domain.ListingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	listing, err := h.listings.Update(r.Context(), actorID(r), id, patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *Handlers) DeactivateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid listing id", CodeInvalidInput)
		return
	}

	if err := h.listings.Deactivate(r.Context(), actorID(r), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handlers) AddListingImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid listing id", CodeInvalidInput)
		return
	}

	var req domain.AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	img, err := h.listings.AddImage(r.Context(), actorID(r), id, &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, img)
}
