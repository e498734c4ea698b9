package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/harborstay/harborstay/internal/domain"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	resp, err := h.accounts.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	resp, err := h.accounts.Login(r.Context(), &req)
	if err != nil {
		// Credential failures always read the same, regardless of cause.
		if domain.KindOf(err) == domain.KindPermission {
			writeError(w, http.StatusUnauthorized, "invalid email or password", CodeUnauthorized)
			return
		}
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Me(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var patch domain.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", CodeInvalidInput)
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), actorID(r), patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
