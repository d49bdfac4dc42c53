package handlers

import (
	"net/http"
	"strconv"

	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// ReferralHandler handles referral submission and the referral dashboard
type ReferralHandler struct {
	referrals *services.ReferralService
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referrals *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// SubmitReferral handles POST /api/referrals
func (h *ReferralHandler) SubmitReferral(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitReferralRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	referral, err := h.referrals.Submit(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, referral)
}

// ListReferrals handles GET /api/referrals?limit=N
func (h *ReferralHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	referrals, err := h.referrals.List(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"referrals": referrals,
		"count":     len(referrals),
	})
}

type updateReferralRequest struct {
	Status entities.ReferralStatus `json:"status"`
}

// UpdateReferral handles PATCH /api/referrals/{id}
func (h *ReferralHandler) UpdateReferral(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "referral ID is required")
		return
	}

	var req updateReferralRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	referral, err := h.referrals.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, referral)
}
