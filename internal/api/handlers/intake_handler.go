package handlers

import (
	"net/http"

	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// IntakeHandler exposes the conversational referral intake
type IntakeHandler struct {
	intake *services.ReferralIntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intake *services.ReferralIntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

type intakeMessageRequest struct {
	Message string                 `json:"message"`
	Case    entities.ExtractedCase `json:"case"`
}

type intakeMatchesRequest struct {
	Case entities.ExtractedCase `json:"case"`
}

// Message handles POST /api/intake/messages. The client holds the case and
// sends it back with every message.
func (h *IntakeHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req intakeMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondWithJSON(w, http.StatusOK, h.intake.Next(req.Message, req.Case))
}

// Matches handles POST /api/intake/matches
func (h *IntakeHandler) Matches(w http.ResponseWriter, r *http.Request) {
	var req intakeMatchesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	matches := h.intake.FindMatches(req.Case)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}
