package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
)

// SpecialistSearcher runs catalog searches.
type SpecialistSearcher interface {
	Search(ctx context.Context, query entities.SpecialistQuery) (*entities.SearchResponse, error)
}

// SpecialistHandler handles specialist browse and search requests
type SpecialistHandler struct {
	repo     repositories.SpecialistRepository
	searcher SpecialistSearcher
}

// NewSpecialistHandler creates a new specialist handler
func NewSpecialistHandler(repo repositories.SpecialistRepository, searcher SpecialistSearcher) *SpecialistHandler {
	return &SpecialistHandler{
		repo:     repo,
		searcher: searcher,
	}
}

// ListSpecialists handles GET /api/specialists
func (h *SpecialistHandler) ListSpecialists(w http.ResponseWriter, r *http.Request) {
	specialists, err := h.repo.All(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialists": specialists,
		"count":       len(specialists),
	})
}

// GetSpecialist handles GET /api/specialists/{id}
func (h *SpecialistHandler) GetSpecialist(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "specialist ID is required")
		return
	}

	specialist, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, specialist)
}

// SearchSpecialists handles GET /api/specialists/search
//
// Query parameters: q, location, institution, trials, telehealth, accepting, radius.
// A malformed radius or flag is never rejected.
func (h *SpecialistHandler) SearchSpecialists(w http.ResponseWriter, r *http.Request) {
	resp, err := h.searcher.Search(r.Context(), parseSpecialistQuery(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results":   resp.Results,
		"count":     len(resp.Results),
		"found":     resp.Found,
		"proximity": resp.ProximityApplied,
		"origin":    resp.Origin,
	})
}

func parseSpecialistQuery(r *http.Request) entities.SpecialistQuery {
	q := r.URL.Query()
	return entities.SpecialistQuery{
		FreeText:           q.Get("q"),
		Location:           q.Get("location"),
		Institution:        q.Get("institution"),
		Trials:             q.Get("trials"),
		TelehealthRequired: queryFlag(q.Get("telehealth")),
		AcceptingRequired:  queryFlag(q.Get("accepting")),
		RadiusMiles:        q.Get("radius"),
	}
}

func queryFlag(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
