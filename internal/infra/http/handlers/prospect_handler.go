package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/infra/http/middleware"
	"github.com/ednsy/leadrosetta/internal/usecase"
)

type ProspectHandler struct {
	SyncUC       *usecase.SyncProviderUseCase
	CreateManual *usecase.CreateManualProspectUseCase
	Prospects    entity.ProspectRepositoryInterface
}

func NewProspectHandler(
	syncUC *usecase.SyncProviderUseCase,
	createManual *usecase.CreateManualProspectUseCase,
	prospects entity.ProspectRepositoryInterface,
) *ProspectHandler {
	return &ProspectHandler{
		SyncUC:       syncUC,
		CreateManual: createManual,
		Prospects:    prospects,
	}
}

// Sync handles POST /sync/{provider}: pull all contacts from the provider
// into the prospect list.
func (h *ProspectHandler) Sync(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	provider := chi.URLParam(r, "provider")
	output, err := h.SyncUC.Execute(r.Context(), usecase.SyncProviderInput{
		UserID:   uid,
		Provider: provider,
	})
	if err != nil {
		middleware.RecordSyncError(provider)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// List handles GET /prospects.
func (h *ProspectHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	prospects, err := h.Prospects.ListByUser(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	if prospects == nil {
		prospects = []*entity.Prospect{}
	}

	writeJSON(w, http.StatusOK, prospects)
}

// Create handles POST /prospects: manual entry from the dashboard.
func (h *ProspectHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input usecase.CreateManualProspectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	input.UserID = uid

	prospect, err := h.CreateManual.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, prospect)
}
