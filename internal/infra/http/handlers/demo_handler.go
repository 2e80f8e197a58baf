package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ednsy/leadrosetta/internal/infra/http/middleware"
	"github.com/ednsy/leadrosetta/internal/usecase"
)

type DemoHandler struct {
	CreateUC *usecase.CreateDemoUseCase
	Approve  *usecase.ApproveDemoUseCase
	SendUC   *usecase.SendDemoUseCase
	TrackUC  *usecase.TrackEngagementUseCase
	FreeGate *usecase.FreeDemoGate
}

func NewDemoHandler(
	createUC *usecase.CreateDemoUseCase,
	approve *usecase.ApproveDemoUseCase,
	sendUC *usecase.SendDemoUseCase,
	trackUC *usecase.TrackEngagementUseCase,
	freeGate *usecase.FreeDemoGate,
) *DemoHandler {
	return &DemoHandler{
		CreateUC: createUC,
		Approve:  approve,
		SendUC:   sendUC,
		TrackUC:  trackUC,
		FreeGate: freeGate,
	}
}

// origin resolves the base URL demo links and tracking URLs are built on.
// The request body may pin it; otherwise it is derived from the request.
func origin(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

// Create handles POST /demos.
func (h *DemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input usecase.CreateDemoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	input.UserID = uid
	input.Origin = origin(r, input.Origin)

	output, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordDemoCreated()
	writeJSON(w, http.StatusCreated, output)
}

// CreateBatch handles POST /demos/batch.
func (h *DemoHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input usecase.CreateDemoBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	input.UserID = uid
	input.Origin = origin(r, input.Origin)

	output, err := h.CreateUC.ExecuteBatch(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	for i := 0; i < output.Created; i++ {
		middleware.RecordDemoCreated()
	}
	writeJSON(w, http.StatusOK, output)
}

// ApproveDemo handles POST /demos/{prospectId}/approve.
func (h *DemoHandler) ApproveDemo(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	rec, err := h.Approve.Execute(r.Context(), uid, chi.URLParam(r, "prospectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type sendDemoRequest struct {
	SenderName string `json:"sender_name,omitempty"`
	Origin     string `json:"origin,omitempty"`
}

// SendDemo handles POST /demos/{prospectId}/send.
func (h *DemoHandler) SendDemo(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req sendDemoRequest
	// Body is optional; an empty body means defaults.
	json.NewDecoder(r.Body).Decode(&req)

	rec, err := h.SendUC.Execute(r.Context(), usecase.SendDemoInput{
		UserID:     uid,
		ProspectID: chi.URLParam(r, "prospectId"),
		SenderName: req.SenderName,
		Origin:     origin(r, req.Origin),
	})
	if err != nil {
		middleware.RecordEmailSent("failed")
		writeError(w, err)
		return
	}

	middleware.RecordEmailSent("queued")
	writeJSON(w, http.StatusOK, rec)
}

// MarkReplied handles POST /demos/{prospectId}/replied.
func (h *DemoHandler) MarkReplied(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	rec, err := h.TrackUC.RecordReplied(r.Context(), uid, chi.URLParam(r, "prospectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Get handles GET /demos/{prospectId}.
func (h *DemoHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	rec, err := h.TrackUC.GetFunnelRecord(r.Context(), uid, chi.URLParam(r, "prospectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// List handles GET /demos.
func (h *DemoHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	recs, err := h.TrackUC.ListFunnel(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type freeDemoRequest struct {
	VisitorKey string `json:"visitor_key"`
}

type freeDemoResponse struct {
	Remaining int `json:"remaining"`
}

// TakeFreeDemo handles POST /api/free-demo: consume one anonymous free demo
// for the visitor and report how many are left this month.
func (h *DemoHandler) TakeFreeDemo(w http.ResponseWriter, r *http.Request) {
	var req freeDemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	remaining, err := h.FreeGate.Take(r.Context(), req.VisitorKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, freeDemoResponse{Remaining: remaining})
}
