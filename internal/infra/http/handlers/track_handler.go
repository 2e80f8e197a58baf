package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ednsy/leadrosetta/internal/usecase"
)

// trackingPixel is a 1x1 transparent GIF, served on every open hit.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackHandler serves the public engagement endpoints. They are hit by mail
// clients and prospects, not by our users, so they rate-limit by IP and
// never reveal whether a prospect id exists.
type TrackHandler struct {
	TrackUC     *usecase.TrackEngagementUseCase
	rateLimiter *RateLimiter
}

func NewTrackHandler(trackUC *usecase.TrackEngagementUseCase) *TrackHandler {
	return &TrackHandler{
		TrackUC:     trackUC,
		rateLimiter: NewRateLimiter(60, time.Minute),
	}
}

// Open handles GET /api/demo/open?p={prospectId}: the email pixel. Always
// 200 with the GIF, whatever happened.
func (h *TrackHandler) Open(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter.Allow(getClientIP(r)) {
		h.TrackUC.RecordOpened(r.Context(), r.URL.Query().Get("p"))
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(trackingPixel)
}

// Click handles GET /api/demo/click?p={prospectId}: record the click and
// bounce the visitor to their demo. Unknown ids land on the home page.
func (h *TrackHandler) Click(w http.ResponseWriter, r *http.Request) {
	var dest string
	if h.rateLimiter.Allow(getClientIP(r)) {
		dest = h.TrackUC.RecordClicked(r.Context(), r.URL.Query().Get("p"))
	}
	if dest == "" {
		dest = "/"
	}

	http.Redirect(w, r, dest, http.StatusFound)
}

type trackEventRequest struct {
	ProspectID string         `json:"prospect_id"`
	EventType  string         `json:"event_type"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Event handles POST /api/demo/track: granular events from the demo page
// itself (page views, chat interactions, callback form).
func (h *TrackHandler) Event(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
		return
	}

	var req trackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	if err := h.TrackUC.RecordEvent(r.Context(), req.ProspectID, req.EventType, req.Payload); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
