package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/usecase"
)

// stubFunnelRepo drives the tracking endpoints without a database.
type stubFunnelRepo struct {
	record   *entity.FunnelRecord
	advanced []entity.FunnelStatus
}

func (s *stubFunnelRepo) Create(ctx context.Context, rec *entity.FunnelRecord) error { return nil }
func (s *stubFunnelRepo) Delete(ctx context.Context, prospectID string) error        { return nil }

func (s *stubFunnelRepo) FindByProspectID(ctx context.Context, prospectID string) (*entity.FunnelRecord, error) {
	if s.record == nil || s.record.ProspectID != prospectID {
		return nil, entity.ErrFunnelNotFound
	}
	return s.record, nil
}

func (s *stubFunnelRepo) ListByUser(ctx context.Context, userID string) ([]*entity.FunnelRecord, error) {
	return nil, nil
}

func (s *stubFunnelRepo) Advance(ctx context.Context, prospectID string, to entity.FunnelStatus, at time.Time) (*entity.FunnelRecord, bool, error) {
	if s.record == nil || s.record.ProspectID != prospectID {
		return nil, false, nil
	}
	if !entity.CanAdvance(s.record.Status, to) {
		return nil, false, nil
	}
	s.record.Status = to
	s.advanced = append(s.advanced, to)
	return s.record, true, nil
}

func (s *stubFunnelRepo) CountCreatedInMonth(ctx context.Context, userID string, month time.Time) (int, error) {
	return 0, nil
}

func (s *stubFunnelRepo) RecordEvent(ctx context.Context, prospectID, eventType string, payload map[string]any) error {
	return nil
}

func sentFunnelRecord() *entity.FunnelRecord {
	return &entity.FunnelRecord{
		ID:         "f-1",
		UserID:     "user-1",
		ProspectID: "pr-1",
		DemoLink:   "https://app.example.com/business/pr-1",
		Status:     entity.StatusSent,
	}
}

func TestOpenAlwaysServesThePixel(t *testing.T) {
	repo := &stubFunnelRepo{record: sentFunnelRecord()}
	h := NewTrackHandler(usecase.NewTrackEngagementUseCase(repo))

	// Known prospect: transition plus pixel.
	req := httptest.NewRequest("GET", "/api/demo/open?p=pr-1", nil)
	w := httptest.NewRecorder()
	h.Open(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, trackingPixel, w.Body.Bytes())
	assert.Equal(t, entity.StatusOpened, repo.record.Status)

	// Unknown prospect: identical response, nothing leaked.
	req = httptest.NewRequest("GET", "/api/demo/open?p=who-knows", nil)
	w = httptest.NewRecorder()
	h.Open(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trackingPixel, w.Body.Bytes())
}

func TestOpenIsIdempotent(t *testing.T) {
	repo := &stubFunnelRepo{record: sentFunnelRecord()}
	h := NewTrackHandler(usecase.NewTrackEngagementUseCase(repo))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.Open(w, httptest.NewRequest("GET", "/api/demo/open?p=pr-1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Only the first hit moved the funnel.
	assert.Equal(t, []entity.FunnelStatus{entity.StatusOpened}, repo.advanced)
}

func TestClickRedirectsToDemo(t *testing.T) {
	repo := &stubFunnelRepo{record: sentFunnelRecord()}
	h := NewTrackHandler(usecase.NewTrackEngagementUseCase(repo))

	w := httptest.NewRecorder()
	h.Click(w, httptest.NewRequest("GET", "/api/demo/click?p=pr-1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example.com/business/pr-1", w.Header().Get("Location"))
	assert.Equal(t, entity.StatusClicked, repo.record.Status)

	// Second click: no further transition, same destination.
	w = httptest.NewRecorder()
	h.Click(w, httptest.NewRequest("GET", "/api/demo/click?p=pr-1", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example.com/business/pr-1", w.Header().Get("Location"))
}

func TestClickUnknownProspectGoesHome(t *testing.T) {
	h := NewTrackHandler(usecase.NewTrackEngagementUseCase(&stubFunnelRepo{}))

	w := httptest.NewRecorder()
	h.Click(w, httptest.NewRequest("GET", "/api/demo/click?p=nope", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestEventValidatesType(t *testing.T) {
	repo := &stubFunnelRepo{record: sentFunnelRecord()}
	h := NewTrackHandler(usecase.NewTrackEngagementUseCase(repo))

	body := strings.NewReader(`{"prospect_id":"pr-1","event_type":"chat_opened"}`)
	w := httptest.NewRecorder()
	h.Event(w, httptest.NewRequest("POST", "/api/demo/track", body))
	assert.Equal(t, http.StatusOK, w.Code)

	body = strings.NewReader(`{"prospect_id":"pr-1","event_type":"nonsense"}`)
	w = httptest.NewRecorder()
	h.Event(w, httptest.NewRequest("POST", "/api/demo/track", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventPageViewMarksOpened(t *testing.T) {
	repo := &stubFunnelRepo{record: sentFunnelRecord()}
	h := NewTrackHandler(usecase.NewTrackEngagementUseCase(repo))

	body := strings.NewReader(`{"prospect_id":"pr-1","event_type":"page_view"}`)
	w := httptest.NewRecorder()
	h.Event(w, httptest.NewRequest("POST", "/api/demo/track", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.StatusOpened, repo.record.Status)
}
