package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// WebhookHandler ingests billing events and keeps the local plan tier in
// sync. Billing itself (checkout, invoicing) lives in the payment provider;
// the engine only needs to know which ceiling applies.
type WebhookHandler struct {
	PlanRepo entity.PlanRepositoryInterface
	Secret   string
}

func NewWebhookHandler(planRepo entity.PlanRepositoryInterface, secret string) *WebhookHandler {
	return &WebhookHandler{PlanRepo: planRepo, Secret: secret}
}

type billingEvent struct {
	Event  string `json:"event"`
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	if h.Secret != "" && !h.verifySignature(body, r.Header.Get("X-Webhook-Signature")) {
		log.Printf("⚠️ billing webhook with bad signature from %s", getClientIP(r))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event billingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "bad JSON", http.StatusBadRequest)
		return
	}

	// Events we don't handle are acknowledged so the provider stops retrying.
	switch event.Event {
	case "subscription.created", "subscription.updated":
		tier, err := entity.ParsePlanTier(event.Plan)
		if err != nil {
			log.Printf("⚠️ billing webhook with unknown plan %q for user %s", event.Plan, event.UserID)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := h.PlanRepo.SetTier(r.Context(), event.UserID, tier); err != nil {
			log.Printf("❌ failed to set plan for user %s: %v", event.UserID, err)
			http.Error(w, "failed to apply plan", http.StatusInternalServerError)
			return
		}
		log.Printf("💳 plan for user %s set to %s", event.UserID, tier)

	case "subscription.cancelled":
		if err := h.PlanRepo.SetTier(r.Context(), event.UserID, entity.TierFree); err != nil {
			log.Printf("❌ failed to downgrade user %s: %v", event.UserID, err)
			http.Error(w, "failed to apply plan", http.StatusInternalServerError)
			return
		}
		log.Printf("💳 plan for user %s downgraded to free", event.UserID)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
