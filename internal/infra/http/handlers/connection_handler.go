package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/usecase"
)

type ConnectionHandler struct {
	Tokens *usecase.TokenManager
}

func NewConnectionHandler(tokens *usecase.TokenManager) *ConnectionHandler {
	return &ConnectionHandler{Tokens: tokens}
}

type connectRequest struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type,omitempty"`

	// Pipedrive authenticates with a company domain + API token pair, Notion
	// with a database id + API key pair. Both are stored as one composite
	// credential and split again at the adapter boundary.
	Domain     string `json:"domain,omitempty"`
	APIToken   string `json:"api_token,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
}

// Connect handles POST /connections/{provider}: store the credential.
func (h *ConnectionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	provider, err := entity.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: usecase.CodeValidationError})
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	data := entity.TokenData{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ExpiresIn:    req.ExpiresIn,
		Scope:        req.Scope,
		TokenType:    req.TokenType,
	}
	switch provider {
	case entity.ProviderPipedrive:
		if req.Domain != "" && req.APIToken != "" {
			data.AccessToken = req.Domain + ":" + req.APIToken
		}
	case entity.ProviderNotion:
		if req.DatabaseID != "" && req.APIKey != "" {
			data.AccessToken = req.DatabaseID + ":" + req.APIKey
		}
	}

	if err := h.Tokens.StoreTokens(r.Context(), uid, provider, data); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"provider":  provider,
		"connected": true,
	})
}

// Disconnect handles DELETE /connections/{provider}.
func (h *ConnectionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	provider, err := entity.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: usecase.CodeValidationError})
		return
	}

	if err := h.Tokens.Revoke(r.Context(), uid, provider); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /connections.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	connections, err := h.Tokens.ListConnections(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connections)
}
