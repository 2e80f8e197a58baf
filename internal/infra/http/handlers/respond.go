package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ednsy/leadrosetta/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps usecase errors onto HTTP statuses. Technical errors hide
// their detail behind a generic 500; domain errors are safe to echo.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		writeJSON(w, domainStatus(de.Code), errorResponse{Error: de.Message, Code: de.Code})
		return
	}

	log.Printf("❌ internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeValidationError:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeInvalidTransition, usecase.CodeDemoExists:
		return http.StatusConflict
	case usecase.CodeQuotaExceeded:
		return http.StatusPaymentRequired
	case usecase.CodeNotConfigured:
		return http.StatusPreconditionFailed
	case usecase.CodeRefreshFailed:
		return http.StatusUnauthorized
	case usecase.CodeAdapterError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// userID reads the identity the auth proxy put on the request. An empty
// value fails every authenticated route with 401 downstream.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := userID(r)
	if id == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return "", false
	}
	return id, true
}
