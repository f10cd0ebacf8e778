package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/timeflowhq/timeflow/internal/auth"
	"github.com/timeflowhq/timeflow/internal/service"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// apiResponse is the envelope every endpoint returns.
type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := apiResponse{Success: status < 400, Data: data}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := apiResponse{Success: false, Error: &apiError{Code: code, Message: message}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped is
// a 500 with a generic message; the real error goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeErrorCode(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrGroupFull):
		writeErrorCode(w, http.StatusConflict, "GROUP_FULL", err.Error())
	case errors.Is(err, service.ErrOwnerImmutable):
		writeErrorCode(w, http.StatusConflict, "OWNER_IMMUTABLE", err.Error())
	case errors.Is(err, service.ErrOwnerCannotLeave):
		writeErrorCode(w, http.StatusConflict, "OWNER_CANNOT_LEAVE", err.Error())
	case errors.Is(err, service.ErrInviteInvalid):
		writeErrorCode(w, http.StatusNotFound, "INVITE_INVALID", err.Error())
	case errors.Is(err, service.ErrUnknownAssignee):
		writeErrorCode(w, http.StatusBadRequest, "UNKNOWN_ASSIGNEE", err.Error())
	case errors.Is(err, service.ErrInvalidRole):
		writeErrorCode(w, http.StatusBadRequest, "INVALID_ROLE", err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeErrorCode(w, http.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		writeErrorCode(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorCode(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
