package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// respondError maps the application error taxonomy onto HTTP status codes
// and renders the single human-readable message the flow surfaced.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(apperror.KindOf(err)), errorResponse{Error: apperror.MessageOf(err)})
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindDuplicate:
		return http.StatusConflict
	case apperror.KindVerification:
		return http.StatusUnauthorized
	case apperror.KindChallengeExpired:
		return http.StatusGone
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUpload:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
