package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"photostream/apperror"
	"photostream/internal/config"
)

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"` // development mode only
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError translates an error into its kind-derived status and a
// caller-safe body. The underlying cause is logged here and included in the
// response only for development deployments.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	status := statusOf(kind)

	if kind == apperror.Internal {
		log.Error().Err(err).Msg("internal failure")
	}

	resp := errorResponse{
		Success: false,
		Message: apperror.MessageOf(err),
		Fields:  apperror.FieldsOf(err),
	}
	if config.IsDev(s.env) {
		resp.Detail = err.Error()
	}
	s.respondJSON(w, status, resp)
}

func statusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.Authentication:
		return http.StatusUnauthorized
	case apperror.Authorization:
		return http.StatusForbidden
	case apperror.Validation:
		return http.StatusBadRequest
	case apperror.Conflict:
		return http.StatusConflict
	case apperror.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
