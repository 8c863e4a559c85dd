package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/assistant"
	"github.com/dgallion1/demystify/internal/llm"
	"github.com/dgallion1/demystify/internal/parser"
	"github.com/dgallion1/demystify/internal/session"
)

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an action error to its HTTP status.
func statusFor(err error) int {
	var llmErr *llm.ServiceError
	var ocrErr *parser.ServiceError
	switch {
	case errors.Is(err, assistant.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNoDocument):
		return http.StatusConflict
	case errors.As(err, &llmErr), errors.As(err, &ocrErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	switch {
	case code == http.StatusBadGateway:
		s.log.Warn("upstream service failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "the analysis service is unavailable, please try again: " + msg
	case code >= 500:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal error"
	}
	jsonError(w, msg, code)
}
