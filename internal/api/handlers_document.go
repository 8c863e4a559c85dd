package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dgallion1/demystify/internal/render"
	"github.com/dgallion1/demystify/internal/session"
)

const maxJSONBody = 1 << 20

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.assistant.Summary(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := render.Markdown(summary)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary, "html": out})
}

func (s *Server) handleRisks(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.assistant.Risks(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lines := render.ClassifyRisks(analysis)
	out, err := render.RenderRisks(lines)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analysis": analysis, "risks": lines, "html": out})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.RequireDocument(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTranscript(w, r, sess.Snapshot().Transcript)
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	msgs, err := s.assistant.Ask(r.Context(), sessionFrom(r), req.Question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTranscript(w, r, msgs)
}

func (s *Server) writeTranscript(w http.ResponseWriter, r *http.Request, msgs []session.Message) {
	out, err := render.RenderTranscript(msgs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []session.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs, "html": out})
}

type explainRequest struct {
	Clause string `json:"clause"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	explanation, err := s.assistant.Explain(r.Context(), sessionFrom(r), req.Clause)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := render.Markdown(explanation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"explanation": explanation, "html": out})
}
