package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/assistant"
	"github.com/dgallion1/demystify/internal/parser"
	"github.com/dgallion1/demystify/internal/session"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*int64(s.cfg.MaxFiles)+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) > s.cfg.MaxFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxFiles), http.StatusBadRequest)
		return
	}

	uploads, rejected := s.readUploads(files)
	snap, err := s.assistant.Analyze(r.Context(), sess, uploads, rejected)
	if err != nil && !errors.Is(err, session.ErrEmptyDocument) {
		report := make([]parser.FileResult, 0, len(rejected))
		for _, rj := range rejected {
			report = append(report, rj.Result)
		}
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error(), "files": report})
		return
	}

	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "files": snap.Files})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// readUploads reads the accepted parts of an analyze form. Parts that cannot be
// read, are too large or have an unsupported type are reported, in form order,
// and skipped.
func (s *Server) readUploads(files []*multipart.FileHeader) ([]parser.Upload, []assistant.Rejection) {
	var uploads []parser.Upload
	var rejected []assistant.Rejection

	for i, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		reject := func(mimeType, warning string) {
			s.log.Info("upload rejected", zap.String("filename", filename), zap.String("reason", warning))
			rejected = append(rejected, assistant.Rejection{
				Index:  i,
				Result: parser.FileResult{Filename: filename, MIMEType: mimeType, Warning: warning},
			})
		}

		f, err := fh.Open()
		if err != nil {
			reject("", "failed to open file")
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			reject("", "failed to read file")
			continue
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			reject("", fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes))
			continue
		}

		mimeType := parser.DetectMIME(fh.Header.Get("Content-Type"), data)
		if !parser.IsSupportedMIME(mimeType) {
			reject(mimeType, "unsupported file type: "+mimeType)
			continue
		}
		uploads = append(uploads, parser.Upload{Filename: filename, MIMEType: mimeType, Data: data})
	}
	return uploads, rejected
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.RequireDocument(); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"text":     snap.Text,
		"chars":    snap.Chars,
		"doc_hash": snap.DocHash,
	})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
