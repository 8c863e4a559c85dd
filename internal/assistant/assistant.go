// Package assistant runs the user actions of a session: analyze uploads,
// view the summary and risks, ask questions and explain clauses.
package assistant

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/llm"
	"github.com/dgallion1/demystify/internal/parser"
	"github.com/dgallion1/demystify/internal/session"
)

// Input validation errors.
var (
	ErrNoFiles     = errors.New("please upload a file first")
	ErrNoSupported = errors.New("none of the uploaded files is a supported type; please upload a PDF, PNG or JPEG")
	ErrNoQuestion  = errors.New("please enter a question")
	ErrNoClause    = errors.New("please paste a clause to explain")
)

// ErrEmptyInput is matched by every input validation error.
var ErrEmptyInput = errors.New("empty input")

type inputError struct{ err error }

func (e inputError) Error() string        { return e.err.Error() }
func (e inputError) Is(target error) bool { return target == ErrEmptyInput || target == e.err }

// TextExtractor turns an upload batch into document text.
type TextExtractor interface {
	Extract(ctx context.Context, uploads []parser.Upload) (string, []parser.FileResult)
}

type Assistant struct {
	extractor TextExtractor
	llm       llm.Completer
	log       *zap.Logger
}

func New(extractor TextExtractor, completer llm.Completer, log *zap.Logger) *Assistant {
	return &Assistant{extractor: extractor, llm: completer, log: log}
}

// Rejection is a file refused before extraction, at its position in the request.
type Rejection struct {
	Index  int
	Result parser.FileResult
}

// Analyze extracts the uploads into the session's new document. The stored
// file report lists accepted and rejected files in request order; rejected
// must be sorted by Index. With no accepted uploads the session is left
// untouched.
func (a *Assistant) Analyze(ctx context.Context, sess *session.Session, uploads []parser.Upload, rejected []Rejection) (session.Snapshot, error) {
	log := a.log.With(zap.String("session_id", sess.ID))
	if len(uploads) == 0 {
		log.Warn("analyze without accepted files", zap.Int("rejected", len(rejected)))
		if len(rejected) > 0 {
			return sess.Snapshot(), inputError{ErrNoSupported}
		}
		return sess.Snapshot(), inputError{ErrNoFiles}
	}

	err := sess.Analyze(func() (string, []parser.FileResult) {
		text, results := a.extractor.Extract(ctx, uploads)
		return text, mergeReport(results, rejected)
	})
	snap := sess.Snapshot()
	if err != nil {
		log.Warn("analyze produced no text", zap.Int("files", len(uploads)))
		return snap, err
	}
	log.Info("document analyzed", zap.Int("files", len(uploads)), zap.Int("chars", snap.Chars))
	return snap, nil
}

// mergeReport slots each rejection back at its request position among the
// extracted results, which are in accepted-upload order.
func mergeReport(extracted []parser.FileResult, rejected []Rejection) []parser.FileResult {
	out := make([]parser.FileResult, 0, len(extracted)+len(rejected))
	next := 0
	for _, rj := range rejected {
		for len(out) < rj.Index && next < len(extracted) {
			out = append(out, extracted[next])
			next++
		}
		out = append(out, rj.Result)
	}
	return append(out, extracted[next:]...)
}

// Summary returns the document summary, generating it on first view.
func (a *Assistant) Summary(ctx context.Context, sess *session.Session) (string, error) {
	return sess.Result(session.TaskSummary, func(text string) (string, error) {
		a.log.Info("generating summary", zap.String("session_id", sess.ID))
		return a.llm.Complete(ctx, llm.SummaryPrompt(text))
	})
}

// Risks returns the risk analysis, generating it on first view.
func (a *Assistant) Risks(ctx context.Context, sess *session.Session) (string, error) {
	return sess.Result(session.TaskRisks, func(text string) (string, error) {
		a.log.Info("generating risk analysis", zap.String("session_id", sess.ID))
		return a.llm.Complete(ctx, llm.RiskPrompt(text))
	})
}

// Ask answers a question from the document and returns the whole transcript.
func (a *Assistant) Ask(ctx context.Context, sess *session.Session, question string) ([]session.Message, error) {
	if strings.TrimSpace(question) == "" {
		return nil, inputError{ErrNoQuestion}
	}
	return sess.Ask(question, func(text, q string) (string, error) {
		return a.llm.Complete(ctx, llm.AnswerPrompt(text, q))
	})
}

// Explain explains a pasted clause. Nothing is cached or recorded.
func (a *Assistant) Explain(ctx context.Context, sess *session.Session, clause string) (string, error) {
	if strings.TrimSpace(clause) == "" {
		return "", inputError{ErrNoClause}
	}
	if err := sess.RequireDocument(); err != nil {
		return "", err
	}
	return a.llm.Complete(ctx, llm.ExplainPrompt(clause))
}
