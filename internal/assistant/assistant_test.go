package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/llm"
	"github.com/dgallion1/demystify/internal/parser"
	"github.com/dgallion1/demystify/internal/session"
)

type fakePDF struct{ text string }

func (f *fakePDF) ReadPDF([]byte) (string, error) { return f.text, nil }

type ocrCall struct {
	data     []byte
	mimeType string
}

type fakeOCR struct {
	text  string
	calls []ocrCall
}

func (f *fakeOCR) ProcessDocument(_ context.Context, data []byte, mimeType string) (string, error) {
	f.calls = append(f.calls, ocrCall{data: data, mimeType: mimeType})
	return f.text, nil
}

type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestAssistant(pdfText, ocrText string, gen *fakeLLM) (*Assistant, *fakeOCR) {
	ocr := &fakeOCR{text: ocrText}
	ex := parser.NewExtractor(&fakePDF{text: pdfText}, ocr, zap.NewNop())
	return New(ex, gen, zap.NewNop()), ocr
}

func pdfUpload(name string) parser.Upload {
	return parser.Upload{Filename: name, MIMEType: parser.MIMEPDF, Data: []byte("%PDF-1.4")}
}

func analyzed(t *testing.T, a *Assistant) *session.Session {
	t.Helper()
	sess := session.New("s1")
	_, err := a.Analyze(context.Background(), sess, []parser.Upload{pdfUpload("lease.pdf")}, nil)
	require.NoError(t, err)
	return sess
}

func TestAnalyze_NoFiles(t *testing.T) {
	a, _ := newTestAssistant("", "", &fakeLLM{})
	sess := session.New("s1")

	snap, err := a.Analyze(context.Background(), sess, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Equal(t, session.StateEmpty, snap.State)
}

func TestAnalyze_ImageCallsOCROnce(t *testing.T) {
	a, ocr := newTestAssistant("", "Tenant shall pay rent monthly.", &fakeLLM{})
	sess := session.New("s1")
	img := parser.Upload{Filename: "scan.png", MIMEType: parser.MIMEPNG, Data: []byte{0x89, 'P', 'N', 'G'}}

	snap, err := a.Analyze(context.Background(), sess, []parser.Upload{img}, nil)
	require.NoError(t, err)

	require.Len(t, ocr.calls, 1)
	assert.Equal(t, img.Data, ocr.calls[0].data)
	assert.Equal(t, parser.MIMEPNG, ocr.calls[0].mimeType)
	assert.Equal(t, session.StateExtracted, snap.State)
	assert.Equal(t, "Tenant shall pay rent monthly.", snap.Text)
	assert.Equal(t, []string{"summary", "risks", "chat", "explain"}, snap.Tabs)
}

func TestAnalyze_BlankPDFIsEmptyDocument(t *testing.T) {
	a, _ := newTestAssistant("   \n", "", &fakeLLM{})
	sess := session.New("s1")

	snap, err := a.Analyze(context.Background(), sess, []parser.Upload{pdfUpload("blank.pdf")}, nil)
	assert.ErrorIs(t, err, session.ErrEmptyDocument)
	assert.Equal(t, session.StateEmpty, snap.State)
	assert.Empty(t, snap.Tabs)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "no extractable text", snap.Files[0].Warning)
}

func TestSummary_CachedPerDocument(t *testing.T) {
	gen := &fakeLLM{reply: "Plain summary."}
	a, _ := newTestAssistant("The lease runs for 12 months.", "", gen)
	sess := analyzed(t, a)

	first, err := a.Summary(context.Background(), sess)
	require.NoError(t, err)
	second, err := a.Summary(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "Plain summary.", first)
	assert.Equal(t, first, second)
	require.Equal(t, 1, gen.calls())
	assert.Equal(t, llm.SummaryPrompt("The lease runs for 12 months."), gen.prompts[0])
}

func TestRisks_UsesRiskPrompt(t *testing.T) {
	gen := &fakeLLM{reply: "High - Auto-renewal clause."}
	a, _ := newTestAssistant("Renews automatically.", "", gen)
	sess := analyzed(t, a)

	out, err := a.Risks(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "High - Auto-renewal clause.", out)
	assert.Equal(t, llm.RiskPrompt("Renews automatically."), gen.prompts[0])

	_, err = a.Risks(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
}

func TestRisks_FailureNotCached(t *testing.T) {
	gen := &fakeLLM{err: &llm.ServiceError{Service: "anthropic", StatusCode: 503, Err: errors.New("unavailable")}}
	a, _ := newTestAssistant("Some terms.", "", gen)
	sess := analyzed(t, a)

	_, err := a.Risks(context.Background(), sess)
	var svcErr *llm.ServiceError
	require.ErrorAs(t, err, &svcErr)

	gen.err = nil
	gen.reply = "Low - Nothing unusual."
	out, err := a.Risks(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "Low - Nothing unusual.", out)
	assert.Equal(t, 2, gen.calls())
}

func TestSummary_NoDocument(t *testing.T) {
	gen := &fakeLLM{reply: "x"}
	a, _ := newTestAssistant("", "", gen)

	_, err := a.Summary(context.Background(), session.New("s1"))
	assert.ErrorIs(t, err, session.ErrNoDocument)
	assert.Zero(t, gen.calls())
}

func TestAsk_PromptEmbedsDocumentAndQuestion(t *testing.T) {
	gen := &fakeLLM{reply: "The deposit is $500."}
	a, _ := newTestAssistant("Security deposit: $500.", "", gen)
	sess := analyzed(t, a)

	msgs, err := a.Ask(context.Background(), sess, "How much is the deposit?")
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, session.RoleUser, msgs[0].Role)
	assert.Equal(t, "How much is the deposit?", msgs[0].Content)
	assert.Equal(t, session.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "The deposit is $500.", msgs[1].Content)

	require.Equal(t, 1, gen.calls())
	assert.True(t, strings.Contains(gen.prompts[0], "Security deposit: $500."))
	assert.True(t, strings.Contains(gen.prompts[0], "How much is the deposit?"))
}

func TestAsk_BlankQuestion(t *testing.T) {
	gen := &fakeLLM{reply: "x"}
	a, _ := newTestAssistant("Terms.", "", gen)
	sess := analyzed(t, a)

	_, err := a.Ask(context.Background(), sess, "  ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, gen.calls())
	assert.Empty(t, sess.Snapshot().Transcript)
}

func TestExplain_LeavesSessionUntouched(t *testing.T) {
	gen := &fakeLLM{reply: "Cached summary."}
	a, _ := newTestAssistant("Full lease text.", "", gen)
	sess := analyzed(t, a)

	_, err := a.Summary(context.Background(), sess)
	require.NoError(t, err)
	_, err = a.Ask(context.Background(), sess, "Who pays utilities?")
	require.NoError(t, err)
	before := sess.Snapshot()

	gen.reply = "It means you cannot sublet."
	out, err := a.Explain(context.Background(), sess, "Lessee shall not assign or sublet.")
	require.NoError(t, err)
	assert.Equal(t, "It means you cannot sublet.", out)
	assert.Equal(t, llm.ExplainPrompt("Lessee shall not assign or sublet."), gen.prompts[len(gen.prompts)-1])
	assert.NotContains(t, gen.prompts[len(gen.prompts)-1], "Full lease text.")

	after := sess.Snapshot()
	assert.Equal(t, before.Summary, after.Summary)
	assert.Equal(t, before.Risks, after.Risks)
	assert.Equal(t, before.Transcript, after.Transcript)
	assert.Equal(t, before.DocHash, after.DocHash)
}

func TestExplain_Validation(t *testing.T) {
	gen := &fakeLLM{reply: "x"}
	a, _ := newTestAssistant("Terms.", "", gen)

	_, err := a.Explain(context.Background(), session.New("s1"), "Some clause.")
	assert.ErrorIs(t, err, session.ErrNoDocument)

	sess := analyzed(t, a)
	_, err = a.Explain(context.Background(), sess, "\n\t")
	assert.ErrorIs(t, err, ErrNoClause)
	assert.Zero(t, gen.calls())
}

func TestAnalyze_ReplacesDerivedState(t *testing.T) {
	gen := &fakeLLM{reply: "Summary one."}
	a, _ := newTestAssistant("Document one.", "", gen)
	sess := analyzed(t, a)

	_, err := a.Summary(context.Background(), sess)
	require.NoError(t, err)
	_, err = a.Ask(context.Background(), sess, "Q?")
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), sess, []parser.Upload{pdfUpload("other.pdf")}, nil)
	require.NoError(t, err)

	snap := sess.Snapshot()
	assert.Empty(t, snap.Summary)
	assert.Empty(t, snap.Transcript)

	gen.reply = "Summary two."
	out, err := a.Summary(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "Summary two.", out)
}

func TestAnalyze_AllRejected(t *testing.T) {
	gen := &fakeLLM{}
	a, _ := newTestAssistant("Old lease.", "", gen)
	sess := analyzed(t, a)
	before := sess.Snapshot()

	rejected := []Rejection{{Index: 0, Result: parser.FileResult{Filename: "notes.txt", Warning: "unsupported file type: text/plain"}}}
	_, err := a.Analyze(context.Background(), sess, nil, rejected)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.ErrorIs(t, err, ErrNoSupported)
	assert.Contains(t, err.Error(), "supported type")

	after := sess.Snapshot()
	assert.Equal(t, before.DocHash, after.DocHash)
	assert.Equal(t, before.Files, after.Files)
}

func TestAnalyze_ReportKeepsRequestOrder(t *testing.T) {
	a, _ := newTestAssistant("Lease text.", "Scanned text.", &fakeLLM{})
	sess := session.New("s1")
	uploads := []parser.Upload{
		pdfUpload("lease.pdf"),
		{Filename: "scan.png", MIMEType: parser.MIMEPNG, Data: []byte{0x89}},
	}
	rejected := []Rejection{
		{Index: 0, Result: parser.FileResult{Filename: "notes.txt"}},
		{Index: 2, Result: parser.FileResult{Filename: "huge.pdf"}},
	}

	snap, err := a.Analyze(context.Background(), sess, uploads, rejected)
	require.NoError(t, err)

	names := func(files []parser.FileResult) []string {
		var out []string
		for _, f := range files {
			out = append(out, f.Filename)
		}
		return out
	}
	want := []string{"notes.txt", "lease.pdf", "huge.pdf", "scan.png"}
	assert.Equal(t, want, names(snap.Files))
	assert.Equal(t, want, names(sess.Snapshot().Files))
}

func TestMergeReport(t *testing.T) {
	r := func(name string) parser.FileResult { return parser.FileResult{Filename: name} }

	tests := []struct {
		name      string
		extracted []parser.FileResult
		rejected  []Rejection
		want      []parser.FileResult
	}{
		{"none rejected", []parser.FileResult{r("a"), r("b")}, nil, []parser.FileResult{r("a"), r("b")}},
		{"rejected last", []parser.FileResult{r("a")}, []Rejection{{Index: 1, Result: r("x")}}, []parser.FileResult{r("a"), r("x")}},
		{"rejected between", []parser.FileResult{r("a"), r("b")}, []Rejection{{Index: 1, Result: r("x")}}, []parser.FileResult{r("a"), r("x"), r("b")}},
		{"index past end", []parser.FileResult{r("a")}, []Rejection{{Index: 5, Result: r("x")}}, []parser.FileResult{r("a"), r("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeReport(tt.extracted, tt.rejected))
		})
	}
}
