package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/demystify/internal/session"
)

func TestMarkdown(t *testing.T) {
	out, err := Markdown("**Document Type:** Lease\n\n- Rent: $1,000")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Document Type:</strong> Lease")
	assert.Contains(t, out, "<li>Rent: $1,000</li>")
}

func TestMarkdown_DropsRawHTML(t *testing.T) {
	out, err := Markdown("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestRenderRisks(t *testing.T) {
	out, err := RenderRisks(ClassifyRisks("Severity: High - Unlimited liability\nplain note"))
	require.NoError(t, err)

	high := strings.Index(out, `<div class="risk risk-high"><p><strong>High Risk:</strong> Unlimited liability</p></div>`)
	plain := strings.Index(out, `<div class="risk risk-unclassified"><p>plain note</p></div>`)
	assert.GreaterOrEqual(t, high, 0, out)
	assert.Greater(t, plain, high, "lines keep their original order")
	assert.True(t, strings.HasPrefix(out, `<div class="risk-analysis">`))
}

func TestRenderTranscript_Welcome(t *testing.T) {
	out, err := RenderTranscript(nil)
	require.NoError(t, err)
	assert.Contains(t, out, welcomeHint)
}

func TestRenderTranscript_Bubbles(t *testing.T) {
	out, err := RenderTranscript([]session.Message{
		{Role: session.RoleUser, Content: "Is <b>this</b> binding?"},
		{Role: session.RoleAssistant, Content: "Yes, **it is**."},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="chat-row user-message"><div class="chat-bubble user-bubble">Is &lt;b&gt;this&lt;/b&gt; binding?</div><div class="chat-avatar">👤</div></div>`)
	assert.Contains(t, out, `<div class="chat-row assistant-message"><div class="chat-avatar">📜</div><div class="chat-bubble assistant-bubble"><p>Yes, <strong>it is</strong>.</p>`)
	assert.Less(t, strings.Index(out, "user-message"), strings.Index(out, "assistant-message"))
	assert.NotContains(t, out, welcomeHint)
}
