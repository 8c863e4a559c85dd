package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRisks_MixedLines(t *testing.T) {
	lines := ClassifyRisks("Severity: High - A\nSeverity: Medium - B\nnot a severity line")

	require.Len(t, lines, 3)
	assert.Equal(t, RiskLine{Severity: SeverityHigh, Label: "High Risk", Text: "A", Markdown: "**High Risk:** A"}, lines[0])
	assert.Equal(t, RiskLine{Severity: SeverityMedium, Label: "Medium Risk", Text: "B", Markdown: "**Medium Risk:** B"}, lines[1])
	assert.Equal(t, RiskLine{Severity: SeverityUnclassified, Text: "not a severity line", Markdown: "not a severity line"}, lines[2])
}

func TestClassifyRisks_SkipsBlankAndTrims(t *testing.T) {
	lines := ClassifyRisks("\n   Severity: Low - Notice period is 30 days.  \n\n\t\n")
	require.Len(t, lines, 1)
	assert.Equal(t, SeverityLow, lines[0].Severity)
	assert.Equal(t, "Notice period is 30 days.", lines[0].Text)
	assert.Equal(t, "**Low Risk:** Notice period is 30 days.", lines[0].Markdown)
}

func TestClassifyRisks_PriorityOrder(t *testing.T) {
	// Both markers present: High is checked first.
	lines := ClassifyRisks("Severity: Low - was Severity: High before amendment")
	require.Len(t, lines, 1)
	assert.Equal(t, SeverityHigh, lines[0].Severity)
}

func TestClassifyRisks_MarkerWithoutDash(t *testing.T) {
	lines := ClassifyRisks("1. **Severity: Medium** Auto-renewal clause")
	require.Len(t, lines, 1)
	assert.Equal(t, SeverityMedium, lines[0].Severity)
	assert.Equal(t, "1. **Severity: Medium** Auto-renewal clause", lines[0].Text)
	assert.Equal(t, "Medium Risk", lines[0].Label)
	assert.Equal(t, "1. **Severity: Medium** Auto-renewal clause", lines[0].Markdown, "no prefix to replace")
}

func TestClassifyRisks_UnformattedOutput(t *testing.T) {
	out := "Here are the key risks:\n- The deposit is non-refundable.\n- high risk: penalty"
	lines := ClassifyRisks(out)
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, SeverityUnclassified, l.Severity)
		assert.Empty(t, l.Label)
	}
	assert.Equal(t, "- high risk: penalty", lines[2].Text)
}

func TestClassifyRisks_Empty(t *testing.T) {
	assert.Empty(t, ClassifyRisks(""))
	assert.Empty(t, ClassifyRisks("\n \n"))
}
