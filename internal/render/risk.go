package render

import "strings"

// Severity is the display class of one risk line.
type Severity string

const (
	SeverityHigh         Severity = "high"
	SeverityMedium       Severity = "medium"
	SeverityLow          Severity = "low"
	SeverityUnclassified Severity = "unclassified"
)

// RiskLine is one non-empty line of a risk analysis, classified for display.
type RiskLine struct {
	Severity Severity `json:"severity"`
	Label    string   `json:"label,omitempty"`
	Text     string   `json:"text"`
	Markdown string   `json:"markdown"`
}

// Checked in order; the first marker found in a line wins.
var severityMarkers = []struct {
	severity Severity
	marker   string
	label    string
}{
	{SeverityHigh, "Severity: High", "High Risk"},
	{SeverityMedium, "Severity: Medium", "Medium Risk"},
	{SeverityLow, "Severity: Low", "Low Risk"},
}

// ClassifyRisks splits model output into lines and tags each by the severity
// marker it contains. The model is not bound to the format, so anything that
// matches no marker is kept verbatim as unclassified.
func ClassifyRisks(analysis string) []RiskLine {
	var lines []RiskLine
	for _, raw := range strings.Split(analysis, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, classifyLine(line))
	}
	return lines
}

func classifyLine(line string) RiskLine {
	for _, m := range severityMarkers {
		if !strings.Contains(line, m.marker) {
			continue
		}
		prefix := m.marker + " -"
		text := line
		if i := strings.Index(line, prefix); i >= 0 {
			text = strings.TrimSpace(line[:i] + line[i+len(prefix):])
		}
		return RiskLine{
			Severity: m.severity,
			Label:    m.label,
			Text:     text,
			Markdown: strings.ReplaceAll(line, prefix, "**"+m.label+":**"),
		}
	}
	return RiskLine{Severity: SeverityUnclassified, Text: line, Markdown: line}
}
