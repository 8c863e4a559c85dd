package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// Raw HTML in model output is dropped by goldmark's default renderer.
var md = goldmark.New()

// Markdown converts model output to an HTML fragment.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
