package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/demystify/internal/session"
)

const welcomeHint = "Ask me anything about the document you uploaded!"

// RenderRisks renders one styled block per risk line, in order.
func RenderRisks(lines []RiskLine) (string, error) {
	root := elem(atom.Div, "risk-analysis")
	for _, line := range lines {
		block := elem(atom.Div, "risk risk-"+string(line.Severity))
		if err := appendMarkdown(block, line.Markdown); err != nil {
			return "", err
		}
		root.AppendChild(block)
	}
	return renderNode(root)
}

// RenderTranscript renders chat bubbles. User text is escaped as-is; assistant
// replies go through Markdown.
func RenderTranscript(msgs []session.Message) (string, error) {
	root := elem(atom.Div, "chat")
	if len(msgs) == 0 {
		root.AppendChild(elem(atom.Div, "chat-welcome", text(welcomeHint)))
		return renderNode(root)
	}

	for _, m := range msgs {
		switch m.Role {
		case session.RoleUser:
			root.AppendChild(elem(atom.Div, "chat-row user-message",
				elem(atom.Div, "chat-bubble user-bubble", text(m.Content)),
				elem(atom.Div, "chat-avatar", text("👤")),
			))
		default:
			bubble := elem(atom.Div, "chat-bubble assistant-bubble")
			if err := appendMarkdown(bubble, m.Content); err != nil {
				return "", err
			}
			root.AppendChild(elem(atom.Div, "chat-row assistant-message",
				elem(atom.Div, "chat-avatar", text("📜")),
				bubble,
			))
		}
	}
	return renderNode(root)
}

func appendMarkdown(parent *html.Node, src string) error {
	frag, err := Markdown(src)
	if err != nil {
		return err
	}
	nodes, err := html.ParseFragment(strings.NewReader(strings.TrimSpace(frag)), elem(atom.Div, ""))
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

func elem(tag atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag.String(), DataAtom: tag}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func renderNode(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sb.String(), nil
}
