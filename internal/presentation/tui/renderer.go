// Package tui renders dialogue nodes for the interactive player.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/parley-dev/parley/pkg/domain"
)

// Renderer turns a node into terminal output.
type Renderer struct {
	render func(string) (string, error)
}

// NewRenderer picks a glamour markdown renderer when stdout is a terminal
// and falls back to plain text otherwise, so piped output stays clean.
func NewRenderer() *Renderer {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return &Renderer{render: func(s string) (string, error) { return s, nil }}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return &Renderer{render: func(s string) (string, error) { return s, nil }}
	}
	return &Renderer{render: r.Render}
}

// Node renders a node's title and its numbered answers. Answers that lead
// somewhere show their target; callback-bearing answers are marked.
func (r *Renderer) Node(node domain.Node) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", node.Title))
	for i, answer := range node.Answers {
		line := fmt.Sprintf("%d. %s", i+1, answer.Text)
		if answer.Callback != nil {
			line += fmt.Sprintf(" *(%s)*", *answer.Callback)
		}
		sb.WriteString(line + "\n")
	}

	out, err := r.render(sb.String())
	if err != nil {
		return sb.String()
	}
	return out
}

// Summary renders the node list for the edit surface.
func (r *Renderer) Summary(summaries []domain.NodeSummary) string {
	var sb strings.Builder
	sb.WriteString("# Nodes\n\n")
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("- **%s**: %s (%d answers)\n", s.ID, s.Title, s.AnswerCount))
	}

	out, err := r.render(sb.String())
	if err != nil {
		return sb.String()
	}
	return out
}
