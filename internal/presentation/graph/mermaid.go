// Package graph renders a dialogue graph as a Mermaid flowchart, for the
// graph command and for pasting into docs.
package graph

import (
	"fmt"
	"strings"

	"github.com/parley-dev/parley/pkg/domain"
)

// Overlay carries playback state to highlight on the chart.
type Overlay struct {
	Visited []string
	Current string
}

// Mermaid produces flowchart syntax for the whole graph.
//
// The entry node is drawn as a circle, every other node as a rectangle.
// Each linked answer becomes an arrow labeled with its text; answers whose
// target does not resolve get a dashed arrow into a shared missing-node
// marker. Callback-bearing answers are annotated on the label.
func Mermaid(g domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	entry, _ := g.Entry()
	danglingSeen := false

	for _, id := range g.IDs() {
		node := g[id]
		safeID := sanitizeID(id)

		opener, closer := "[", "]"
		if id == entry {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(node.Title), closer))

		for slot, answer := range node.Answers {
			label := escapeLabel(answer.Text)
			if answer.Callback != nil {
				label = fmt.Sprintf("%s ⚡ %s", label, escapeLabel(*answer.Callback))
			}

			if answer.Next == nil {
				continue
			}
			target := *answer.Next

			if _, resolves := g[target]; !resolves {
				danglingSeen = true
				sb.WriteString(fmt.Sprintf("    %s -. \"%s (%d)\" .-> missing\n", safeID, label, slot+1))
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, label, sanitizeID(target)))
		}
	}

	if danglingSeen {
		sb.WriteString("    missing{{\"missing node\"}}\n")
	}

	if overlay != nil {
		sb.WriteString("\n    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeID(id)
			if safeID == "" || seen[safeID] {
				continue
			}
			seen[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeID(overlay.Current)))
		}
	}

	return sb.String()
}

func sanitizeID(id string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return replacer.Replace(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
