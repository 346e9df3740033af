package graph_test

import (
	"strings"
	"testing"

	"github.com/parley-dev/parley/internal/presentation/graph"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestMermaid_EntryIsCircleLinksAreLabeled(t *testing.T) {
	g := domain.Graph{
		"start": {ID: "start", Title: "Opening", Answers: []domain.Answer{
			{Text: "Onward", Next: strptr("end"), Callback: strptr("openGate")},
		}},
		"end": {ID: "end", Title: "Closing", Answers: []domain.Answer{{Text: "Bye"}}},
	}

	out := graph.Mermaid(g, nil)

	assert.Contains(t, out, `start(("Opening"))`)
	assert.Contains(t, out, `end["Closing"]`)
	assert.Contains(t, out, `start -- "Onward ⚡ openGate" --> end`)
	assert.NotContains(t, out, "missing")
}

func TestMermaid_DanglingLinksPointAtMarker(t *testing.T) {
	g := domain.Graph{
		"start": {ID: "start", Title: "Opening", Answers: []domain.Answer{
			{Text: "Onward", Next: strptr("ghost")},
		}},
	}

	out := graph.Mermaid(g, nil)
	assert.Contains(t, out, `.-> missing`)
	assert.Contains(t, out, `missing{{"missing node"}}`)
}

func TestMermaid_OverlayHighlightsPath(t *testing.T) {
	g := domain.Graph{
		"start": {ID: "start", Title: "Opening", Answers: []domain.Answer{
			{Text: "Onward", Next: strptr("end")},
		}},
		"end": {ID: "end", Title: "Closing", Answers: []domain.Answer{{Text: "Bye"}}},
	}

	out := graph.Mermaid(g, &graph.Overlay{
		Visited: []string{"start", "start"},
		Current: "end",
	})

	assert.Equal(t, 1, strings.Count(out, "class start visited;"), "visited ids are deduplicated")
	assert.Contains(t, out, "class end current;")
}

func TestMermaid_SanitizesAwkwardIDs(t *testing.T) {
	g := domain.Graph{
		"act-1/scene.2": {ID: "act-1/scene.2", Title: `Say "hi"`, Answers: []domain.Answer{{Text: "Bye"}}},
	}

	out := graph.Mermaid(g, nil)
	assert.Contains(t, out, "act_1_scene_2")
	assert.Contains(t, out, `"Say 'hi'"`)
}
