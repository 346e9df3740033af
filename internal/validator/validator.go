// Package validator runs whole-graph consistency checks for the check
// command. It reports problems that the lazy per-node handling tolerates at
// load and playback time: invalid nodes, dangling answer links, and nodes a
// player can never reach from the entry.
package validator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/parley-dev/parley/pkg/domain"
)

// Report is the outcome of one whole-graph check.
type Report struct {
	// Invalid lists nodes that fail validation, with the reason.
	Invalid []domain.ValidationError
	// Dangling lists answers whose target id does not resolve.
	Dangling []DanglingRef
	// Unreachable lists node ids no answer path reaches from the entry,
	// sorted by id.
	Unreachable []string
}

// DanglingRef names one answer pointing at a missing node.
type DanglingRef struct {
	NodeID string
	Slot   int
	Target string
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("node %q answer %d points at missing node %q", d.NodeID, d.Slot, d.Target)
}

// Clean reports whether the check found nothing to complain about.
func (r Report) Clean() bool {
	return len(r.Invalid) == 0 && len(r.Dangling) == 0 && len(r.Unreachable) == 0
}

// Check validates every node, scans every answer link, and crawls the graph
// from the entry node to find unreachable nodes. An empty graph yields a
// clean report.
func Check(graph domain.Graph) Report {
	var report Report

	for _, id := range graph.IDs() {
		node := graph[id]

		if err := domain.Validate(*node); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				report.Invalid = append(report.Invalid, *verr)
			}
		}

		for slot, answer := range node.Answers {
			if answer.Next == nil {
				continue
			}
			if _, resolves := graph[*answer.Next]; !resolves {
				report.Dangling = append(report.Dangling, DanglingRef{
					NodeID: id,
					Slot:   slot + 1,
					Target: *answer.Next,
				})
			}
		}
	}

	entry, ok := graph.Entry()
	if !ok {
		return report
	}

	visited := map[string]bool{}
	queue := []string{entry}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		node, exists := graph[current]
		if !exists {
			continue
		}
		for _, answer := range node.Answers {
			if answer.Next != nil && !visited[*answer.Next] {
				queue = append(queue, *answer.Next)
			}
		}
	}

	for id := range graph {
		if !visited[id] {
			report.Unreachable = append(report.Unreachable, id)
		}
	}
	sort.Strings(report.Unreachable)

	return report
}
