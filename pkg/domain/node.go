package domain

import "sort"

// MaxAnswers is the upper bound on answers per node. Nodes are rendered as a
// numbered choice list, so the bound doubles as the valid selection range.
const MaxAnswers = 5

// EntryNodeID is the conventional id playback starts from when present.
const EntryNodeID = "start"

// Answer is a single selectable choice within a Node.
// Next and Callback are optional: a nil Next marks a terminal choice, a nil
// Callback means no side-effect fires on selection. Legacy blobs encode
// "unset" as ""/"none"; that mapping lives at the serialization boundary
// (pkg/persistence), never here.
type Answer struct {
	Text     string  `json:"text"`
	Next     *string `json:"next,omitempty"`
	Callback *string `json:"fn,omitempty"`
}

// Terminal reports whether selecting this answer ends the dialogue.
func (a Answer) Terminal() bool {
	return a.Next == nil
}

// Node represents one unit of dialogue content.
type Node struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Answers []Answer `json:"answers"`
}

// NewNode creates a node with a single default terminal answer.
// The title defaults to the id so a fresh node already satisfies Validate.
func NewNode(id, exitLabel string) *Node {
	return &Node{
		ID:      id,
		Title:   id,
		Answers: []Answer{{Text: exitLabel}},
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Answers = make([]Answer, len(n.Answers))
	for i, a := range n.Answers {
		c.Answers[i] = a
		if a.Next != nil {
			next := *a.Next
			c.Answers[i].Next = &next
		}
		if a.Callback != nil {
			cb := *a.Callback
			c.Answers[i].Callback = &cb
		}
	}
	return &c
}

// Summary returns the shallow listing view of the node.
func (n *Node) Summary() NodeSummary {
	return NodeSummary{ID: n.ID, Title: n.Title, AnswerCount: len(n.Answers)}
}

// Graph is the complete set of nodes, addressable by id.
// Insertion order is irrelevant; iteration that must be deterministic goes
// through IDs().
type Graph map[string]*Node

// IDs returns all node ids in lexicographic order.
func (g Graph) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entry resolves the playback entry node: the conventional "start" id when
// present, otherwise the lexicographically smallest id so the choice stays
// deterministic. ok is false on an empty graph.
func (g Graph) Entry() (id string, ok bool) {
	if len(g) == 0 {
		return "", false
	}
	if _, ok := g[EntryNodeID]; ok {
		return EntryNodeID, true
	}
	return g.IDs()[0], true
}

// Ref locates an answer slot referencing a node.
type Ref struct {
	NodeID string
	Slot   int // 1-based
}

// ReferencesTo returns every answer slot whose Next points at target,
// in deterministic order. Used to surface dangling references after a delete.
func (g Graph) ReferencesTo(target string) []Ref {
	var refs []Ref
	for _, id := range g.IDs() {
		for i, a := range g[id].Answers {
			if a.Next != nil && *a.Next == target {
				refs = append(refs, Ref{NodeID: id, Slot: i + 1})
			}
		}
	}
	return refs
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	c := make(Graph, len(g))
	for id, n := range g {
		c[id] = n.Clone()
	}
	return c
}
