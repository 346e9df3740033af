package dsl

import (
	"fmt"

	"github.com/parley-dev/parley/pkg/domain"
)

// Builder accumulates nodes and compiles them into a domain.Graph.
type Builder struct {
	nodes   map[string]*domain.Node
	order   []string
	current *domain.Node
	err     error
}

// New creates an empty graph builder.
func New() *Builder {
	return &Builder{nodes: make(map[string]*domain.Node)}
}

// Node starts a new node with the given id and title, and makes it the
// target of subsequent Answer calls. Reusing an id is an error reported
// by Build.
func (b *Builder) Node(id, title string) *Builder {
	if b.err != nil {
		return b
	}
	if id == "" {
		b.err = fmt.Errorf("node id must not be empty")
		return b
	}
	if _, ok := b.nodes[id]; ok {
		b.err = fmt.Errorf("node %q defined twice", id)
		return b
	}
	n := &domain.Node{ID: id, Title: title, Answers: nil}
	b.nodes[id] = n
	b.order = append(b.order, id)
	b.current = n
	return b
}

// Answer appends an answer to the node most recently started with Node.
// Without options the answer is terminal with no callback.
func (b *Builder) Answer(text string, opts ...AnswerOption) *Builder {
	if b.err != nil {
		return b
	}
	if b.current == nil {
		b.err = fmt.Errorf("Answer called before any Node")
		return b
	}
	if len(b.current.Answers) >= domain.MaxAnswers {
		b.err = fmt.Errorf("node %q already has %d answers", b.current.ID, domain.MaxAnswers)
		return b
	}
	a := domain.Answer{Text: text}
	for _, opt := range opts {
		opt(&a)
	}
	b.current.Answers = append(b.current.Answers, a)
	return b
}

// AnswerOption configures a single answer.
type AnswerOption func(*domain.Answer)

// To links the answer to the named node.
func To(target string) AnswerOption {
	return func(a *domain.Answer) {
		t := target
		a.Next = &t
	}
}

// Calls attaches a named callback to the answer.
func Calls(name string) AnswerOption {
	return func(a *domain.Answer) {
		n := name
		a.Callback = &n
	}
}

// Build validates every node and returns the assembled graph.
// The first builder misuse or validation failure is returned; links to
// nodes that were never defined are also rejected.
func (b *Builder) Build() (domain.Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	graph := make(domain.Graph, len(b.nodes))
	for _, id := range b.order {
		n := b.nodes[id]
		if err := domain.Validate(*n); err != nil {
			return nil, fmt.Errorf("node %q: %w", id, err)
		}
		for i, a := range n.Answers {
			if a.Next != nil {
				if _, ok := b.nodes[*a.Next]; !ok {
					return nil, fmt.Errorf("answer %d of node %q: %w (%s)", i+1, id, domain.ErrDanglingReference, *a.Next)
				}
			}
		}
		graph[id] = n.Clone()
	}
	return graph, nil
}
