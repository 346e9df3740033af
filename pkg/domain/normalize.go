package domain

import "fmt"

// Normalize repairs a node into a shape that satisfies the answer invariants:
// answers with empty text are removed (relative order preserved), anything
// past MaxAnswers is truncated keeping the first MaxAnswers, and a node left
// with zero answers gets one default terminal answer using exitLabel.
//
// Normalize is pure (the input is not modified) and idempotent:
// Normalize(Normalize(n)) == Normalize(n) for any node and label.
func Normalize(n Node, exitLabel string) (Node, []Warning) {
	var warnings []Warning

	kept := make([]Answer, 0, len(n.Answers))
	for _, a := range n.Answers {
		if a.Text == "" {
			continue
		}
		kept = append(kept, a)
	}

	if len(kept) > MaxAnswers {
		warnings = append(warnings, Warning{
			Code:   WarnAnswerOverflow,
			NodeID: n.ID,
			Detail: fmt.Sprintf("%d answers, keeping the first %d", len(kept), MaxAnswers),
		})
		kept = kept[:MaxAnswers]
	}

	if len(kept) == 0 {
		kept = append(kept, Answer{Text: exitLabel})
	}

	n.Answers = kept
	return n, warnings
}

// Validate checks the per-node invariants. It assumes nothing about prior
// normalization: a node straight from a blob may fail on answers Normalize
// would have repaired.
func Validate(n Node) error {
	if n.ID == "" {
		return &ValidationError{Reason: ReasonMissingID}
	}
	if n.Title == "" {
		return &ValidationError{NodeID: n.ID, Reason: ReasonMissingTitle}
	}
	if len(n.Answers) < 1 || len(n.Answers) > MaxAnswers {
		return &ValidationError{NodeID: n.ID, Reason: ReasonAnswerCount}
	}
	for _, a := range n.Answers {
		if a.Text == "" {
			return &ValidationError{NodeID: n.ID, Reason: ReasonEmptyAnswerText}
		}
	}
	return nil
}
