package domain

import (
	"errors"
	"fmt"
)

// Editor operation failures. Each operation rejects with exactly one of these;
// the graph is never left half-mutated.
var (
	// ErrDuplicateID is returned when creating a node whose id already exists.
	ErrDuplicateID = errors.New("node id already exists")

	// ErrNotFound is returned when an operation targets a node id that is not present.
	ErrNotFound = errors.New("node not found")

	// ErrEmptyTitle is returned when setting a title to empty text.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrSlotOutOfRange is returned when an answer slot is outside 1..MaxAnswers.
	ErrSlotOutOfRange = errors.New("answer slot out of range")

	// ErrSlotDoesNotExist is returned when an operation requires an existing
	// answer slot and no gap-fill is allowed.
	ErrSlotDoesNotExist = errors.New("answer slot does not exist")
)

// Playback failures.
var (
	// ErrEmptyGraph is returned by Start on a graph with zero nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrNoEntryNode is returned when no entry node can be resolved.
	ErrNoEntryNode = errors.New("no entry node could be resolved")

	// ErrNotPresenting is returned when an answer is selected outside an active dialogue.
	ErrNotPresenting = errors.New("no dialogue in progress")

	// ErrInvalidAnswerIndex is returned when a selection is outside the
	// current node's answer range. State is unchanged.
	ErrInvalidAnswerIndex = errors.New("answer index out of range")

	// ErrDanglingReference is returned when a selected answer points at a node
	// that does not exist. The dialogue ends, but as an error rather than a
	// normal terminal choice.
	ErrDanglingReference = errors.New("answer references a missing node")
)

// ErrCorruptBlob marks a persisted blob that could not be deserialized at all.
// The gateway recovers with a fresh graph; this surfaces only as a diagnostic.
var ErrCorruptBlob = errors.New("persisted blob is corrupt")

// ValidationReason identifies which per-node invariant failed.
type ValidationReason string

const (
	ReasonMissingID       ValidationReason = "MissingId"
	ReasonMissingTitle    ValidationReason = "MissingTitle"
	ReasonAnswerCount     ValidationReason = "AnswerCountOutOfRange"
	ReasonEmptyAnswerText ValidationReason = "EmptyAnswerText"
)

// ValidationError reports a single node failing Validate.
// Whole-graph loads never fail on one of these; the node is skipped instead.
type ValidationError struct {
	NodeID string
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("invalid node: %s", e.Reason)
	}
	return fmt.Sprintf("invalid node %q: %s", e.NodeID, e.Reason)
}

// WarningCode classifies non-fatal diagnostics. Warnings are logged and
// returned to callers so they stay countable in tests.
type WarningCode string

const (
	WarnAnswerOverflow    WarningCode = "answer_overflow"
	WarnEmptyAnswer       WarningCode = "empty_answer_created"
	WarnDanglingReference WarningCode = "dangling_reference"
	WarnNodeDropped       WarningCode = "node_dropped"
	WarnCorruptBlob       WarningCode = "corrupt_blob"
	WarnChecksumMismatch  WarningCode = "checksum_mismatch"
	WarnUnknownCallback   WarningCode = "unknown_callback"
	WarnCallbackFailed    WarningCode = "callback_failed"
)

// Warning is a non-fatal diagnostic tied to a node (NodeID may be empty for
// blob-level issues).
type Warning struct {
	Code   WarningCode
	NodeID string
	Detail string
}

func (w Warning) String() string {
	if w.NodeID == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Detail)
	}
	return fmt.Sprintf("%s (node %q): %s", w.Code, w.NodeID, w.Detail)
}
