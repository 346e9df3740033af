package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NotificationType categorizes editor -> display messages.
type NotificationType string

const (
	NotifyUpdateNode NotificationType = "updateNode"
	NotifyListNodes  NotificationType = "listNodes"
	NotifyError      NotificationType = "error"
)

// Notification is the flat envelope the editor emits to its display
// collaborator. Payload carries, respectively: a full *Node snapshot,
// a []NodeSummary, or an ErrorPayload.
type Notification struct {
	Type    NotificationType `json:"type"`
	ID      string           `json:"id,omitempty"`
	Payload any              `json:"payload"`
}

// NodeSummary is the listing view of a node.
type NodeSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	AnswerCount int    `json:"answerCount"`
}

// ErrorPayload carries a human-readable failure message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// InteractionType categorizes display -> engine messages.
type InteractionType string

const (
	InteractClickAnswer InteractionType = "clickAnswer"
	InteractSelectNode  InteractionType = "selectNode"
	InteractAction      InteractionType = "action"
)

// Interaction is the flat envelope a display collaborator sends in.
// Payloads are flat maps decoded into the typed payload structs below.
type Interaction struct {
	Type    InteractionType `json:"type"`
	Payload map[string]any  `json:"payload"`
}

// ClickAnswer selects answer Idx (1-based) on the currently presented node.
type ClickAnswer struct {
	Idx int `mapstructure:"idx"`
}

// SelectNode focuses the editor on a node.
type SelectNode struct {
	ID string `mapstructure:"id"`
}

// Action carries a generic operation verb with an optional target.
type Action struct {
	Op string `mapstructure:"op"`
	ID string `mapstructure:"id,omitempty"`
}

// DecodePayload decodes the envelope's flat payload map into a typed payload
// struct (ClickAnswer, SelectNode, Action). Unknown keys are ignored for
// forward compatibility.
func (i Interaction) DecodePayload(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true, // JSON numbers arrive as float64
	})
	if err != nil {
		return fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := dec.Decode(i.Payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", i.Type, err)
	}
	return nil
}
