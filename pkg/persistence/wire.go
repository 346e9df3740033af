package persistence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/parley-dev/parley/pkg/domain"
)

// clearSentinel is the legacy serialization value meaning "unset" for answer
// references and callback names. It is mapped to nil on decode and never
// written back; inside the domain the fields are plain optionals.
const clearSentinel = "none"

// blob is the persisted layout: one object with meta, cfg and nodes keys.
// Unknown extra fields in stored blobs are ignored by encoding/json, which is
// exactly the forward-compatibility behavior the format promises.
type blob struct {
	Meta  domain.Meta         `json:"meta"`
	Cfg   domain.Config       `json:"cfg"`
	Nodes map[string]wireNode `json:"nodes"`
}

type wireNode struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Answers []wireAnswer `json:"answers"`
}

type wireAnswer struct {
	Text string `json:"text"`
	Next string `json:"next,omitempty"`
	Fn   string `json:"fn,omitempty"`
}

func decodeAnswer(w wireAnswer) domain.Answer {
	a := domain.Answer{Text: w.Text}
	if w.Next != "" && w.Next != clearSentinel {
		next := w.Next
		a.Next = &next
	}
	if w.Fn != "" && w.Fn != clearSentinel {
		fn := w.Fn
		a.Callback = &fn
	}
	return a
}

func encodeAnswer(a domain.Answer) wireAnswer {
	w := wireAnswer{Text: a.Text}
	if a.Next != nil {
		w.Next = *a.Next
	}
	if a.Callback != nil {
		w.Fn = *a.Callback
	}
	return w
}

// decodeNode maps a stored node to the domain. The map key is authoritative
// for identity; a missing embedded id is backfilled from it.
func decodeNode(key string, w wireNode) domain.Node {
	id := w.ID
	if id == "" {
		id = key
	}
	n := domain.Node{ID: id, Title: w.Title}
	for _, a := range w.Answers {
		n.Answers = append(n.Answers, decodeAnswer(a))
	}
	return n
}

func encodeNodes(g domain.Graph) map[string]wireNode {
	nodes := make(map[string]wireNode, len(g))
	for id, n := range g {
		w := wireNode{ID: n.ID, Title: n.Title}
		for _, a := range n.Answers {
			w.Answers = append(w.Answers, encodeAnswer(a))
		}
		nodes[id] = w
	}
	return nodes
}

// nodesChecksum hashes the canonical JSON of the nodes map. encoding/json
// sorts map keys, so the digest is stable across insertion orders.
func nodesChecksum(nodes map[string]wireNode) (string, error) {
	data, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("failed to marshal nodes for checksum: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
