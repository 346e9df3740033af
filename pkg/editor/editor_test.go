package editor_test

import (
	"context"
	"testing"
	"time"

	"github.com/parley-dev/parley/pkg/adapters/memory"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/editor"
	"github.com/parley-dev/parley/pkg/persistence"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures every notification for later assertions.
type recordingNotifier struct {
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) ofType(t domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func newEditor(t *testing.T) (*editor.Editor, *recordingNotifier, ports.BlobStore) {
	t.Helper()
	store := memory.NewStore()
	gw := persistence.New(store)
	notifier := &recordingNotifier{}
	ed := editor.New(persistence.NewDocument(time.Now()), gw, editor.WithNotifier(notifier))
	return ed, notifier, store
}

func TestEditor_CreateNode(t *testing.T) {
	ed, notifier, _ := newEditor(t)
	ctx := context.Background()

	require.NoError(t, ed.CreateNode(ctx, "start"))

	node, ok := ed.Node("start")
	require.True(t, ok)
	assert.Equal(t, "start", node.Title, "new nodes are titled after their id")
	require.Len(t, node.Answers, 1)
	assert.Equal(t, domain.DefaultExitLabel, node.Answers[0].Text)
	assert.True(t, node.Answers[0].Terminal())

	assert.Equal(t, "start", ed.Current())
	assert.True(t, ed.Dirty())

	updates := notifier.ofType(domain.NotifyUpdateNode)
	require.Len(t, updates, 1)
	assert.Equal(t, "start", updates[0].ID)
}

func TestEditor_CreateDuplicateLeavesGraphUnchanged(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()

	require.NoError(t, ed.CreateNode(ctx, "x"))
	_, err := ed.SetAnswerText(ctx, "x", 1, "Changed")
	require.NoError(t, err)
	before := ed.Graph()

	err = ed.CreateNode(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, before, ed.Graph())
}

func TestEditor_DeleteNodeWarnsPerDanglingAnswer(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()

	require.NoError(t, ed.CreateNode(ctx, "start"))
	require.NoError(t, ed.CreateNode(ctx, "end"))
	_, err := ed.SetAnswerText(ctx, "start", 1, "Onward")
	require.NoError(t, err)
	require.NoError(t, ed.SetAnswerNext(ctx, "start", 1, "end"))

	warnings, err := ed.DeleteNode(ctx, "end")
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnDanglingReference, warnings[0].Code)
	assert.Equal(t, "start", warnings[0].NodeID)

	// The stale reference is reported, never rewritten.
	node, _ := ed.Node("start")
	require.NotNil(t, node.Answers[0].Next)
	assert.Equal(t, "end", *node.Answers[0].Next)
}

func TestEditor_DeleteMissingNode(t *testing.T) {
	ed, _, _ := newEditor(t)
	_, err := ed.DeleteNode(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditor_SetTitle(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	require.NoError(t, ed.SetTitle(ctx, "start", "The crossroads"))
	node, _ := ed.Node("start")
	assert.Equal(t, "The crossroads", node.Title)

	assert.ErrorIs(t, ed.SetTitle(ctx, "start", ""), domain.ErrEmptyTitle)
	assert.ErrorIs(t, ed.SetTitle(ctx, "ghost", "x"), domain.ErrNotFound)
}

func TestEditor_SetAnswerTextGapFillsWithWarnings(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	warnings, err := ed.SetAnswerText(ctx, "start", 3, "Third choice")
	require.NoError(t, err)

	// Slot 2 was synthesized empty; slot 1 already existed.
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, domain.WarnEmptyAnswer, w.Code)
	}

	node, _ := ed.Node("start")
	require.Len(t, node.Answers, 3)
	assert.Empty(t, node.Answers[1].Text)
	assert.Equal(t, "Third choice", node.Answers[2].Text)
}

func TestEditor_SetAnswerTextAcceptsEmptyText(t *testing.T) {
	// Emptiness is only stripped by normalization at load time, never here.
	ed, _, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	_, err := ed.SetAnswerText(ctx, "start", 1, "")
	require.NoError(t, err)

	node, _ := ed.Node("start")
	assert.Empty(t, node.Answers[0].Text)
}

func TestEditor_SetAnswerTextSlotBounds(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	_, err := ed.SetAnswerText(ctx, "start", 0, "x")
	assert.ErrorIs(t, err, domain.ErrSlotOutOfRange)
	_, err = ed.SetAnswerText(ctx, "start", 6, "x")
	assert.ErrorIs(t, err, domain.ErrSlotOutOfRange)
}

func TestEditor_AnswerLinkOpsRequireExistingSlot(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	assert.ErrorIs(t, ed.SetAnswerNext(ctx, "start", 2, "end"), domain.ErrSlotDoesNotExist)
	assert.ErrorIs(t, ed.SetAnswerCallback(ctx, "start", 2, "fn"), domain.ErrSlotDoesNotExist)
	assert.ErrorIs(t, ed.SetAnswerNext(ctx, "ghost", 1, "end"), domain.ErrNotFound)
}

func TestEditor_AnswerLinkSetAndClear(t *testing.T) {
	ed, _, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	require.NoError(t, ed.SetAnswerNext(ctx, "start", 1, "end"))
	require.NoError(t, ed.SetAnswerCallback(ctx, "start", 1, "openGate"))

	node, _ := ed.Node("start")
	require.NotNil(t, node.Answers[0].Next)
	assert.Equal(t, "end", *node.Answers[0].Next)
	require.NotNil(t, node.Answers[0].Callback)
	assert.Equal(t, "openGate", *node.Answers[0].Callback)

	require.NoError(t, ed.ClearAnswerNext(ctx, "start", 1))
	require.NoError(t, ed.ClearAnswerCallback(ctx, "start", 1))

	node, _ = ed.Node("start")
	assert.Nil(t, node.Answers[0].Next)
	assert.Nil(t, node.Answers[0].Callback)
}

func TestEditor_SelectDoesNotDirty(t *testing.T) {
	ed, notifier, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "a"))
	require.NoError(t, ed.CreateNode(ctx, "b"))
	require.NoError(t, ed.Save(ctx))

	require.NoError(t, ed.Select(ctx, "a"))
	assert.Equal(t, "a", ed.Current())
	assert.False(t, ed.Dirty())

	updates := notifier.ofType(domain.NotifyUpdateNode)
	assert.Equal(t, "a", updates[len(updates)-1].ID)

	assert.ErrorIs(t, ed.Select(ctx, "ghost"), domain.ErrNotFound)
}

func TestEditor_ListNodesEmitsSummaries(t *testing.T) {
	ed, notifier, _ := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "b"))
	require.NoError(t, ed.CreateNode(ctx, "a"))

	summaries := ed.ListNodes(ctx)
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].ID, "summaries are ordered by id")
	assert.Equal(t, "b", summaries[1].ID)
	assert.Equal(t, 1, summaries[0].AnswerCount)

	lists := notifier.ofType(domain.NotifyListNodes)
	require.Len(t, lists, 1)
	assert.Equal(t, summaries, lists[0].Payload)
}

func TestEditor_FailuresEmitErrorEnvelope(t *testing.T) {
	ed, notifier, _ := newEditor(t)
	ctx := context.Background()

	_, err := ed.DeleteNode(ctx, "ghost")
	require.Error(t, err)

	errs := notifier.ofType(domain.NotifyError)
	require.Len(t, errs, 1)
	payload, ok := errs[0].Payload.(domain.ErrorPayload)
	require.True(t, ok)
	assert.Contains(t, payload.Message, "ghost")
}

func TestEditor_TickAutosavesAfterDebounce(t *testing.T) {
	ed, _, store := newEditor(t)
	ctx := context.Background()

	// Clean document: ticks are inert.
	saved, err := ed.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, saved)

	require.NoError(t, ed.CreateNode(ctx, "start"))
	require.True(t, ed.Dirty())

	// Default debounce is one cycle, so the first tick after a mutation saves.
	saved, err = ed.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.False(t, ed.Dirty())

	_, err = store.Read(ctx)
	require.NoError(t, err, "autosave must have written the blob")

	// Once clean, further ticks stay inert.
	saved, err = ed.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestEditor_TickHonorsConfiguredDebounce(t *testing.T) {
	store := memory.NewStore()
	gw := persistence.New(store)
	doc := persistence.NewDocument(time.Now())
	doc.Cfg.AutosaveDebounce = 3
	ed := editor.New(doc, gw)
	ctx := context.Background()

	require.NoError(t, ed.CreateNode(ctx, "start"))

	for i := 0; i < 2; i++ {
		saved, err := ed.Tick(ctx)
		require.NoError(t, err)
		assert.False(t, saved, "tick %d fired before the debounce elapsed", i+1)
	}

	// A mutation mid-debounce restarts the count.
	require.NoError(t, ed.SetTitle(ctx, "start", "Restarted"))
	for i := 0; i < 2; i++ {
		saved, err := ed.Tick(ctx)
		require.NoError(t, err)
		assert.False(t, saved)
	}

	saved, err := ed.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestEditor_SaveResetsDirty(t *testing.T) {
	ed, _, store := newEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.CreateNode(ctx, "start"))

	require.NoError(t, ed.Save(ctx))
	assert.False(t, ed.Dirty())

	data, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start"`)
}
