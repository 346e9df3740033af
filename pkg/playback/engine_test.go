package playback_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/playback"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/parley-dev/parley/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

// twoNodeGraph is start -> end -> (terminal).
func twoNodeGraph() domain.Graph {
	return domain.Graph{
		"start": {
			ID:    "start",
			Title: "Opening",
			Answers: []domain.Answer{
				{Text: "Onward", Next: strptr("end")},
			},
		},
		"end": {
			ID:    "end",
			Title: "Closing",
			Answers: []domain.Answer{
				{Text: "Farewell"},
			},
		},
	}
}

func TestEngine_StartOnEmptyGraph(t *testing.T) {
	engine := playback.New(domain.Graph{})
	err := engine.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyGraph)
	assert.Equal(t, playback.StateInactive, engine.State())
}

func TestEngine_StartPrefersStartNode(t *testing.T) {
	engine := playback.New(twoNodeGraph())
	require.NoError(t, engine.Start(context.Background()))

	assert.Equal(t, playback.StatePresenting, engine.State())
	node, ok := engine.Current()
	require.True(t, ok)
	assert.Equal(t, "start", node.ID)
}

func TestEngine_StartFallsBackToSmallestID(t *testing.T) {
	graph := domain.Graph{
		"zeta":  {ID: "zeta", Title: "Z", Answers: []domain.Answer{{Text: "Bye"}}},
		"alpha": {ID: "alpha", Title: "A", Answers: []domain.Answer{{Text: "Bye"}}},
	}
	engine := playback.New(graph)
	require.NoError(t, engine.Start(context.Background()))

	node, ok := engine.Current()
	require.True(t, ok)
	assert.Equal(t, "alpha", node.ID)
}

func TestEngine_TwoNodeWalkRecordsHistory(t *testing.T) {
	engine := playback.New(twoNodeGraph())
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	_, err := engine.SelectAnswer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, playback.StatePresenting, engine.State())

	_, err = engine.SelectAnswer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, playback.StateInactive, engine.State())

	// The visited path survives the normal end until the next start or stop.
	assert.Equal(t, []string{"start", "end"}, engine.History())

	engine.Stop()
	assert.Empty(t, engine.History())
}

func TestEngine_DanglingReferenceEndsWithError(t *testing.T) {
	graph := domain.Graph{
		"start": {
			ID:    "start",
			Title: "Opening",
			Answers: []domain.Answer{
				{Text: "A", Next: strptr("b")},
				{Text: "B"},
			},
		},
	}
	engine := playback.New(graph)
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	_, err := engine.SelectAnswer(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrDanglingReference)
	assert.Equal(t, playback.StateInactive, engine.State())
}

func TestEngine_InvalidAnswerIndexLeavesStateUnchanged(t *testing.T) {
	engine := playback.New(twoNodeGraph())
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	for _, idx := range []int{0, 6, -1, 2} {
		_, err := engine.SelectAnswer(ctx, idx)
		assert.ErrorIs(t, err, domain.ErrInvalidAnswerIndex, "index %d", idx)
	}

	assert.Equal(t, playback.StatePresenting, engine.State())
	node, _ := engine.Current()
	assert.Equal(t, "start", node.ID)
	assert.Empty(t, engine.History())
}

func TestEngine_SelectAnswerWhileInactive(t *testing.T) {
	engine := playback.New(twoNodeGraph())
	_, err := engine.SelectAnswer(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotPresenting)
}

func TestEngine_CallbackDispatchedBeforeNavigation(t *testing.T) {
	graph := twoNodeGraph()
	graph["start"].Answers[0].Callback = strptr("openGate")

	reg := registry.New()
	engine := playback.New(graph, playback.WithRegistry(reg))

	var sawNodeAtDispatch string
	reg.Register("openGate", func(ctx context.Context) error {
		node, _ := engine.Current()
		sawNodeAtDispatch = node.ID
		return nil
	})

	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))
	warnings, err := engine.SelectAnswer(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "start", sawNodeAtDispatch, "callback must run before the move")
	node, _ := engine.Current()
	assert.Equal(t, "end", node.ID)
}

func TestEngine_UnknownCallbackWarnsAndContinues(t *testing.T) {
	graph := twoNodeGraph()
	graph["start"].Answers[0].Callback = strptr("ghost")

	engine := playback.New(graph, playback.WithRegistry(registry.New()))
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	warnings, err := engine.SelectAnswer(ctx, 1)
	require.NoError(t, err, "an unknown callback never blocks navigation")
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnUnknownCallback, warnings[0].Code)

	node, _ := engine.Current()
	assert.Equal(t, "end", node.ID)
}

func TestEngine_FailingCallbackWarnsAndContinues(t *testing.T) {
	graph := twoNodeGraph()
	graph["start"].Answers[0].Callback = strptr("explode")

	reg := registry.New()
	reg.Register("explode", func(ctx context.Context) error { return errors.New("boom") })

	engine := playback.New(graph, playback.WithRegistry(reg))
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	warnings, err := engine.SelectAnswer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnCallbackFailed, warnings[0].Code)

	assert.Equal(t, playback.StatePresenting, engine.State())
}

func TestEngine_RestartBeginsFresh(t *testing.T) {
	engine := playback.New(twoNodeGraph())
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))
	_, err := engine.SelectAnswer(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, engine.Restart(ctx))
	node, _ := engine.Current()
	assert.Equal(t, "start", node.ID)
	assert.Empty(t, engine.History())
}

func TestEngine_PollForcesStopWhenUnavailable(t *testing.T) {
	available := true
	engine := playback.New(twoNodeGraph(),
		playback.WithPresence(ports.PresenceFunc(func(ctx context.Context) bool { return available })))
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	assert.True(t, engine.Poll(ctx))
	assert.Equal(t, playback.StatePresenting, engine.State())

	available = false
	assert.False(t, engine.Poll(ctx))
	assert.Equal(t, playback.StateInactive, engine.State())

	// Inactive polls are inert.
	assert.False(t, engine.Poll(ctx))
}

func TestEngine_PresentsNodesToNotifier(t *testing.T) {
	var presented []string
	notifier := ports.NotifierFunc(func(_ context.Context, n domain.Notification) {
		if n.Type == domain.NotifyUpdateNode {
			presented = append(presented, n.ID)
		}
	})

	engine := playback.New(twoNodeGraph(), playback.WithNotifier(notifier))
	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))
	_, err := engine.SelectAnswer(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "end"}, presented)
}
