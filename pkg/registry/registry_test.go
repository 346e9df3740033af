package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DispatchInvokesBoundAction(t *testing.T) {
	reg := registry.New()
	called := 0
	reg.Register("openGate", func(ctx context.Context) error {
		called++
		return nil
	})

	warning, err := reg.Dispatch(context.Background(), "openGate")
	require.NoError(t, err)
	assert.Nil(t, warning)
	assert.Equal(t, 1, called)
}

func TestRegistry_UnknownCallbackWarnsWithoutError(t *testing.T) {
	reg := registry.New()

	warning, err := reg.Dispatch(context.Background(), "ghost")
	require.NoError(t, err)
	require.NotNil(t, warning)
	assert.Equal(t, domain.WarnUnknownCallback, warning.Code)
	assert.Contains(t, warning.Detail, "ghost")
}

func TestRegistry_ActionErrorIsWrapped(t *testing.T) {
	reg := registry.New()
	boom := errors.New("boom")
	reg.Register("explode", func(ctx context.Context) error { return boom })

	warning, err := reg.Dispatch(context.Background(), "explode")
	assert.Nil(t, warning)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "explode")
}

func TestRegistry_RegisterOverwritesAndUnregisterRemoves(t *testing.T) {
	reg := registry.New()
	got := ""
	reg.Register("fn", func(ctx context.Context) error { got = "first"; return nil })
	reg.Register("fn", func(ctx context.Context) error { got = "second"; return nil })

	_, err := reg.Dispatch(context.Background(), "fn")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	reg.Unregister("fn")
	warning, err := reg.Dispatch(context.Background(), "fn")
	require.NoError(t, err)
	assert.NotNil(t, warning)

	reg.Register("a", func(ctx context.Context) error { return nil })
	reg.Register("b", func(ctx context.Context) error { return nil })
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Names())
}
