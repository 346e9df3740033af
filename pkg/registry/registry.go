// Package registry maps callback names to host actions.
//
// Answers carry an optional callback name; the registry is where the host
// application binds those names to actual behavior. Dispatching an unbound
// name is never fatal: playback continues and a warning is reported, so a
// graph authored against a richer host still plays.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/parley-dev/parley/pkg/domain"
)

// Action is a host side effect bound to a callback name. It takes no
// arguments beyond the context; any state it needs is captured at
// registration time.
type Action func(ctx context.Context) error

// Registry holds the callback bindings for one engine instance.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// Register binds an action to a callback name.
// If the name is already bound, the previous action is overwritten.
func (r *Registry) Register(name string, fn Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// Unregister removes a binding. Removing an unbound name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Names returns the currently bound callback names in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// Dispatch invokes the action bound to name.
//
// An unbound name returns a WarnUnknownCallback warning and a nil error;
// callers treat it as a diagnostic, not a failure. An action that returns
// an error has that error wrapped and returned.
func (r *Registry) Dispatch(ctx context.Context, name string) (*domain.Warning, error) {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()

	if !ok {
		return &domain.Warning{
			Code:   domain.WarnUnknownCallback,
			Detail: fmt.Sprintf("no action registered for callback %q", name),
		}, nil
	}

	if err := fn(ctx); err != nil {
		return nil, fmt.Errorf("callback %q failed: %w", name, err)
	}
	return nil, nil
}
