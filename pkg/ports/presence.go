package ports

import "context"

// Presence answers whether the audience is still eligible to continue an
// active dialogue. It is polled on a fixed cadence while presenting; a false
// answer forces the playback engine to stop. The implementation (proximity,
// connectivity, a stub) is entirely host-side.
type Presence interface {
	Available(ctx context.Context) bool
}

// PresenceFunc adapts a plain predicate to the Presence interface.
type PresenceFunc func(ctx context.Context) bool

func (f PresenceFunc) Available(ctx context.Context) bool { return f(ctx) }

// AlwaysPresent is the default predicate: the audience never goes away.
var AlwaysPresent = PresenceFunc(func(context.Context) bool { return true })
