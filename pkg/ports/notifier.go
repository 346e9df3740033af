package ports

import (
	"context"

	"github.com/parley-dev/parley/pkg/domain"
)

// Notifier receives change-notification envelopes from the editor.
// The display surface behind it is external; the editor only guarantees that
// every successful mutation produces exactly one notification.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n domain.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, domain.Notification) {}
