package notify

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
)

// Fallback presents through primary until it fails once, then uses secondary.
type Fallback struct {
	mu        sync.Mutex
	primary   reminder.Presenter
	secondary reminder.Presenter
	disabled  bool
	logger    hclog.Logger
}

// NewFallback chains two presenters.
func NewFallback(primary, secondary reminder.Presenter, logger hclog.Logger) *Fallback {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger.Named("fallback"),
	}
}

// Present implements reminder.Presenter.
func (fallback *Fallback) Present(ctx context.Context, kind model.ReminderKind, payload reminder.Payload) (reminder.Response, error) {
	fallback.mu.Lock()
	usePrimary := !fallback.disabled && fallback.primary != nil
	fallback.mu.Unlock()

	if usePrimary {
		response, err := fallback.primary.Present(ctx, kind, payload)
		if err == nil {
			return response, nil
		}
		fallback.logger.Warn("primary presenter failed, switching to fallback", "kind", kind, "error", err)
		fallback.mu.Lock()
		fallback.disabled = true
		fallback.mu.Unlock()
	}
	return fallback.secondary.Present(ctx, kind, payload)
}

// PrimaryDisabled reports whether the primary presenter has been abandoned.
func (fallback *Fallback) PrimaryDisabled() bool {
	fallback.mu.Lock()
	defer fallback.mu.Unlock()
	return fallback.disabled || fallback.primary == nil
}
