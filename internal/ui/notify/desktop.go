package notify

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
)

// ErrNoDesktop indicates no GUI application is available for notifications.
var ErrNoDesktop = errors.New("desktop notifications unavailable")

// DesktopPresenter shows reminders as native desktop notifications.
type DesktopPresenter struct {
	app    fyne.App
	logger hclog.Logger
}

// NewDesktopPresenter sends notifications through app.
func NewDesktopPresenter(app fyne.App, logger hclog.Logger) *DesktopPresenter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DesktopPresenter{app: app, logger: logger.Named("desktop")}
}

// Present implements reminder.Presenter. Native notifications carry no
// actions, so showing one counts as acknowledged.
func (presenter *DesktopPresenter) Present(ctx context.Context, kind model.ReminderKind, payload reminder.Payload) (reminder.Response, error) {
	if presenter.app == nil {
		return reminder.ResponseNone, ErrNoDesktop
	}
	if err := ctx.Err(); err != nil {
		return reminder.ResponseNone, err
	}

	notification := fyne.NewNotification(payload.Title, payload.Message)
	fyne.Do(func() {
		presenter.app.SendNotification(notification)
	})
	presenter.logger.Debug("notification sent", "kind", kind)
	return reminder.ResponseAcknowledge, nil
}
