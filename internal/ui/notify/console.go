package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
	"workbuddy/internal/ui/theme"
)

// ConsolePresenter draws reminders as a boxed banner on a terminal.
// With an input reader it also asks which action to take.
type ConsolePresenter struct {
	mu     sync.Mutex
	out    io.Writer
	in     *bufio.Reader
	styles theme.Styles
	logger hclog.Logger
}

// NewConsolePresenter writes banners to out. A nil in acknowledges every reminder.
func NewConsolePresenter(out io.Writer, in io.Reader, logger hclog.Logger) *ConsolePresenter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	presenter := &ConsolePresenter{
		out:    out,
		styles: theme.For(out),
		logger: logger.Named("console"),
	}
	if in != nil {
		presenter.in = bufio.NewReader(in)
	}
	return presenter
}

// Present implements reminder.Presenter.
func (presenter *ConsolePresenter) Present(ctx context.Context, kind model.ReminderKind, payload reminder.Payload) (reminder.Response, error) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return reminder.ResponseNone, err
	}

	var body strings.Builder
	body.WriteString(presenter.styles.Title.Render(payload.Title))
	if payload.Message != "" {
		body.WriteString("\n\n")
		body.WriteString(presenter.styles.Body.Render(payload.Message))
	}
	if presenter.in != nil && len(payload.Actions) > 0 {
		body.WriteString("\n\n")
		body.WriteString(presenter.styles.Hint.Render(actionMenu(payload.Actions)))
	}

	banner := presenter.styles.Banner.Render(body.String())
	if payload.Sound {
		banner = "\a" + banner
	}
	if _, err := fmt.Fprintln(presenter.out, banner); err != nil {
		return reminder.ResponseNone, fmt.Errorf("write reminder banner: %w", err)
	}

	if presenter.in == nil || len(payload.Actions) == 0 {
		return reminder.ResponseAcknowledge, nil
	}
	return presenter.readChoice(payload.Actions)
}

func (presenter *ConsolePresenter) readChoice(actions []reminder.Response) (reminder.Response, error) {
	fmt.Fprint(presenter.out, "> ")
	line, err := presenter.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return actions[0], nil
		}
		return reminder.ResponseNone, fmt.Errorf("read reminder response: %w", err)
	}

	choice := strings.TrimSpace(line)
	if choice == "" {
		return actions[0], nil
	}
	if index, err := strconv.Atoi(choice); err == nil && index >= 1 && index <= len(actions) {
		return actions[index-1], nil
	}
	for _, action := range actions {
		if strings.EqualFold(choice, string(action)) {
			return action, nil
		}
	}
	presenter.logger.Debug("unrecognised response", "input", choice)
	return actions[0], nil
}

func actionMenu(actions []reminder.Response) string {
	parts := make([]string, 0, len(actions))
	for index, action := range actions {
		parts = append(parts, fmt.Sprintf("[%d] %s", index+1, actionLabel(action)))
	}
	return strings.Join(parts, "  ")
}

func actionLabel(action reminder.Response) string {
	switch action {
	case reminder.ResponseAcknowledge:
		return "Got it"
	case reminder.ResponseSnooze:
		return "Snooze"
	case reminder.ResponseDismiss:
		return "Dismiss"
	case reminder.ResponseMoodGreat:
		return "Great"
	case reminder.ResponseMoodGood:
		return "Good"
	case reminder.ResponseMoodOkay:
		return "Okay"
	case reminder.ResponseMoodLow:
		return "Low"
	default:
		return string(action)
	}
}
