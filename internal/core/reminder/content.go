package reminder

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"workbuddy/internal/core/model"
	"workbuddy/internal/core/timefmt"
)

// Response is the user's answer to a presented reminder.
type Response string

const (
	ResponseNone        Response = ""
	ResponseAcknowledge Response = "acknowledge"
	ResponseSnooze      Response = "snooze"
	ResponseDismiss     Response = "dismiss"
	ResponseMoodGreat   Response = "mood_great"
	ResponseMoodGood    Response = "mood_good"
	ResponseMoodOkay    Response = "mood_okay"
	ResponseMoodLow     Response = "mood_low"
)

// Payload is everything a presenter needs to show one reminder.
type Payload struct {
	Kind    model.ReminderKind
	Title   string
	Message string
	Actions []Response
	Sound   bool
	Summary *model.DailySummary
}

// Content describes how one kind reads on screen.
type Content struct {
	Title    string
	Messages []string
	Actions  []Response
}

var defaultActions = []Response{ResponseAcknowledge, ResponseSnooze}

// Catalog maps reminder kinds to their text. It is safe for concurrent use.
type Catalog struct {
	mu      sync.Mutex
	rng     *rand.Rand
	content map[model.ReminderKind]Content
}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog {
	return NewCatalogWith(defaultContent(), time.Now().UnixNano())
}

// NewCatalogWith builds a catalog from content with a fixed random seed.
func NewCatalogWith(content map[model.ReminderKind]Content, seed int64) *Catalog {
	return &Catalog{
		rng:     rand.New(rand.NewSource(seed)),
		content: content,
	}
}

// Payload picks a message for kind. Daily summaries render summary instead.
func (catalog *Catalog) Payload(kind model.ReminderKind, summary *model.DailySummary) Payload {
	catalog.mu.Lock()
	content, ok := catalog.content[kind]
	message := ""
	if ok && len(content.Messages) > 0 {
		message = content.Messages[catalog.rng.Intn(len(content.Messages))]
	}
	catalog.mu.Unlock()

	if !ok {
		content = Content{Title: string(kind)}
	}
	actions := content.Actions
	if len(actions) == 0 {
		actions = defaultActions
	}

	payload := Payload{
		Kind:    kind,
		Title:   content.Title,
		Message: message,
		Actions: append([]Response(nil), actions...),
	}
	if kind == model.KindDailySummary && summary != nil {
		payload.Summary = summary
		payload.Message = SummaryMessage(*summary)
	}
	return payload
}

// SummaryMessage renders total screen time and the top applications.
func SummaryMessage(summary model.DailySummary) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Total screen time: %s", timefmt.Duration(summary.TotalSeconds, false))
	if len(summary.TopApps) == 0 {
		builder.WriteString("\nNo application usage recorded today.")
		return builder.String()
	}
	builder.WriteString("\nTop apps:")
	for index, app := range summary.TopApps {
		fmt.Fprintf(&builder, "\n%d. %s (%s)", index+1, app.AppName, timefmt.Duration(app.Seconds, true))
	}
	return builder.String()
}

func defaultContent() map[model.ReminderKind]Content {
	return map[model.ReminderKind]Content{
		model.KindBreak: {
			Title: "Break Time",
			Messages: []string{
				"Time for a break! Step away from the screen for a few minutes.",
				"Stand up, stretch, and take a deep breath.",
				"Regular breaks improve focus and reduce eye strain. Take one now.",
			},
		},
		model.KindHydration: {
			Title: "Stay Hydrated",
			Messages: []string{
				"Drink a glass of water.",
				"Your brain is mostly water. Top it up!",
				"Hydration check: when did you last have a drink?",
			},
		},
		model.KindInspiration: {
			Title: "A Moment of Inspiration",
			Messages: []string{
				"Progress, not perfection.",
				"Small steps in the right direction can turn out to be the biggest step of your life.",
				"Be gentle with yourself. You're doing the best you can.",
			},
			Actions: []Response{ResponseAcknowledge},
		},
		model.KindEyeStrain: {
			Title: "20-20-20 Eye Break",
			Messages: []string{
				"Look at something 20 feet away for 20 seconds.",
				"Blink slowly ten times, then focus on a distant object.",
			},
		},
		model.KindPosture: {
			Title: "Posture Check",
			Messages: []string{
				"Feet flat, shoulders relaxed, screen at eye level.",
				"Roll your shoulders back and sit tall.",
			},
		},
		model.KindMoodCheckin: {
			Title:    "Mood Check-in",
			Messages: []string{"How are you feeling right now?"},
			Actions:  []Response{ResponseMoodGreat, ResponseMoodGood, ResponseMoodOkay, ResponseMoodLow, ResponseDismiss},
		},
		model.KindDailySummary: {
			Title:   "Daily Summary",
			Actions: []Response{ResponseAcknowledge},
		},
		model.KindFocusComplete: {
			Title:    "Focus Session Complete",
			Messages: []string{"Great work! Time for a well-deserved break."},
			Actions:  []Response{ResponseAcknowledge},
		},
	}
}
