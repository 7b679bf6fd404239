package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"workbuddy/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	onSave        func(model.SettingsPatch) error
	notifications *widget.Check
	sound         *widget.Check
	workDaysOnly  *widget.Check
	idlePause     *widget.Check
	workStart     *widget.Entry
	workEnd       *widget.Entry
	dailySummary  *widget.Entry
	breakMinutes  *widget.Entry
	hydration     *widget.Entry
	inspiration   *widget.Entry
}

// New creates a preferences window. onSave receives the validated patch; a
// returned error keeps the window open.
func New(app fyne.App, settings model.Settings, onSave func(model.SettingsPatch) error) *Window {
	window := app.NewWindow("WorkBuddy Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		notifications: widget.NewCheck("Show reminders", nil),
		sound:         widget.NewCheck("Play sound", nil),
		workDaysOnly:  widget.NewCheck("Only on work days (Mon–Fri)", nil),
		idlePause:     widget.NewCheck("Skip reminders while I'm away", nil),
		workStart:     widget.NewEntry(),
		workEnd:       widget.NewEntry(),
		dailySummary:  widget.NewEntry(),
		breakMinutes:  widget.NewEntry(),
		hydration:     widget.NewEntry(),
		inspiration:   widget.NewEntry(),
	}
	prefs.workStart.SetPlaceHolder("HH:MM")
	prefs.workEnd.SetPlaceHolder("HH:MM")
	prefs.dailySummary.SetPlaceHolder("HH:MM")

	form := widget.NewForm(
		widget.NewFormItem("Work day starts", prefs.workStart),
		widget.NewFormItem("Work day ends", prefs.workEnd),
		widget.NewFormItem("Daily summary at", prefs.dailySummary),
		widget.NewFormItem("Break every (min)", prefs.breakMinutes),
		widget.NewFormItem("Hydration every (min)", prefs.hydration),
		widget.NewFormItem("Inspiration every (min)", prefs.inspiration),
	)

	general := container.NewVBox(
		widget.NewLabelWithStyle("Reminders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		prefs.sound,
		prefs.workDaysOnly,
		prefs.idlePause,
		widget.NewLabelWithStyle("Schedule", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, general))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(420, 460))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	values := ValuesFrom(settings)
	prefs.notifications.SetChecked(values.NotificationsEnabled)
	prefs.sound.SetChecked(values.SoundEnabled)
	prefs.workDaysOnly.SetChecked(values.WorkDaysOnly)
	prefs.idlePause.SetChecked(values.IdlePauseReminders)
	prefs.workStart.SetText(values.WorkStart)
	prefs.workEnd.SetText(values.WorkEnd)
	prefs.dailySummary.SetText(values.DailySummary)
	prefs.breakMinutes.SetText(values.BreakMinutes)
	prefs.hydration.SetText(values.HydrationMinutes)
	prefs.inspiration.SetText(values.InspirationMinutes)
}

func (prefs *Window) values() Values {
	return Values{
		NotificationsEnabled: prefs.notifications.Checked,
		SoundEnabled:         prefs.sound.Checked,
		WorkDaysOnly:         prefs.workDaysOnly.Checked,
		IdlePauseReminders:   prefs.idlePause.Checked,
		WorkStart:            prefs.workStart.Text,
		WorkEnd:              prefs.workEnd.Text,
		DailySummary:         prefs.dailySummary.Text,
		BreakMinutes:         prefs.breakMinutes.Text,
		HydrationMinutes:     prefs.hydration.Text,
		InspirationMinutes:   prefs.inspiration.Text,
	}
}

func (prefs *Window) handleSave() {
	patch, err := prefs.values().Patch()
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	if prefs.onSave != nil {
		if err := prefs.onSave(patch); err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
	}
	prefs.window.Hide()
}
