package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const frontWindowScript = `tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appPID to unix id of frontApp
	set windowTitle to ""
	try
		set windowTitle to name of front window of frontApp
	end try
	return (appPID as text) & linefeed & windowTitle
end tell`

type foregroundProvider struct{}

func newForegroundProvider() ForegroundProvider {
	return &foregroundProvider{}
}

func (provider *foregroundProvider) ActiveWindow() (WindowInfo, error) {
	output, err := exec.Command("osascript", "-e", frontWindowScript).Output()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("osascript: %w", err)
	}

	pidText, title, _ := strings.Cut(strings.TrimRight(string(output), "\n"), "\n")
	pid, err := strconv.ParseInt(strings.TrimSpace(pidText), 10, 32)
	if err != nil {
		return WindowInfo{}, ErrNoForegroundWindow
	}

	name := processName(int32(pid))
	title = strings.TrimSpace(title)
	if title == "" {
		title = name
	}
	return WindowInfo{Title: title, Process: name, PID: int32(pid)}, nil
}
