package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type foregroundProvider struct {
	xdotoolPath string
}

type unsupportedForegroundProvider struct{}

func newForegroundProvider() ForegroundProvider {
	path, err := exec.LookPath("xdotool")
	if err != nil {
		return unsupportedForegroundProvider{}
	}
	return &foregroundProvider{xdotoolPath: path}
}

func (provider *foregroundProvider) ActiveWindow() (WindowInfo, error) {
	windowID, err := provider.run("getactivewindow")
	if err != nil || windowID == "" {
		return WindowInfo{}, ErrNoForegroundWindow
	}

	title, err := provider.run("getwindowname", windowID)
	if err != nil {
		return WindowInfo{}, fmt.Errorf("xdotool getwindowname: %w", err)
	}

	info := WindowInfo{Title: title, Process: unknownProcess}
	if pidText, err := provider.run("getwindowpid", windowID); err == nil {
		if pid, err := strconv.ParseInt(pidText, 10, 32); err == nil {
			info.PID = int32(pid)
			info.Process = processName(info.PID)
		}
	}
	return info, nil
}

func (provider *foregroundProvider) run(args ...string) (string, error) {
	output, err := exec.Command(provider.xdotoolPath, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func (unsupportedForegroundProvider) ActiveWindow() (WindowInfo, error) {
	return WindowInfo{}, ErrNoForegroundWindow
}
