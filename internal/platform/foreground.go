package platform

import (
	"errors"
	"strings"

	"github.com/shirou/gopsutil/process"
)

// ErrNoForegroundWindow indicates no window currently has focus.
var ErrNoForegroundWindow = errors.New("no foreground window")

const unknownProcess = "Unknown"

// WindowInfo describes the focused window.
type WindowInfo struct {
	Title   string
	Process string
	PID     int32
}

// ForegroundProvider reports the window that currently has user focus.
type ForegroundProvider interface {
	ActiveWindow() (WindowInfo, error)
}

// NewForegroundProvider returns a platform-specific foreground provider.
func NewForegroundProvider() ForegroundProvider {
	return newForegroundProvider()
}

// processName resolves a PID to its executable name.
func processName(pid int32) string {
	if pid <= 0 {
		return unknownProcess
	}
	proc, err := process.NewProcess(pid)
	if err != nil {
		return unknownProcess
	}
	name, err := proc.Name()
	if err != nil || strings.TrimSpace(name) == "" {
		return unknownProcess
	}
	return name
}

// IdentitySource turns the focused window into a normalised app identity.
type IdentitySource struct {
	provider ForegroundProvider
}

// NewIdentitySource wraps a foreground provider.
func NewIdentitySource(provider ForegroundProvider) *IdentitySource {
	return &IdentitySource{provider: provider}
}

// ActiveIdentity returns the identity of the focused app, or "" when there
// is no focused window.
func (source *IdentitySource) ActiveIdentity() (string, error) {
	if source == nil || source.provider == nil {
		return "", nil
	}
	info, err := source.provider.ActiveWindow()
	if err != nil {
		if errors.Is(err, ErrNoForegroundWindow) {
			return "", nil
		}
		return "", err
	}
	if strings.TrimSpace(info.Title) == "" {
		return "", nil
	}
	return NormalizeIdentity(info.Title, info.Process), nil
}
