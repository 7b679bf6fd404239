package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	mutterIdleService = "org.gnome.Mutter.IdleMonitor"
	mutterIdlePath    = dbus.ObjectPath("/org/gnome/Mutter/IdleMonitor/Core")
	mutterIdleMethod  = mutterIdleService + ".GetIdletime"
)

// Wayland sessions ask the compositor first. xprintidle only sees X11 input.
func newIdleProvider() IdleProvider {
	var probes []IdleProvider
	wayland := strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland")
	if wayland {
		probes = append(probes, &mutterIdleProvider{})
	}
	if path, err := exec.LookPath("xprintidle"); err == nil {
		probes = append(probes, &xprintidleProvider{path: path})
	}
	if !wayland {
		probes = append(probes, &mutterIdleProvider{})
	}
	return newIdleChain(probes...)
}

type xprintidleProvider struct {
	path string
}

func (provider *xprintidleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

// mutterIdleProvider reads GNOME's idle monitor over the session bus.
type mutterIdleProvider struct{}

func (provider *mutterIdleProvider) IdleDuration() (time.Duration, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("connect session bus: %w", err)
	}
	var millis uint64
	call := conn.Object(mutterIdleService, mutterIdlePath).Call(mutterIdleMethod, 0)
	if err := call.Store(&millis); err != nil {
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return time.Duration(millis) * time.Millisecond, nil
}
