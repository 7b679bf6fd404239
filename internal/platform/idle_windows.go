package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

type lastInputInfo struct {
	size uint32
	time uint32
}

type lastInputProvider struct{}

func newIdleProvider() IdleProvider {
	return lastInputProvider{}
}

// IdleDuration compares the last input tick with the current tick count.
// Both are milliseconds since boot; the input tick wraps after 49.7 days.
func (lastInputProvider) IdleDuration() (time.Duration, error) {
	if err := procGetLastInputInfo.Find(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIdleUnsupported, err)
	}
	info := lastInputInfo{size: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	now := uint32(windows.GetTickCount64())
	return time.Duration(now-info.time) * time.Millisecond, nil
}
