package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type foregroundProvider struct{}

func newForegroundProvider() ForegroundProvider {
	return &foregroundProvider{}
}

func (provider *foregroundProvider) ActiveWindow() (WindowInfo, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return WindowInfo{}, ErrNoForegroundWindow
	}

	info := WindowInfo{Process: unknownProcess}
	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length > 0 {
		buffer := make([]uint16, length+1)
		procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buffer[0])), uintptr(len(buffer)))
		info.Title = windows.UTF16ToString(buffer)
	}

	var pid uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid != 0 {
		info.PID = int32(pid)
		info.Process = processName(info.PID)
	}
	return info, nil
}
