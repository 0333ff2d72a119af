//go:build windows

package win_cap

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/Fast-IQ/winshot/win_cap/gdi"
	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// FindWindow returns the top-level window whose title is exactly title.
func FindWindow(title string) (gdi.HWND, error) {
	name, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("invalid window title %q: %w", title, err)
	}
	hwnd := win.FindWindow(nil, name)
	if hwnd == 0 {
		return 0, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}
	return gdi.HWND(hwnd), nil
}

var (
	windowsMu  sync.Mutex
	windowList []Window

	enumWindowsCallback = syscall.NewCallback(func(hwnd win.HWND, lParam uintptr) uintptr {
		if !win.IsWindowVisible(hwnd) {
			return 1
		}
		if title := windowText(hwnd); title != "" {
			windowList = append(windowList, Window{HWND: gdi.HWND(hwnd), Title: title})
		}
		return 1 // продолжаем
	})
)

// ListVisibleWindows returns the visible top-level windows that have a
// non-empty title, in Z order.
func ListVisibleWindows() ([]Window, error) {
	windowsMu.Lock()
	defer windowsMu.Unlock()

	windowList = nil
	if ret, _, err := funcEnumWindows.Call(enumWindowsCallback, 0); ret == 0 {
		return nil, errors.Join(errors.New("EnumWindows failed"), err)
	}
	return append([]Window(nil), windowList...), nil
}

// IsWindow reports whether hwnd still identifies an existing window.
func IsWindow(hwnd gdi.HWND) bool {
	ret, _, _ := funcIsWindow.Call(uintptr(hwnd))
	return ret != 0
}

func windowText(hwnd win.HWND) string {
	n, _, _ := funcGetWindowTextLength.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	got, _, _ := funcGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if got == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:got])
}
