//go:build windows

package winshot

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/Fast-IQ/winshot/win_cap"
	"github.com/Fast-IQ/winshot/win_cap/gdi"
)

var (
	capturer = gdi.NewGDICapturer(gdi.System())

	checkVersion sync.Once
)

// CaptureWindow captures hwnd. See gdi.GDICapturer.CaptureWindow for the
// options it honors. On the first call it warns through the WithLogger
// logger when the OS cannot render accelerated windows with PrintWindow.
func CaptureWindow(hwnd HWND, opts ...Option) (*Buffer, error) {
	if !win_cap.IsWindow(hwnd) {
		return nil, fmt.Errorf("%w: %#x is not a window", ErrHandleAcquisition, uintptr(hwnd))
	}
	checkVersion.Do(func() {
		if !win_cap.SupportsRenderFullContent() {
			major, minor := win_cap.GetWindowsVersion()
			loggerFrom(opts).Warn("PrintWindow renders hardware-accelerated windows black before Windows 8.1",
				slog.Int("major", int(major)), slog.Int("minor", int(minor)))
		}
	})
	return capturer.CaptureWindow(hwnd, opts...)
}

// CaptureWindowByTitle finds the top-level window titled title and captures it.
func CaptureWindowByTitle(title string, opts ...Option) (*Buffer, error) {
	hwnd, err := win_cap.FindWindow(title)
	if err != nil {
		return nil, err
	}
	return CaptureWindow(hwnd, opts...)
}

// CaptureDisplay captures the whole virtual screen.
func CaptureDisplay(opts ...Option) (*Buffer, error) {
	return capturer.CaptureDisplay(opts...)
}

// FindWindow returns the top-level window whose title is exactly title, or
// an error wrapping win_cap.ErrWindowNotFound.
func FindWindow(title string) (HWND, error) {
	return win_cap.FindWindow(title)
}

// ListWindows returns the visible top-level windows with a title.
func ListWindows() ([]win_cap.Window, error) {
	return win_cap.ListVisibleWindows()
}

func NumActiveDisplays() int {
	return win_cap.NumActiveDisplays()
}

// GetDisplayBounds returns the bounds of displayIndex'th display in virtual
// screen coordinates.
func GetDisplayBounds(displayIndex int) (image.Rectangle, error) {
	return win_cap.GetDisplayBounds(displayIndex)
}
