//go:build windows

package win_cap

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	monitorsMu sync.Mutex
	monitors   []image.Rectangle

	monitorCallback = windows.NewCallback(func(hMonitor win.HMONITOR, hdcMonitor win.HDC, lprcMonitor *win.RECT, dwData uintptr) uintptr {
		monitors = append(monitors, toImageRect(*lprcMonitor))
		return 1
	})
)

// DisplayBounds returns the bounds of every attached monitor in virtual
// screen coordinates, the primary one not necessarily first. Monitors are
// enumerated on every call; the layout can change at runtime.
func DisplayBounds() ([]image.Rectangle, error) {
	monitorsMu.Lock()
	defer monitorsMu.Unlock()

	monitors = nil
	if !EnumDisplayMonitors(0, nil, monitorCallback, 0) || len(monitors) == 0 {
		return nil, errors.New("no monitors found")
	}
	return append([]image.Rectangle(nil), monitors...), nil
}

// NumActiveDisplays returns the number of attached monitors, 0 on failure.
func NumActiveDisplays() int {
	bounds, err := DisplayBounds()
	if err != nil {
		return 0
	}
	return len(bounds)
}

// GetDisplayBounds returns the bounds of the displayIndex'th monitor.
func GetDisplayBounds(displayIndex int) (image.Rectangle, error) {
	bounds, err := DisplayBounds()
	if err != nil {
		return image.Rectangle{}, err
	}
	if displayIndex < 0 || displayIndex >= len(bounds) {
		return image.Rectangle{}, fmt.Errorf("invalid display index: %d", displayIndex)
	}
	return bounds[displayIndex], nil
}

func toImageRect(r win.RECT) image.Rectangle {
	if r.Right < r.Left || r.Bottom < r.Top {
		return image.Rect(0, 0, 0, 0)
	}
	return image.Rect(
		int(r.Left),
		int(r.Top),
		int(r.Right),
		int(r.Bottom),
	)
}
