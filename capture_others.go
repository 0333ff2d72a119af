//go:build !windows

package winshot

import (
	"image"

	"github.com/Fast-IQ/winshot/win_cap"
)

func CaptureWindow(hwnd HWND, opts ...Option) (*Buffer, error) {
	return nil, ErrUnsupported
}

func CaptureWindowByTitle(title string, opts ...Option) (*Buffer, error) {
	return nil, ErrUnsupported
}

func CaptureDisplay(opts ...Option) (*Buffer, error) {
	return nil, ErrUnsupported
}

func FindWindow(title string) (HWND, error) {
	return 0, ErrUnsupported
}

func ListWindows() ([]win_cap.Window, error) {
	return nil, ErrUnsupported
}

func NumActiveDisplays() int {
	return 0
}

func GetDisplayBounds(displayIndex int) (image.Rectangle, error) {
	return image.Rectangle{}, ErrUnsupported
}
