package gdi

import (
	"fmt"
	"image"
)

// Area selects which rectangle of a window is captured.
type Area int

const (
	// AreaFull is the outer window rectangle, title bar and borders included.
	AreaFull Area = iota
	// AreaClientOnly is the interior drawable region only.
	AreaClientOnly
)

func (a Area) String() string {
	switch a {
	case AreaFull:
		return "full"
	case AreaClientOnly:
		return "client"
	default:
		return fmt.Sprintf("Area(%d)", int(a))
	}
}

// Rect is a resolved window rectangle. For AreaFull it is in screen
// coordinates, for AreaClientOnly it is relative to the client origin.
type Rect struct {
	Left, Top, Right, Bottom int32
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Bounds returns the rectangle as an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

// ResolveRect queries the rectangle of hwnd selected by area. It is
// recomputed on every call since windows move and resize between captures.
func ResolveRect(api API, hwnd HWND, area Area) (Rect, error) {
	var (
		rc   RECT
		ok   bool
		call string
	)
	switch area {
	case AreaFull:
		ok, call = api.GetWindowRect(hwnd, &rc), "GetWindowRect"
	case AreaClientOnly:
		ok, call = api.GetClientRect(hwnd, &rc), "GetClientRect"
	default:
		return Rect{}, fmt.Errorf("%w: unknown area %v", ErrRectangleQuery, area)
	}
	if !ok {
		return Rect{}, osError(api, ErrRectangleQuery, fmt.Sprintf("%s(%#x)", call, uintptr(hwnd)))
	}

	r := Rect{Left: rc.Left, Top: rc.Top, Right: rc.Right, Bottom: rc.Bottom}
	if r.Width() <= 0 || r.Height() <= 0 {
		return Rect{}, fmt.Errorf("%w: %s(%#x) returned degenerate size %dx%d",
			ErrRectangleQuery, call, uintptr(hwnd), r.Width(), r.Height())
	}
	return r, nil
}
