package gdi

import "fmt"

// Strategy selects how window content gets into the off-screen bitmap.
type Strategy int

const (
	// StrategyPrintWindow asks the window to paint itself into the target,
	// including occluded and hardware-accelerated content. Slower, reliable.
	StrategyPrintWindow Strategy = iota
	// StrategyRegionCopy copies pixels from the window's screen DC. Fast, but
	// yields black for some accelerated windows and misses occluded parts.
	StrategyRegionCopy
)

func (s Strategy) String() string {
	switch s {
	case StrategyPrintWindow:
		return "print-window"
	case StrategyRegionCopy:
		return "region-copy"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// renderFunc draws the window content into dst, which has a bitmap of the
// resolved rectangle's size selected.
type renderFunc func(api API, hwnd HWND, src, dst HDC, rect Rect) error

type policy struct {
	area   Area
	render renderFunc
}

// policies is the strategy x area table. Missing entries are combinations
// that cannot work: region-copy reads the window DC, which only addresses
// the client surface.
var policies = map[Strategy]map[Area]policy{
	StrategyPrintWindow: {
		AreaFull:       {area: AreaFull, render: printWindow(PW_RENDERFULLCONTENT)},
		AreaClientOnly: {area: AreaClientOnly, render: printWindow(PW_RENDERFULLCONTENT | PW_CLIENTONLY)},
	},
	StrategyRegionCopy: {
		AreaClientOnly: {area: AreaClientOnly, render: regionCopy},
	},
}

func lookupPolicy(strategy Strategy, area Area) (policy, error) {
	byArea, ok := policies[strategy]
	if !ok {
		return policy{}, fmt.Errorf("%w: unknown strategy %v", ErrUnsupportedCombination, strategy)
	}
	p, ok := byArea[area]
	if !ok {
		return policy{}, fmt.Errorf("%w: %v with %v area", ErrUnsupportedCombination, strategy, area)
	}
	return p, nil
}

func printWindow(flags uint32) renderFunc {
	return func(api API, hwnd HWND, _, dst HDC, _ Rect) error {
		if !api.PrintWindow(hwnd, dst, flags) {
			return osError(api, ErrRender, fmt.Sprintf("PrintWindow(%#x, flags=%#x)", uintptr(hwnd), flags))
		}
		return nil
	}
}

func regionCopy(api API, _ HWND, src, dst HDC, rect Rect) error {
	if !api.BitBlt(dst, 0, 0, rect.Width(), rect.Height(), src, 0, 0, SRCCOPY) {
		return osError(api, ErrRender, "BitBlt")
	}
	return nil
}
