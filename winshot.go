// Package winshot captures the pixels of a single window, or of the whole
// virtual screen, through GDI. Only Windows is supported; other platforms
// get ErrUnsupported.
package winshot

import (
	"errors"
	"log/slog"

	"github.com/Fast-IQ/winshot/win_cap/gdi"
)

// ErrUnsupported is returned when the program is not built for Windows.
var ErrUnsupported = errors.New("winshot does not support your platform")

type (
	HWND     = gdi.HWND
	Buffer   = gdi.Buffer
	Option   = gdi.Option
	Strategy = gdi.Strategy
	Area     = gdi.Area
	Format   = gdi.Format
)

const (
	StrategyPrintWindow = gdi.StrategyPrintWindow
	StrategyRegionCopy  = gdi.StrategyRegionCopy

	AreaFull       = gdi.AreaFull
	AreaClientOnly = gdi.AreaClientOnly

	FormatRGBA = gdi.FormatRGBA
	FormatRGB  = gdi.FormatRGB
)

var (
	ErrHandleAcquisition      = gdi.ErrHandleAcquisition
	ErrRectangleQuery         = gdi.ErrRectangleQuery
	ErrRender                 = gdi.ErrRender
	ErrPixelExtraction        = gdi.ErrPixelExtraction
	ErrSystemMetrics          = gdi.ErrSystemMetrics
	ErrUnsupportedCombination = gdi.ErrUnsupportedCombination
)

var (
	WithStrategy     = gdi.WithStrategy
	WithArea         = gdi.WithArea
	WithCrop         = gdi.WithCrop
	WithCropOrigin   = gdi.WithCropOrigin
	WithCropSize     = gdi.WithCropSize
	WithFormat       = gdi.WithFormat
	WithBottomUpRows = gdi.WithBottomUpRows
	WithLogger       = gdi.WithLogger
)

// loggerFrom returns the logger set with WithLogger, or slog.Default().
func loggerFrom(opts []Option) *slog.Logger {
	var o gdi.Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
