package gdi

import (
	"errors"
	"fmt"
	"image"
)

// Error kinds returned by the capture pipelines. Every error coming out of
// CaptureWindow or CaptureDisplay wraps exactly one of them; test with
// errors.Is. None of them is retried internally.
var (
	ErrHandleAcquisition      = errors.New("handle acquisition failed")
	ErrRectangleQuery         = errors.New("rectangle query failed")
	ErrRender                 = errors.New("render failed")
	ErrPixelExtraction        = errors.New("pixel extraction failed")
	ErrSystemMetrics          = errors.New("system metrics unavailable")
	ErrUnsupportedCombination = errors.New("unsupported strategy and area combination")
)

// osError wraps kind with the failing call and, when the OS reported one,
// its last error.
func osError(api API, kind error, call string) error {
	if lastErr := api.LastError(); lastErr != nil {
		return fmt.Errorf("%w: %s: %w", kind, call, lastErr)
	}
	return fmt.Errorf("%w: %s", kind, call)
}

func errEmptyCrop(origin, size image.Point) error {
	return fmt.Errorf("%w: crop of %v at %v is empty within the source", ErrRectangleQuery, size, origin)
}
