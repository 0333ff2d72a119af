package gdi

import (
	"fmt"
	"log/slog"
	"runtime"
)

// lockThread pins the goroutine to its OS thread until the returned func
// is called. GDI handles and the last-error value belong to a thread.
var lockThread = func() (unlock func()) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}

// GDICapturer runs capture pipelines against an API. It holds no handles
// between calls; each call acquires and releases its own, so one capturer
// can serve concurrent callers.
type GDICapturer struct {
	API API
}

func NewGDICapturer(api API) *GDICapturer {
	return &GDICapturer{API: api}
}

// CaptureWindow renders hwnd into an off-screen bitmap and returns its
// pixels. Defaults: StrategyPrintWindow, AreaFull, FormatRGBA, no crop.
// StrategyRegionCopy works with AreaClientOnly only.
//
// A crop is clamped to the rendered rectangle; an empty result fails with
// ErrRectangleQuery.
//
// The whole call runs locked to one OS thread.
func (c *GDICapturer) CaptureWindow(hwnd HWND, opts ...Option) (*Buffer, error) {
	o := newOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	defer lockThread()()

	log := o.Logger.With(
		slog.String("hwnd", fmt.Sprintf("%#x", uintptr(hwnd))),
		slog.String("strategy", o.Strategy.String()),
		slog.String("area", o.Area.String()),
	)

	p, err := lookupPolicy(o.Strategy, o.Area)
	if err != nil {
		return nil, err
	}

	var r releaser
	defer c.release(log, &r)

	screen, err := AcquireScreenDC(c.API, hwnd)
	if err != nil {
		return nil, err
	}
	r.push(screen)

	rect, err := ResolveRect(c.API, hwnd, p.area)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved window rectangle", slog.Any("rect", rect.Bounds()))

	mem, bmp, sel, err := c.newSurface(&r, screen.Handle(), rect.Width(), rect.Height())
	if err != nil {
		return nil, err
	}
	if err := p.render(c.API, hwnd, screen.Handle(), mem.Handle(), rect); err != nil {
		return nil, err
	}

	// The render always covers the whole rectangle; a crop is a second blit.
	width, height := rect.Width(), rect.Height()
	if o.Crop != nil {
		crop, err := o.Crop.resolve(width, height)
		if err != nil {
			return nil, err
		}
		width, height = int32(crop.Dx()), int32(crop.Dy())

		cropMem, cropBmp, cropSel, err := c.newSurface(&r, screen.Handle(), width, height)
		if err != nil {
			return nil, err
		}
		if !c.API.BitBlt(cropMem.Handle(), 0, 0, width, height,
			mem.Handle(), int32(crop.Min.X), int32(crop.Min.Y), SRCCOPY) {
			return nil, osError(c.API, ErrRender, "BitBlt(crop)")
		}
		log.Debug("cropped", slog.Any("crop", crop))
		bmp, sel = cropBmp, cropSel
	}

	if err := sel.Close(); err != nil {
		return nil, fmt.Errorf("%w: deselecting bitmap: %w", ErrPixelExtraction, err)
	}
	buf, err := extractPixels(c.API, screen.Handle(), bmp.Handle(), width, height, o.Format, !o.BottomUp)
	if err != nil {
		return nil, err
	}
	log.Debug("window captured", slog.Int("width", buf.Width), slog.Int("height", buf.Height))
	return buf, nil
}

// CaptureDisplay copies the whole virtual screen, every monitor included.
// Only the Format, BottomUp and Logger options apply. Like CaptureWindow
// it runs locked to one OS thread.
func (c *GDICapturer) CaptureDisplay(opts ...Option) (*Buffer, error) {
	o := newOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	defer lockThread()()
	log := o.Logger

	x := c.API.GetSystemMetrics(SM_XVIRTUALSCREEN)
	y := c.API.GetSystemMetrics(SM_YVIRTUALSCREEN)
	width := c.API.GetSystemMetrics(SM_CXVIRTUALSCREEN)
	height := c.API.GetSystemMetrics(SM_CYVIRTUALSCREEN)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: virtual screen is %dx%d", ErrSystemMetrics, width, height)
	}
	log.Debug("virtual screen", slog.Int("x", int(x)), slog.Int("y", int(y)),
		slog.Int("width", int(width)), slog.Int("height", int(height)))

	var r releaser
	defer c.release(log, &r)

	screen, err := AcquireScreenDC(c.API, 0)
	if err != nil {
		return nil, err
	}
	r.push(screen)

	mem, bmp, sel, err := c.newSurface(&r, screen.Handle(), width, height)
	if err != nil {
		return nil, err
	}

	// Same size on both sides: a bulk copy, no scaling.
	if !c.API.StretchBlt(mem.Handle(), 0, 0, width, height,
		screen.Handle(), x, y, width, height, SRCCOPY) {
		return nil, osError(c.API, ErrRender, "StretchBlt")
	}

	if err := sel.Close(); err != nil {
		return nil, fmt.Errorf("%w: deselecting bitmap: %w", ErrPixelExtraction, err)
	}
	return extractPixels(c.API, screen.Handle(), bmp.Handle(), width, height, o.Format, !o.BottomUp)
}

// newSurface creates a memory DC compatible with src and a width x height
// bitmap selected into it. All three are pushed onto r.
func (c *GDICapturer) newSurface(r *releaser, src HDC, width, height int32) (*MemoryDC, *Bitmap, *Selection, error) {
	mem, err := CreateMemoryDC(c.API, src)
	if err != nil {
		return nil, nil, nil, err
	}
	r.push(mem)

	// Compatible with the screen DC: a fresh memory DC only has a
	// monochrome 1x1 bitmap.
	bmp, err := CreateBitmap(c.API, src, width, height)
	if err != nil {
		return nil, nil, nil, err
	}
	r.push(bmp)

	sel, err := Select(c.API, mem.Handle(), HGDIOBJ(bmp.Handle()))
	if err != nil {
		return nil, nil, nil, err
	}
	r.push(sel)
	return mem, bmp, sel, nil
}

func (c *GDICapturer) release(log *slog.Logger, r *releaser) {
	if err := r.Release(); err != nil {
		log.Warn("unable to release GDI handles", slog.Any("error", err))
	}
}
