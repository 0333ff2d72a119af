package gdi

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ScreenDC is a device context obtained with GetDC for a window, or for the
// whole screen when the window is 0. Close releases it with ReleaseDC.
type ScreenDC struct {
	api    API
	hwnd   HWND
	hdc    HDC
	closed bool
}

// AcquireScreenDC gets the device context of hwnd.
func AcquireScreenDC(api API, hwnd HWND) (*ScreenDC, error) {
	hdc := api.GetDC(hwnd)
	if hdc == 0 {
		return nil, osError(api, ErrHandleAcquisition, fmt.Sprintf("GetDC(%#x)", uintptr(hwnd)))
	}
	return &ScreenDC{api: api, hwnd: hwnd, hdc: hdc}, nil
}

// Handle returns the raw device context.
func (dc *ScreenDC) Handle() HDC { return dc.hdc }

func (dc *ScreenDC) Close() error {
	if dc.closed {
		return nil
	}
	dc.closed = true
	if !dc.api.ReleaseDC(dc.hwnd, dc.hdc) {
		return fmt.Errorf("ReleaseDC(%#x) failed", uintptr(dc.hdc))
	}
	return nil
}

// MemoryDC is an off-screen device context compatible with a source DC.
// Close deletes it with DeleteDC.
type MemoryDC struct {
	api    API
	hdc    HDC
	closed bool
}

// CreateMemoryDC creates a device context compatible with src.
func CreateMemoryDC(api API, src HDC) (*MemoryDC, error) {
	hdc := api.CreateCompatibleDC(src)
	if hdc == 0 {
		return nil, osError(api, ErrHandleAcquisition, "CreateCompatibleDC")
	}
	return &MemoryDC{api: api, hdc: hdc}, nil
}

func (dc *MemoryDC) Handle() HDC { return dc.hdc }

func (dc *MemoryDC) Close() error {
	if dc.closed {
		return nil
	}
	dc.closed = true
	if !dc.api.DeleteDC(dc.hdc) {
		return fmt.Errorf("DeleteDC(%#x) failed", uintptr(dc.hdc))
	}
	return nil
}

// Bitmap is a device-dependent bitmap. Close deletes it with DeleteObject.
type Bitmap struct {
	api    API
	hbmp   HBITMAP
	width  int32
	height int32
	closed bool
}

// CreateBitmap creates a width x height bitmap compatible with dc.
func CreateBitmap(api API, dc HDC, width, height int32) (*Bitmap, error) {
	hbmp := api.CreateCompatibleBitmap(dc, width, height)
	if hbmp == 0 {
		return nil, osError(api, ErrHandleAcquisition, fmt.Sprintf("CreateCompatibleBitmap(%dx%d)", width, height))
	}
	return &Bitmap{api: api, hbmp: hbmp, width: width, height: height}, nil
}

func (b *Bitmap) Handle() HBITMAP { return b.hbmp }

func (b *Bitmap) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if !b.api.DeleteObject(HGDIOBJ(b.hbmp)) {
		return fmt.Errorf("DeleteObject(%#x) failed", uintptr(b.hbmp))
	}
	return nil
}

// Selection restores the object a DC held before SelectObject. A bitmap must
// be deselected before it is deleted or read with GetDIBits.
type Selection struct {
	api    API
	hdc    HDC
	old    HGDIOBJ
	closed bool
}

// Select selects obj into hdc.
func Select(api API, hdc HDC, obj HGDIOBJ) (*Selection, error) {
	old := api.SelectObject(hdc, obj)
	if old == 0 || old == HGDI_ERROR {
		return nil, osError(api, ErrHandleAcquisition, "SelectObject")
	}
	return &Selection{api: api, hdc: hdc, old: old}, nil
}

func (s *Selection) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if prev := s.api.SelectObject(s.hdc, s.old); prev == 0 || prev == HGDI_ERROR {
		return fmt.Errorf("SelectObject restore on %#x failed", uintptr(s.hdc))
	}
	return nil
}

type closer interface {
	Close() error
}

// releaser closes everything pushed onto it in reverse order.
type releaser struct {
	stack []closer
}

func (r *releaser) push(c closer) {
	r.stack = append(r.stack, c)
}

// Release closes all pushed resources, last first, and keeps going past
// failures so that every handle gets its release call.
func (r *releaser) Release() error {
	var result *multierror.Error
	for i := len(r.stack) - 1; i >= 0; i-- {
		if err := r.stack[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	r.stack = nil
	return result.ErrorOrNil()
}
