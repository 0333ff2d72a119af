package gdi

import (
	"errors"
	"fmt"
	"sync"
)

// fakeAPI is an in-memory GDI. Windows paint a deterministic pattern,
// bitmaps hold BGRA pixels, and every call is counted so tests can check
// that acquisitions and releases balance.
type fakeAPI struct {
	mu sync.Mutex

	next    uintptr
	windows map[HWND]*fakeWindow
	dcs     map[HDC]*fakeDC
	bitmaps map[HBITMAP]*fakeBitmap

	virtual RECT

	calls      map[string]int
	acquired   map[string]int
	failAt     map[string]int
	lastErr    error
	violations []string
}

type fakeWindow struct {
	window RECT
	client RECT
	// regionCopyBlack makes BitBlt from the window DC produce black, like
	// an accelerated surface does.
	regionCopyBlack bool
}

type fakeDC struct {
	hwnd     HWND
	memory   bool
	stock    HGDIOBJ
	selected HGDIOBJ
}

type fakeBitmap struct {
	w, h int
	pix  []byte // BGRA
}

const fakeAlpha = 0x7F

// pattern is the color at (x, y) of whatever surface is painted, as BGRA.
func pattern(x, y int) [4]byte {
	return [4]byte{byte(x + y), byte(y), byte(x), fakeAlpha}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		next:     0x100,
		windows:  map[HWND]*fakeWindow{},
		dcs:      map[HDC]*fakeDC{},
		bitmaps:  map[HBITMAP]*fakeBitmap{},
		calls:    map[string]int{},
		acquired: map[string]int{},
		failAt:   map[string]int{},
		virtual:  RECT{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
	}
}

// addWindow registers a window whose outer rectangle is at (x, y) with the
// given size, and a client area inset by a border and a title bar.
func (f *fakeAPI) addWindow(x, y, width, height int32) HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	hwnd := HWND(f.alloc())
	const border, title = 8, 31
	f.windows[hwnd] = &fakeWindow{
		window: RECT{Left: x, Top: y, Right: x + width, Bottom: y + height},
		client: RECT{Right: width - 2*border, Bottom: height - title - border},
	}
	return hwnd
}

// failNth makes the n-th call (1-based) of name fail.
func (f *fakeAPI) failNth(name string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAt[name] = n
}

func (f *fakeAPI) alloc() uintptr {
	f.next += 4
	return f.next
}

// call records name and reports whether it should fail.
func (f *fakeAPI) call(name string) bool {
	f.calls[name]++
	if n, ok := f.failAt[name]; ok && n == f.calls[name] {
		f.lastErr = fmt.Errorf("fake: %s failed", name)
		return true
	}
	f.lastErr = nil
	return false
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// balanced returns an error describing every unreleased handle or misuse.
func (f *fakeAPI) balanced() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	pairs := [][2]string{
		{"GetDC", "ReleaseDC"},
		{"CreateCompatibleDC", "DeleteDC"},
		{"CreateCompatibleBitmap", "DeleteObject"},
	}
	for _, p := range pairs {
		if f.acquired[p[0]] != f.calls[p[1]] {
			errs = append(errs, fmt.Errorf("%s=%d, %s=%d", p[0], f.acquired[p[0]], p[1], f.calls[p[1]]))
		}
	}
	if len(f.dcs) != 0 {
		errs = append(errs, fmt.Errorf("%d device contexts still live", len(f.dcs)))
	}
	if len(f.bitmaps) != 0 {
		errs = append(errs, fmt.Errorf("%d bitmaps still live", len(f.bitmaps)))
	}
	for _, v := range f.violations {
		errs = append(errs, errors.New(v))
	}
	return errors.Join(errs...)
}

func (f *fakeAPI) GetDC(hwnd HWND) HDC {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("GetDC") {
		return 0
	}
	if _, ok := f.windows[hwnd]; hwnd != 0 && !ok {
		f.lastErr = errors.New("fake: invalid window handle")
		return 0
	}
	f.acquired["GetDC"]++
	hdc := HDC(f.alloc())
	f.dcs[hdc] = &fakeDC{hwnd: hwnd}
	return hdc
}

func (f *fakeAPI) ReleaseDC(hwnd HWND, hdc HDC) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("ReleaseDC")
	dc, ok := f.dcs[hdc]
	if !ok || dc.memory {
		f.violations = append(f.violations, fmt.Sprintf("ReleaseDC on unknown or memory DC %#x", uintptr(hdc)))
		return false
	}
	if dc.hwnd != hwnd {
		f.violations = append(f.violations, fmt.Sprintf("ReleaseDC with window %#x, DC belongs to %#x", uintptr(hwnd), uintptr(dc.hwnd)))
	}
	delete(f.dcs, hdc)
	return true
}

func (f *fakeAPI) CreateCompatibleDC(hdc HDC) HDC {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("CreateCompatibleDC") {
		return 0
	}
	f.acquired["CreateCompatibleDC"]++
	mem := HDC(f.alloc())
	stock := HGDIOBJ(f.alloc())
	f.dcs[mem] = &fakeDC{memory: true, stock: stock, selected: stock}
	return mem
}

func (f *fakeAPI) DeleteDC(hdc HDC) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("DeleteDC")
	dc, ok := f.dcs[hdc]
	if !ok || !dc.memory {
		f.violations = append(f.violations, fmt.Sprintf("DeleteDC on unknown or screen DC %#x", uintptr(hdc)))
		return false
	}
	if dc.selected != dc.stock {
		f.violations = append(f.violations, fmt.Sprintf("DeleteDC %#x with a bitmap still selected", uintptr(hdc)))
	}
	delete(f.dcs, hdc)
	return true
}

func (f *fakeAPI) CreateCompatibleBitmap(hdc HDC, width, height int32) HBITMAP {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("CreateCompatibleBitmap") {
		return 0
	}
	if dc, ok := f.dcs[hdc]; !ok || dc.memory {
		f.violations = append(f.violations, "CreateCompatibleBitmap from a memory DC yields a monochrome bitmap")
	}
	if width <= 0 || height <= 0 {
		return 0
	}
	f.acquired["CreateCompatibleBitmap"]++
	hbmp := HBITMAP(f.alloc())
	f.bitmaps[hbmp] = &fakeBitmap{w: int(width), h: int(height), pix: make([]byte, 4*int(width)*int(height))}
	return hbmp
}

func (f *fakeAPI) DeleteObject(obj HGDIOBJ) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("DeleteObject")
	if _, ok := f.bitmaps[HBITMAP(obj)]; !ok {
		f.violations = append(f.violations, fmt.Sprintf("DeleteObject on unknown object %#x", uintptr(obj)))
		return false
	}
	if f.selectedIn(HBITMAP(obj)) != 0 {
		f.violations = append(f.violations, fmt.Sprintf("DeleteObject on selected bitmap %#x", uintptr(obj)))
	}
	delete(f.bitmaps, HBITMAP(obj))
	return true
}

func (f *fakeAPI) SelectObject(hdc HDC, obj HGDIOBJ) HGDIOBJ {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("SelectObject") {
		return 0
	}
	dc, ok := f.dcs[hdc]
	if !ok || !dc.memory {
		return HGDI_ERROR
	}
	if _, isBitmap := f.bitmaps[HBITMAP(obj)]; !isBitmap && obj != dc.stock {
		return 0
	}
	if other := f.selectedIn(HBITMAP(obj)); obj != dc.stock && other != 0 && other != hdc {
		f.violations = append(f.violations, "bitmap selected into two DCs")
	}
	old := dc.selected
	dc.selected = obj
	return old
}

func (f *fakeAPI) selectedIn(bmp HBITMAP) HDC {
	for hdc, dc := range f.dcs {
		if dc.memory && dc.selected == HGDIOBJ(bmp) {
			return hdc
		}
	}
	return 0
}

func (f *fakeAPI) GetWindowRect(hwnd HWND, rect *RECT) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("GetWindowRect") {
		return false
	}
	w, ok := f.windows[hwnd]
	if !ok {
		return false
	}
	*rect = w.window
	return true
}

func (f *fakeAPI) GetClientRect(hwnd HWND, rect *RECT) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("GetClientRect") {
		return false
	}
	w, ok := f.windows[hwnd]
	if !ok {
		return false
	}
	*rect = w.client
	return true
}

func (f *fakeAPI) GetSystemMetrics(index int32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("GetSystemMetrics")
	switch index {
	case SM_XVIRTUALSCREEN:
		return f.virtual.Left
	case SM_YVIRTUALSCREEN:
		return f.virtual.Top
	case SM_CXVIRTUALSCREEN:
		return f.virtual.Right - f.virtual.Left
	case SM_CYVIRTUALSCREEN:
		return f.virtual.Bottom - f.virtual.Top
	}
	return 0
}

// target returns the bitmap selected into a memory DC.
func (f *fakeAPI) target(hdc HDC) *fakeBitmap {
	dc, ok := f.dcs[hdc]
	if !ok || !dc.memory {
		return nil
	}
	return f.bitmaps[HBITMAP(dc.selected)]
}

func (f *fakeAPI) PrintWindow(hwnd HWND, hdc HDC, flags uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("PrintWindow") {
		return false
	}
	w, ok := f.windows[hwnd]
	dst := f.target(hdc)
	if !ok || dst == nil {
		return false
	}
	// Client-only output is the window output shifted by the client origin.
	var dx, dy int
	if flags&PW_CLIENTONLY != 0 {
		dx, dy = 8, 31
	}
	for y := 0; y < dst.h; y++ {
		for x := 0; x < dst.w; x++ {
			if flags&PW_CLIENTONLY == 0 && (x >= int(w.window.Right-w.window.Left) || y >= int(w.window.Bottom-w.window.Top)) {
				continue
			}
			p := pattern(x+dx, y+dy)
			copy(dst.pix[4*(y*dst.w+x):], p[:])
		}
	}
	return true
}

// sourcePixel returns the pixel at (x, y) of the surface behind src.
func (f *fakeAPI) sourcePixel(src HDC, x, y int) ([4]byte, bool) {
	dc, ok := f.dcs[src]
	if !ok {
		return [4]byte{}, false
	}
	if dc.memory {
		b := f.bitmaps[HBITMAP(dc.selected)]
		if b == nil || x < 0 || y < 0 || x >= b.w || y >= b.h {
			return [4]byte{}, false
		}
		var p [4]byte
		copy(p[:], b.pix[4*(y*b.w+x):])
		return p, true
	}
	if dc.hwnd == 0 {
		return pattern(x, y), true
	}
	w, ok := f.windows[dc.hwnd]
	if !ok {
		return [4]byte{}, false
	}
	if w.regionCopyBlack {
		return [4]byte{}, true
	}
	// The window DC addresses the client area.
	return pattern(x+8, y+31), true
}

func (f *fakeAPI) BitBlt(dst HDC, x, y, width, height int32, src HDC, srcX, srcY int32, rop uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("BitBlt") {
		return false
	}
	return f.blit(dst, x, y, width, height, src, srcX, srcY, rop)
}

func (f *fakeAPI) StretchBlt(dst HDC, x, y, width, height int32, src HDC, srcX, srcY, srcWidth, srcHeight int32, rop uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("StretchBlt") {
		return false
	}
	if width != srcWidth || height != srcHeight {
		f.violations = append(f.violations, "StretchBlt used with scaling")
	}
	return f.blit(dst, x, y, width, height, src, srcX, srcY, rop)
}

func (f *fakeAPI) blit(dst HDC, x, y, width, height int32, src HDC, srcX, srcY int32, rop uint32) bool {
	out := f.target(dst)
	if out == nil || rop != SRCCOPY {
		return false
	}
	for j := 0; j < int(height); j++ {
		for i := 0; i < int(width); i++ {
			dx, dy := int(x)+i, int(y)+j
			if dx < 0 || dy < 0 || dx >= out.w || dy >= out.h {
				continue
			}
			p, ok := f.sourcePixel(src, int(srcX)+i, int(srcY)+j)
			if !ok {
				continue
			}
			copy(out.pix[4*(dy*out.w+dx):], p[:])
		}
	}
	return true
}

func (f *fakeAPI) GetDIBits(hdc HDC, bmp HBITMAP, start, lines uint32, bits []byte, header *BITMAPINFOHEADER) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.call("GetDIBits") {
		return 0
	}
	b, ok := f.bitmaps[bmp]
	if !ok {
		return 0
	}
	if f.selectedIn(bmp) != 0 {
		f.violations = append(f.violations, "GetDIBits on a selected bitmap")
	}
	if header.BiSize != 40 || header.BiPlanes != 1 || header.BiCompression != BI_RGB || int(header.BiWidth) != b.w {
		return ERROR_INVALID_PARAMETER
	}
	h := int(header.BiHeight)
	topDown := h < 0
	if topDown {
		h = -h
	}
	bpp := int(header.BiBitCount) / 8
	stride := dibStride(b.w, header.BiBitCount)
	if len(bits) < stride*int(lines) {
		return 0
	}
	n := 0
	for row := int(start); row < int(start+lines) && row < b.h && row < h; row++ {
		srcRow := row
		if !topDown {
			srcRow = b.h - 1 - row
		}
		for x := 0; x < b.w; x++ {
			copy(bits[row*stride+x*bpp:row*stride+(x+1)*bpp], b.pix[4*(srcRow*b.w+x):])
		}
		n++
	}
	return int32(n)
}

func (f *fakeAPI) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}
