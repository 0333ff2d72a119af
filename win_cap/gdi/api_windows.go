//go:build windows

package gdi

import (
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// === Подключаем Windows API функции ===
var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	funcPrintWindow      = user32.NewProc("PrintWindow")
	funcGetDesktopWindow = user32.NewProc("GetDesktopWindow")
)

type systemAPI struct{}

// System returns the API backed by user32/gdi32.
func System() API {
	return systemAPI{}
}

func (systemAPI) GetDC(hwnd HWND) HDC {
	return HDC(win.GetDC(win.HWND(hwnd)))
}

func (systemAPI) ReleaseDC(hwnd HWND, hdc HDC) bool {
	return win.ReleaseDC(win.HWND(hwnd), win.HDC(hdc))
}

func (systemAPI) CreateCompatibleDC(hdc HDC) HDC {
	return HDC(win.CreateCompatibleDC(win.HDC(hdc)))
}

func (systemAPI) DeleteDC(hdc HDC) bool {
	return win.DeleteDC(win.HDC(hdc))
}

func (systemAPI) CreateCompatibleBitmap(hdc HDC, width, height int32) HBITMAP {
	return HBITMAP(win.CreateCompatibleBitmap(win.HDC(hdc), width, height))
}

func (systemAPI) DeleteObject(obj HGDIOBJ) bool {
	return win.DeleteObject(win.HGDIOBJ(obj))
}

func (systemAPI) SelectObject(hdc HDC, obj HGDIOBJ) HGDIOBJ {
	return HGDIOBJ(win.SelectObject(win.HDC(hdc), win.HGDIOBJ(obj)))
}

func (systemAPI) GetWindowRect(hwnd HWND, rect *RECT) bool {
	return win.GetWindowRect(win.HWND(hwnd), (*win.RECT)(unsafe.Pointer(rect)))
}

func (systemAPI) GetClientRect(hwnd HWND, rect *RECT) bool {
	return win.GetClientRect(win.HWND(hwnd), (*win.RECT)(unsafe.Pointer(rect)))
}

func (systemAPI) GetSystemMetrics(index int32) int32 {
	return win.GetSystemMetrics(index)
}

func (systemAPI) PrintWindow(hwnd HWND, hdc HDC, flags uint32) bool {
	ret, _, _ := funcPrintWindow.Call(uintptr(hwnd), uintptr(hdc), uintptr(flags))
	return ret != 0
}

func (systemAPI) BitBlt(dst HDC, x, y, width, height int32, src HDC, srcX, srcY int32, rop uint32) bool {
	return win.BitBlt(win.HDC(dst), x, y, width, height, win.HDC(src), srcX, srcY, rop)
}

func (systemAPI) StretchBlt(dst HDC, x, y, width, height int32, src HDC, srcX, srcY, srcWidth, srcHeight int32, rop uint32) bool {
	return win.StretchBlt(win.HDC(dst), x, y, width, height, win.HDC(src), srcX, srcY, srcWidth, srcHeight, rop)
}

// GetDIBits balks at using Go memory on some systems. The MSDN example uses
// GlobalAlloc, so we'll do that too and copy the result out. See:
// https://docs.microsoft.com/en-gb/windows/desktop/gdi/capturing-an-image
func (systemAPI) GetDIBits(hdc HDC, bmp HBITMAP, start, lines uint32, bits []byte, header *BITMAPINFOHEADER) int32 {
	if len(bits) == 0 {
		return 0
	}
	hDIB := win.GlobalAlloc(win.GMEM_MOVEABLE, uintptr(len(bits)))
	if hDIB == 0 {
		return 0
	}
	defer win.GlobalFree(hDIB)
	lpbitmap := win.GlobalLock(hDIB)
	if lpbitmap == nil {
		return 0
	}
	defer win.GlobalUnlock(hDIB)

	n := win.GetDIBits(win.HDC(hdc), win.HBITMAP(bmp),
		start,
		lines,
		(*uint8)(lpbitmap),
		(*win.BITMAPINFO)(unsafe.Pointer(header)),
		win.DIB_RGB_COLORS)
	if n > 0 {
		copy(bits, unsafe.Slice((*byte)(lpbitmap), len(bits)))
	}
	return n
}

func (systemAPI) LastError() error {
	return windows.GetLastError()
}

// GetDesktopWindow returns the handle of the desktop window.
func GetDesktopWindow() HWND {
	ret, _, _ := funcGetDesktopWindow.Call()
	return HWND(ret)
}
