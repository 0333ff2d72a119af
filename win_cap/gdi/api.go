package gdi

// Handle kinds mirror the Win32 ones but stay platform-neutral, so the
// capture pipelines build and test on any OS.
type (
	HWND    uintptr
	HDC     uintptr
	HBITMAP uintptr
	HGDIOBJ uintptr
)

// HGDI_ERROR is what SelectObject returns on failure for region objects.
const HGDI_ERROR = HGDIOBJ(^uintptr(0))

// === Константы ===
const (
	BI_RGB         = 0
	DIB_RGB_COLORS = 0
	SRCCOPY        = 0x00CC0020

	PW_CLIENTONLY        = 0x1
	PW_RENDERFULLCONTENT = 0x2

	SM_XVIRTUALSCREEN  = 76
	SM_YVIRTUALSCREEN  = 77
	SM_CXVIRTUALSCREEN = 78
	SM_CYVIRTUALSCREEN = 79

	// GetDIBits may return this instead of 0 on a bad BITMAPINFO.
	ERROR_INVALID_PARAMETER = 87
)

// RECT has the layout of the Win32 RECT.
type RECT struct {
	Left, Top, Right, Bottom int32
}

// BITMAPINFOHEADER has the layout of the Win32 BITMAPINFOHEADER.
type BITMAPINFOHEADER struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

// API is the set of OS primitives the capture pipelines are built from.
// Return values follow the Win32 conventions: zero handles and false
// results are failures, and LastError reports the thread's last error.
type API interface {
	GetDC(hwnd HWND) HDC
	ReleaseDC(hwnd HWND, hdc HDC) bool
	CreateCompatibleDC(hdc HDC) HDC
	DeleteDC(hdc HDC) bool
	CreateCompatibleBitmap(hdc HDC, width, height int32) HBITMAP
	DeleteObject(obj HGDIOBJ) bool
	SelectObject(hdc HDC, obj HGDIOBJ) HGDIOBJ

	GetWindowRect(hwnd HWND, rect *RECT) bool
	GetClientRect(hwnd HWND, rect *RECT) bool
	GetSystemMetrics(index int32) int32

	PrintWindow(hwnd HWND, hdc HDC, flags uint32) bool
	BitBlt(dst HDC, x, y, width, height int32, src HDC, srcX, srcY int32, rop uint32) bool
	StretchBlt(dst HDC, x, y, width, height int32, src HDC, srcX, srcY, srcWidth, srcHeight int32, rop uint32) bool

	// GetDIBits copies scan lines of bmp into bits in the format described by
	// header and returns the number of lines copied.
	GetDIBits(hdc HDC, bmp HBITMAP, start, lines uint32, bits []byte, header *BITMAPINFOHEADER) int32

	LastError() error
}
