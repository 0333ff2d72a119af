//go:build windows

package win_cap

import (
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	ntdll  = windows.NewLazySystemDLL("ntdll.dll")
	user32 = windows.NewLazySystemDLL("user32.dll")

	funcEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	funcEnumWindows         = user32.NewProc("EnumWindows")
	funcGetWindowTextW      = user32.NewProc("GetWindowTextW")
	funcGetWindowTextLength = user32.NewProc("GetWindowTextLengthW")
	funcIsWindow            = user32.NewProc("IsWindow")

	procRtlGetNtVersionNumbers = ntdll.NewProc("RtlGetNtVersionNumbers")
)

func EnumDisplayMonitors(hdc win.HDC, lprcClip *win.RECT, lpfnEnum uintptr, dwData uintptr) bool {
	ret, _, _ := funcEnumDisplayMonitors.Call(
		uintptr(hdc),
		uintptr(unsafe.Pointer(lprcClip)),
		lpfnEnum,
		dwData,
	)
	return ret != 0
}

// GetWindowsVersion returns the real NT version, unaffected by the
// compatibility manifest.
func GetWindowsVersion() (major, minor uint32) {
	if procRtlGetNtVersionNumbers.Find() == nil {
		var build uint32
		procRtlGetNtVersionNumbers.Call(
			uintptr(unsafe.Pointer(&major)),
			uintptr(unsafe.Pointer(&minor)),
			uintptr(unsafe.Pointer(&build)),
		)
	}
	return
}

// SupportsRenderFullContent reports whether PrintWindow understands
// PW_RENDERFULLCONTENT (Windows 8.1 and later). Older systems ignore the
// flag and render accelerated windows black.
func SupportsRenderFullContent() bool {
	major, minor := GetWindowsVersion()
	return major > 6 || (major == 6 && minor >= 3)
}
