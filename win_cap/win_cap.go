// Package win_cap holds the Windows helpers around the GDI capture core:
// window lookup, monitor enumeration and the OS version query.
package win_cap

import (
	"errors"

	"github.com/Fast-IQ/winshot/win_cap/gdi"
)

// ErrWindowNotFound is returned by FindWindow when no top-level window has
// the requested title.
var ErrWindowNotFound = errors.New("window not found")

// Window is a top-level window and its title.
type Window struct {
	HWND  gdi.HWND
	Title string
}
