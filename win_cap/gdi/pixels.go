package gdi

import (
	"encoding/binary"
	"fmt"
	"image"
	"runtime"
	"sync"
	"unsafe"

	"github.com/klauspost/cpuid"
)

// Format is the caller-facing pixel layout of a Buffer.
type Format int

const (
	// FormatRGBA is 4 bytes per pixel, read as a 32-bit DIB.
	FormatRGBA Format = iota
	// FormatRGB is 3 bytes per pixel, read as a 24-bit DIB.
	FormatRGB
)

func (f Format) Channels() int {
	if f == FormatRGB {
		return 3
	}
	return 4
}

func (f Format) valid() bool {
	return f == FormatRGBA || f == FormatRGB
}

func (f Format) bitCount() uint16 {
	return uint16(f.Channels() * 8)
}

func (f Format) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatRGB:
		return "rgb"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Buffer is the result of a capture: tightly packed rows, top row first,
// channels in Format order. len(Pixels) == Channels()*Width*Height.
type Buffer struct {
	Pixels []byte
	Width  int
	Height int
	Format Format
}

func (b *Buffer) Channels() int { return b.Format.Channels() }
func (b *Buffer) Stride() int   { return b.Width * b.Channels() }

// Image copies the buffer into an *image.RGBA with alpha set to 255. GDI
// leaves the alpha byte undefined for BI_RGB reads.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	ch := b.Channels()
	for i, j := 0, 0; i+ch <= len(b.Pixels) && j+4 <= len(img.Pix); i, j = i+ch, j+4 {
		img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = b.Pixels[i], b.Pixels[i+1], b.Pixels[i+2], 255
	}
	return img
}

// dibStride is the DIB row size: rows are padded to a 4 byte boundary.
func dibStride(width int, bitCount uint16) int {
	return ((width*int(bitCount) + 31) / 32) * 4
}

func newDIBHeader(width, height int32, format Format, topDown bool) BITMAPINFOHEADER {
	h := BITMAPINFOHEADER{
		BiWidth:       width,
		BiHeight:      height,
		BiPlanes:      1,
		BiBitCount:    format.bitCount(),
		BiCompression: BI_RGB,
	}
	h.BiSize = uint32(unsafe.Sizeof(h))
	if topDown {
		h.BiHeight = -height
	}
	return h
}

// extractPixels reads bmp through GetDIBits and post-processes the result
// into a Buffer. bmp must not be selected into any DC.
func extractPixels(api API, hdc HDC, bmp HBITMAP, width, height int32, format Format, topDown bool) (*Buffer, error) {
	hdr := newDIBHeader(width, height, format, topDown)
	stride := dibStride(int(width), hdr.BiBitCount)
	raw := make([]byte, stride*int(height))

	n := api.GetDIBits(hdc, bmp, 0, uint32(height), raw, &hdr)
	// A short count covers both 0 and the ERROR_INVALID_PARAMETER return.
	if n != height {
		if n <= 0 {
			return nil, osError(api, ErrPixelExtraction, "GetDIBits")
		}
		return nil, fmt.Errorf("%w: GetDIBits copied %d of %d lines", ErrPixelExtraction, n, height)
	}

	ch := format.Channels()
	pix := CompactRows(raw, stride, int(width)*ch, int(height))
	postProcess(pix, int(width)*ch, int(height), ch, topDown)
	return &Buffer{
		Pixels: pix,
		Width:  int(width),
		Height: int(height),
		Format: format,
	}, nil
}

// postProcess turns GDI's BGR(A) into RGB(A) and makes rows top-down.
func postProcess(pix []byte, stride, height, channels int, topDown bool) {
	SwapRB(pix, channels)
	if !topDown {
		FlipRows(pix, stride, height)
	}
}

// CompactRows drops DIB row padding. It reuses buf when there is none.
func CompactRows(buf []byte, srcStride, rowLen, height int) []byte {
	if srcStride == rowLen {
		return buf[:rowLen*height]
	}
	out := make([]byte, rowLen*height)
	for y := 0; y < height; y++ {
		copy(out[y*rowLen:(y+1)*rowLen], buf[y*srcStride:y*srcStride+rowLen])
	}
	return out
}

// FlipRows reverses the row order of buf in place.
func FlipRows(buf []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := buf[top*stride : (top+1)*stride]
		b := buf[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// A 32-bit frame is swapped in chunks of at least swapChunk bytes on up to
// swapWorkers goroutines. One chunk fits the per-core L2 cache.
var (
	swapChunk   = l2ChunkSize()
	swapWorkers = logicalCores()
)

func l2ChunkSize() int {
	if l2 := cpuid.CPU.Cache.L2; l2 >= 64<<10 {
		return l2 &^ 7
	}
	return 256 << 10
}

func logicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// SwapRB swaps the first and third byte of every pixel in place. Applying
// it twice restores the original order.
func SwapRB(buf []byte, channels int) {
	switch channels {
	case 4:
		swapBGRtoRGB32(buf)
	case 3:
		for i := 0; i+2 < len(buf); i += 3 {
			buf[i], buf[i+2] = buf[i+2], buf[i]
		}
	}
}

func swapBGRtoRGB32(buf []byte) {
	if swapWorkers <= 1 || len(buf) < 2*swapChunk {
		swapBGRtoRGB_Wide(buf, buf)
		return
	}
	// Chunks stay multiples of 8 so every goroutine works on whole words.
	chunk := max(swapChunk, (len(buf)/swapWorkers+7)&^7)
	var wg sync.WaitGroup
	for off := 0; off < len(buf); off += chunk {
		part := buf[off:min(off+chunk, len(buf))]
		wg.Add(1)
		go func() {
			defer wg.Done()
			swapBGRtoRGB_Wide(part, part)
		}()
	}
	wg.Wait()
}

// swapBGRtoRGB_Go converts BGRx to RGBx one pixel at a time. src and dst
// may be the same slice.
func swapBGRtoRGB_Go(src, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		b, g, r, a := src[i], src[i+1], src[i+2], src[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, a
	}
}

// swapBGRtoRGB_Wide does the same two pixels per 64-bit word.
func swapBGRtoRGB_Wide(src, dst []byte) {
	const (
		keep = 0xFF00FF00FF00FF00
		low  = 0x000000FF000000FF
	)
	n := min(len(src), len(dst)) &^ 7
	for i := 0; i < n; i += 8 {
		v := binary.LittleEndian.Uint64(src[i:])
		v = v&keep | (v&low)<<16 | (v>>16)&low
		binary.LittleEndian.PutUint64(dst[i:], v)
	}
	swapBGRtoRGB_Go(src[n:], dst[n:])
}
