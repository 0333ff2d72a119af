package gdi

import (
	"fmt"
	"image"
	"log/slog"
)

// Crop is a sub-rectangle of the rendered window rectangle, relative to its
// top-left corner. A nil origin means (0, 0); a nil size means everything
// from the origin to the right and bottom edges.
type Crop struct {
	Origin *image.Point
	Size   *image.Point
}

// Options configures a single capture call.
type Options struct {
	Strategy Strategy
	Area     Area
	Crop     *Crop
	Format   Format
	// BottomUp reads the DIB bottom-up and flips the rows in memory
	// instead of asking GDI for top-down rows.
	BottomUp bool
	Logger   *slog.Logger
}

type Option func(*Options)

func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

func WithArea(a Area) Option {
	return func(o *Options) { o.Area = a }
}

// WithCrop captures only the width x height rectangle at (x, y).
func WithCrop(x, y, width, height int) Option {
	return func(o *Options) {
		o.Crop = &Crop{Origin: &image.Point{X: x, Y: y}, Size: &image.Point{X: width, Y: height}}
	}
}

// WithCropOrigin crops from (x, y) to the bottom-right corner, unless a
// size is set as well.
func WithCropOrigin(x, y int) Option {
	return func(o *Options) {
		if o.Crop == nil {
			o.Crop = &Crop{}
		}
		o.Crop.Origin = &image.Point{X: x, Y: y}
	}
}

// WithCropSize crops width x height starting at the origin, (0, 0) unless
// set with WithCropOrigin.
func WithCropSize(width, height int) Option {
	return func(o *Options) {
		if o.Crop == nil {
			o.Crop = &Crop{}
		}
		o.Crop.Size = &image.Point{X: width, Y: height}
	}
}

func WithFormat(f Format) Option {
	return func(o *Options) { o.Format = f }
}

func WithBottomUpRows() Option {
	return func(o *Options) { o.BottomUp = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func newOptions(opts []Option) Options {
	o := Options{
		Strategy: StrategyPrintWindow,
		Area:     AreaFull,
		Format:   FormatRGBA,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) validate() error {
	if !o.Format.valid() {
		return fmt.Errorf("%w: unknown pixel format %v", ErrPixelExtraction, o.Format)
	}
	return nil
}

// resolve clamps the crop to a width x height source. An empty result is
// an error: there is nothing to allocate a bitmap for.
func (c *Crop) resolve(width, height int32) (image.Rectangle, error) {
	src := image.Rect(0, 0, int(width), int(height))
	var origin image.Point
	if c.Origin != nil {
		origin = *c.Origin
	}
	size := src.Max.Sub(origin)
	if c.Size != nil {
		size = *c.Size
	}
	if size.X <= 0 || size.Y <= 0 {
		return image.Rectangle{}, errEmptyCrop(origin, size)
	}
	// Clamp before adding so that a huge size cannot overflow.
	rest := src.Max.Sub(origin)
	size.X, size.Y = min(size.X, rest.X), min(size.Y, rest.Y)
	r := image.Rectangle{Min: origin, Max: origin.Add(size)}.Intersect(src)
	if r.Empty() {
		return image.Rectangle{}, errEmptyCrop(origin, size)
	}
	return r, nil
}
