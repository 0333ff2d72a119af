package main

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"runtime"

	"github.com/Fast-IQ/winshot"
	"github.com/spf13/cobra"
)

var (
	profile = defaultProfile()

	flagConfig   string
	flagCrop     string
	flagList     bool
	flagLogLevel string

	root = &cobra.Command{
		Use:   os.Args[0],
		Short: "capture a window or the whole screen into a PNG file",
		Args:  cobra.ExactArgs(0),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
				return fmt.Errorf("invalid log level '%s': %w", flagLogLevel, err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		RunE: run,
	}
)

func init() {
	flags := root.Flags()
	flags.StringVar(&flagConfig, "config", "", "path to a YAML capture profile")
	flags.BoolVar(&flagList, "list", false, "list visible windows and displays, then exit")
	flags.StringVar(&profile.Title, "title", profile.Title, "exact title of the window to capture")
	flags.BoolVar(&profile.Display, "display", profile.Display, "capture the whole virtual screen")
	flags.StringVar(&profile.Strategy, "strategy", profile.Strategy, "print_window or region_copy")
	flags.StringVar(&profile.Area, "area", profile.Area, "full or client")
	flags.StringVar(&profile.Format, "format", profile.Format, "rgba or rgb")
	flags.BoolVar(&profile.BottomUp, "bottom-up", profile.BottomUp, "read bottom-up rows and flip them in memory")
	flags.StringVar(&flagCrop, "crop", "", "crop as x,y[,width,height]")
	flags.StringVar(&profile.Out, "out", profile.Out, "output PNG file")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "debug, info, warn or error")
}

func run(cmd *cobra.Command, args []string) error {
	// Убедимся, что поток привязан к OS thread для Windows API
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if flagList {
		return list()
	}

	p, err := mergeProfile(cmd)
	if err != nil {
		return err
	}
	opts, err := p.Options()
	if err != nil {
		return err
	}

	var buf *winshot.Buffer
	if p.Display || p.Title == "" {
		slog.Info("capturing the virtual screen")
		buf, err = winshot.CaptureDisplay(opts...)
	} else {
		slog.Info("capturing window", slog.String("title", p.Title))
		buf, err = winshot.CaptureWindowByTitle(p.Title, opts...)
	}
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	if err := save(buf.Image(), p.Out); err != nil {
		return err
	}
	fmt.Printf("%dx%d %s \"%s\"\n", buf.Width, buf.Height, buf.Format, p.Out)
	return nil
}

// mergeProfile loads --config and puts the explicitly set flags on top.
func mergeProfile(cmd *cobra.Command) (Profile, error) {
	p := profile
	if flagConfig != "" {
		loaded, err := loadProfile(flagConfig)
		if err != nil {
			return p, err
		}
		flags := cmd.Flags()
		for name, dst := range map[string]*string{
			"title":    &loaded.Title,
			"strategy": &loaded.Strategy,
			"area":     &loaded.Area,
			"format":   &loaded.Format,
			"out":      &loaded.Out,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = v
			}
		}
		if flags.Changed("display") {
			loaded.Display = profile.Display
		}
		if flags.Changed("bottom-up") {
			loaded.BottomUp = profile.BottomUp
		}
		p = loaded
	}
	if flagCrop != "" {
		crop, err := parseCrop(flagCrop)
		if err != nil {
			return p, err
		}
		p.Crop = crop
	}
	return p, nil
}

func list() error {
	windows, err := winshot.ListWindows()
	if err != nil {
		return err
	}
	for _, w := range windows {
		fmt.Printf("%#x\t%q\n", uintptr(w.HWND), w.Title)
	}

	n := winshot.NumActiveDisplays()
	for i := 0; i < n; i++ {
		bounds, err := winshot.GetDisplayBounds(i)
		if err != nil {
			return fmt.Errorf("bounds uncorrected for display %d: %w", i, err)
		}
		fmt.Printf("#%d : %v\n", i, bounds)
	}
	return nil
}

// save *image.RGBA to filePath with PNG format.
func save(img *image.RGBA, filePath string) error {
	if img == nil {
		return fmt.Errorf("nil image provided")
	}
	if img.Rect.Dx() <= 0 || img.Rect.Dy() <= 0 {
		return fmt.Errorf("invalid image dimensions %v", img.Rect)
	}
	// Проверка соответствия размера данных
	if expected := img.Rect.Dx() * img.Rect.Dy() * 4; len(img.Pix) < expected {
		return fmt.Errorf("image data length %d doesn't match dimensions (%d)", len(img.Pix), expected)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("unable to close the file", slog.String("path", filePath), slog.Any("error", err))
		}
	}()

	enc := png.Encoder{
		CompressionLevel: png.BestCompression,
	}
	return enc.Encode(file, img)
}

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
