package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Fast-IQ/winshot"
	"github.com/goccy/go-yaml"
)

// Profile is a saved capture setup. Flags given on the command line
// override the fields loaded from the file.
type Profile struct {
	Title    string `yaml:"title"`
	Display  bool   `yaml:"display"`
	Strategy string `yaml:"strategy"`
	Area     string `yaml:"area"`
	Format   string `yaml:"format"`
	BottomUp bool   `yaml:"bottom_up"`
	Crop     *Crop  `yaml:"crop"`
	Out      string `yaml:"out"`
}

// Crop fields are independently optional, like the capture options.
type Crop struct {
	X      *int `yaml:"x"`
	Y      *int `yaml:"y"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

func defaultProfile() Profile {
	return Profile{
		Strategy: "print_window",
		Area:     "full",
		Format:   "rgba",
		Out:      "screenshot.png",
	}
}

func loadProfile(path string) (Profile, error) {
	p := defaultProfile()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("unable to read the profile '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("unable to parse the profile '%s': %w", path, err)
	}
	return p, nil
}

// Options converts the profile into capture options.
func (p Profile) Options() ([]winshot.Option, error) {
	var opts []winshot.Option

	switch strings.ToLower(p.Strategy) {
	case "", "print_window", "printwindow":
		opts = append(opts, winshot.WithStrategy(winshot.StrategyPrintWindow))
	case "region_copy", "regioncopy", "bitblt":
		opts = append(opts, winshot.WithStrategy(winshot.StrategyRegionCopy))
	default:
		return nil, fmt.Errorf("unknown strategy '%s'", p.Strategy)
	}

	switch strings.ToLower(p.Area) {
	case "", "full":
		opts = append(opts, winshot.WithArea(winshot.AreaFull))
	case "client", "client_only":
		opts = append(opts, winshot.WithArea(winshot.AreaClientOnly))
	default:
		return nil, fmt.Errorf("unknown area '%s'", p.Area)
	}

	switch strings.ToLower(p.Format) {
	case "", "rgba":
		opts = append(opts, winshot.WithFormat(winshot.FormatRGBA))
	case "rgb":
		opts = append(opts, winshot.WithFormat(winshot.FormatRGB))
	default:
		return nil, fmt.Errorf("unknown format '%s'", p.Format)
	}

	if p.BottomUp {
		opts = append(opts, winshot.WithBottomUpRows())
	}

	if c := p.Crop; c != nil {
		if c.X != nil || c.Y != nil {
			opts = append(opts, winshot.WithCropOrigin(deref(c.X), deref(c.Y)))
		}
		if c.Width != nil || c.Height != nil {
			if c.Width == nil || c.Height == nil {
				return nil, fmt.Errorf("crop needs both width and height")
			}
			opts = append(opts, winshot.WithCropSize(*c.Width, *c.Height))
		}
	}
	return opts, nil
}

// parseCrop reads "x,y,width,height" or "x,y".
func parseCrop(s string) (*Crop, error) {
	var v [4]int
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &v[0], &v[1], &v[2], &v[3])
	switch {
	case n == 4:
		return &Crop{X: &v[0], Y: &v[1], Width: &v[2], Height: &v[3]}, nil
	case n == 2:
		return &Crop{X: &v[0], Y: &v[1]}, nil
	default:
		return nil, fmt.Errorf("invalid crop '%s': %w", s, err)
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
