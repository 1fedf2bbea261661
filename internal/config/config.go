package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Theme           string
	DefaultColor    color.RGBA
	DefaultWidth    int
	DefaultFontSize float64
	SaveDir         string
	Notify          Notify
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		DefaultColor:    color.RGBA{255, 0, 0, 255},
		DefaultWidth:    2,
		DefaultFontSize: 16,
		Notify: Notify{
			Save: false,
			Copy: false,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// The output round-trips through Parse.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "default_color = %s\n", toHex(c.DefaultColor))
	fmt.Fprintf(&sb, "default_width = %d\n", c.DefaultWidth)
	fmt.Fprintf(&sb, "default_font_size = %g\n", c.DefaultFontSize)
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
