// Package theme defines the color palettes available to the annotation UI.
package theme

import (
	"image/color"
)

// Theme defines the color palette for the application UI.
type Theme struct {
	Name string

	// Toolbar
	ToolbarBackground color.RGBA
	ToolbarText       color.RGBA
	ButtonActive      color.RGBA
	ButtonHover       color.RGBA

	// Canvas backdrop
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded dark theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "default",
		ToolbarBackground: color.RGBA{48, 48, 48, 255},
		ToolbarText:       color.RGBA{230, 230, 230, 255},
		ButtonActive:      color.RGBA{0, 96, 200, 255},
		ButtonHover:       color.RGBA{90, 90, 90, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
	}
}

// Light returns a light toolbar variant.
func Light() *Theme {
	return &Theme{
		Name:              "light",
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		ToolbarText:       color.RGBA{0, 0, 0, 255},
		ButtonActive:      color.RGBA{160, 200, 255, 255},
		ButtonHover:       color.RGBA{200, 200, 200, 255},
		CheckerLight:      color.RGBA{240, 240, 240, 255},
		CheckerDark:       color.RGBA{214, 214, 214, 255},
	}
}

// HighContrast returns a black and white variant.
func HighContrast() *Theme {
	return &Theme{
		Name:              "high_contrast",
		ToolbarBackground: color.RGBA{0, 0, 0, 255},
		ToolbarText:       color.RGBA{255, 255, 255, 255},
		ButtonActive:      color.RGBA{255, 255, 0, 255},
		ButtonHover:       color.RGBA{80, 80, 80, 255},
		CheckerLight:      color.RGBA{255, 255, 255, 255},
		CheckerDark:       color.RGBA{200, 200, 200, 255},
	}
}

// Builtin returns a named builtin theme.
func Builtin(name string) (*Theme, bool) {
	switch name {
	case "", "default", "dark":
		return Default(), true
	case "light":
		return Light(), true
	case "high_contrast":
		return HighContrast(), true
	}
	return nil, false
}
