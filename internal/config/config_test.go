package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = light
default_color = #00FF00
default_width = 4
default_font_size = 24
save_dir = /tmp/marked

[notify]
save = true
copy = false
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "light" {
		t.Errorf("Expected theme 'light', got %q", cfg.Theme)
	}
	if cfg.DefaultColor.G != 0xFF || cfg.DefaultColor.R != 0 || cfg.DefaultColor.B != 0 {
		t.Errorf("Unexpected default_color: %+v", cfg.DefaultColor)
	}
	if cfg.DefaultWidth != 4 {
		t.Errorf("Expected default_width 4, got %d", cfg.DefaultWidth)
	}
	if cfg.DefaultFontSize != 24 {
		t.Errorf("Expected default_font_size 24, got %g", cfg.DefaultFontSize)
	}
	if cfg.SaveDir != "/tmp/marked" {
		t.Errorf("Expected save_dir '/tmp/marked', got '%s'", cfg.SaveDir)
	}
	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	def := New()
	if cfg.DefaultColor != def.DefaultColor {
		t.Errorf("Expected default color %+v, got %+v", def.DefaultColor, cfg.DefaultColor)
	}
	if cfg.DefaultWidth != def.DefaultWidth {
		t.Errorf("Expected default width %d, got %d", def.DefaultWidth, cfg.DefaultWidth)
	}
}

func TestParseBadColor(t *testing.T) {
	_, err := Parse(strings.NewReader("default_color = red\n"))
	if err == nil {
		t.Fatal("Expected error for non-hex color")
	}
}

func TestCircular(t *testing.T) {
	input := `theme = high_contrast
default_color = #1122FF
default_width = 3
default_font_size = 18
save_dir = /home/user/shots

[notify]
save = true
copy = true
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Re-parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.DefaultColor != cfg2.DefaultColor {
		t.Errorf("DefaultColor mismatch: %+v vs %+v", cfg.DefaultColor, cfg2.DefaultColor)
	}
	if cfg.DefaultWidth != cfg2.DefaultWidth {
		t.Errorf("DefaultWidth mismatch: %d vs %d", cfg.DefaultWidth, cfg2.DefaultWidth)
	}
	if cfg.DefaultFontSize != cfg2.DefaultFontSize {
		t.Errorf("DefaultFontSize mismatch: %g vs %g", cfg.DefaultFontSize, cfg2.DefaultFontSize)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %s vs %s", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#80FF0040")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if c.R != 0x80 || c.G != 0xFF || c.B != 0 || c.A != 0x40 {
		t.Errorf("Unexpected color: %+v", c)
	}

	if _, err := ParseColor("FFFFFF"); err == nil {
		t.Error("Expected error for missing #")
	}
	if _, err := ParseColor("#FFF"); err == nil {
		t.Error("Expected error for short hex")
	}
}
