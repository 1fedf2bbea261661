package theme

import (
	"strings"
	"testing"
)

func TestBuiltin(t *testing.T) {
	for _, name := range []string{"", "default", "dark", "light", "high_contrast"} {
		if _, ok := Builtin(name); !ok {
			t.Errorf("expected builtin theme for %q", name)
		}
	}
	if _, ok := Builtin("hotdog"); ok {
		t.Error("did not expect builtin theme for 'hotdog'")
	}
}

func TestParse(t *testing.T) {
	input := `
Name: custom
ToolbarBackground: #111111
ToolbarText: #EEEEEE
# comment
UnknownKey: #FFFFFF
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "custom" {
		t.Errorf("Expected name 'custom', got %q", th.Name)
	}
	if th.ToolbarBackground.R != 0x11 || th.ToolbarBackground.G != 0x11 || th.ToolbarBackground.B != 0x11 {
		t.Errorf("Unexpected ToolbarBackground: %+v", th.ToolbarBackground)
	}
	if th.ToolbarText.R != 0xEE {
		t.Errorf("Unexpected ToolbarText: %+v", th.ToolbarText)
	}
	// Unset keys keep defaults.
	if th.CheckerLight != Default().CheckerLight {
		t.Errorf("Expected default CheckerLight, got %+v", th.CheckerLight)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("ToolbarText: red\n")); err == nil {
		t.Fatal("Expected error for non-hex color")
	}
}
