package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinThemes(t *testing.T) {
	t.Parallel()

	for _, name := range ThemeNames() {
		theme, err := Builtin(name)
		if err != nil {
			t.Fatalf("Builtin(%q) returned error: %v", name, err)
		}
		if err := theme.Validate(); err != nil {
			t.Fatalf("builtin theme %q is invalid: %v", name, err)
		}
		if theme.Key != name {
			t.Fatalf("expected key %q, got %q", name, theme.Key)
		}
		for _, reason := range theme.Reasons {
			if _, ok := ParseIcon(reason.Icon); !ok {
				t.Fatalf("theme %q uses unknown icon %q", name, reason.Icon)
			}
		}
	}

	if _, err := Builtin("Arcology "); err != nil {
		t.Fatalf("expected theme lookup to ignore case and spaces: %v", err)
	}
	if _, err := Builtin("brutalist"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestBuiltinReturnsCopy(t *testing.T) {
	t.Parallel()

	first, err := Builtin("arcology")
	if err != nil {
		t.Fatalf("Builtin returned error: %v", err)
	}
	first.Nav[0].Label = "Changed"
	first.TimeSlots[0] = "never"

	second, err := Builtin("arcology")
	if err != nil {
		t.Fatalf("Builtin returned error: %v", err)
	}
	if second.Nav[0].Label != "Home" || second.TimeSlots[0] != "09:00 AM" {
		t.Fatalf("expected builtin theme to be unaffected by caller mutation")
	}
}

func TestLoadThemeAppliesFileOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "theme.yaml")
	contents := []byte("brand: Arcology Partners\nheroTitle: Building Better Cities\npalette:\n  secondary: \"#ff0000\"\ntimeSlots:\n  - \"08:00 AM\"\n")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("writing theme file failed: %v", err)
	}

	theme, err := LoadTheme("arcology", path)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}

	if theme.Brand != "Arcology Partners" || theme.HeroTitle != "Building Better Cities" {
		t.Fatalf("expected overrides to apply, got %q / %q", theme.Brand, theme.HeroTitle)
	}
	if theme.Palette.Secondary != "#ff0000" {
		t.Fatalf("expected palette override, got %q", theme.Palette.Secondary)
	}
	if theme.Palette.Primary == "" {
		t.Fatalf("expected fields missing from the file to keep builtin values")
	}
	if !theme.HasTimeSlot("08:00 AM") || theme.HasTimeSlot("09:00 AM") {
		t.Fatalf("expected time slots to be replaced, got %v", theme.TimeSlots)
	}
}

func TestLoadThemeMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadTheme("studio", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing theme file")
	}
}
