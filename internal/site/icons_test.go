package site

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseIconKnownTokens(t *testing.T) {
	t.Parallel()

	for token, want := range iconTokens {
		got, ok := ParseIcon(token)
		if !ok || got != want {
			t.Fatalf("ParseIcon(%q) = %v, %v", token, got, ok)
		}
		if got.Token() != token {
			t.Fatalf("expected token round trip for %q, got %q", token, got.Token())
		}
	}

	if icon, ok := ParseIcon(" bx bx-Leaf "); !ok || icon != IconLeaf {
		t.Fatalf("expected class prefixed token to parse, got %v %v", icon, ok)
	}
}

func TestResolveIconFallsBackAndLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	icon := ResolveIcon(logger, "bx-spaceship")
	if icon != IconUnknown {
		t.Fatalf("expected IconUnknown, got %v", icon)
	}
	if !strings.Contains(icon.Class(), fallbackToken) {
		t.Fatalf("expected fallback glyph class, got %q", icon.Class())
	}
	if !strings.Contains(buf.String(), "bx-spaceship") {
		t.Fatalf("expected unknown token to be logged, got %q", buf.String())
	}
}

func TestStars(t *testing.T) {
	t.Parallel()

	for rating := -2; rating <= MaxStars+2; rating++ {
		filled, remainder := Stars(rating)
		if filled+remainder != MaxStars {
			t.Fatalf("rating %d: counts do not sum to %d", rating, MaxStars)
		}

		want := rating
		if want < 0 {
			want = 0
		}
		if want > MaxStars {
			want = MaxStars
		}
		if filled != want {
			t.Fatalf("rating %d: expected %d filled, got %d", rating, want, filled)
		}
	}
}
