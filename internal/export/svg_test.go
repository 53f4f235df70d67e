package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/storage"
)

func TestBrailleToSVG(t *testing.T) {
	grid := [][]rune{
		{0x2800 | 0x01 | 0x80, 0x2800},
		{' ', 0x2800 | 0x08},
	}
	svg := BrailleToSVG(grid, 3, "#2e86ab")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if !strings.Contains(svg, `width="12" height="24"`) {
		t.Errorf("unexpected size in %q", svg)
	}
	// two dots in the first cell, one in the last; blank and non-braille cells draw nothing
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="#2e86ab"`) {
		t.Error("fill color missing")
	}
}

func TestBrailleToSVG_Empty(t *testing.T) {
	if svg := BrailleToSVG(nil, 2, "#fff"); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}

func TestOrbitsToSVG(t *testing.T) {
	names := orrery.PlanetNames()
	trace := storage.NewTrace(names)
	row := make([]float64, 2*len(names))
	for tick := uint64(1); tick <= 5; tick++ {
		for i, d := range orrery.Descriptors {
			row[2*i] = d.OrbitRadius
			row[2*i+1] = float64(tick)
		}
		if err := trace.Append(tick, row); err != nil {
			t.Fatal(err)
		}
	}

	svg, err := OrbitsToSVG(trace, 400)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(svg, "<path"); n != len(names) {
		t.Errorf("expected %d paths, got %d", len(names), n)
	}
	// orbit guides, sun and one marker per planet
	if n := strings.Count(svg, "<circle"); n != 2*len(names)+1 {
		t.Errorf("expected %d circles, got %d", 2*len(names)+1, n)
	}
	for _, name := range names {
		if !strings.Contains(svg, `id="`+name+`"`) {
			t.Errorf("path for %s missing", name)
		}
	}
	if !strings.Contains(svg, `width="400" height="400"`) {
		t.Error("size missing")
	}
}

func TestOrbitsToSVG_TooShort(t *testing.T) {
	trace := storage.NewTrace(orrery.PlanetNames())
	if _, err := OrbitsToSVG(trace, 400); !errors.Is(err, ErrEmptyTrace) {
		t.Errorf("expected ErrEmptyTrace, got %v", err)
	}
	if _, err := OrbitsToSVG(nil, 400); !errors.Is(err, ErrEmptyTrace) {
		t.Errorf("expected ErrEmptyTrace for nil trace, got %v", err)
	}
}
