// Package export writes vector renditions of the terminal canvas and of
// recorded runs.
package export

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/storage"
)

// FileName is where the terminal canvas is exported.
const FileName = "solar_system.svg"

const background = "#000000"

var ErrEmptyTrace = errors.New("export: trace has fewer than two samples")

// Braille dot-to-bit mapping.
var pixelMap = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// BrailleToSVG draws every set dot of a braille grid as a circle. Each
// cell is 2x4 dots and each dot is scale units wide.
func BrailleToSVG(grid [][]rune, scale float64, fill string) string {
	if len(grid) == 0 {
		return ""
	}
	cols := len(grid[0])
	width := float64(cols) * scale * 2
	height := float64(len(grid)) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", fill))

	dotRadius := scale * 0.4
	for row, line := range grid {
		for col, r := range line {
			if r < 0x2800 {
				continue
			}
			pattern := r - 0x2800
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// OrbitsToSVG draws a recorded run from above: the orbit guides, the sun,
// each planet's path in its body color and its final position. The view
// is fixed to the outermost orbit so every run shares one scale.
func OrbitsToSVG(trace *storage.Trace, size int) (string, error) {
	if trace == nil || trace.Len() < 2 {
		return "", ErrEmptyTrace
	}

	extent := 0.0
	for _, d := range orrery.Descriptors {
		extent = math.Max(extent, d.OrbitRadius+d.Radius)
	}
	extent *= 1.1
	half := float64(size) / 2
	scale := half / extent
	project := func(x, z float64) (float64, float64) {
		return half + x*scale, half + z*scale
	}

	var sb strings.Builder
	header(&sb, float64(size), float64(size))

	sb.WriteString("<g fill=\"none\" stroke=\"#ffffff\" stroke-opacity=\"0.2\">\n")
	for _, d := range orrery.Descriptors {
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", half, half, d.OrbitRadius*scale))
	}
	sb.WriteString("</g>\n")
	sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
		half, half, orrery.SunRadius*scale, scene.BodyColors[orrery.SunName].Hex()))

	for _, name := range trace.Planets {
		xs, err := trace.Series(name, "x")
		if err != nil {
			return "", err
		}
		zs, err := trace.Series(name, "z")
		if err != nil {
			return "", err
		}
		color := scene.BodyColors[name].Hex()

		sb.WriteString(fmt.Sprintf("<path id=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", name, color))
		for i := range xs {
			x, y := project(xs[i], zs[i])
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		radius := 2.0
		if d, ok := descriptor(name); ok {
			radius = math.Max(radius, d.Radius*scale)
		}
		x, y := project(xs[len(xs)-1], zs[len(zs)-1])
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, radius, color))
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

func descriptor(name string) (orrery.Descriptor, bool) {
	for _, d := range orrery.Descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return orrery.Descriptor{}, false
}
