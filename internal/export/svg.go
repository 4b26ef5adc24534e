// Package export renders simulation snapshots to standalone files.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/nzakhir/brownian-motion-simulation/internal/gas"
)

// SnapshotToSVG renders a snapshot as a standalone SVG: the container
// as an outlined circle, particles as filled discs. size is the image
// side length in pixels.
func SnapshotToSVG(container gas.Geometry, particles []gas.Geometry, size int) string {
	if size <= 0 {
		size = 800
	}
	bound := math.Abs(container.Radius)
	if bound == 0 {
		return ""
	}

	half := float64(size) / 2
	scale := half * 0.95 / bound

	project := func(p gas.Vec2) (float64, float64) {
		// SVG y grows downward.
		return half + p.X*scale, half - p.Y*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	cx, cy := project(container.Center)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#00ff00" stroke-width="2"/>
`, cx, cy, bound*scale))

	sb.WriteString(`<g fill="#00ccff">
`)
	for _, p := range particles {
		px, py := project(p.Center)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, px, py, p.Radius*scale))
	}
	sb.WriteString("</g>\n</svg>")

	return sb.String()
}
