package progress

import "math"

const RingRadius = 35

// Ring is the geometry of an SVG progress ring.
type Ring struct {
	Progress      int
	Completed     int
	Total         int
	Radius        int
	Circumference float64
	DashOffset    float64
}

func NewRing(completed, total int) Ring {
	pct := 0
	if total > 0 {
		pct = Percentage(completed, total)
	}
	circ := 2 * math.Pi * RingRadius
	return Ring{
		Progress:      pct,
		Completed:     completed,
		Total:         total,
		Radius:        RingRadius,
		Circumference: circ,
		DashOffset:    circ - float64(pct)/100*circ,
	}
}
