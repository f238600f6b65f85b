package lightstate

import "strings"

// Point is a CIE 1931 chromaticity coordinate.
type Point struct {
	X, Y float64
}

func (p Point) xy() (float64, float64) { return p.X, p.Y }

// Gamut is the triangle of colours a lamp can reproduce.
type Gamut struct {
	Red, Green, Blue Point
}

var (
	GamutA = Gamut{Red: Point{0.704, 0.296}, Green: Point{0.2151, 0.7106}, Blue: Point{0.138, 0.08}}
	GamutB = Gamut{Red: Point{0.675, 0.322}, Green: Point{0.409, 0.518}, Blue: Point{0.167, 0.04}}
	GamutC = Gamut{Red: Point{0.6915, 0.3083}, Green: Point{0.17, 0.7}, Blue: Point{0.1532, 0.0475}}
)

// GamutFor returns the gamut named by a light's colorgamuttype. Unknown names get gamut C.
func GamutFor(name string) Gamut {
	switch strings.ToUpper(name) {
	case "A":
		return GamutA
	case "B":
		return GamutB
	default:
		return GamutC
	}
}

// Contains reports whether p lies inside the triangle or on its edges.
func (g Gamut) Contains(p Point) bool {
	v1 := Point{g.Green.X - g.Red.X, g.Green.Y - g.Red.Y}
	v2 := Point{g.Blue.X - g.Red.X, g.Blue.Y - g.Red.Y}
	q := Point{p.X - g.Red.X, p.Y - g.Red.Y}

	d := cross(v1, v2)
	s := cross(q, v2) / d
	t := cross(v1, q) / d
	return s >= 0 && t >= 0 && s+t <= 1
}

// Closest returns p when it is reproducible, otherwise the nearest point on the gamut edge.
func (g Gamut) Closest(p Point) Point {
	if g.Contains(p) {
		return p
	}
	candidates := []Point{
		closestOnSegment(g.Red, g.Green, p),
		closestOnSegment(g.Green, g.Blue, p),
		closestOnSegment(g.Blue, g.Red, p),
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if distance2(c, p) < distance2(best, p) {
			best = c
		}
	}
	return best
}

func closestOnSegment(a, b, p Point) Point {
	ab := Point{b.X - a.X, b.Y - a.Y}
	ap := Point{p.X - a.X, p.Y - a.Y}
	t := (ap.X*ab.X + ap.Y*ab.Y) / (ab.X*ab.X + ab.Y*ab.Y)
	t = clamp(t, 0, 1)
	return Point{a.X + ab.X*t, a.Y + ab.Y*t}
}

func cross(a, b Point) float64 { return a.X*b.Y - a.Y*b.X }

func distance2(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
