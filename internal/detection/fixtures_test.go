package detection

import (
	"math"

	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// regularPolygon returns n vertices on a circle, starting at angle 0.
func regularPolygon(cx, cy, radius, n int) []geometry.Point {
	return ellipseTrace(cx, cy, radius, radius, n)
}

// ellipseTrace samples n points of an axis-aligned ellipse, starting on the
// positive X semi-axis.
func ellipseTrace(cx, cy, a, b, n int) []geometry.Point {
	points := make([]geometry.Point, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = geometry.Pt(
			cx+int(math.Round(float64(a)*math.Cos(angle))),
			cy+int(math.Round(float64(b)*math.Sin(angle))),
		)
	}
	return points
}

// horizontalStroke is a right-to-left stroke at y = 919.
func horizontalStroke() []geometry.Point {
	points := make([]geometry.Point, 0, 40)
	for x := 1200; x > 600; x -= 15 {
		points = append(points, geometry.Pt(x, 919))
	}
	return points
}

func spiralScribble() []geometry.Point {
	points := make([]geometry.Point, 0)
	for r := 10; r < 300; r += 8 {
		angle := float64(r) / 15.0
		points = append(points, geometry.Pt(
			500+int(math.Round(float64(r)*math.Cos(angle))),
			500+int(math.Round(float64(r)*math.Sin(angle))),
		))
	}
	return points
}

func boltScribble() []geometry.Point {
	return []geometry.Point{
		{X: 200, Y: 100}, {X: 260, Y: 220}, {X: 180, Y: 240}, {X: 300, Y: 420},
		{X: 240, Y: 300}, {X: 320, Y: 280}, {X: 210, Y: 90},
	}
}

func figureEightScribble() []geometry.Point {
	points := make([]geometry.Point, 40)
	for i := range points {
		t := 2 * math.Pi * float64(i) / 40
		points[i] = geometry.Pt(
			500+int(math.Round(200*math.Sin(t))),
			500+int(math.Round(100*math.Sin(2*t))),
		)
	}
	return points
}

// lStroke runs right then down; its endpoints are the diameter witnesses.
func lStroke() []geometry.Point {
	points := []geometry.Point{{X: 100, Y: 100}}
	for x := 120; x <= 400; x += 20 {
		points = append(points, geometry.Pt(x, 100))
	}
	for y := 120; y <= 400; y += 20 {
		points = append(points, geometry.Pt(400, y))
	}
	return points
}

// commaStroke has a long tail that pulls the longest chord away from the
// centroid.
func commaStroke() []geometry.Point {
	return []geometry.Point{
		{X: 100, Y: 100}, {X: 900, Y: 100}, {X: 880, Y: 120}, {X: 860, Y: 110},
		{X: 850, Y: 100}, {X: 840, Y: 90}, {X: 830, Y: 95}, {X: 820, Y: 100},
		{X: 810, Y: 105}, {X: 800, Y: 100},
	}
}

// circleAtThreshold has exactly 6 of 8 samples inside the circle band.
func circleAtThreshold() []geometry.Point {
	return []geometry.Point{
		{X: 500, Y: 400}, {X: 436, Y: 436}, {X: 400, Y: 500}, {X: 329, Y: 471},
		{X: 250, Y: 400}, {X: 329, Y: 329}, {X: 400, Y: 300}, {X: 471, Y: 329},
	}
}
