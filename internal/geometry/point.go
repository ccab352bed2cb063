package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrDivisionByZero is returned by Point.Div when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrOutOfRange is returned by CheckBounds for a coordinate beyond
// MaxCoordinate.
var ErrOutOfRange = errors.New("coordinate out of range")

// MaxCoordinate bounds the magnitude of each coordinate. Products of
// coordinate differences stay well inside int at this size.
const MaxCoordinate = 1 << 20

// Point represents a 2D coordinate in screen space.
//
// Point is a value type: two points are equal iff both coordinates match,
// so == can be used directly.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Pt is a convenience function to create a Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the component-wise difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns the point with both components multiplied by k.
func (p Point) Scale(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Div returns the point with both components divided by k.
// Division truncates toward zero, as Go integer division does.
func (p Point) Div(k int) (Point, error) {
	if k == 0 {
		return Point{}, fmt.Errorf("divide %v: %w", p, ErrDivisionByZero)
	}
	return Point{X: p.X / k, Y: p.Y / k}, nil
}

// Magnitude returns the Euclidean norm of the vector.
func (p Point) Magnitude() float64 {
	return math.Sqrt(float64(p.X*p.X + p.Y*p.Y))
}

// Distance returns the Euclidean distance to q truncated to an integer.
func (p Point) Distance(q Point) int {
	return int(p.Sub(q).Magnitude())
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) int {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) int {
	return p.X*q.Y - p.Y*q.X
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through b and c.
//
// The result is not finite when b == c; callers must pass distinct points.
func (p Point) DistanceToLine(b, c Point) float64 {
	ab := p.Sub(b)
	ac := p.Sub(c)
	return math.Abs(float64(ab.Cross(ac))) / b.Sub(c).Magnitude()
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// InBounds reports whether both coordinates lie within ±MaxCoordinate.
func (p Point) InBounds() bool {
	return p.X >= -MaxCoordinate && p.X <= MaxCoordinate &&
		p.Y >= -MaxCoordinate && p.Y <= MaxCoordinate
}

// CheckBounds returns ErrOutOfRange, naming the first offending point, when
// any point of the trace is outside ±MaxCoordinate.
func CheckBounds(trace []Point) error {
	for i, p := range trace {
		if !p.InBounds() {
			return fmt.Errorf("point %d %v: %w (limit ±%d)", i, p, ErrOutOfRange, MaxCoordinate)
		}
	}
	return nil
}
