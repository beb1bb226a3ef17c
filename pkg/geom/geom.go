// Package geom contains the planar helpers used to cut and stitch sectors.
package geom

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// ErrDegenerate is returned when a direction cannot be derived
// (coincident points or too few points)
var ErrDegenerate = errors.New("degenerate geometry")

// Direction returns the unit vector pointing from a to b.
func Direction(a, b r2.Point) (r2.Point, error) {
	d := b.Sub(a)
	if d.Norm() == 0 {
		return r2.Point{}, ErrDegenerate
	}
	return d.Normalize(), nil
}

// Unit returns v normalized. A zero vector is degenerate.
func Unit(v r2.Point) (r2.Point, error) {
	if v.Norm() == 0 {
		return r2.Point{}, ErrDegenerate
	}
	return v.Normalize(), nil
}

// LeadingDirection is the direction of the first two points of a path.
func LeadingDirection(path []r2.Point) (r2.Point, error) {
	if len(path) < 2 {
		return r2.Point{}, ErrDegenerate
	}
	return Direction(path[0], path[1])
}

// TrailingDirection is the direction of the last two points of a path.
func TrailingDirection(path []r2.Point) (r2.Point, error) {
	if len(path) < 2 {
		return r2.Point{}, ErrDegenerate
	}
	return Direction(path[len(path)-2], path[len(path)-1])
}

// SignedAngle returns the counter-clockwise angle in (-pi, pi] which rotates
// from onto to.
func SignedAngle(from, to r2.Point) s1.Angle {
	return s1.Angle(math.Atan2(from.Cross(to), from.Dot(to))) * s1.Radian
}

// Rotate rotates p about the origin.
func Rotate(p r2.Point, a s1.Angle) r2.Point {
	sin, cos := math.Sincos(a.Radians())
	return r2.Point{
		X: cos*p.X - sin*p.Y,
		Y: sin*p.X + cos*p.Y,
	}
}

// Translate returns a copy of path with offset added to every point.
func Translate(path []r2.Point, offset r2.Point) []r2.Point {
	ret := make([]r2.Point, len(path))
	for i, p := range path {
		ret[i] = p.Add(offset)
	}
	return ret
}

// ToOrigin moves the path so that its first point becomes the origin.
func ToOrigin(path []r2.Point) []r2.Point {
	if len(path) == 0 {
		return nil
	}
	return Translate(path, path[0].Mul(-1))
}

func Bounds(path []r2.Point) r2.Rect {
	return r2.RectFromPoints(path...)
}

// ApproxEqual compares points with an absolute tolerance
func ApproxEqual(a, b r2.Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}
