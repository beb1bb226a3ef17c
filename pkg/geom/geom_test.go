//nolint:funlen // ok for tests
package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestDirection(t *testing.T) {
	tests := []struct {
		name    string
		a, b    r2.Point
		want    r2.Point
		wantErr error
	}{
		{"x axis", r2.Point{X: 0, Y: 0}, r2.Point{X: 5, Y: 0}, r2.Point{X: 1, Y: 0}, nil},
		{"diagonal", r2.Point{X: 1, Y: 1}, r2.Point{X: 4, Y: 5}, r2.Point{X: 0.6, Y: 0.8}, nil},
		{"coincident", r2.Point{X: 2, Y: 2}, r2.Point{X: 2, Y: 2}, r2.Point{}, ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Direction(tt.a, tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 1.0, got.Norm(), eps)
			assert.True(t, ApproxEqual(tt.want, got, eps), "got %v", got)
		})
	}
}

func TestSignedAngle(t *testing.T) {
	tests := []struct {
		name     string
		from, to r2.Point
		want     float64
	}{
		{"quarter ccw", r2.Point{X: 1}, r2.Point{Y: 1}, math.Pi / 2},
		{"quarter cw", r2.Point{Y: 1}, r2.Point{X: 1}, -math.Pi / 2},
		{"same", r2.Point{X: 1}, r2.Point{X: 1}, 0},
		{"opposite", r2.Point{X: 1}, r2.Point{X: -1}, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedAngle(tt.from, tt.to)
			assert.InDelta(t, tt.want, got.Radians(), eps)
			rotated := Rotate(tt.from, got)
			assert.True(t, ApproxEqual(tt.to, rotated, eps), "rotated %v", rotated)
		})
	}
}

func TestRotate(t *testing.T) {
	got := Rotate(r2.Point{X: 1, Y: 0}, 90*s1.Degree)
	assert.True(t, ApproxEqual(r2.Point{X: 0, Y: 1}, got, eps), "got %v", got)
}

func TestToOrigin(t *testing.T) {
	got := ToOrigin([]r2.Point{{X: 3, Y: 4}, {X: 4, Y: 6}})
	assert.Equal(t, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 2}}, got)
	assert.Nil(t, ToOrigin(nil))
}

func TestTrailingDirection(t *testing.T) {
	_, err := TrailingDirection([]r2.Point{{X: 1}})
	assert.ErrorIs(t, err, ErrDegenerate)

	got, err := TrailingDirection([]r2.Point{{X: 0}, {X: 0, Y: 1}, {X: 0, Y: 3}})
	require.NoError(t, err)
	assert.True(t, ApproxEqual(r2.Point{Y: 1}, got, eps))
}

func TestUnit(t *testing.T) {
	_, err := Unit(r2.Point{})
	assert.ErrorIs(t, err, ErrDegenerate)

	got, err := Unit(r2.Point{X: 3, Y: 4})
	require.NoError(t, err)
	assert.True(t, ApproxEqual(r2.Point{X: 0.6, Y: 0.8}, got, eps))
}
