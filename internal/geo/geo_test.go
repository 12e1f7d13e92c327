package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   orb.Point
		expected float64
		delta    float64
	}{
		{"one degree of longitude at the equator", NewPoint(0, 0), NewPoint(0, 1), 111.19, 0.05},
		{"one degree of latitude", NewPoint(0, 0), NewPoint(1, 0), 111.19, 0.05},
		{"same point", NewPoint(38.56513, -121.75156), NewPoint(38.56513, -121.75156), 0, 1e-9},
		{"Davis to Sacramento", NewPoint(38.5449, -121.7405), NewPoint(38.5816, -121.4944), 21.7, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.p1, tt.p2), tt.delta)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := NewPoint(31.02, -98.44)
	b := NewPoint(34.96, -95.77)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestPointInPolygon(t *testing.T) {
	square := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	open := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	tests := []struct {
		name     string
		x, y     float64
		ring     orb.Ring
		expected bool
	}{
		{"center of unit square", 0.5, 0.5, square, true},
		{"outside unit square", 2, 2, square, false},
		{"negative side", -0.5, 0.5, square, false},
		{"implicitly closed ring", 0.5, 0.5, open, true},
		{"empty ring", 0.5, 0.5, orb.Ring{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PointInPolygon(tt.x, tt.y, tt.ring))
		})
	}
}

func TestContains_ConcavePolygon(t *testing.T) {
	// U shape opening upward; the notch is outside.
	u := orb.Ring{{0, 0}, {3, 0}, {3, 3}, {2, 3}, {2, 1}, {1, 1}, {1, 3}, {0, 3}, {0, 0}}

	assert.True(t, Contains(u, orb.Point{0.5, 2}))
	assert.True(t, Contains(u, orb.Point{2.5, 2}))
	assert.False(t, Contains(u, orb.Point{1.5, 2}))
}
