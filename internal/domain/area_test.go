package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cap-alert-etl/internal/geo"
)

func TestArea_AddPolygon(t *testing.T) {
	t.Run("lat lon pairs become lon lat points", func(t *testing.T) {
		var a Alert
		var area Area
		area.AddPolygon(ptr("38.47,-120.14 38.34,-119.95  38.52,-119.74 38.47,-120.14"), &a)

		require.Len(t, area.Polygons, 1)
		assert.Equal(t, orb.Point{-120.14, 38.47}, area.Polygons[0][0])
		assert.Len(t, area.Polygons[0], 4)
		assert.Empty(t, a.Diagnostics())
	})

	t.Run("malformed pair is skipped", func(t *testing.T) {
		var a Alert
		var area Area
		area.AddPolygon(ptr("0,0 0,1 1,1,9 1,1 1,0 0,0"), &a)

		require.Len(t, area.Polygons, 1)
		assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, area.Polygons[0])
		require.Len(t, a.Diagnostics(), 1)
		assert.Equal(t, "1,1,9", a.Diagnostics()[0].Value)
	})

	t.Run("out of range latitude", func(t *testing.T) {
		var a Alert
		var area Area
		area.AddPolygon(ptr("98.0,10.0 1,1 2,2"), &a)
		require.Len(t, area.Polygons, 1)
		assert.Len(t, area.Polygons[0], 2)
		assert.True(t, a.HasError)
	})

	t.Run("no valid pairs", func(t *testing.T) {
		var a Alert
		var area Area
		area.AddPolygon(ptr("NaN,0 1;2"), &a)
		assert.Empty(t, area.Polygons)
		assert.Len(t, a.Diagnostics(), 2)
	})
}

func TestArea_AddCircle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
		want Circle
	}{
		{"valid", "32.9525,-115.5527 10", true, Circle{Center: orb.Point{-115.5527, 32.9525}, RadiusKm: 10}},
		{"zero radius", "32.9525,-115.5527 0", true, Circle{Center: orb.Point{-115.5527, 32.9525}}},
		{"missing radius", "32.9525,-115.5527", false, Circle{}},
		{"bad radius", "32.9525,-115.5527 ten", false, Circle{}},
		{"bad center", "32.9525;-115.5527 10", false, Circle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Alert
			var area Area
			area.AddCircle(ptr(tt.in), &a)
			if !tt.ok {
				assert.Empty(t, area.Circles)
				assert.Len(t, a.Diagnostics(), 1)
				return
			}
			require.Len(t, area.Circles, 1)
			assert.Equal(t, tt.want, area.Circles[0])
		})
	}
}

func TestArea_GeoCodesAccumulate(t *testing.T) {
	var area Area
	area.AddGeoCode(ptr("UGC"), ptr("CAZ017"))
	area.AddGeoCode(ptr("UGC"), ptr("CAZ018"))
	area.AddGeoCode(ptr("FIPS6"), ptr(" 006113 "))

	assert.Equal(t, []string{"CAZ017", "CAZ018"}, area.GeoCodes["UGC"])
	assert.True(t, area.HasGeoCode("FIPS6", "006113"))
	assert.False(t, area.HasGeoCode("SAME", "006113"))
}

func TestArea_AltitudeCeiling(t *testing.T) {
	var a Alert
	var area Area
	area.SetAltitude(ptr("1500"), &a)
	area.SetCeiling(ptr("high"), &a)

	require.NotNil(t, area.Altitude)
	assert.Equal(t, 1500, *area.Altitude)
	assert.Nil(t, area.Ceiling)
	assert.Len(t, a.Diagnostics(), 1)
}

func TestArea_AltitudeNotFinite(t *testing.T) {
	for _, in := range []string{"NaN", "Inf", "-Inf", "1e300"} {
		t.Run(in, func(t *testing.T) {
			var a Alert
			var area Area
			area.SetAltitude(ptr(in), &a)

			assert.Nil(t, area.Altitude)
			require.Len(t, a.Diagnostics(), 1)
			assert.Equal(t, "altitude", a.Diagnostics()[0].Field)
			assert.True(t, a.HasError)
		})
	}
}

func TestArea_Contains(t *testing.T) {
	area := Area{
		Circles: []Circle{{Center: geo.NewPoint(0, 0), RadiusKm: 112}},
		Polygons: []orb.Ring{{
			geo.NewPoint(10, 10), geo.NewPoint(10, 11), geo.NewPoint(11, 11), geo.NewPoint(11, 10),
		}},
	}

	tests := []struct {
		name string
		p    orb.Point
		want bool
	}{
		{"inside circle", geo.NewPoint(0, 1), true},
		{"outside circle", geo.NewPoint(0, 1.1), false},
		{"inside polygon", geo.NewPoint(10.5, 10.5), true},
		{"outside everything", geo.NewPoint(20, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, area.Contains(tt.p))
		})
	}
}

func TestArea_ContainsRadiusIsStrict(t *testing.T) {
	center := geo.NewPoint(0, 0)
	p := geo.NewPoint(0, 1)
	area := Area{Circles: []Circle{{Center: center, RadiusKm: geo.Distance(center, p)}}}
	assert.False(t, area.Contains(p))
}

func TestResource_Setters(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var a Alert
		var res Resource
		res.SetMimeType(ptr("text/plain"))
		res.SetSize(ptr("11"), &a)
		res.SetDerefURI(ptr("aGVsbG8g\nd29ybGQ="), &a)

		assert.Equal(t, "text/plain", res.MimeType)
		require.NotNil(t, res.Size)
		assert.Equal(t, int64(11), *res.Size)
		assert.Equal(t, []byte("hello world"), res.DerefURI)
		assert.Empty(t, a.Diagnostics())
	})

	t.Run("bad values degrade the resource only", func(t *testing.T) {
		var a Alert
		var res Resource
		res.SetURI(ptr("http://example.com/map.png"))
		res.SetSize(ptr("big"), &a)
		res.SetDerefURI(ptr("!!!"), &a)

		assert.Equal(t, "http://example.com/map.png", res.URI)
		assert.Nil(t, res.Size)
		assert.Nil(t, res.DerefURI)
		assert.Len(t, a.Diagnostics(), 2)
	})
}
