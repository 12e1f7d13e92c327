package domain

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/cap-alert-etl/internal/geo"
)

// Circle is a CAP <circle>: a center point and a radius in kilometers.
type Circle struct {
	Center   orb.Point `json:"center"`
	RadiusKm float64   `json:"radiusKm"`
}

// Area is one CAP <area> block.
type Area struct {
	Desc     string              `json:"areaDesc,omitempty"`
	Polygons []orb.Ring          `json:"polygons,omitempty"`
	Circles  []Circle            `json:"circles,omitempty"`
	GeoCodes map[string][]string `json:"geocodes,omitempty"`
	Altitude *int                `json:"altitude,omitempty"`
	Ceiling  *int                `json:"ceiling,omitempty"`
}

func (a *Area) SetDesc(v *string) { setString(&a.Desc, v) }

// AddPolygon parses a whitespace separated list of "lat,lon" pairs. A
// malformed pair is reported and skipped; the ring keeps the remaining points.
func (a *Area) AddPolygon(v *string, r Reporter) {
	s, ok := trimmed(v)
	if !ok || s == "" {
		return
	}
	var ring orb.Ring
	for _, tok := range strings.Fields(s) {
		p, ok := parseLatLon(tok)
		if !ok {
			r.Report(Diagnostic{Field: "polygon", Value: tok, Message: "malformed coordinate pair", Invalid: true})
			continue
		}
		ring = append(ring, p)
	}
	if len(ring) > 0 {
		a.Polygons = append(a.Polygons, ring)
	}
}

// AddCircle parses "lat,lon radius".
func (a *Area) AddCircle(v *string, r Reporter) {
	s, ok := trimmed(v)
	if !ok || s == "" {
		return
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		r.Report(Diagnostic{Field: "circle", Value: s, Message: "expected \"lat,lon radius\"", Invalid: true})
		return
	}
	center, ok := parseLatLon(fields[0])
	radius, err := strconv.ParseFloat(fields[1], 64)
	if !ok || err != nil || radius < 0 {
		r.Report(Diagnostic{Field: "circle", Value: s, Message: "malformed circle", Invalid: true})
		return
	}
	a.Circles = append(a.Circles, Circle{Center: center, RadiusKm: radius})
}

// AddGeoCode appends value under key; keys such as UGC may repeat.
func (a *Area) AddGeoCode(key, value *string) {
	if a.GeoCodes == nil {
		a.GeoCodes = make(map[string][]string)
	}
	addKeyed(a.GeoCodes, key, value)
}

func (a *Area) SetAltitude(v *string, r Reporter) { setInt(r, "altitude", &a.Altitude, v) }
func (a *Area) SetCeiling(v *string, r Reporter)  { setInt(r, "ceiling", &a.Ceiling, v) }

// Contains reports whether p lies strictly within any circle or inside any polygon.
func (a *Area) Contains(p orb.Point) bool {
	for _, c := range a.Circles {
		if geo.Distance(c.Center, p) < c.RadiusKm {
			return true
		}
	}
	for _, ring := range a.Polygons {
		if geo.Contains(ring, p) {
			return true
		}
	}
	return false
}

// HasGeoCode reports whether code is listed under key.
func (a *Area) HasGeoCode(key, code string) bool {
	for _, c := range a.GeoCodes[key] {
		if c == code {
			return true
		}
	}
	return false
}

// Resource is a CAP <resource> block.
type Resource struct {
	Desc     string `json:"resourceDesc,omitempty"`
	MimeType string `json:"mimeType"`
	Size     *int64 `json:"size,omitempty"`
	URI      string `json:"uri,omitempty"`
	DerefURI []byte `json:"derefUri,omitempty"`
	Digest   string `json:"digest,omitempty"`
}

func (res *Resource) SetDesc(v *string)     { setString(&res.Desc, v) }
func (res *Resource) SetMimeType(v *string) { setString(&res.MimeType, v) }
func (res *Resource) SetURI(v *string)      { setString(&res.URI, v) }
func (res *Resource) SetDigest(v *string)   { setString(&res.Digest, v) }

func (res *Resource) SetSize(v *string, r Reporter) {
	s, ok := trimmed(v)
	if !ok || s == "" {
		return
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.Report(Diagnostic{Field: "size", Value: s, Message: "not an integer", Invalid: true})
		return
	}
	res.Size = &n
}

// SetDerefURI decodes the base64 embedded content.
func (res *Resource) SetDerefURI(v *string, r Reporter) {
	s, ok := trimmed(v)
	if !ok || s == "" {
		return
	}
	// Embedded content is often wrapped across lines.
	s = strings.Join(strings.Fields(s), "")
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		r.Report(Diagnostic{Field: "derefUri", Message: "invalid base64 content", Invalid: true})
		return
	}
	res.DerefURI = data
}

func parseLatLon(s string) (orb.Point, bool) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok || strings.Contains(lonStr, ",") {
		return orb.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lon, err2 := strconv.ParseFloat(lonStr, 64)
	if err1 != nil || err2 != nil || !finite(lat) || !finite(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return orb.Point{}, false
	}
	return geo.NewPoint(lat, lon), true
}

func setInt(r Reporter, field string, dst **int, v *string) {
	s, ok := trimmed(v)
	if !ok || s == "" {
		return
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.Report(Diagnostic{Field: field, Value: s, Message: "not a number", Invalid: true})
		return
	}
	if !finite(f) || f < math.MinInt32 || f > math.MaxInt32 {
		r.Report(Diagnostic{Field: field, Value: s, Message: "out of range", Invalid: true})
		return
	}
	n := int(f)
	*dst = &n
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
