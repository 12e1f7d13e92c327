package domain

import (
	"slices"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
	"github.com/couchcryptid/cap-alert-etl/internal/vtec"
)

// Geocode value names used for relevance checks.
const (
	GeoCodeUGC   = "UGC"
	GeoCodeFIPS  = "FIPS"
	GeoCodeFIPS6 = "FIPS6"
	GeoCodeSAME  = "SAME"

	// AllUS is the SAME location code for all United States territory.
	AllUS = "000000"

	fipsCompareLen = 5
)

// Watch is the location alerts are tested against.
type Watch struct {
	State string     `json:"state,omitempty"`
	FIPS  string     `json:"fips,omitempty"`
	Zone  string     `json:"zone,omitempty"`
	Point *orb.Point `json:"point,omitempty"`
}

// Target converts the watch to a UGC match target.
func (w Watch) Target() ugc.Target {
	return ugc.Target{State: w.State, FIPS: w.FIPS, Zone: w.Zone}
}

// IsZero reports whether no location is configured.
func (w Watch) IsZero() bool {
	return w.State == "" && w.FIPS == "" && w.Zone == "" && w.Point == nil
}

// CheckUGC reports whether any area names the target through a UGC geocode,
// or through a FIPS6/FIPS geocode whose last five digits equal target.FIPS.
func (a *Alert) CheckUGC(m *ugc.Matcher, target ugc.Target) bool {
	for _, info := range a.Infos {
		for _, area := range info.Areas {
			for _, code := range area.GeoCodes[GeoCodeUGC] {
				if m.Matches(code, target) {
					return true
				}
			}
			if target.FIPS == "" {
				continue
			}
			for _, key := range []string{GeoCodeFIPS6, GeoCodeFIPS} {
				for _, code := range area.GeoCodes[key] {
					if len(code) > fipsCompareLen && code[len(code)-fipsCompareLen:] == target.FIPS {
						return true
					}
				}
			}
		}
	}
	return false
}

// CheckArea reports whether any area lists code under the geocode key.
func (a *Alert) CheckArea(key, code string) bool {
	for _, info := range a.Infos {
		for _, area := range info.Areas {
			if area.HasGeoCode(key, code) {
				return true
			}
		}
	}
	return false
}

// CheckCoords reports whether any area covers p.
func (a *Alert) CheckCoords(p orb.Point) bool {
	for _, info := range a.Infos {
		for _, area := range info.Areas {
			if area.Contains(p) {
				return true
			}
		}
	}
	return false
}

// Relevant reports whether the alert concerns the watched location. Alerts
// addressed to all US territory are always relevant.
func (a *Alert) Relevant(w Watch, m *ugc.Matcher) bool {
	if a.CheckUGC(m, w.Target()) {
		return true
	}
	if w.Point != nil && a.CheckCoords(*w.Point) {
		return true
	}
	return a.CheckArea(GeoCodeFIPS6, AllUS)
}

// Match reports whether b is a revision of the same event as a: both name the
// same incidents, or some pair of their Infos carries matching P-VTEC.
func Match(a, b *Alert) bool {
	if len(a.Incidents) > 0 && len(b.Incidents) > 0 && slices.Equal(a.Incidents, b.Incidents) {
		return true
	}
	for _, ai := range a.Infos {
		if ai.VTEC == nil {
			continue
		}
		for _, bi := range b.Infos {
			if bi.VTEC != nil && vtec.Match(ai.VTEC, bi.VTEC) {
				return true
			}
		}
	}
	return false
}

// Zones lists every UGC code the alert names, from area geocodes and the NWS
// UGC parameter, sorted and deduplicated.
func (a *Alert) Zones(m *ugc.Matcher) []string {
	var out []string
	for _, info := range a.Infos {
		if info.UGC != "" {
			out = append(out, m.Expand(info.UGC)...)
		}
		for _, area := range info.Areas {
			for _, code := range area.GeoCodes[GeoCodeUGC] {
				out = append(out, m.Expand(code)...)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
