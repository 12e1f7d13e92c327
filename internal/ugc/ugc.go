// Package ugc interprets NWS Universal Geographic Codes.
//
// A UGC string is a "-" separated list read left to right. A segment starting
// with a two-letter state sets the state and the format (C for county FIPS,
// Z for forecast zone) for the segments that follow it:
//
//	CAZ017-041>045-000000-
//
// names California zones 017 and 041 through 045. The trailing six-digit
// segment is the product expiration time (ddhhmm) and carries no geography.
package ugc

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Format says whether a segment's numbers are county FIPS codes or zones.
type Format byte

const (
	FormatUnknown Format = 0
	FormatCounty  Format = 'C'
	FormatZone    Format = 'Z'
)

const (
	segmentDelim = "-"
	rangeDelim   = ">"
	allCode      = "ALL"
	allNumeric   = "000"

	stateLen      = 2
	codeLen       = 3
	headerLen     = 6  // SSFnnn
	headerRange   = 10 // SSFnnn>mmm
	bareRange     = 7  // nnn>mmm
	expirationLen = 6  // ddhhmm
)

// Target identifies the place an alert is tested against.
type Target struct {
	State string // two-letter postal code, e.g. "CA"
	FIPS  string // county FIPS; only the last three digits are compared
	Zone  string // three-digit NWS forecast zone
}

// Segment is one geographic entry of a UGC string with its sticky state and
// format already applied.
type Segment struct {
	State  string
	Format Format
	All    bool
	Start  int
	End    int
}

// Matcher evaluates UGC strings.
type Matcher struct {
	logger *slog.Logger
}

// NewMatcher creates a Matcher that logs unexpected segments to logger.
func NewMatcher(logger *slog.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// Parse splits a UGC string into geographic segments. Expiration timestamps
// are dropped; unrecognized segments are logged and skipped.
func (m *Matcher) Parse(ugc string) []Segment {
	var out []Segment
	state := ""
	format := FormatUnknown

	for _, seg := range strings.Split(strings.TrimSpace(ugc), segmentDelim) {
		seg = strings.TrimSpace(seg)
		switch {
		case seg == "":
			continue

		case len(seg) >= stateLen && isAlpha(seg[:stateLen]):
			if len(seg) != headerLen && len(seg) != headerRange {
				m.unexpected(ugc, seg)
				continue
			}
			state = seg[:stateLen]
			format = Format(seg[stateLen])
			if format != FormatCounty && format != FormatZone {
				m.unexpected(ugc, seg)
				format = FormatUnknown
				continue
			}
			body := seg[stateLen+1:]
			if len(seg) == headerLen && (body == allNumeric || body == allCode) {
				out = append(out, Segment{State: state, Format: format, All: true})
				continue
			}
			s, ok := m.parseBody(ugc, body)
			if !ok {
				continue
			}
			s.State, s.Format = state, format
			out = append(out, s)

		case len(seg) == expirationLen && isDigits(seg):
			continue

		case (len(seg) == codeLen && isDigits(seg)) || len(seg) == bareRange:
			if state == "" {
				m.unexpected(ugc, seg)
				continue
			}
			s, ok := m.parseBody(ugc, seg)
			if !ok {
				continue
			}
			s.State, s.Format = state, format
			out = append(out, s)

		default:
			m.unexpected(ugc, seg)
		}
	}
	return out
}

// Matches reports whether any segment of ugc covers target. A state-wide
// segment (000 or ALL) matches every target in that state.
func (m *Matcher) Matches(ugc string, target Target) bool {
	fips := target.FIPS
	if len(fips) > codeLen {
		fips = fips[len(fips)-codeLen:]
	}

	for _, s := range m.Parse(ugc) {
		if s.State != target.State {
			continue
		}
		if s.All {
			return true
		}
		var code string
		switch s.Format {
		case FormatCounty:
			code = fips
		case FormatZone:
			code = target.Zone
		default:
			continue
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			continue
		}
		if s.Start <= n && n <= s.End {
			return true
		}
	}
	return false
}

// Expand lists every code named by ugc in SSFnnn form, e.g. "CAZ041".
// State-wide segments expand to SSFALL.
func (m *Matcher) Expand(ugc string) []string {
	var out []string
	for _, s := range m.Parse(ugc) {
		if s.All {
			out = append(out, fmt.Sprintf("%s%cALL", s.State, s.Format))
			continue
		}
		for n := s.Start; n <= s.End; n++ {
			out = append(out, fmt.Sprintf("%s%c%03d", s.State, s.Format, n))
		}
	}
	return out
}

// parseBody reads "nnn" or "nnn>mmm" into an inclusive range.
func (m *Matcher) parseBody(ugc, body string) (Segment, bool) {
	lo, hi, isRange := strings.Cut(body, rangeDelim)
	if !isRange {
		hi = lo
	}
	start, err1 := strconv.Atoi(lo)
	end, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || len(lo) != codeLen || len(hi) != codeLen || start > end {
		m.unexpected(ugc, body)
		return Segment{}, false
	}
	return Segment{Start: start, End: end}, true
}

func (m *Matcher) unexpected(ugc, seg string) {
	m.logger.Warn("unexpected UGC segment", "segment", seg, "ugc", ugc)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
