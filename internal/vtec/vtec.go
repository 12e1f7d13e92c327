// Package vtec decodes NWS Valid Time Event Codes.
//
// A VTEC parameter carries up to two fixed-width records separated by "/":
//
//	/O.NEW.KSJT.FF.W.0123.150101T0000Z-150102T0000Z/
//	/MRCC1.2.ER.150101T0000Z.150101T1200Z.150102T0000Z.NO/
//
// The first is a P-VTEC record (46 characters) identifying the product and
// event; the second is an H-VTEC record (52 characters) with hydrologic
// detail. Either may appear alone. Records of any other length are ignored.
// The timestamp 000000T0000Z means "open ended" and decodes to nil.
package vtec

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
)

const (
	pvtecLen = 46
	hvtecLen = 52

	timeLayout   = "060102T1504Z"
	openEndedTS  = "000000T0000Z"
	segmentDelim = "/"
)

// P-VTEC field offsets.
const (
	pProductClass  = 0
	pActionStart   = 2
	pActionEnd     = 5
	pOfficeStart   = 6
	pOfficeEnd     = 10
	pPhenomStart   = 11
	pPhenomEnd     = 13
	pSignificance  = 14
	pETNStart      = 16
	pETNEnd        = 20
	pBeginStart    = 21
	pBeginEnd      = 33
	pEndStart      = 34
	pEndEnd        = 46
	pRangeDelimPos = 33
)

// H-VTEC field offsets.
const (
	hLocationStart = 0
	hLocationEnd   = 5
	hSeverity      = 6
	hCauseStart    = 8
	hCauseEnd      = 10
	hBeginStart    = 11
	hBeginEnd      = 23
	hCrestStart    = 24
	hCrestEnd      = 36
	hEndStart      = 37
	hEndEnd        = 49
	hRecordStart   = 50
	hRecordEnd     = 52
)

// VTEC is a decoded event code. The P-VTEC and H-VTEC halves are independent;
// their fields are only meaningful when the matching Has flag is set.
type VTEC struct {
	HasPVTEC bool `json:"has_pvtec"`
	HasHVTEC bool `json:"has_hvtec"`

	ProductClass        string     `json:"product_class,omitempty"`
	Action              string     `json:"action,omitempty"`
	ActionCode          string     `json:"action_code,omitempty"`
	OfficeID            string     `json:"office_id,omitempty"`
	Phenomena           string     `json:"phenomena,omitempty"`
	PhenomenaCode       string     `json:"phenomena_code,omitempty"`
	Significance        string     `json:"significance,omitempty"`
	SignificanceCode    string     `json:"significance_code,omitempty"`
	EventTrackingNumber string     `json:"event_tracking_number,omitempty"`
	Begin               *time.Time `json:"begin,omitempty"` // nil: already in progress
	End                 *time.Time `json:"end,omitempty"`   // nil: until further notice

	LocationID        string     `json:"location_id,omitempty"`
	FloodSeverity     string     `json:"flood_severity,omitempty"`
	ImmediateCause    string     `json:"immediate_cause,omitempty"`
	FloodBegin        *time.Time `json:"flood_begin,omitempty"`
	FloodCrest        *time.Time `json:"flood_crest,omitempty"`
	FloodEnd          *time.Time `json:"flood_end,omitempty"`
	FloodRecordStatus string     `json:"flood_record_status,omitempty"`
}

// FieldError describes one VTEC field that could not be decoded. The record
// is still returned; the offending field is left at its zero value.
type FieldError struct {
	Field string
	Value string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("vtec %s %q: %s", e.Field, e.Value, e.Msg)
}

// Decoder parses VTEC strings using a shared set of code tables.
type Decoder struct {
	tables *codes.Tables
	logger *slog.Logger
}

// NewDecoder creates a Decoder. The tables are read only and may be shared.
func NewDecoder(tables *codes.Tables, logger *slog.Logger) *Decoder {
	return &Decoder{tables: tables, logger: logger}
}

// Parse decodes every P-VTEC and H-VTEC record found in s. Problems with
// individual fields are returned as FieldErrors alongside the best-effort
// result; they never abort the record.
func (d *Decoder) Parse(s string) (VTEC, []*FieldError) {
	var v VTEC
	var errs []*FieldError
	for _, chunk := range strings.Split(s, segmentDelim) {
		chunk = strings.Trim(chunk, " \t\r\n/")
		switch len(chunk) {
		case pvtecLen:
			errs = append(errs, d.parsePVTEC(&v, chunk)...)
		case hvtecLen:
			errs = append(errs, d.parseHVTEC(&v, chunk)...)
		}
	}
	if !v.HasPVTEC && !v.HasHVTEC && strings.TrimSpace(s) != "" {
		errs = append(errs, &FieldError{Field: "vtec", Value: s, Msg: "no P-VTEC or H-VTEC record found"})
	}
	for _, e := range errs {
		d.logger.Warn("vtec field not decoded", "field", e.Field, "value", e.Value, "reason", e.Msg)
	}
	return v, errs
}

func (d *Decoder) parsePVTEC(v *VTEC, rec string) []*FieldError {
	var errs []*FieldError

	if rec[pRangeDelimPos] != '-' {
		errs = append(errs, &FieldError{Field: "pvtec", Value: rec, Msg: "missing begin-end separator"})
	}

	pc := rec[pProductClass : pProductClass+1]
	v.ProductClass = d.resolve(d.tables.ProductClass, "product_class", pc, &errs)

	v.ActionCode = strings.ToUpper(rec[pActionStart:pActionEnd])
	v.Action = d.resolve(d.tables.Action, "action", v.ActionCode, &errs)

	v.OfficeID = rec[pOfficeStart:pOfficeEnd]

	v.PhenomenaCode = strings.ToUpper(rec[pPhenomStart:pPhenomEnd])
	v.Phenomena = d.resolve(d.tables.Phenomena, "phenomena", v.PhenomenaCode, &errs)

	v.SignificanceCode = strings.ToUpper(rec[pSignificance : pSignificance+1])
	v.Significance = d.resolve(d.tables.Significance, "significance", v.SignificanceCode, &errs)

	v.EventTrackingNumber = rec[pETNStart:pETNEnd]
	v.Begin = parseTime("begin", rec[pBeginStart:pBeginEnd], &errs)
	v.End = parseTime("end", rec[pEndStart:pEndEnd], &errs)
	v.HasPVTEC = true
	return errs
}

func (d *Decoder) parseHVTEC(v *VTEC, rec string) []*FieldError {
	var errs []*FieldError

	v.LocationID = rec[hLocationStart:hLocationEnd]
	v.FloodSeverity = d.resolve(d.tables.FloodSeverity, "flood_severity", rec[hSeverity:hSeverity+1], &errs)
	v.ImmediateCause = d.resolve(d.tables.ImmediateCause, "immediate_cause", rec[hCauseStart:hCauseEnd], &errs)
	v.FloodBegin = parseTime("flood_begin", rec[hBeginStart:hBeginEnd], &errs)
	v.FloodCrest = parseTime("flood_crest", rec[hCrestStart:hCrestEnd], &errs)
	v.FloodEnd = parseTime("flood_end", rec[hEndStart:hEndEnd], &errs)
	v.FloodRecordStatus = d.resolve(d.tables.FloodRecordStatus, "flood_record_status", rec[hRecordStart:hRecordEnd], &errs)
	v.HasHVTEC = true
	return errs
}

func (d *Decoder) resolve(lookup func(string) (string, bool), field, code string, errs *[]*FieldError) string {
	name, ok := lookup(code)
	if !ok {
		*errs = append(*errs, &FieldError{Field: field, Value: code, Msg: "unknown code"})
	}
	return name
}

// parseTime decodes a yymmddThhmmZ timestamp. The open-ended sentinel and
// unparseable values both yield nil; only the latter is reported.
func parseTime(field, s string, errs *[]*FieldError) *time.Time {
	if s == openEndedTS {
		return nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		*errs = append(*errs, &FieldError{Field: field, Value: s, Msg: "invalid timestamp"})
		return nil
	}
	t = t.UTC()
	return &t
}

// Combine copies whichever half v is missing from other. Feeds sometimes
// deliver the P-VTEC and H-VTEC records as separate parameters.
func (v *VTEC) Combine(other VTEC) {
	if !v.HasHVTEC && other.HasHVTEC {
		v.LocationID = other.LocationID
		v.FloodSeverity = other.FloodSeverity
		v.ImmediateCause = other.ImmediateCause
		v.FloodBegin = other.FloodBegin
		v.FloodCrest = other.FloodCrest
		v.FloodEnd = other.FloodEnd
		v.FloodRecordStatus = other.FloodRecordStatus
		v.HasHVTEC = true
	}
	if !v.HasPVTEC && other.HasPVTEC {
		v.ProductClass = other.ProductClass
		v.Action = other.Action
		v.ActionCode = other.ActionCode
		v.OfficeID = other.OfficeID
		v.Phenomena = other.Phenomena
		v.PhenomenaCode = other.PhenomenaCode
		v.Significance = other.Significance
		v.SignificanceCode = other.SignificanceCode
		v.EventTrackingNumber = other.EventTrackingNumber
		v.Begin = other.Begin
		v.End = other.End
		v.HasPVTEC = true
	}
}

// Match reports whether a and b track the same event: both carry P-VTEC with
// equal office, phenomena, significance and event tracking number. The action
// is ignored so NEW and CON revisions of one event match.
// Records with only H-VTEC never match.
func Match(a, b *VTEC) bool {
	if a == nil || b == nil {
		return false
	}
	if a.HasPVTEC && b.HasPVTEC {
		return a.OfficeID == b.OfficeID &&
			a.Phenomena == b.Phenomena &&
			a.Significance == b.Significance &&
			a.EventTrackingNumber == b.EventTrackingNumber
	}
	return false
}

// Key returns the event identity used by Match, or "" without P-VTEC.
func (v *VTEC) Key() string {
	if v == nil || !v.HasPVTEC {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s.%s", v.OfficeID, v.PhenomenaCode, v.SignificanceCode, v.EventTrackingNumber)
}
