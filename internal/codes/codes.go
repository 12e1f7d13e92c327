// Package codes holds the read-only lookup tables that give names to the
// single- and double-letter codes packed inside VTEC strings and to the SAME
// event codes carried in CAP <eventCode> elements.
//
// Tables are built once with [New] and shared by reference. Nothing mutates a
// Tables value after construction, so it is safe for concurrent use.
//
// References:
//
//	VTEC:  NWS Directive 10-1703, https://www.weather.gov/vtec/
//	SAME:  NWS Instruction 10-518 and 47 CFR 11.31 (EAS protocol)
package codes

import "strings"

// Fallback names returned when a code is not present in its table.
const (
	UnknownProductClass   = "Unknown Product Class"
	UnknownAction         = "Unknown Actions"
	UnknownPhenomena      = "Unknown Phenomena"
	UnknownSignificance   = "Unknown Significance"
	UnknownFloodSeverity  = "Unknown Severity"
	UnknownImmediateCause = "Unknown Cause"
	UnknownFloodRecord    = "Unknown record status"
	noNWISDetail          = "No detail available for this message type."
)

// Tables is the set of static code dictionaries.
type Tables struct {
	productClasses    map[string]string
	actions           map[string]string
	phenomena         map[string]string
	significances     map[string]string
	floodSeverities   map[string]string
	immediateCauses   map[string]string
	floodRecordStatus map[string]string
	nwis              map[string]string
	nwisDetail        map[string]string
	sameDefinitions   map[string]string
	capTerms          map[string]map[string]string
}

// New builds the code tables.
func New() *Tables {
	return &Tables{
		productClasses:    copyMap(productClasses),
		actions:           copyMap(actions),
		phenomena:         copyMap(phenomena),
		significances:     copyMap(significances),
		floodSeverities:   copyMap(floodSeverities),
		immediateCauses:   copyMap(immediateCauses),
		floodRecordStatus: copyMap(floodRecordStatuses),
		nwis:              copyMap(nwisEvents),
		nwisDetail:        copyMap(nwisDetails),
		sameDefinitions:   copyMap(sameDefinitions),
		capTerms:          copyTerms(capTerms),
	}
}

// ProductClass resolves a P-VTEC product class code (O, T, E, X).
func (t *Tables) ProductClass(code string) (string, bool) {
	return lookup(t.productClasses, strings.ToUpper(code), UnknownProductClass)
}

// Action resolves a P-VTEC action code (NEW, CON, EXT, ...).
func (t *Tables) Action(code string) (string, bool) {
	return lookup(t.actions, strings.ToUpper(code), UnknownAction)
}

// Phenomena resolves a two-letter P-VTEC phenomena code.
func (t *Tables) Phenomena(code string) (string, bool) {
	return lookup(t.phenomena, strings.ToUpper(code), UnknownPhenomena)
}

// Significance resolves a one-letter P-VTEC significance code.
func (t *Tables) Significance(code string) (string, bool) {
	return lookup(t.significances, strings.ToUpper(code), UnknownSignificance)
}

// FloodSeverity resolves an H-VTEC flood severity code. The lookup is case
// sensitive because the table mixes digits and letters.
func (t *Tables) FloodSeverity(code string) (string, bool) {
	return lookup(t.floodSeverities, code, UnknownFloodSeverity)
}

// ImmediateCause resolves a two-letter H-VTEC immediate cause code.
func (t *Tables) ImmediateCause(code string) (string, bool) {
	return lookup(t.immediateCauses, strings.ToUpper(code), UnknownImmediateCause)
}

// FloodRecordStatus resolves a two-letter H-VTEC flood record status code.
func (t *Tables) FloodRecordStatus(code string) (string, bool) {
	return lookup(t.floodRecordStatus, strings.ToUpper(code), UnknownFloodRecord)
}

// ExpandNWIS returns the event name for a SAME/NWIS code, or the code itself
// when it is not known.
func (t *Tables) ExpandNWIS(code string) string {
	if name, ok := t.nwis[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// AboutNWIS returns a longer explanation of a SAME/NWIS code. Codes without
// their own entry fall back to the generic definition implied by the final
// letter (Warning, Watch, Emergency, Statement).
func (t *Tables) AboutNWIS(code string) string {
	if detail, ok := t.nwisDetail[strings.ToUpper(code)]; ok {
		return detail
	}
	if len(code) == 3 {
		switch strings.ToUpper(code)[2] {
		case 'W':
			return t.sameDefinitions["Warning"]
		case 'A':
			return t.sameDefinitions["Watch"]
		case 'E':
			return t.sameDefinitions["Emergency"]
		case 'S':
			return t.sameDefinitions["Statement"]
		}
	}
	return noNWISDetail
}

func lookup(m map[string]string, code, fallback string) (string, bool) {
	if name, ok := m[code]; ok {
		return name, true
	}
	return fallback, false
}

func copyMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyTerms(src map[string]map[string]string) map[string]map[string]string {
	dst := make(map[string]map[string]string, len(src))
	for k, v := range src {
		dst[k] = copyMap(v)
	}
	return dst
}
