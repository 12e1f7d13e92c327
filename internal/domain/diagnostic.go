package domain

import "fmt"

// Diagnostic is a non-fatal anomaly found while decoding one document.
type Diagnostic struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
	// Invalid marks a value that violates a CAP enumeration or format.
	Invalid bool `json:"invalid,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Value == "" {
		return fmt.Sprintf("%s: %s", d.Field, d.Message)
	}
	return fmt.Sprintf("%s: %s (%q)", d.Field, d.Message, d.Value)
}

// Reporter receives diagnostics from Info, Area and Resource setters.
// *Alert is the Reporter for everything it owns.
type Reporter interface {
	Report(d Diagnostic)
}

func invalid(field, value string) Diagnostic {
	return Diagnostic{Field: field, Value: value, Message: "unrecognized value", Invalid: true}
}
