package domain

import (
	"slices"
	"strings"
	"time"
)

const capNamespacePrefix = "urn:oasis:names:tc:emergency:cap:"

// timeLayouts are tried in order when reading CAP dateTime values.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05-07:00",
}

// Alert is the root CAP <alert> element.
type Alert struct {
	ID          string    `json:"identifier"`
	Sender      string    `json:"sender"`
	Sent        time.Time `json:"sent"`
	Status      Status    `json:"status,omitempty"`
	MsgType     MsgType   `json:"msgType,omitempty"`
	Scope       Scope     `json:"scope,omitempty"`
	Source      string    `json:"source,omitempty"`
	Restriction string    `json:"restriction,omitempty"`
	Addresses   []string  `json:"addresses,omitempty"`
	Note        string    `json:"note,omitempty"`
	Codes       []string  `json:"codes,omitempty"`
	References  []string  `json:"references,omitempty"`
	Incidents   []string  `json:"incidents,omitempty"`
	Infos       []*Info   `json:"infos"`
	Version     string    `json:"version,omitempty"`

	// HasError is set when any element carried a value outside its CAP enumeration.
	HasError bool `json:"hasError,omitempty"`

	diagnostics []Diagnostic
}

// Report records a diagnostic against the alert.
func (a *Alert) Report(d Diagnostic) {
	if d.Invalid {
		a.HasError = true
	}
	a.diagnostics = append(a.diagnostics, d)
}

// Diagnostics returns the anomalies recorded so far, in order.
func (a *Alert) Diagnostics() []Diagnostic {
	return slices.Clone(a.diagnostics)
}

// Key is the CAP extended message identifier "sender,identifier,sent".
func (a *Alert) Key() string {
	return a.Sender + "," + a.ID + "," + a.Sent.UTC().Format(time.RFC3339)
}

// SetVersion records the CAP version from the document namespace,
// e.g. "urn:oasis:names:tc:emergency:cap:1.2" gives "1.2".
func (a *Alert) SetVersion(namespace string) {
	namespace = strings.TrimSpace(namespace)
	if !strings.HasPrefix(namespace, capNamespacePrefix) {
		a.Report(Diagnostic{Field: "namespace", Value: namespace, Message: "unexpected namespace"})
	}
	a.Version = namespace[strings.LastIndex(namespace, ":")+1:]
}

func (a *Alert) SetID(v *string)          { setString(&a.ID, v) }
func (a *Alert) SetSender(v *string)      { setString(&a.Sender, v) }
func (a *Alert) SetSource(v *string)      { setString(&a.Source, v) }
func (a *Alert) SetRestriction(v *string) { setString(&a.Restriction, v) }
func (a *Alert) SetNote(v *string)        { setString(&a.Note, v) }

// SetSent parses the origination time. An unparseable value leaves Sent zero.
func (a *Alert) SetSent(v *string) {
	if t, ok := parseTimeField(a, "sent", v); ok {
		a.Sent = t
	}
}

func (a *Alert) SetStatus(v *string)  { setEnum(a, "status", statuses, &a.Status, v) }
func (a *Alert) SetMsgType(v *string) { setEnum(a, "msgType", msgTypes, &a.MsgType, v) }
func (a *Alert) SetScope(v *string)   { setEnum(a, "scope", scopes, &a.Scope, v) }

// SetAddresses splits the space separated recipient list. Quoted addresses
// (which may contain spaces) are not supported; such a list is reported and
// left empty.
func (a *Alert) SetAddresses(v *string) {
	s, ok := trimmed(v)
	if !ok {
		return
	}
	if strings.Contains(s, `"`) {
		a.Report(Diagnostic{Field: "addresses", Value: s, Message: "quoted addresses are not supported"})
		a.Addresses = nil
		return
	}
	a.Addresses = strings.Fields(s)
}

// AddCode appends a <code> value.
func (a *Alert) AddCode(v *string) {
	if s, ok := trimmed(v); ok {
		a.Codes = append(a.Codes, s)
	}
}

// SetReferences keeps the identifier of each "sender,identifier,sent" triple.
func (a *Alert) SetReferences(v *string) {
	s, ok := trimmed(v)
	if !ok {
		return
	}
	for _, ref := range strings.Fields(s) {
		parts := strings.Split(ref, ",")
		if len(parts) != 3 || parts[1] == "" {
			a.Report(Diagnostic{Field: "references", Value: ref, Message: "reference is not sender,identifier,sent"})
			continue
		}
		a.References = append(a.References, parts[1])
	}
}

func (a *Alert) SetIncidents(v *string) {
	if s, ok := trimmed(v); ok {
		a.Incidents = strings.Fields(s)
	}
}

// NewInfo appends an Info block carrying CAP defaults and returns it.
func (a *Alert) NewInfo() *Info {
	info := newInfo()
	a.Infos = append(a.Infos, info)
	return info
}

// IsExpired reports whether every Info has expired at now. An alert with no
// Info blocks is expired.
func (a *Alert) IsExpired(now time.Time) bool {
	for _, info := range a.Infos {
		if !info.IsExpired(now) {
			return false
		}
	}
	return true
}

// Expires is the latest Info expiry, or zero without Infos.
func (a *Alert) Expires() time.Time {
	var latest time.Time
	for _, info := range a.Infos {
		if info.Expires.After(latest) {
			latest = info.Expires
		}
	}
	return latest
}

func trimmed(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	return strings.TrimSpace(*v), true
}

func setString(dst *string, v *string) {
	if s, ok := trimmed(v); ok {
		*dst = s
	}
}

func setEnum[T ~string](r Reporter, field string, table map[string]T, dst *T, v *string) {
	s, ok := trimmed(v)
	if !ok {
		return
	}
	val, known := table[s]
	if !known {
		r.Report(invalid(field, s))
		return
	}
	*dst = val
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseTimeField(r Reporter, field string, v *string) (time.Time, bool) {
	s, ok := trimmed(v)
	if !ok {
		return time.Time{}, false
	}
	t, ok := parseTime(s)
	if !ok {
		r.Report(Diagnostic{Field: field, Value: s, Message: "invalid timestamp", Invalid: true})
	}
	return t, ok
}
