package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/cap-alert-etl/internal/vtec"
)

// CAP default values.
const (
	DefaultLanguage    = "en-US"
	DefaultDescription = "NO DESCRIPTION"
	DefaultInstruction = "NO INSTRUCTIONS"
	DefaultExpiry      = 24 * time.Hour
)

// Well-known NWS <parameter> names.
const (
	ParamWMOHeader  = "WMOHEADER"
	ParamUGC        = "UGC"
	ParamMotionLine = "TIME...MOT...LOC"
	ParamVTEC       = "VTEC"
)

// Info is one CAP <info> block.
type Info struct {
	Language      string              `json:"language"`
	Categories    []Category          `json:"categories,omitempty"`
	Event         string              `json:"event,omitempty"`
	ResponseTypes []ResponseType      `json:"responseTypes,omitempty"`
	Urgency       Urgency             `json:"urgency,omitempty"`
	Severity      Severity            `json:"severity,omitempty"`
	Certainty     Certainty           `json:"certainty,omitempty"`
	Audience      string              `json:"audience,omitempty"`
	EventCodes    map[string][]string `json:"eventCodes,omitempty"`
	Parameters    map[string][]string `json:"parameters,omitempty"`
	Effective     time.Time           `json:"effective"`
	Onset         *time.Time          `json:"onset,omitempty"`
	Expires       time.Time           `json:"expires"`
	SenderName    string              `json:"senderName,omitempty"`
	Headline      string              `json:"headline,omitempty"`
	Description   string              `json:"description"`
	Instruction   string              `json:"instruction"`
	Web           string              `json:"web,omitempty"`
	Contact       string              `json:"contact,omitempty"`
	Resources     []Resource          `json:"resources,omitempty"`
	Areas         []*Area             `json:"areas,omitempty"`

	VTEC       *vtec.VTEC `json:"vtec,omitempty"`
	WMOHeader  string     `json:"wmoHeader,omitempty"`
	UGC        string     `json:"ugc,omitempty"`
	MotionLine string     `json:"motionLine,omitempty"`
}

func newInfo() *Info {
	return &Info{
		Language:    DefaultLanguage,
		Description: DefaultDescription,
		Instruction: DefaultInstruction,
	}
}

func (i *Info) SetEvent(v *string)      { setString(&i.Event, v) }
func (i *Info) SetAudience(v *string)   { setString(&i.Audience, v) }
func (i *Info) SetSenderName(v *string) { setString(&i.SenderName, v) }
func (i *Info) SetHeadline(v *string)   { setString(&i.Headline, v) }
func (i *Info) SetWeb(v *string)        { setString(&i.Web, v) }
func (i *Info) SetContact(v *string)    { setString(&i.Contact, v) }

func (i *Info) SetLanguage(v *string)    { setNonEmpty(&i.Language, v) }
func (i *Info) SetDescription(v *string) { setNonEmpty(&i.Description, v) }
func (i *Info) SetInstruction(v *string) { setNonEmpty(&i.Instruction, v) }

// AddCategory adds a category once; unknown values are reported and dropped.
func (i *Info) AddCategory(v *string, r Reporter) {
	var c Category
	setEnum(r, "category", categories, &c, v)
	if c != "" && !slices.Contains(i.Categories, c) {
		i.Categories = append(i.Categories, c)
	}
}

// AddResponseType adds a response type once; unknown values are reported and dropped.
func (i *Info) AddResponseType(v *string, r Reporter) {
	var rt ResponseType
	setEnum(r, "responseType", responseTypes, &rt, v)
	if rt != "" && !slices.Contains(i.ResponseTypes, rt) {
		i.ResponseTypes = append(i.ResponseTypes, rt)
	}
}

func (i *Info) SetUrgency(v *string, r Reporter)  { setEnum(r, "urgency", urgencies, &i.Urgency, v) }
func (i *Info) SetSeverity(v *string, r Reporter) { setEnum(r, "severity", severities, &i.Severity, v) }
func (i *Info) SetCertainty(v *string, r Reporter) {
	setEnum(r, "certainty", certainties, &i.Certainty, v)
}

func (i *Info) SetEffective(v *string, r Reporter) {
	if t, ok := parseTimeField(r, "effective", v); ok {
		i.Effective = t
	}
}

func (i *Info) SetOnset(v *string, r Reporter) {
	if t, ok := parseTimeField(r, "onset", v); ok {
		i.Onset = &t
	}
}

func (i *Info) SetExpires(v *string, r Reporter) {
	if t, ok := parseTimeField(r, "expires", v); ok {
		i.Expires = t
	}
}

// AddEventCode appends value under key.
func (i *Info) AddEventCode(key, value *string) {
	if i.EventCodes == nil {
		i.EventCodes = make(map[string][]string)
	}
	addKeyed(i.EventCodes, key, value)
}

// AddParameter appends value under key. The NWS WMO header, UGC and motion
// line parameters are also copied to their own fields.
func (i *Info) AddParameter(key, value *string) {
	if i.Parameters == nil {
		i.Parameters = make(map[string][]string)
	}
	k, v, ok := addKeyed(i.Parameters, key, value)
	if !ok {
		return
	}
	switch k {
	case ParamWMOHeader:
		i.WMOHeader = v
	case ParamUGC:
		i.UGC = v
	case ParamMotionLine:
		i.MotionLine = v
	}
}

// Parameter returns the first value stored under key.
func (i *Info) Parameter(key string) string {
	if vals := i.Parameters[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// EventCode returns the first event code stored under key.
func (i *Info) EventCode(key string) string {
	if vals := i.EventCodes[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// AddVTEC attaches a decoded VTEC record. A second record fills in whichever
// half (P or H) the first one lacks.
func (i *Info) AddVTEC(v vtec.VTEC) {
	if i.VTEC == nil {
		i.VTEC = &v
		return
	}
	i.VTEC.Combine(v)
}

func (i *Info) AddResource(res Resource) {
	i.Resources = append(i.Resources, res)
}

// NewArea appends an empty Area and returns it.
func (i *Info) NewArea() *Area {
	a := &Area{}
	i.Areas = append(i.Areas, a)
	return a
}

// ApplyDefaults fills effective from the alert's sent time and expires from
// effective. It reports whether expires was defaulted.
func (i *Info) ApplyDefaults(sent time.Time) bool {
	if i.Effective.IsZero() {
		i.Effective = sent
	}
	if i.Expires.IsZero() {
		i.Expires = i.Effective.Add(DefaultExpiry)
		return true
	}
	return false
}

// IsExpired reports whether now is at or past Expires.
func (i *Info) IsExpired(now time.Time) bool {
	return !now.UTC().Before(i.Expires)
}

func setNonEmpty(dst *string, v *string) {
	if s, ok := trimmed(v); ok && s != "" {
		*dst = s
	}
}

func addKeyed(m map[string][]string, key, value *string) (string, string, bool) {
	k, ok := trimmed(key)
	if !ok || k == "" || value == nil {
		return "", "", false
	}
	v := strings.TrimSpace(*value)
	m[k] = append(m[k], v)
	return k, v, true
}
