package domain

// Status is the CAP <status> code.
type Status string

const (
	StatusActual   Status = "Actual"
	StatusExercise Status = "Exercise"
	StatusSystem   Status = "System"
	StatusTest     Status = "Test"
	StatusDraft    Status = "Draft"
)

// MsgType is the CAP <msgType> code.
type MsgType string

const (
	MsgTypeAlert  MsgType = "Alert"
	MsgTypeUpdate MsgType = "Update"
	MsgTypeCancel MsgType = "Cancel"
	MsgTypeAck    MsgType = "Ack"
	MsgTypeError  MsgType = "Error"
)

// Scope is the CAP <scope> code.
type Scope string

const (
	ScopePublic     Scope = "Public"
	ScopeRestricted Scope = "Restricted"
	ScopePrivate    Scope = "Private"
)

// Category is a CAP <category> code.
type Category string

const (
	CategoryGeo       Category = "Geo"
	CategoryMet       Category = "Met"
	CategorySafety    Category = "Safety"
	CategorySecurity  Category = "Security"
	CategoryRescue    Category = "Rescue"
	CategoryFire      Category = "Fire"
	CategoryHealth    Category = "Health"
	CategoryEnv       Category = "Env"
	CategoryTransport Category = "Transport"
	CategoryInfra     Category = "Infra"
	CategoryCBRNE     Category = "CBRNE"
	CategoryOther     Category = "Other"
)

// ResponseType is a CAP <responseType> code.
type ResponseType string

const (
	ResponseShelter  ResponseType = "Shelter"
	ResponseEvacuate ResponseType = "Evacuate"
	ResponsePrepare  ResponseType = "Prepare"
	ResponseExecute  ResponseType = "Execute"
	ResponseAvoid    ResponseType = "Avoid"
	ResponseMonitor  ResponseType = "Monitor"
	ResponseAssess   ResponseType = "Assess"
	ResponseAllClear ResponseType = "AllClear"
	ResponseNone     ResponseType = "None"
)

// Urgency is the CAP <urgency> code.
type Urgency string

const (
	UrgencyImmediate Urgency = "Immediate"
	UrgencyExpected  Urgency = "Expected"
	UrgencyFuture    Urgency = "Future"
	UrgencyPast      Urgency = "Past"
	UrgencyUnknown   Urgency = "Unknown"
)

// Severity is the CAP <severity> code.
type Severity string

const (
	SeverityExtreme  Severity = "Extreme"
	SeveritySevere   Severity = "Severe"
	SeverityModerate Severity = "Moderate"
	SeverityMinor    Severity = "Minor"
	SeverityUnknown  Severity = "Unknown"
)

// Certainty is the CAP <certainty> code.
type Certainty string

const (
	CertaintyObserved Certainty = "Observed"
	CertaintyLikely   Certainty = "Likely"
	CertaintyPossible Certainty = "Possible"
	CertaintyUnlikely Certainty = "Unlikely"
	CertaintyUnknown  Certainty = "Unknown"
)

var (
	statuses = set(StatusActual, StatusExercise, StatusSystem, StatusTest, StatusDraft)
	msgTypes = set(MsgTypeAlert, MsgTypeUpdate, MsgTypeCancel, MsgTypeAck, MsgTypeError)
	scopes   = set(ScopePublic, ScopeRestricted, ScopePrivate)

	categories = set(
		CategoryGeo, CategoryMet, CategorySafety, CategorySecurity,
		CategoryRescue, CategoryFire, CategoryHealth, CategoryEnv,
		CategoryTransport, CategoryInfra, CategoryCBRNE, CategoryOther,
	)
	responseTypes = set(
		ResponseShelter, ResponseEvacuate, ResponsePrepare, ResponseExecute,
		ResponseAvoid, ResponseMonitor, ResponseAssess, ResponseAllClear, ResponseNone,
	)
	urgencies  = set(UrgencyImmediate, UrgencyExpected, UrgencyFuture, UrgencyPast, UrgencyUnknown)
	severities = set(SeverityExtreme, SeveritySevere, SeverityModerate, SeverityMinor, SeverityUnknown)

	// CAP 1.0 used "Very Likely"; some producers still send it.
	certainties = map[string]Certainty{
		"Observed":    CertaintyObserved,
		"Likely":      CertaintyLikely,
		"Possible":    CertaintyPossible,
		"Unlikely":    CertaintyUnlikely,
		"Unknown":     CertaintyUnknown,
		"Very Likely": CertaintyLikely,
		"VeryLikely":  CertaintyLikely,
	}
)

func set[T ~string](vals ...T) map[string]T {
	m := make(map[string]T, len(vals))
	for _, v := range vals {
		m[string(v)] = v
	}
	return m
}
