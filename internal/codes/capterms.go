package codes

// CAP enumerated element names accepted by [Tables.About].
const (
	TermStatus       = "status"
	TermMsgType      = "msgType"
	TermScope        = "scope"
	TermCategory     = "category"
	TermResponseType = "responseType"
	TermUrgency      = "urgency"
	TermSeverity     = "severity"
	TermCertainty    = "certainty"
)

// Definitions from OASIS CAP 1.2 section 3.2.
var capTerms = map[string]map[string]string{
	TermStatus: {
		"":         "The code denoting the appropriate handling of the alert message.",
		"Actual":   "Actionable by all targeted recipients.",
		"Exercise": "Actionable only by designated exercise participants; exercise identifier should appear in <note>.",
		"System":   "For messages that support alert network internal functions.",
		"Test":     "Technical testing only, all recipients disregard.",
		"Draft":    "A preliminary template or draft, not actionable in its current form.",
	},
	TermMsgType: {
		"":       "The code denoting the nature of the alert message.",
		"Alert":  "Initial information requiring attention by targeted recipients.",
		"Update": "Updates and supercedes the earlier message(s) identified in <references>.",
		"Cancel": "Cancels the earlier message(s) identified in <references>.",
		"Ack":    "Acknowledges receipt and acceptance of the message(s) identified in <references>.",
		"Error":  "Indicates rejection of the message(s) identified in <references>; explanation should appear in <note>.",
	},
	TermScope: {
		"":           "The code denoting the intended distribution of the alert message.",
		"Public":     "For general dissemination to unrestricted audience.",
		"Restricted": "For dissemination only to users with a known operational requirement (see <restriction>).",
		"Private":    "For dissemination only to specified addresses (see <address>).",
	},
	TermCategory: {
		"":          "The code denoting the category of the subject event of the alert message.",
		"Geo":       "Geophysical (inc. landslide).",
		"Met":       "Meteorological (inc. flood).",
		"Safety":    "General emergency and public safety.",
		"Security":  "Law enforcement, military, homeland and local/private security.",
		"Rescue":    "Rescue and recovery.",
		"Fire":      "Fire suppression and rescue.",
		"Health":    "Medical and public health.",
		"Env":       "Pollution and other environmental.",
		"Transport": "Public and private transportation.",
		"Infra":     "Utility, telecommunication, other non-transport infrastructure.",
		"CBRNE":     "Chemical, Biological, Radiological, Nuclear or High-Yield Explosive threat or attack.",
		"Other":     "Other events.",
	},
	TermResponseType: {
		"":         "The code denoting the type of action recommended for the target audience.",
		"Shelter":  "Take shelter in place or per <instruction>.",
		"Evacuate": "Relocate as instructed in the <instruction>.",
		"Prepare":  "Make preparations per the <instruction>.",
		"Execute":  "Execute a pre-planned activity identified in <instruction>.",
		"Avoid":    "Avoid the subject event as per the <instruction>.",
		"Monitor":  "Attend to information sources as described in <instruction>.",
		"Assess":   "Evaluate the information in this message.",
		"AllClear": "The subject event no longer poses a threat or concern and any follow on action is described in <instruction>.",
		"None":     "No action recommended.",
	},
	TermUrgency: {
		"":          "The code denoting the urgency of the subject event of the alert message.",
		"Immediate": "Responsive action should be taken immediately.",
		"Expected":  "Responsive action should be taken soon (within next hour).",
		"Future":    "Responsive action should be taken in the near future.",
		"Past":      "Responsive action is no longer required.",
		"Unknown":   "Urgency not known.",
	},
	TermSeverity: {
		"":         "The code denoting the severity of the subject event of the alert message.",
		"Extreme":  "Extraordinary threat to life or property.",
		"Severe":   "Significant threat to life or property.",
		"Moderate": "Possible threat to life or property.",
		"Minor":    "Minimal to no known threat to life or property.",
		"Unknown":  "Severity unknown.",
	},
	TermCertainty: {
		"":         "The code denoting the certainty of the subject event of the alert message.",
		"Observed": "Determined to have occurred or to be ongoing.",
		"Likely":   "Likely (p > ~50%).",
		"Possible": "Possible but not likely (p <= ~50%).",
		"Unlikely": "Not expected to occur (p ~ 0).",
		"Unknown":  "Certainty unknown.",
	},
}

// About describes a CAP enumerated value. An empty value describes the element
// itself. ok is false for an unknown element or value.
func (t *Tables) About(term, value string) (string, bool) {
	values, ok := t.capTerms[term]
	if !ok {
		return "", false
	}
	desc, ok := values[value]
	return desc, ok
}
