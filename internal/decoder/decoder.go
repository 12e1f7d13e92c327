// Package decoder turns CAP XML documents into domain alerts.
//
// Decoding is permissive. Only a missing required element or a document that
// is not XML fails; every other anomaly degrades the affected field and is
// returned as a diagnostic alongside the alert.
package decoder

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/vtec"
)

var (
	// ErrMalformedXML means the input is not a well-formed CAP alert document.
	ErrMalformedXML = errors.New("malformed CAP document")
	// ErrMissingField means a required alert element is absent or unusable.
	ErrMissingField = errors.New("missing required CAP element")
	// ErrDecodeFailed means decoding aborted unexpectedly.
	ErrDecodeFailed = errors.New("CAP decode failed")
)

const (
	rootElement = "alert"
	capVersion0 = "1.0"
)

// Result is a decoded alert with the non-fatal anomalies found on the way.
type Result struct {
	Alert       *domain.Alert
	Diagnostics []domain.Diagnostic
}

// Decoder decodes CAP documents. It is safe for concurrent use.
type Decoder struct {
	vtec   *vtec.Decoder
	logger *slog.Logger
}

// New creates a Decoder resolving VTEC codes through tables.
func New(tables *codes.Tables, logger *slog.Logger) *Decoder {
	return &Decoder{
		vtec:   vtec.NewDecoder(tables, logger),
		logger: logger,
	}
}

// Decode parses one CAP document. source identifies the document in logs.
func (d *Decoder) Decode(source string, data []byte) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("recovered while decoding CAP document", "source", source, "panic", r)
			res = Result{}
			err = fmt.Errorf("%w: %s: %v", ErrDecodeFailed, source, r)
		}
	}()

	var doc xmlAlert
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrMalformedXML, source, err)
	}
	if doc.XMLName.Local != rootElement {
		return Result{}, fmt.Errorf("%w: %s: root element is <%s>", ErrMalformedXML, source, doc.XMLName.Local)
	}
	if missing := missingRequired(&doc); len(missing) > 0 {
		return Result{}, fmt.Errorf("%w: %s: %s", ErrMissingField, source, strings.Join(missing, ", "))
	}

	alert := &domain.Alert{}
	d.decodeAlert(alert, &doc)
	if alert.Sent.IsZero() {
		return Result{}, fmt.Errorf("%w: %s: sent %q is not a valid timestamp", ErrMissingField, source, *doc.Sent)
	}
	for i := range doc.Infos {
		d.decodeInfo(alert, alert.NewInfo(), &doc.Infos[i])
	}
	if len(doc.Infos) == 0 {
		alert.Report(domain.Diagnostic{Field: "info", Message: "no info blocks"})
	}

	diags := alert.Diagnostics()
	for _, diag := range diags {
		d.logger.Warn("CAP decode diagnostic",
			"source", source,
			"alert_id", alert.ID,
			"field", diag.Field,
			"value", diag.Value,
			"message", diag.Message,
		)
	}
	return Result{Alert: alert, Diagnostics: diags}, nil
}

func (d *Decoder) decodeAlert(a *domain.Alert, doc *xmlAlert) {
	a.SetVersion(doc.XMLName.Space)
	if a.Version == capVersion0 {
		a.Report(domain.Diagnostic{Field: "namespace", Value: doc.XMLName.Space, Message: "CAP 1.0 document decoded as 1.1"})
	}

	a.SetID(doc.Identifier)
	a.SetSender(doc.Sender)
	a.SetSent(doc.Sent)
	a.SetStatus(doc.Status)
	a.SetMsgType(doc.MsgType)
	a.SetSource(doc.Source)
	a.SetScope(doc.Scope)
	a.SetRestriction(doc.Restriction)
	a.SetAddresses(doc.Addresses)
	for i := range doc.Codes {
		a.AddCode(&doc.Codes[i])
	}
	a.SetNote(doc.Note)
	a.SetReferences(doc.References)
	a.SetIncidents(doc.Incidents)
}

func (d *Decoder) decodeInfo(a *domain.Alert, info *domain.Info, x *xmlInfo) {
	info.SetLanguage(x.Language)
	for i := range x.Categories {
		info.AddCategory(&x.Categories[i], a)
	}
	info.SetEvent(x.Event)
	for i := range x.ResponseTypes {
		info.AddResponseType(&x.ResponseTypes[i], a)
	}
	info.SetUrgency(x.Urgency, a)
	info.SetSeverity(x.Severity, a)
	info.SetCertainty(x.Certainty, a)
	info.SetAudience(x.Audience)
	for _, ec := range x.EventCodes {
		info.AddEventCode(ec.ValueName, ec.Value)
	}
	info.SetEffective(x.Effective, a)
	info.SetOnset(x.Onset, a)
	info.SetExpires(x.Expires, a)
	info.SetSenderName(x.SenderName)
	info.SetHeadline(x.Headline)
	info.SetDescription(x.Description)
	info.SetInstruction(x.Instruction)
	info.SetWeb(x.Web)
	info.SetContact(x.Contact)

	for _, p := range x.Parameters {
		d.decodeParameter(a, info, p)
	}
	for _, r := range x.Resources {
		decodeResource(a, info, r)
	}
	for i := range x.Areas {
		decodeArea(a, info.NewArea(), &x.Areas[i])
	}

	if info.ApplyDefaults(a.Sent) {
		d.logger.Info("info has no expires, defaulting", "alert_id", a.ID, "expires", info.Expires)
	}
}

// decodeParameter routes VTEC values to the VTEC decoder; everything else is
// stored as a generic parameter.
func (d *Decoder) decodeParameter(a *domain.Alert, info *domain.Info, p xmlKeyValue) {
	if p.ValueName == nil || !strings.Contains(*p.ValueName, domain.ParamVTEC) {
		info.AddParameter(p.ValueName, p.Value)
		return
	}
	if p.Value == nil || strings.TrimSpace(*p.Value) == "" {
		return
	}
	v, errs := d.vtec.Parse(*p.Value)
	for _, fe := range errs {
		field := fe.Field
		if field != "vtec" {
			field = "vtec." + field
		}
		a.Report(domain.Diagnostic{Field: field, Value: fe.Value, Message: fe.Msg, Invalid: true})
	}
	if v.HasPVTEC || v.HasHVTEC {
		info.AddVTEC(v)
	}
}

// decodeResource skips a resource without a mimeType; other bad fields only
// blank themselves.
func decodeResource(a *domain.Alert, info *domain.Info, x xmlResource) {
	if x.MimeType == nil || strings.TrimSpace(*x.MimeType) == "" {
		desc := ""
		if x.Desc != nil {
			desc = strings.TrimSpace(*x.Desc)
		}
		a.Report(domain.Diagnostic{Field: "resource", Value: desc, Message: "resource without mimeType skipped", Invalid: true})
		return
	}
	var res domain.Resource
	res.SetDesc(x.Desc)
	res.SetMimeType(x.MimeType)
	res.SetSize(x.Size, a)
	res.SetURI(x.URI)
	res.SetDerefURI(x.DerefURI, a)
	res.SetDigest(x.Digest)
	info.AddResource(res)
}

func decodeArea(a *domain.Alert, area *domain.Area, x *xmlArea) {
	area.SetDesc(x.Desc)
	for i := range x.Polygons {
		area.AddPolygon(&x.Polygons[i], a)
	}
	for i := range x.Circles {
		area.AddCircle(&x.Circles[i], a)
	}
	for _, gc := range x.GeoCodes {
		area.AddGeoCode(gc.ValueName, gc.Value)
	}
	area.SetAltitude(x.Altitude, a)
	area.SetCeiling(x.Ceiling, a)
}

func missingRequired(doc *xmlAlert) []string {
	required := []struct {
		name  string
		value *string
	}{
		{"identifier", doc.Identifier},
		{"sender", doc.Sender},
		{"sent", doc.Sent},
		{"status", doc.Status},
		{"msgType", doc.MsgType},
		{"scope", doc.Scope},
	}
	var missing []string
	for _, r := range required {
		if r.value == nil || strings.TrimSpace(*r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// charsetReader handles documents declaring a non UTF-8 encoding such as ISO-8859-1.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q: unsupported", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
