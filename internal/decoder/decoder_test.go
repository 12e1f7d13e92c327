package decoder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
	"github.com/couchcryptid/cap-alert-etl/internal/domain"
)

func newTestDecoder() *Decoder {
	return New(codes.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDecode_NWSFlashFlood(t *testing.T) {
	res, err := newTestDecoder().Decode("nws_flash_flood.xml", readFixture(t, "nws_flash_flood.xml"))
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	assert.Empty(t, res.Diagnostics)

	a := res.Alert
	assert.Equal(t, "1.2", a.Version)
	assert.Equal(t, "w-nws.webmaster@noaa.gov", a.Sender)
	assert.Equal(t, time.Date(2015, 1, 1, 6, 0, 0, 0, time.UTC), a.Sent)
	assert.Equal(t, domain.StatusActual, a.Status)
	assert.Equal(t, domain.MsgTypeAlert, a.MsgType)
	assert.Equal(t, domain.ScopePublic, a.Scope)
	assert.False(t, a.HasError)
	require.Len(t, a.Infos, 1)

	info := a.Infos[0]
	assert.Equal(t, domain.DefaultLanguage, info.Language)
	assert.Equal(t, []domain.Category{domain.CategoryMet}, info.Categories)
	assert.Equal(t, []domain.ResponseType{domain.ResponseAvoid}, info.ResponseTypes)
	assert.Equal(t, domain.UrgencyImmediate, info.Urgency)
	assert.Equal(t, domain.SeveritySevere, info.Severity)
	assert.Equal(t, domain.CertaintyLikely, info.Certainty)
	assert.Equal(t, "FFW", info.EventCode("SAME"))
	assert.Equal(t, time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC), info.Expires)
	require.NotNil(t, info.Onset)
	assert.Equal(t, time.Date(2015, 1, 1, 6, 5, 0, 0, time.UTC), *info.Onset)
	assert.Equal(t, "Heavy rain has caused flash flooding along the Concho River.", info.Description)
	assert.Equal(t, domain.DefaultInstruction, info.Instruction)

	assert.Equal(t, "WGUS54 KSJT 010600", info.WMOHeader)
	assert.Equal(t, "TXC451-020600-", info.UGC)
	assert.Equal(t, "0600Z 250DEG 15KT 3146 10044", info.MotionLine)
	assert.NotContains(t, info.Parameters, "VTEC")
	assert.NotContains(t, info.Parameters, "HVTEC")

	require.NotNil(t, info.VTEC)
	v := info.VTEC
	assert.True(t, v.HasPVTEC)
	assert.True(t, v.HasHVTEC)
	assert.Equal(t, "Operational Product", v.ProductClass)
	assert.Equal(t, "New Event", v.Action)
	assert.Equal(t, "KSJT", v.OfficeID)
	assert.Equal(t, "Flash Flood", v.Phenomena)
	assert.Equal(t, "Warning", v.Significance)
	assert.Equal(t, "0123", v.EventTrackingNumber)
	assert.Equal(t, "SJTT2", v.LocationID)
	assert.Equal(t, "Excessive Rain", v.ImmediateCause)
	assert.Nil(t, v.FloodEnd)

	require.Len(t, info.Areas, 1)
	area := info.Areas[0]
	assert.Equal(t, "Tom Green", area.Desc)
	require.Len(t, area.Polygons, 1)
	assert.Equal(t, orb.Point{-100.60, 31.30}, area.Polygons[0][0])
	assert.Equal(t, []string{"048451"}, area.GeoCodes["FIPS6"])

	assert.Equal(t, "Flash Flood Warning", a.Title(codes.New()))
}

func TestDecode_IPAWSCircle(t *testing.T) {
	res, err := newTestDecoder().Decode("ipaws_circle.xml", readFixture(t, "ipaws_circle.xml"))
	require.NoError(t, err)

	a := res.Alert
	sent := time.Date(2011, 6, 1, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "1.1", a.Version)
	assert.Equal(t, domain.StatusExercise, a.Status)
	assert.Equal(t, domain.MsgTypeUpdate, a.MsgType)
	assert.Equal(t, domain.ScopePrivate, a.Scope)
	assert.Equal(t, []string{"eoc@sonoma.example.gov", "ops@marin.example.gov"}, a.Addresses)
	assert.Equal(t, []string{"IPAWSv1.0", "drill"}, a.Codes)
	assert.Equal(t, []string{"CA-OES-2011-0041"}, a.References)
	assert.Equal(t, []string{"drill-2011-06"}, a.Incidents)
	require.Len(t, a.Infos, 2)

	en := a.Infos[0]
	assert.Equal(t, []domain.Category{domain.CategorySafety, domain.CategoryGeo}, en.Categories)
	assert.Equal(t, domain.CertaintyLikely, en.Certainty, "CAP 1.0 synonym")
	assert.Equal(t, sent, en.Effective)
	assert.Equal(t, sent.Add(24*time.Hour), en.Expires)
	assert.Equal(t, domain.DefaultDescription, en.Description)

	require.Len(t, en.Resources, 1, "resource without mimeType is dropped")
	res0 := en.Resources[0]
	assert.Equal(t, "text/plain", res0.MimeType)
	assert.Equal(t, []byte("hello world"), res0.DerefURI)
	require.NotNil(t, res0.Size)
	assert.Equal(t, int64(11), *res0.Size)

	area := en.Areas[0]
	require.Len(t, area.Circles, 1)
	assert.Equal(t, domain.Circle{Center: orb.Point{-122.71, 38.44}, RadiusKm: 5}, area.Circles[0])
	require.NotNil(t, area.Ceiling)
	assert.Equal(t, 5000, *area.Ceiling)

	es := a.Infos[1]
	assert.Equal(t, "es-US", es.Language)
	assert.Equal(t, time.Date(2011, 6, 1, 19, 0, 0, 0, time.UTC), es.Expires)

	want := []domain.Diagnostic{{Field: "resource", Value: "Map", Message: "resource without mimeType skipped", Invalid: true}}
	if diff := cmp.Diff(want, res.Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

const minimalAlert = `<alert xmlns="urn:oasis:names:tc:emergency:cap:1.2">
  <identifier>id-1</identifier>
  <sender>sender@example.gov</sender>
  <sent>2024-04-26T10:00:00-05:00</sent>
  <status>Actual</status>
  <msgType>Alert</msgType>
  <scope>Public</scope>
  %s
</alert>`

func TestDecode_NoInfoBlocks(t *testing.T) {
	res, err := newTestDecoder().Decode("inline", []byte(fmt.Sprintf(minimalAlert, "")))
	require.NoError(t, err)

	assert.Empty(t, res.Alert.Infos)
	assert.True(t, res.Alert.IsExpired(time.Now()))
	assert.Equal(t, "id-1", res.Alert.Title(codes.New()))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "no info blocks", res.Diagnostics[0].Message)
}

func TestDecode_RecoverableFields(t *testing.T) {
	body := `<info>
    <category>Weather</category>
    <urgency>Now</urgency>
    <certainty>Observed</certainty>
    <effective>soon</effective>
    <parameter><valueName>VTEC</valueName><value>/O.NEW.KSJT.QQ.W.0123.150101T0000Z-150102T0000Z/</value></parameter>
    <area>
      <areaDesc>Somewhere</areaDesc>
      <polygon>1,1 2,x 3,3</polygon>
      <circle>1,1 5</circle>
    </area>
  </info>`
	res, err := newTestDecoder().Decode("inline", []byte(fmt.Sprintf(minimalAlert, body)))
	require.NoError(t, err)

	a := res.Alert
	assert.True(t, a.HasError)
	info := a.Infos[0]
	assert.Empty(t, info.Categories)
	assert.Empty(t, info.Urgency)
	assert.Equal(t, domain.CertaintyObserved, info.Certainty)
	assert.Equal(t, a.Sent, info.Effective, "bad effective falls back to sent")
	require.NotNil(t, info.VTEC)
	assert.Equal(t, "Unknown Phenomena", info.VTEC.Phenomena)
	assert.Empty(t, info.Areas[0].Polygons)
	assert.Len(t, info.Areas[0].Circles, 1)

	var fields []string
	for _, d := range res.Diagnostics {
		fields = append(fields, d.Field)
	}
	assert.Equal(t, []string{"category", "urgency", "effective", "vtec.phenomena", "polygon"}, fields)
}

func TestDecode_Namespaces(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		version   string
		diags     int
	}{
		{"CAP 1.2", "urn:oasis:names:tc:emergency:cap:1.2", "1.2", 0},
		{"CAP 1.1", "urn:oasis:names:tc:emergency:cap:1.1", "1.1", 0},
		{"CAP 1.0", "http://www.incident.com/cap/1.0", "//www.incident.com/cap/1.0", 1},
		{"CAP 1.0 urn", "urn:oasis:names:tc:emergency:cap:1.0", "1.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<alert xmlns="` + tt.namespace + `"><identifier>i</identifier><sender>s</sender>` +
				`<sent>2024-04-26T10:00:00Z</sent><status>Test</status><msgType>Alert</msgType><scope>Public</scope>` +
				`<info><event>e</event></info></alert>`
			res, err := newTestDecoder().Decode("inline", []byte(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.version, res.Alert.Version)
			assert.Len(t, res.Diagnostics, tt.diags)
		})
	}
}

func TestDecode_FatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"not XML", "this is not xml", ErrMalformedXML},
		{"truncated", `<alert xmlns="urn:oasis:names:tc:emergency:cap:1.2"><identifier>x</identifier>`, ErrMalformedXML},
		{"wrong root", `<feed><entry/></feed>`, ErrMalformedXML},
		{"missing identifier", `<alert><sender>s</sender><sent>2024-04-26T10:00:00Z</sent><status>Actual</status><msgType>Alert</msgType><scope>Public</scope></alert>`, ErrMissingField},
		{"blank scope", `<alert><identifier>i</identifier><sender>s</sender><sent>2024-04-26T10:00:00Z</sent><status>Actual</status><msgType>Alert</msgType><scope> </scope></alert>`, ErrMissingField},
		{"unparseable sent", `<alert><identifier>i</identifier><sender>s</sender><sent>Tuesday</sent><status>Actual</status><msgType>Alert</msgType><scope>Public</scope></alert>`, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestDecoder().Decode("inline", []byte(tt.doc))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res.Alert)
		})
	}
}

func TestDecode_Latin1(t *testing.T) {
	// "Montréal" with é encoded as the single ISO-8859-1 byte 0xE9.
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		`<alert xmlns="urn:oasis:names:tc:emergency:cap:1.2"><identifier>i</identifier><sender>s</sender>` +
		`<sent>2024-04-26T10:00:00Z</sent><status>Actual</status><msgType>Alert</msgType><scope>Public</scope>` +
		"<info><event>Montr\xe9al</event></info></alert>")

	res, err := newTestDecoder().Decode("inline", doc)
	require.NoError(t, err)
	assert.Equal(t, "Montréal", res.Alert.Infos[0].Event)
}

func TestDecode_BatchSurvivesBadDocuments(t *testing.T) {
	d := newTestDecoder()
	good := readFixture(t, "nws_flash_flood.xml")
	docs := [][]byte{good, []byte("<alert>"), good, []byte("garbage"), good}

	var decoded int
	for i, doc := range docs {
		if _, err := d.Decode(filepath.Join("batch", string(rune('a'+i))), doc); err == nil {
			decoded++
		}
	}
	assert.Equal(t, 3, decoded)
}

func TestDecode_Concurrent(t *testing.T) {
	d := newTestDecoder()
	data := readFixture(t, "ipaws_circle.xml")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := d.Decode("concurrent", data)
			assert.NoError(t, err)
			assert.Len(t, res.Alert.Infos, 2)
		}()
	}
	wg.Wait()
}

// panickingHandler panics when it handles a diagnostic for one source and
// records every message it sees.
type panickingHandler struct {
	source string

	mu       sync.Mutex
	messages []string
}

func (h *panickingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *panickingHandler) WithAttrs([]slog.Attr) slog.Handler       { return h }
func (h *panickingHandler) WithGroup(string) slog.Handler            { return h }

func (h *panickingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.messages = append(h.messages, r.Message)
	h.mu.Unlock()

	if r.Message != "CAP decode diagnostic" {
		return nil
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" && a.Value.String() == h.source {
			panic("handler failure")
		}
		return true
	})
	return nil
}

func TestDecode_PanicIsContainedToOneDocument(t *testing.T) {
	h := &panickingHandler{source: "broken.xml"}
	d := New(codes.New(), slog.New(h))
	doc := []byte(fmt.Sprintf(minimalAlert, ""))

	res, err := d.Decode("broken.xml", doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.Contains(t, err.Error(), "broken.xml")
	assert.Nil(t, res.Alert)
	assert.Empty(t, res.Diagnostics)
	assert.Contains(t, h.messages, "recovered while decoding CAP document")

	next, err := d.Decode("next.xml", doc)
	require.NoError(t, err)
	require.NotNil(t, next.Alert)
	assert.Equal(t, "id-1", next.Alert.ID)
}
