// Command capdecode decodes CAP documents from disk and prints one JSON alert
// record per line, the same record capetl publishes to Kafka. Decode
// diagnostics are logged to stderr and a summary closes the run.
//
// Usage:
//
//	go run ./cmd/capdecode \
//	  -state CA -fips 06097 -zone 506 -lat 38.44 -lon -122.71 \
//	  -now 2024-01-10T12:00:00Z -explain \
//	  alerts/*.xml
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
	"github.com/couchcryptid/cap-alert-etl/internal/decoder"
	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/geo"
	"github.com/couchcryptid/cap-alert-etl/internal/observability"
	"github.com/couchcryptid/cap-alert-etl/internal/tracker"
	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
)

var errFailures = errors.New("some documents could not be decoded")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "capdecode:", err)
		os.Exit(1)
	}
}

type options struct {
	watch    domain.Watch
	relevant bool
	explain  bool
	now      time.Time
	logLevel string
	files    []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("capdecode", flag.ContinueOnError)
	fs.SetOutput(stderr)

	state := fs.String("state", "", "watch state, two-letter postal code")
	fips := fs.String("fips", "", "watch county, five-digit FIPS code")
	zone := fs.String("zone", "", "watch NWS zone, three digits")
	lat := fs.String("lat", "", "watch latitude")
	lon := fs.String("lon", "", "watch longitude")
	relevant := fs.Bool("relevant", false, "print only alerts relevant to the watch location")
	explain := fs.Bool("explain", false, "attach CAP definitions of the enumerated fields")
	now := fs.String("now", "", "evaluate expiry at this RFC3339 time instead of the current time")
	logLevel := fs.String("log-level", "warn", "stderr log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() == 0 {
		return options{}, errors.New("no input files")
	}

	opts := options{
		watch: domain.Watch{
			State: strings.ToUpper(*state),
			FIPS:  *fips,
			Zone:  *zone,
		},
		relevant: *relevant,
		explain:  *explain,
		logLevel: *logLevel,
		files:    fs.Args(),
	}

	if (*lat == "") != (*lon == "") {
		return options{}, errors.New("-lat and -lon must be given together")
	}
	if *lat != "" {
		p, err := parsePoint(*lat, *lon)
		if err != nil {
			return options{}, err
		}
		opts.watch.Point = &p
	}
	if opts.relevant && opts.watch.IsZero() {
		return options{}, errors.New("-relevant requires a watch location")
	}

	if *now != "" {
		t, err := time.Parse(time.RFC3339, *now)
		if err != nil {
			return options{}, fmt.Errorf("-now: %w", err)
		}
		opts.now = t.UTC()
	}
	return opts, nil
}

func parsePoint(latStr, lonStr string) (orb.Point, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return orb.Point{}, fmt.Errorf("-lat %q must be between -90 and 90", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return orb.Point{}, fmt.Errorf("-lon %q must be between -180 and 180", lonStr)
	}
	return geo.NewPoint(lat, lon), nil
}

// output is the printed line: the sink record plus optional definitions.
type output struct {
	domain.AlertRecord
	Explain map[string]string `json:"explain,omitempty"`
}

// summary counts the outcome of a run.
type summary struct {
	decoded     int
	printed     int
	failed      []string
	diagnostics int
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: observability.ParseLevel(opts.logLevel)}))

	var clock clockwork.Clock = clockwork.NewRealClock()
	if !opts.now.IsZero() {
		clock = clockwork.NewFakeClockAt(opts.now)
	}
	domain.SetClock(clock)
	defer domain.SetClock(nil)

	tables := codes.New()
	dec := decoder.New(tables, logger)
	matcher := ugc.NewMatcher(logger)
	trk := tracker.New(clock, logger)

	enc := json.NewEncoder(stdout)
	var sum summary

	for _, path := range opts.files {
		data, err := os.ReadFile(path)
		if err != nil {
			sum.failed = append(sum.failed, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		res, err := dec.Decode(path, data)
		if err != nil {
			sum.failed = append(sum.failed, err.Error())
			continue
		}
		sum.decoded++
		sum.diagnostics += len(res.Diagnostics)

		threadID, _ := trk.Add(res.Alert)
		rec := domain.NewRecord(path, res.Alert, tables)
		rec.ThreadID = threadID
		rec.Zones = res.Alert.Zones(matcher)
		rec.Relevant = res.Alert.Relevant(opts.watch, matcher)
		if opts.relevant && !rec.Relevant {
			continue
		}

		out := output{AlertRecord: rec}
		if opts.explain {
			out.Explain = explain(tables, res.Alert)
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		sum.printed++
	}

	printSummary(stderr, sum)
	if len(sum.failed) > 0 {
		return errFailures
	}
	return nil
}

// explain collects the CAP definition of every enumerated value the alert
// carries, plus the NWIS detail of its SAME event codes.
func explain(tables *codes.Tables, a *domain.Alert) map[string]string {
	out := make(map[string]string)
	add := func(term, value string) {
		if value == "" {
			return
		}
		if text, ok := tables.About(term, value); ok {
			out[term+"."+value] = text
		}
	}

	add(codes.TermStatus, string(a.Status))
	add(codes.TermMsgType, string(a.MsgType))
	add(codes.TermScope, string(a.Scope))
	for _, info := range a.Infos {
		for _, c := range info.Categories {
			add(codes.TermCategory, string(c))
		}
		for _, rt := range info.ResponseTypes {
			add(codes.TermResponseType, string(rt))
		}
		add(codes.TermUrgency, string(info.Urgency))
		add(codes.TermSeverity, string(info.Severity))
		add(codes.TermCertainty, string(info.Certainty))
		for _, code := range info.EventCodes[domain.EventCodeSAME] {
			out["SAME."+code] = tables.AboutNWIS(code)
		}
	}
	return out
}

func printSummary(w io.Writer, sum summary) {
	fmt.Fprintf(w, "decoded %d, printed %d, failed %d, diagnostics %d\n",
		sum.decoded, sum.printed, len(sum.failed), sum.diagnostics)
	for _, f := range sum.failed {
		fmt.Fprintf(w, "  FAIL %s\n", f)
	}
}
