package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/geo"
	"github.com/couchcryptid/cap-alert-etl/internal/tracker"
)

var errBadQuery = errors.New("invalid alert query")

type alertsResponse struct {
	Watch   *domain.Watch    `json:"watch,omitempty"`
	Count   int              `json:"count"`
	Threads []tracker.Thread `json:"threads"`
}

// handleAlerts lists tracked alert threads. With any of state, fips, zone,
// lat, lon or place set, only threads relevant to that location are returned.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	watch, err := parseWatch(q)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if place := strings.TrimSpace(q.Get("place")); place != "" && watch.Point == nil {
		if s.geocoder == nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": errBadQuery.Error() + ": place lookup is disabled"})
			return
		}
		watch = domain.ResolveWatch(r.Context(), watch, place, s.geocoder, s.logger)
		if watch.Point == nil {
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "place not found: " + place})
			return
		}
	}

	resp := alertsResponse{}
	if watch.IsZero() {
		resp.Threads = s.alerts.Active()
	} else {
		resp.Watch = &watch
		resp.Threads = s.alerts.Relevant(watch, s.matcher)
	}
	if resp.Threads == nil {
		resp.Threads = []tracker.Thread{}
	}
	resp.Count = len(resp.Threads)

	s.logger.Debug("alerts query", "state", watch.State, "fips", watch.FIPS, "zone", watch.Zone, "threads", resp.Count)
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func parseWatch(q url.Values) (domain.Watch, error) {
	w := domain.Watch{
		State: strings.ToUpper(strings.TrimSpace(q.Get("state"))),
		FIPS:  strings.TrimSpace(q.Get("fips")),
		Zone:  strings.TrimSpace(q.Get("zone")),
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" && lonStr == "" {
		return w, nil
	}
	if latStr == "" || lonStr == "" {
		return domain.Watch{}, fmt.Errorf("%w: lat and lon must be given together", errBadQuery)
	}
	lat, err := parseCoordinate("lat", latStr, 90)
	if err != nil {
		return domain.Watch{}, err
	}
	lon, err := parseCoordinate("lon", lonStr, 180)
	if err != nil {
		return domain.Watch{}, err
	}
	p := geo.NewPoint(lat, lon)
	w.Point = &p
	return w, nil
}

func parseCoordinate(name, s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < -limit || v > limit {
		return 0, fmt.Errorf("%w: %s %q must be a number between %g and %g", errBadQuery, name, s, -limit, limit)
	}
	return v, nil
}
