package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var errWatchPoint = errors.New("WATCH_LAT and WATCH_LON must be set together")

func parsePositiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: must be true or false", key, s)
	}
	return b, nil
}

// parseCoordinate reads an optional coordinate bounded by limit in absolute value.
func parseCoordinate(key string, limit float64) (*float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < -limit || f > limit {
		return nil, fmt.Errorf("invalid %s %q: must be a number between %g and %g", key, s, -limit, limit)
	}
	return &f, nil
}
