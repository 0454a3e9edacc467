package types

import (
	"fmt"
	"regexp"
	"strconv"
)

// Duration is a setup or estimate length carried as whole seconds together
// with its zero-padded HH:MM:SS rendering. The formatted form is what ends up
// in published snapshots, so it is computed once at construction.
type Duration struct {
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
}

var durationPattern = regexp.MustCompile(`^(?:([0-9]{1,2}):)?([0-9]{2}):([0-9]{2})$`)

// ParseDuration parses a duration in H:MM:SS or MM:SS form.
// Returns ErrInvalidDuration for anything else.
func ParseDuration(s string) (Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	return DurationFromSeconds(hours*3600 + minutes*60 + seconds), nil
}

// DurationFromSeconds builds a Duration from a whole number of seconds.
func DurationFromSeconds(secs int) Duration {
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	return Duration{
		Seconds:   secs,
		Formatted: fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
	}
}
