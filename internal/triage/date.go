package triage

import (
	"math"
	"strings"
	"time"
)

const (
	// SentinelOffset marks a target date that could not be parsed.
	SentinelOffset = 1000
	// DateFailure replaces the target date when it could not be parsed.
	DateFailure = "fail to get."
	// ProximityDays is the distance at which a release date counts as close.
	ProximityDays = 2

	targetDateLabel  = "Target release date"
	targetDateLayout = "2006-01-02"
)

// TargetDate reads the requested release date from the body and returns it
// with its calendar-day distance from now. Any failure yields DateFailure
// and SentinelOffset; it never errors.
func TargetDate(lines []string, now time.Time) (string, int) {
	for _, line := range lines {
		if !strings.Contains(line, targetDateLabel) {
			continue
		}
		raw := fieldValue(line)
		target, err := time.ParseInLocation(targetDateLayout, raw, now.Location())
		if err != nil {
			return DateFailure, SentinelOffset
		}
		return raw, DayOffset(target, now)
	}
	return DateFailure, SentinelOffset
}

// DayOffset counts calendar days from now to target; negative when target
// is in the past.
func DayOffset(target, now time.Time) int {
	ty, tm, td := target.Date()
	ny, nm, nd := now.Date()
	a := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(math.Round(a.Sub(b).Hours() / 24))
}

// CloseToRelease reports whether offset is within ProximityDays.
func CloseToRelease(offset int) bool {
	if offset < 0 {
		offset = -offset
	}
	return offset <= ProximityDays
}
