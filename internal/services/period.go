package services

import "time"

// periodLength buckets activity into 15-minute windows since session start.
const periodLength = 15 * time.Minute

// PeriodID returns the zero-based period containing now. A timestamp exactly
// on a boundary falls into the later period: 900s after start is period 1.
func PeriodID(startTs, now time.Time) int {
	if now.Before(startTs) {
		return 0
	}
	return int(now.Sub(startTs) / periodLength)
}
