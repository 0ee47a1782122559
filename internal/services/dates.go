package services

import (
	"math"
	"time"
)

const dayLayout = "2006-01-02"

// DayString formats a time as the ledger's calendar-day key.
func DayString(t time.Time) string {
	return t.Format(dayLayout)
}

// daysAgo returns the day key n days before ref.
func daysAgo(ref time.Time, n int) string {
	return DayString(ref.AddDate(0, 0, -n))
}

// monthsFromDate approximates the months elapsed between a YYYY-MM-DD day
// string and now: calendar-day distance divided by 30, rounded to the
// nearest integer. Not calendar months; stored aggregates were built with
// this approximation and it must be preserved. Returns -1 for unparseable
// dates.
func monthsFromDate(date string, now time.Time) int {
	d, err := time.Parse(dayLayout, date)
	if err != nil {
		return -1
	}
	days := math.Abs(now.Sub(d).Hours()) / 24
	return int(math.Round(days / 30))
}

// round2 rounds to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentOf computes an integer percentage of change relative to ref. A zero
// change or zero reference yields 0, so a flat price and a missing reference
// report the same percentage.
func percentOf(change, ref float64) float64 {
	if change == 0 || ref == 0 {
		return 0
	}
	return math.Round(change / ref * 100)
}
