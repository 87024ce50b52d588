package calendar

import "time"

// MonthlyCount returns how many timestamps fall in the same local month as now.
func MonthlyCount(timestamps []time.Time, now time.Time) int {
	current := MonthOf(now)
	count := 0
	for _, ts := range timestamps {
		if current.Contains(ts, now.Location()) {
			count++
		}
	}
	return count
}
