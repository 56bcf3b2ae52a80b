package types

import "time"

// AddMonths adds calendar months to a date, clamping the day to the last day
// of the target month. Unlike time.AddDate, 2023-01-31 + 1 month yields
// 2023-02-28, not 2023-03-03. Warranty and contract end dates use this rule.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := year*12 + int(month) - 1 + months
	year = total / 12
	m := time.Month(total%12 + 1)

	if last := daysIn(year, m); day > last {
		day = last
	}
	return time.Date(year, m, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
