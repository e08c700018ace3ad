package analytics

import (
	"strings"
	"time"

	"github.com/de-tools/goal-master/pkg/models/domain"
)

// ParsePeriod normalises a user supplied period token. Unknown tokens map to PeriodAll.
func ParsePeriod(token string) domain.Period {
	switch p := domain.Period(strings.ToLower(strings.TrimSpace(token))); p {
	case domain.PeriodOneMonth, domain.PeriodThreeMonths, domain.PeriodSixMonths, domain.PeriodOneYear:
		return p
	default:
		return domain.PeriodAll
	}
}

// ResolveRange maps a period token to a concrete window ending at now.
func ResolveRange(period domain.Period, now time.Time) domain.DateRange {
	var start time.Time
	switch ParsePeriod(string(period)) {
	case domain.PeriodOneMonth:
		start = subtractMonths(now, 1)
	case domain.PeriodThreeMonths:
		start = subtractMonths(now, 3)
	case domain.PeriodSixMonths:
		start = subtractMonths(now, 6)
	case domain.PeriodOneYear:
		start = subtractMonths(now, 12)
	default:
		start = time.Unix(0, 0).In(now.Location())
	}
	return domain.DateRange{Start: start, End: now}
}

// IsUnbounded reports whether the period has no lower bound.
func IsUnbounded(period domain.Period) bool {
	return ParsePeriod(string(period)) == domain.PeriodAll
}

// subtractMonths steps back whole calendar months, pinning the day to the
// last valid day of the target month instead of overflowing into the next one.
func subtractMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month-time.Month(months), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := firstOfTarget.Date()

	if last := daysIn(ty, tm, t.Location()); day > last {
		day = last
	}

	hour, minute, sec := t.Clock()
	return time.Date(ty, tm, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
