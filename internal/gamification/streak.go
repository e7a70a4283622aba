package gamification

import "time"

// Streak is the pair of consecutive-day counters kept on a user.
type Streak struct {
	Current int `json:"currentStreak"`
	Max     int `json:"maxStreak"`
}

// DayGap returns the number of calendar days from a to b in loc.
// It is negative when b falls on an earlier day than a.
func DayGap(a, b time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return int(CalendarDay(b, loc).Sub(CalendarDay(a, loc)).Hours() / 24)
}

// CalendarDay returns midnight UTC of the day t falls on in loc.
// Using UTC midnights keeps day arithmetic free of DST shifts.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak resolves the streak after a journal entry written at now, given
// the previous counters and the date of the last entry (nil if none).
func NextStreak(prev Streak, last *time.Time, now time.Time, loc *time.Location) Streak {
	if last == nil {
		return Streak{Current: 1, Max: max(prev.Max, 1)}
	}

	switch gap := DayGap(*last, now, loc); {
	case gap == 0:
		// same day, nothing to extend
		cur := max(prev.Current, 1)
		return Streak{Current: cur, Max: max(prev.Max, cur)}
	case gap == 1:
		cur := prev.Current + 1
		return Streak{Current: cur, Max: max(prev.Max, cur)}
	default:
		return Streak{Current: 1, Max: max(prev.Max, 1)}
	}
}

// ActiveStreak is the streak as seen at now: it drops to 0 once a full
// calendar day has passed without an entry.
func ActiveStreak(current int, last *time.Time, now time.Time, loc *time.Location) int {
	if last == nil {
		return 0
	}
	if DayGap(*last, now, loc) > 1 {
		return 0
	}
	return current
}
