package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// Alarm is a daily time-of-day trigger.
type Alarm struct {
	// Hour of day, 0–23.
	Hour int
	// Minute of hour, 0–59.
	Minute int
}

// alarmTextLen is the length of the canonical "HH:MM" form.
const alarmTextLen = 5

// ParseAlarm validates a candidate "HH:MM" string.
// A candidate is accepted iff it is exactly 5 characters, the third
// character is ':' and both two-digit fields are in range. Anything
// else is rejected; rejection is not an error, the candidate is simply
// excluded by the caller.
func ParseAlarm(s string) (Alarm, bool) {
	if len(s) != alarmTextLen || s[2] != ':' {
		return Alarm{}, false
	}

	hour, ok := twoDigits(s[0], s[1])
	if !ok || hour > 23 {
		return Alarm{}, false
	}

	minute, ok := twoDigits(s[3], s[4])
	if !ok || minute > 59 {
		return Alarm{}, false
	}

	return Alarm{Hour: hour, Minute: minute}, true
}

// twoDigits parses a pair of ASCII digits into a number.
func twoDigits(hi, lo byte) (int, bool) {
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, false
	}

	return int(hi-'0')*10 + int(lo-'0'), true
}

// String renders the canonical "HH:MM" form.
func (a Alarm) String() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// Matches reports whether the alarm equals the given wall-clock minute.
// The comparison is integer against integer, no formatting involved.
func (a Alarm) Matches(hour, minute int) bool {
	return a.Hour == hour && a.Minute == minute
}

// minuteOfDay is the sort key for the ascending ordering invariant.
func (a Alarm) minuteOfDay() int {
	return a.Hour*60 + a.Minute
}

// AlarmSet is an ordered sequence of alarms, ascending by HH:MM.
// Duplicates are permitted; matching is a full scan, so duplication has
// no functional effect, but ordering keeps the persisted form and the
// UI listing deterministic.
type AlarmSet []Alarm

// MakeAlarmSet builds a set from raw candidates. Each candidate is
// validated with ParseAlarm; invalid candidates are skipped and
// collection stops once max entries are held (first-N-valid policy).
// The result is sorted ascending.
func MakeAlarmSet(candidates []string, max int) AlarmSet {
	set := make(AlarmSet, 0, min(len(candidates), max))

	for _, candidate := range candidates {
		if len(set) >= max {
			break
		}

		alarm, ok := ParseAlarm(candidate)
		if !ok {
			continue
		}

		set = append(set, alarm)
	}

	set.sortAscending()

	return set
}

// ParseAlarmSetCSV rebuilds a set from its persisted CSV form.
// Tokens are validated independently so a partially corrupted blob
// still yields every readable entry; parsing stops at the bound.
func ParseAlarmSetCSV(csv string, max int) AlarmSet {
	if csv == "" {
		return AlarmSet{}
	}

	set := make(AlarmSet, 0, max)

	for _, token := range strings.Split(csv, ",") {
		if len(set) >= max {
			break
		}

		alarm, ok := ParseAlarm(strings.TrimSpace(token))
		if !ok {
			continue
		}

		set = append(set, alarm)
	}

	set.sortAscending()

	return set
}

// EncodeCSV renders the persisted form: comma-joined HH:MM tokens with
// no trailing separator.
func (s AlarmSet) EncodeCSV() string {
	var b strings.Builder

	b.Grow(len(s) * (alarmTextLen + 1))

	for i, alarm := range s {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(alarm.String())
	}

	return b.String()
}

// Match scans the set for the first alarm equal to the given minute.
func (s AlarmSet) Match(hour, minute int) bool {
	for _, alarm := range s {
		if alarm.Matches(hour, minute) {
			return true
		}
	}

	return false
}

// Clone returns a copy of the set to avoid leaking internal slices.
func (s AlarmSet) Clone() AlarmSet {
	if s == nil {
		return nil
	}

	cloned := make(AlarmSet, len(s))
	copy(cloned, s)

	return cloned
}

func (s AlarmSet) sortAscending() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].minuteOfDay() < s[j].minuteOfDay()
	})
}
