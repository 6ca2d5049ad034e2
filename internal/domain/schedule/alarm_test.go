package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseAlarm covers the acceptance rule: exactly 5 characters,
// ':' in the middle, both fields two digits in range.
func TestParseAlarm(t *testing.T) {
	t.Parallel()

	accepted := map[string]Alarm{
		"00:00": {Hour: 0, Minute: 0},
		"07:30": {Hour: 7, Minute: 30},
		"23:59": {Hour: 23, Minute: 59},
	}
	for candidate, want := range accepted {
		got, ok := ParseAlarm(candidate)
		require.True(t, ok, candidate)
		require.Equal(t, want, got)
		require.Equal(t, candidate, got.String())
	}

	rejected := []string{
		"",
		"7:30",
		"07:3",
		"007:30",
		"24:00",
		"23:60",
		"99:99",
		"ab:cd",
		"07-30",
		"07:30 ",
		" 7:30",
		"0x:30",
		"07:3x",
	}
	for _, candidate := range rejected {
		_, ok := ParseAlarm(candidate)
		require.False(t, ok, candidate)
	}
}

// TestMakeAlarmSet verifies the first-N-valid policy and the ascending
// ordering invariant after every build.
func TestMakeAlarmSet(t *testing.T) {
	t.Parallel()

	set := MakeAlarmSet([]string{"12:00", "bogus", "07:30", "25:00", "07:05"}, 20)
	require.Equal(t, AlarmSet{
		{Hour: 7, Minute: 5},
		{Hour: 7, Minute: 30},
		{Hour: 12, Minute: 0},
	}, set)

	// More valid candidates than the bound: drop the tail, keep first N.
	set = MakeAlarmSet([]string{"09:00", "08:00", "07:00", "06:00"}, 2)
	require.Len(t, set, 2)
	require.Equal(t, AlarmSet{
		{Hour: 8, Minute: 0},
		{Hour: 9, Minute: 0},
	}, set)

	// Duplicates are kept, not deduplicated.
	set = MakeAlarmSet([]string{"07:30", "07:30"}, 20)
	require.Len(t, set, 2)
}

// TestAlarmSetCSVRoundTrip ensures load(persist(S)) reproduces S for
// valid sets within the bound.
func TestAlarmSetCSVRoundTrip(t *testing.T) {
	t.Parallel()

	sets := []AlarmSet{
		{},
		{{Hour: 7, Minute: 30}},
		{{Hour: 0, Minute: 0}, {Hour: 7, Minute: 30}, {Hour: 23, Minute: 59}},
		{{Hour: 6, Minute: 15}, {Hour: 6, Minute: 15}},
	}
	for _, set := range sets {
		require.Equal(t, set, ParseAlarmSetCSV(set.EncodeCSV(), 20))
	}

	require.Equal(t, "06:00,18:30", AlarmSet{
		{Hour: 6, Minute: 0},
		{Hour: 18, Minute: 30},
	}.EncodeCSV())
}

// TestParseAlarmSetCSVCorruption checks that malformed tokens are
// skipped without failing the load and that the bound stops parsing
// early.
func TestParseAlarmSetCSVCorruption(t *testing.T) {
	t.Parallel()

	set := ParseAlarmSetCSV("07:30,garbage,,25:61,  08:15 ,xx", 20)
	require.Equal(t, AlarmSet{
		{Hour: 7, Minute: 30},
		{Hour: 8, Minute: 15},
	}, set)

	set = ParseAlarmSetCSV("01:00,02:00,03:00", 2)
	require.Len(t, set, 2)

	require.Empty(t, ParseAlarmSetCSV("", 20))
}

// TestAlarmSetMatch covers the linear scan and duplicate independence.
func TestAlarmSetMatch(t *testing.T) {
	t.Parallel()

	set := MakeAlarmSet([]string{"07:30", "07:30", "12:00"}, 20)
	require.True(t, set.Match(7, 30))
	require.True(t, set.Match(12, 0))
	require.False(t, set.Match(7, 31))
	require.False(t, AlarmSet{}.Match(7, 30))
}

// TestAlarmSetClone ensures the copy does not alias the original slice.
func TestAlarmSetClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, AlarmSet(nil).Clone())

	set := MakeAlarmSet([]string{"07:30", "08:00"}, 20)
	cloned := set.Clone()
	require.Equal(t, set, cloned)

	cloned[0].Hour = 9
	require.Equal(t, 7, set[0].Hour)
}
