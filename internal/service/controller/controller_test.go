package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orabaiah/buzzerd/internal/clock"
	"github.com/orabaiah/buzzerd/internal/domain/schedule"
	"github.com/orabaiah/buzzerd/internal/hardware"
	"github.com/orabaiah/buzzerd/internal/repository/kvstore"
)

// testRing is the activation window used throughout the tests.
const testRing = 1800 * time.Millisecond

// rig bundles an engine with the fakes it is wired to.
type rig struct {
	engine *Engine
	clock  *clock.Manual
	buzzer *hardware.MemBuzzer
	led1   *hardware.MemOutput
	led2   *hardware.MemOutput
	store  kvstore.Store
}

func newRig(t *testing.T, store kvstore.Store) *rig {
	t.Helper()

	if store == nil {
		store = kvstore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	}

	r := &rig{
		clock:  &clock.Manual{},
		buzzer: &hardware.MemBuzzer{},
		led1:   hardware.NewMemOutput("led1"),
		led2:   hardware.NewMemOutput("led2"),
		store:  store,
	}

	r.engine = NewEngine(context.Background(), Params{
		Clock:        r.clock,
		Store:        store,
		Buzzer:       r.buzzer,
		Outputs:      []hardware.Output{r.led1, r.led2},
		MaxAlarms:    20,
		RingDuration: testRing,
	})

	return r
}

func (r *rig) tick() {
	r.engine.Tick(context.Background())
}

// TestStartTimerZeroStaysIdle covers the explicit cancel-on-zero policy,
// including negative fields that clamp to zero.
func TestStartTimerZeroStaysIdle(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	ctx := context.Background()

	r.engine.StartTimer(ctx, 0, 0, 0)
	require.False(t, r.engine.Status().TimerRunning)

	r.engine.StartTimer(ctx, -1, -2, -3)
	require.False(t, r.engine.Status().TimerRunning)

	// Zero duration cancels a running countdown.
	r.engine.StartTimer(ctx, 0, 0, 30)
	require.True(t, r.engine.Status().TimerRunning)
	r.engine.StartTimer(ctx, 0, 0, 0)
	require.False(t, r.engine.Status().TimerRunning)
}

// TestTimerFiresOnceAndRingsBuzzer arms a 5 second countdown, advances
// past the deadline and checks for exactly one fire, a ring window of
// the configured duration, and self-silencing without a blocked loop.
func TestTimerFiresOnceAndRingsBuzzer(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	ctx := context.Background()

	r.engine.StartTimer(ctx, 0, 0, 5)

	status := r.engine.Status()
	require.True(t, status.TimerRunning)
	require.Equal(t, uint64(5), status.RemainingSeconds)

	r.clock.Advance(4999)
	r.tick()
	require.True(t, r.engine.Status().TimerRunning)
	require.False(t, r.buzzer.Engaged())

	r.clock.Advance(1)
	r.tick()

	status = r.engine.Status()
	require.False(t, status.TimerRunning)
	require.True(t, status.BuzzerActive)
	require.True(t, r.buzzer.Engaged())
	require.Equal(t, 1, r.buzzer.Engagements())

	// Further ticks within the window re-fire nothing.
	r.clock.Advance(100)
	r.tick()
	require.Equal(t, 1, r.buzzer.Engagements())
	require.True(t, r.buzzer.Engaged())

	// The window closes on its own at the ring duration boundary.
	r.clock.Advance(uint64(testRing.Milliseconds()) - 100)
	r.tick()
	require.False(t, r.buzzer.Engaged())
	require.False(t, r.engine.Status().BuzzerActive)
}

// TestStopTimerCancelsAndSilences checks that stop cancels an armed
// countdown without firing and silences a ringing buzzer.
func TestStopTimerCancelsAndSilences(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	ctx := context.Background()

	// Cancel before the deadline: no fire ever.
	r.engine.StartTimer(ctx, 0, 0, 5)
	r.engine.StopTimer(ctx)
	r.clock.Advance(10_000)
	r.tick()
	require.Equal(t, 0, r.buzzer.Engagements())

	// Stop also silences an already ringing buzzer.
	r.engine.StartTimer(ctx, 0, 0, 1)
	r.clock.Advance(1000)
	r.tick()
	require.True(t, r.buzzer.Engaged())

	r.engine.StopTimer(ctx)
	require.False(t, r.buzzer.Engaged())
	require.False(t, r.engine.Status().BuzzerActive)

	// Stop while idle is a harmless no-op.
	r.engine.StopTimer(ctx)
}

// TestAlarmScanTriggersOncePerMinute walks the wall-clock sequence
// 07:29, 07:29, 07:30, 07:30, 07:31 against an alarm at 07:30 and
// expects exactly one trigger, at the first 07:30 sample.
func TestAlarmScanTriggersOncePerMinute(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	r.engine.ReplaceAlarms(context.Background(), []string{"07:30"})

	samples := []struct {
		hour, minute int
		engagements  int
	}{
		{7, 29, 0},
		{7, 29, 0},
		{7, 30, 1},
		{7, 30, 1},
		{7, 31, 1},
	}
	for _, sample := range samples {
		r.clock.SetWallClock(sample.hour, sample.minute)
		r.clock.Advance(10)
		r.tick()
		require.Equal(t, sample.engagements, r.buzzer.Engagements(),
			"%02d:%02d", sample.hour, sample.minute)
	}
}

// TestAlarmScanDuplicateEntries ensures entries sharing one HH:MM do
// not stack triggers; the scan stops at the first match.
func TestAlarmScanDuplicateEntries(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	r.engine.ReplaceAlarms(context.Background(), []string{"07:30", "07:30", "07:30"})

	r.clock.SetWallClock(7, 30)
	r.tick()
	require.Equal(t, 1, r.buzzer.Engagements())
}

// TestAlarmScanSkippedWhileUnsynchronized keeps the wall clock
// unavailable and expects no scan, then lets it synchronize and
// expects the match.
func TestAlarmScanSkippedWhileUnsynchronized(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	r.engine.ReplaceAlarms(context.Background(), []string{"07:30"})

	for i := 0; i < 5; i++ {
		r.clock.Advance(10)
		r.tick()
	}

	require.Equal(t, 0, r.buzzer.Engagements())

	r.clock.SetWallClock(7, 30)
	r.tick()
	require.Equal(t, 1, r.buzzer.Engagements())
}

// TestConcurrentCausesCollapse fires the timer in the same tick an
// alarm matches and expects one activation window, closing exactly at
// the ring duration boundary.
func TestConcurrentCausesCollapse(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	ctx := context.Background()

	r.engine.ReplaceAlarms(ctx, []string{"07:30"})
	r.engine.StartTimer(ctx, 0, 0, 1)

	r.clock.SetWallClock(7, 30)
	r.clock.Advance(1000)
	r.tick()

	require.True(t, r.engine.Status().BuzzerActive)

	// One window only: it must close at now+ring, not be extended by a
	// second independently tracked activation.
	r.clock.Advance(uint64(testRing.Milliseconds()) - 1)
	r.tick()
	require.True(t, r.buzzer.Engaged())

	r.clock.Advance(1)
	r.tick()
	require.False(t, r.buzzer.Engaged())
}

// TestReplaceAlarmsPersistsAcrossRestart replaces the set, then builds
// a fresh engine on the same store and expects the same ordered set.
func TestReplaceAlarmsPersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	store := kvstore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	r := newRig(t, store)
	count := r.engine.ReplaceAlarms(ctx, []string{"12:00", "07:30", "junk", "06:15"})
	require.Equal(t, 3, count)

	restarted := newRig(t, store)
	require.Equal(t, schedule.AlarmSet{
		{Hour: 6, Minute: 15},
		{Hour: 7, Minute: 30},
		{Hour: 12, Minute: 0},
	}, restarted.engine.Alarms())
}

// TestClearAlarms empties the set and removes the persisted key.
func TestClearAlarms(t *testing.T) {
	t.Parallel()

	store := kvstore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	r := newRig(t, store)
	r.engine.ReplaceAlarms(ctx, []string{"07:30"})
	r.engine.ClearAlarms(ctx)

	require.Empty(t, r.engine.Alarms())
	require.Equal(t, 0, r.engine.Status().AlarmCount)

	restarted := newRig(t, store)
	require.Empty(t, restarted.engine.Alarms())
}

// faultyStore fails every write but serves reads, to exercise the
// in-memory-stays-authoritative policy.
type faultyStore struct {
	values map[string]string
}

var errDiskGone = errors.New("disk gone")

func (s *faultyStore) Put(context.Context, string, string) error { return errDiskGone }
func (s *faultyStore) Remove(context.Context, string) error      { return errDiskGone }

func (s *faultyStore) Get(_ context.Context, key, def string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}

	return def, nil
}

// TestReplaceAlarmsSurvivesPersistFailure keeps the new set in memory
// when the write fails; the fault is logged, never surfaced.
func TestReplaceAlarmsSurvivesPersistFailure(t *testing.T) {
	t.Parallel()

	r := newRig(t, &faultyStore{})
	ctx := context.Background()

	count := r.engine.ReplaceAlarms(ctx, []string{"07:30", "06:00"})
	require.Equal(t, 2, count)
	require.Equal(t, schedule.AlarmSet{
		{Hour: 6, Minute: 0},
		{Hour: 7, Minute: 30},
	}, r.engine.Alarms())

	// Clear with a failing Remove still empties the in-memory set.
	r.engine.ClearAlarms(ctx)
	require.Empty(t, r.engine.Alarms())
}

// TestEngineStartsEmptyOnCorruptStore tolerates a store read failure at
// startup instead of failing to boot.
func TestEngineStartsEmptyOnCorruptStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	r := newRig(t, kvstore.NewFileStore(path))
	require.Empty(t, r.engine.Alarms())

	// A partially corrupted CSV still yields the readable entries.
	store := kvstore.NewFileStore(filepath.Join(t.TempDir(), "ok.json"))
	require.NoError(t, store.Put(context.Background(), "alarm_csv", "07:30,garbage,08:00"))
	require.Len(t, newRig(t, store).engine.Alarms(), 2)
}

// TestSetOutput drives known outputs and rejects unknown names.
func TestSetOutput(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	ctx := context.Background()

	require.True(t, r.engine.SetOutput(ctx, "led1", true))
	require.True(t, r.led1.Get())
	require.False(t, r.led2.Get())

	status := r.engine.Status()
	require.True(t, status.Outputs["led1"])
	require.False(t, status.Outputs["led2"])

	require.True(t, r.engine.SetOutput(ctx, "led1", false))
	require.False(t, r.led1.Get())

	require.False(t, r.engine.SetOutput(ctx, "led3", true))
}

// TestRunLoopTicks drives the control loop goroutine briefly and
// verifies it advances the engine.
func TestRunLoopTicks(t *testing.T) {
	t.Parallel()

	r := newRig(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.engine.StartTimer(ctx, 0, 0, 1)
	r.clock.Advance(1000)

	loopDone := make(chan struct{})

	go func() {
		r.engine.Run(ctx, time.Millisecond)
		close(loopDone)
	}()

	require.Eventually(t, func() bool {
		return r.buzzer.Engaged()
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-loopDone:
	case <-time.After(time.Second):
		t.Fatal("control loop did not stop on context cancel")
	}
}
