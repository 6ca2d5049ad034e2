package controller

import (
	"context"
	"sync"
	"time"

	"github.com/orabaiah/buzzerd/internal/clock"
	"github.com/orabaiah/buzzerd/internal/domain/schedule"
	"github.com/orabaiah/buzzerd/internal/hardware"
	"github.com/orabaiah/buzzerd/internal/logger"
	"github.com/orabaiah/buzzerd/internal/repository/kvstore"
)

// alarmsKey is the key-value store key holding the persisted alarm CSV.
const alarmsKey = "alarm_csv"

// Params collects the collaborators and limits an Engine needs.
type Params struct {
	// Clock supplies monotonic and wall-clock time.
	Clock clock.Clock
	// Store persists the alarm set between restarts.
	Store kvstore.Store
	// Buzzer is the audible actuator both triggers route through.
	Buzzer hardware.Buzzer
	// Outputs are the digital outputs, in display order.
	Outputs []hardware.Output
	// MaxAlarms bounds the alarm set.
	MaxAlarms int
	// RingDuration is the fixed buzzer activation window.
	RingDuration time.Duration
}

// Engine reconciles the countdown timer, the daily alarm scan and the
// buzzer activation window against the single actuator. All state sits
// behind one mutex: request handlers run on their own goroutines, and
// the design assumes serializable, non-interleaved mutation.
type Engine struct {
	clock   clock.Clock
	store   kvstore.Store
	buzzer  hardware.Buzzer
	outputs []hardware.Output
	byName  map[string]hardware.Output

	maxAlarms  int
	ringMillis uint64

	mu     sync.Mutex
	alarms schedule.AlarmSet
	timer  schedule.TimerState
	window schedule.BuzzerState
	// lastCheckedMinute guards the alarm scan to one run per wall-clock
	// minute. -1 means no minute has been checked yet.
	lastCheckedMinute int
}

// Snapshot is the status view read back by the request boundary.
type Snapshot struct {
	// TimerRunning reports whether a countdown is armed.
	TimerRunning bool `json:"timerRunning"`
	// RemainingSeconds is the whole seconds left on the countdown.
	RemainingSeconds uint64 `json:"remainingSeconds"`
	// AlarmCount is the size of the stored alarm set.
	AlarmCount int `json:"alarmCount"`
	// Outputs maps output names to their driven level.
	Outputs map[string]bool `json:"outputStates"`
	// BuzzerActive reports whether the activation window is open.
	BuzzerActive bool `json:"buzzerActive"`
}

// NewEngine creates the engine and loads the persisted alarm set.
// A store read failure starts the engine with an empty set; nothing at
// startup is fatal. Timer and buzzer always start idle.
func NewEngine(ctx context.Context, p Params) *Engine {
	e := &Engine{
		clock:             p.Clock,
		store:             p.Store,
		buzzer:            p.Buzzer,
		outputs:           p.Outputs,
		byName:            make(map[string]hardware.Output, len(p.Outputs)),
		maxAlarms:         p.MaxAlarms,
		ringMillis:        uint64(p.RingDuration.Milliseconds()),
		alarms:            schedule.AlarmSet{},
		lastCheckedMinute: -1,
	}

	for _, output := range p.Outputs {
		e.byName[output.Name()] = output
	}

	csv, err := e.store.Get(ctx, alarmsKey, "")
	if err != nil {
		logger.WarnKV(ctx, "Could not load persisted alarms, starting empty", "error", err)

		return e
	}

	e.alarms = schedule.ParseAlarmSetCSV(csv, e.maxAlarms)

	logger.InfoKV(ctx, "Alarms loaded", "count", len(e.alarms))

	return e
}

// Run ticks the engine at the given interval until the context is
// canceled. One iteration advances the timer, the buzzer self-silence
// check and the alarm scan, in that order; no iteration blocks beyond
// the inter-iteration yield.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick performs one engine advance.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.MonotonicMillis()

	if e.timer.Advance(now) {
		logger.Info(ctx, "Timer fired")
		e.activateBuzzer(now)
	}

	if e.window.Due(now) {
		e.silenceBuzzer()
	}

	e.scanAlarms(ctx, now)
}

// scanAlarms runs the once-per-minute alarm match. The scan is skipped
// while the wall clock is unavailable and re-runs only on a minute
// edge, so at most one trigger happens per minute no matter how many
// entries share that HH:MM.
func (e *Engine) scanAlarms(ctx context.Context, now uint64) {
	hour, minute, ok := e.clock.WallClock()
	if !ok {
		return
	}

	if minute == e.lastCheckedMinute {
		return
	}

	e.lastCheckedMinute = minute

	if !e.alarms.Match(hour, minute) {
		return
	}

	logger.InfoKV(ctx, "Alarm matched", "time", schedule.Alarm{Hour: hour, Minute: minute}.String())
	e.activateBuzzer(now)
}

// activateBuzzer opens (or extends) the ring window and engages the
// actuator. Concurrent causes in one tick collapse into a single
// window because the end instant is overwritten.
func (e *Engine) activateBuzzer(now uint64) {
	e.window.Activate(now, e.ringMillis)
	e.buzzer.Engage()
}

func (e *Engine) silenceBuzzer() {
	e.window.Deactivate()
	e.buzzer.Disengage()
}

// ReplaceAlarms validates the candidates, installs the resulting set
// (first-N-valid, sorted ascending) and persists its CSV form. On a
// persistence fault the in-memory set stays authoritative and the
// fault is logged, not surfaced; the divergence heals on the next
// successful write. Returns the stored count.
func (e *Engine) ReplaceAlarms(ctx context.Context, candidates []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.alarms = schedule.MakeAlarmSet(candidates, e.maxAlarms)

	if err := e.store.Put(ctx, alarmsKey, e.alarms.EncodeCSV()); err != nil {
		logger.ErrorKV(ctx, "Failed to persist alarms", "error", err)
	} else {
		logger.InfoKV(ctx, "Alarms replaced", "count", len(e.alarms))
	}

	return len(e.alarms)
}

// ClearAlarms empties the set and removes the persisted representation.
func (e *Engine) ClearAlarms(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.alarms = schedule.AlarmSet{}

	if err := e.store.Remove(ctx, alarmsKey); err != nil {
		logger.ErrorKV(ctx, "Failed to remove persisted alarms", "error", err)
	} else {
		logger.Info(ctx, "Alarms cleared")
	}
}

// Alarms returns a copy of the current set in ascending order.
func (e *Engine) Alarms() schedule.AlarmSet {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.alarms.Clone()
}

// StartTimer arms the countdown from independent hour/minute/second
// fields, each clamped to non-negative. A duration that is zero after
// clamping cancels any running countdown instead of arming.
func (e *Engine) StartTimer(ctx context.Context, hours, minutes, seconds int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := schedule.DurationSeconds(hours, minutes, seconds)
	e.timer.Arm(e.clock.MonotonicMillis(), total)

	if e.timer.Running {
		logger.InfoKV(ctx, "Timer started", "seconds", total)
	} else {
		logger.Info(ctx, "Timer start with zero duration, staying idle")
	}
}

// StopTimer cancels the countdown without firing and silences the
// buzzer. Harmless while idle.
func (e *Engine) StopTimer(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timer.Stop()
	e.silenceBuzzer()

	logger.Info(ctx, "Timer stopped")
}

// SetOutput drives the named output and reports whether the name is
// known.
func (e *Engine) SetOutput(ctx context.Context, name string, on bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	output, ok := e.byName[name]
	if !ok {
		return false
	}

	output.Set(on)

	logger.InfoKV(ctx, "Output switched", "output", name, "on", on)

	return true
}

// OutputNames lists the configured outputs in display order.
func (e *Engine) OutputNames() []string {
	names := make([]string, len(e.outputs))
	for i, output := range e.outputs {
		names[i] = output.Name()
	}

	return names
}

// Status returns the snapshot read by the request boundary.
func (e *Engine) Status() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	outputs := make(map[string]bool, len(e.outputs))
	for _, output := range e.outputs {
		outputs[output.Name()] = output.Get()
	}

	return Snapshot{
		TimerRunning:     e.timer.Running,
		RemainingSeconds: e.timer.RemainingSeconds(e.clock.MonotonicMillis()),
		AlarmCount:       len(e.alarms),
		Outputs:          outputs,
		BuzzerActive:     e.window.Active,
	}
}
