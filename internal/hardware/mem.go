package hardware

import "sync"

// MemOutput is an in-memory Output for tests and hosts without GPIO.
type MemOutput struct {
	name string

	mu sync.Mutex
	on bool
}

var _ Output = (*MemOutput)(nil)

// NewMemOutput creates a named in-memory output, initially off.
func NewMemOutput(name string) *MemOutput {
	return &MemOutput{name: name}
}

// Name implements Output.
func (o *MemOutput) Name() string { return o.name }

// Set implements Output.
func (o *MemOutput) Set(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.on = on
}

// Get implements Output.
func (o *MemOutput) Get() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.on
}

// MemBuzzer is an in-memory Buzzer that records engagement and counts
// activations so tests can assert on trigger behavior.
type MemBuzzer struct {
	mu          sync.Mutex
	engaged     bool
	engagements int
}

var _ Buzzer = (*MemBuzzer)(nil)

// Engage implements Buzzer.
func (b *MemBuzzer) Engage() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.engaged = true
	b.engagements++
}

// Disengage implements Buzzer.
func (b *MemBuzzer) Disengage() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.engaged = false
}

// Engaged reports whether the buzzer is currently on.
func (b *MemBuzzer) Engaged() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.engaged
}

// Engagements reports how many times Engage has been called.
func (b *MemBuzzer) Engagements() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.engagements
}
