package clock

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"

	"github.com/orabaiah/buzzerd/internal/logger"
)

const (
	// syncRetryInterval is how often an unsynchronized clock probes NTP.
	syncRetryInterval = 10 * time.Second
	// syncRefreshInterval is how often a synchronized clock refreshes
	// its offset.
	syncRefreshInterval = time.Hour
)

// SystemClock derives monotonic time from the process start instant and
// gates the wall clock behind an NTP probe, mirroring boards whose RTC
// is useless until SNTP answers.
type SystemClock struct {
	// start anchors the monotonic counter.
	start time.Time
	// utcOffset is the fixed offset applied to the synchronized time.
	utcOffset time.Duration

	// mu protects the sync state below.
	mu sync.RWMutex
	// synced is set after the first successful NTP probe.
	synced bool
	// ntpOffset corrects the host clock by the last measured NTP offset.
	ntpOffset time.Duration
}

// NewSystemClock creates a clock with the given fixed UTC offset.
// The wall clock stays unavailable until Sync succeeds at least once.
func NewSystemClock(utcOffset time.Duration) *SystemClock {
	return &SystemClock{
		start:     time.Now(),
		utcOffset: utcOffset,
	}
}

// MonotonicMillis implements Clock.
func (c *SystemClock) MonotonicMillis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

// WallClock implements Clock.
func (c *SystemClock) WallClock() (int, int, bool) {
	c.mu.RLock()
	synced, ntpOffset := c.synced, c.ntpOffset
	c.mu.RUnlock()

	if !synced {
		return 0, 0, false
	}

	now := time.Now().Add(ntpOffset).UTC().Add(c.utcOffset)

	return now.Hour(), now.Minute(), true
}

// Sync probes the NTP server in the background until the context is
// canceled: every syncRetryInterval while unsynchronized, then every
// syncRefreshInterval to keep the offset fresh. Probe failures are
// logged and retried, never surfaced.
func (c *SystemClock) Sync(ctx context.Context, server string) {
	go c.syncLoop(ctx, server)
}

func (c *SystemClock) syncLoop(ctx context.Context, server string) {
	ctx = logger.WithName(ctx, "ntp-sync")

	for {
		interval := syncRetryInterval
		if c.probe(ctx, server) {
			interval = syncRefreshInterval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// probe queries the server once and reports whether the clock is synced
// afterwards.
func (c *SystemClock) probe(ctx context.Context, server string) bool {
	response, err := ntp.Query(server)
	if err == nil {
		err = response.Validate()
	}

	if err != nil {
		c.mu.RLock()
		synced := c.synced
		c.mu.RUnlock()

		logger.WarnKV(ctx, "NTP probe failed", "server", server, "error", err)

		return synced
	}

	c.mu.Lock()
	first := !c.synced
	c.synced = true
	c.ntpOffset = response.ClockOffset
	c.mu.Unlock()

	if first {
		logger.InfoKV(ctx, "Time synchronized", "server", server, "offset", response.ClockOffset)
	}

	return true
}
