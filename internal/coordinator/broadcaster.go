package coordinator

import (
	"context"
	"net"
	"time"

	dtimer "github.com/desertbit/timer"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/registry"
)

// runBroadcaster implements C-Broadcaster (spec §4.3): once per tick, it
// snapshots the registry, releases the lock, then dials each worker with
// a reachable address and writes its current directive. The tick is
// best-effort (spec §5: "a slow tick does not queue up") — we use a
// reusable desertbit/timer.Timer instead of a time.Ticker so a tick that
// overruns its interval doesn't pile up buffered fires; the next tick is
// simply scheduled a fresh Tick after the prior one finishes.
func (c *Coordinator) runBroadcaster(ctx context.Context) {
	t := dtimer.NewTimer(c.cfg.Tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.broadcastOnce()
			t.Reset(c.cfg.Tick)
		}
	}
}

func (c *Coordinator) broadcastOnce() {
	now := time.Now()
	snapshot := c.reg.Snapshot()

	for _, rec := range snapshot {
		if rec.Address == nil {
			continue // spec §3: "address = None => worker is skipped by the broadcaster"
		}
		c.broadcastTo(rec, now)
	}

	c.notifyWS()
}

func (c *Coordinator) broadcastTo(rec registry.Record, now time.Time) {
	d := directive.Ping()
	if rec.HasCurrent {
		d = rec.Current
	}

	conn, err := net.DialTimeout("tcp", rec.Address.String(), c.cfg.ConnectTimeout)
	if err != nil {
		// spec §4.3: connect timeout/error -> evict.
		c.Printf("broadcaster: %s unreachable at %s: %v, evicting", rec.MAC, rec.Address, err)
		c.reg.Remove(rec.MAC)
		return
	}
	defer conn.Close()

	payload := directive.Serialize(d, now)
	if _, err := conn.Write(payload); err != nil {
		// spec §4.3: write failure after connect is transient, not evicted.
		c.Errorf("broadcaster: write to %s at %s failed: %v", rec.MAC, rec.Address, err)
		return
	}
}
