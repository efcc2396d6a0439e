// Package coordinator implements the central process: it tracks which
// workers are present (C-Registry), accepts their REGISTER announcements
// (C-RegListener), pushes directives to them once per tick
// (C-Broadcaster), and exposes the portal's HTTP API (C-API). The overall
// shape — a component struct embedding a *clog.CLogger, constructed
// semi-initialized and brought up by a Start(ctx) that launches its
// sub-tasks and blocks until they've all exited — is adapted from the
// teacher's components.Coordinator.Start.
package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/oledcluster/microbroadcast/internal/clog"
	"github.com/oledcluster/microbroadcast/internal/persistent"
	"github.com/oledcluster/microbroadcast/internal/registry"
)

// Coordinator owns the registry and runs the three long-lived tasks
// described in spec §5: registration-listener, broadcaster, HTTP handler
// pool. They share the registry behind its own single mutex; Coordinator
// itself holds no additional lock.
type Coordinator struct {
	*clog.CLogger
	id  string
	cfg Config
	reg *registry.Registry
	ws  *wsHub
}

// New creates a semi-initialized Coordinator ready for Start.
func New(cfg Config, table *persistent.Table) *Coordinator {
	id := uuid.NewString()
	return &Coordinator{
		CLogger: clog.New("coordinator %s ", shortID(id)),
		id:      id,
		cfg:     cfg,
		reg:     registry.New(table),
		ws:      newWSHub(),
	}
}

// Registry exposes the underlying registry, e.g. for tests driving the
// full stack without going through HTTP.
func (c *Coordinator) Registry() *registry.Registry { return c.reg }

// Start runs the coordinator until ctx is canceled, or until one of its
// three tasks fails — whichever comes first (spec §5: "tasks are
// cancellable only at shutdown"). It returns the first error encountered,
// or nil on a clean, context-triggered shutdown.
func (c *Coordinator) Start(ctx context.Context) error {
	c.Printf("starting: api=%s broadcastPort=%d tick=%s", c.cfg.APIAddr, c.cfg.BroadcastPort, c.cfg.Tick)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.runRegListener(ctx)
	})
	g.Go(func() error {
		c.runBroadcaster(ctx)
		return nil
	})
	g.Go(func() error {
		return c.runAPI(ctx)
	})

	return g.Wait()
}

func shortID(id string) string {
	for i, r := range id {
		if r == '-' {
			return id[:i]
		}
	}
	return id
}

func endpointAddr(ip string, port int) string {
	return fmt.Sprintf("%s:%d", ip, port)
}
