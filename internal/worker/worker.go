// Package worker implements the display-side process: W-Receiver accepts
// directives on the broadcast port and dispatches them into W-Renderer's
// state machine; W-Registrar re-announces to the coordinator whenever the
// receiver has gone too long without a connection; the animation task
// drives whichever sprite sheet is currently selected. The overall
// component shape — a struct embedding a *clog.CLogger, built
// semi-initialized by New and brought up by Start(ctx) launching its
// sub-tasks as errgroup members — mirrors the teacher's components.Worker.
package worker

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/oledcluster/microbroadcast/internal/clog"
	"github.com/oledcluster/microbroadcast/internal/render"
)

// Worker owns the display and the two concurrent producers that draw to
// it (spec §4.7, §5: "Two threads: the main receive/re-register loop, and
// the animation task").
type Worker struct {
	*clog.CLogger
	cfg Config

	display *render.Display
	sheets  map[string]*render.Sheet

	animation   atomic.Value // string: "" (Off) or a sheet name
	lastPayload atomic.Value // string: last dispatched (non-Ping) payload, for dedup
}

// New creates a semi-initialized Worker ready for Start. It loads the
// compiled-in sprite sheets eagerly so a startup error (a malformed
// manifest) is fatal at boot rather than surfacing mid-animation (spec
// §7: "Panic conditions in the worker ... are fatal at boot").
func New(cfg Config) (*Worker, error) {
	sheets, err := render.LoadSheets()
	if err != nil {
		return nil, err
	}

	w := &Worker{
		CLogger: clog.New("worker %s ", shortMAC(cfg.MAC)),
		cfg:     cfg,
		display: render.NewDisplay(),
		sheets:  sheets,
	}
	w.animation.Store("")
	w.lastPayload.Store("")
	return w, nil
}

// Display exposes the framebuffer, e.g. for tests asserting on drawn
// frames without going through the network.
func (w *Worker) Display() *render.Display { return w.display }

// Start runs W-Receiver/W-Registrar and the animation task until ctx is
// canceled or either task fails (SPEC_FULL §5.1).
func (w *Worker) Start(ctx context.Context) error {
	w.Printf("starting: coordinator=%s broadcastPort=%d", w.cfg.CoordinatorAddr, w.cfg.BroadcastPort)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.runReceiver(ctx)
	})
	g.Go(func() error {
		w.runAnimation(ctx)
		return nil
	})

	return g.Wait()
}

func shortMAC(mac string) string {
	if len(mac) <= 8 {
		return mac
	}
	return mac[:8]
}
