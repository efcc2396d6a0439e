package worker

import (
	"context"
	"image"
	"time"

	dtimer "github.com/desertbit/timer"

	"github.com/oledcluster/microbroadcast/internal/render"
)

const (
	animationIdlePoll = 100 * time.Millisecond // spec §4.7 step 2
	animationFrameGap = 10 * time.Millisecond  // spec §4.7 step 3: "~100 fps cap"
)

// runAnimation is the animation task of spec §4.7: it reads the
// animation-intent atomic, and while it names a sheet, cycles that
// sheet's frames, re-checking the atomic between frames so a new
// directive takes effect within one frame-time. One resettable timer
// paces every sleep rather than a fresh time.Timer per frame.
func (w *Worker) runAnimation(ctx context.Context) {
	t := dtimer.NewStoppedTimer()
	defer t.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		name, _ := w.animation.Load().(string)
		if name == "" {
			if !sleepCtx(ctx, t, animationIdlePoll) {
				return
			}
			continue
		}

		sheet, ok := w.sheets[name]
		if !ok {
			w.Errorf("animation: selected sheet %q not found, reverting to Off", name)
			w.animation.Store("")
			continue
		}

		w.playOnce(ctx, t, name, sheet)
	}
}

// playOnce cycles through sheet's frames once, aborting early if the
// intent changes mid-cycle (the outer loop will pick up the new
// selection, or Off, on its next iteration).
func (w *Worker) playOnce(ctx context.Context, t *dtimer.Timer, name string, sheet *render.Sheet) {
	for i := 0; i < sheet.Frames(); i++ {
		if current, _ := w.animation.Load().(string); current != name {
			return
		}

		frame := sheet.FrameImage(i)
		w.display.Edit(func(img *image.Gray) {
			render.BlitRegion(img, frame, frame.Bounds(), image.Point{})
		})

		if !sleepCtx(ctx, t, animationFrameGap) {
			return
		}
	}
}

// sleepCtx sleeps for d using the shared resettable timer, or returns
// false early if ctx is canceled.
func sleepCtx(ctx context.Context, t *dtimer.Timer, d time.Duration) bool {
	t.Reset(d)
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
