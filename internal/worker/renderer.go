package worker

import (
	"fmt"
	"image"
	"time"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/render"
)

// timerCenterX/Y and timerRadius match the original firmware's layout
// (original_source/client update_timer: Sector::new(Point::new(65, 1), 60, ...)
// — a circle centred off the right edge of the 128x64 panel).
const (
	timerCenterX = 65
	timerCenterY = 1 + 60
	timerRadius  = 60
)

// dispatch applies one decoded directive to the state machine (spec
// §4.7). It is only ever called from the receiver goroutine, so no
// locking is needed around the dedup/animation-intent decision itself —
// only the framebuffer draw underneath needs display.Edit's lock.
func (w *Worker) dispatch(d directive.Directive) {
	switch d.Kind {
	case directive.KindPing:
		return // spec §4.6: "PING is always silently dropped"

	case directive.KindMessage:
		w.animation.Store("")
		w.display.Edit(func(img *image.Gray) {
			drawWrappedMessage(img, d.Text)
		})

	case directive.KindTimer:
		w.animation.Store("")
		w.drawTimer(d)

	case directive.KindAnimation:
		if _, ok := w.sheets[d.Name]; !ok {
			w.Errorf("dispatch: unknown animation %q, ignoring", d.Name)
			return
		}
		w.animation.Store(d.Name)
	}
}

const messageLineHeight = 13 // basicfont.Face7x13's glyph height

// drawWrappedMessage lays text out across as many lines as the panel
// holds (spec §4.7 draws at the "top-left"; SPEC_FULL §2.2 adds
// grapheme-aware wrapping via uniseg so long messages don't just run off
// the right edge).
func drawWrappedMessage(img *image.Gray, text string) {
	for i, line := range render.WrapMessage(text) {
		y := i * messageLineHeight
		if y >= render.Height {
			break
		}
		render.DrawText(img, line, 0, y, 1)
	}
}

func (w *Worker) drawTimer(d directive.Directive) {
	now := time.Now()
	remaining := d.Remaining(now)
	ratio := 0.0
	if d.Total > 0 {
		ratio = float64(remaining) / float64(d.Total)
	}

	w.display.Edit(func(img *image.Gray) {
		render.DrawText(img, formatTimerSeconds(remaining), 0, 0, 2)
		render.DrawText(img, formatTimerSeconds(d.Total), 0, 22, 2)

		render.DrawCircleOutline(img, timerCenterX, timerCenterY, timerRadius)
		render.DrawPieSector(img, timerCenterX, timerCenterY, timerRadius, -90, 360*ratio)

		if remaining <= 0 {
			render.DrawText(img, "Done!", 0, 44, 1)
		}
	})
}

func formatTimerSeconds(d time.Duration) string {
	return fmt.Sprintf("%d", int(d.Seconds()))
}
