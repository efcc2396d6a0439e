package worker

import (
	"image"
	"testing"
	"time"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/render"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	w, err := New(DefaultConfig("AA:BB:CC:DD:EE:01", "127.0.0.1", 18092))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func litPixelCount(img *image.Gray) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y != 0 {
				n++
			}
		}
	}
	return n
}

func TestDispatchMessageClearsAnimation(t *testing.T) {
	w := newTestWorker(t)
	w.animation.Store("Heart")

	w.dispatch(directive.Message("hi"))

	if got, _ := w.animation.Load().(string); got != "" {
		t.Errorf("animation = %q, want Off after MESSAGE", got)
	}
	if n := litPixelCount(w.Display().Snapshot()); n == 0 {
		t.Error("expected MESSAGE to light pixels")
	}
}

func TestDispatchAnimationUnknownNameIgnored(t *testing.T) {
	w := newTestWorker(t)

	w.dispatch(directive.Animation("DoesNotExist"))

	if got, _ := w.animation.Load().(string); got != "" {
		t.Errorf("animation = %q, want unchanged Off for unknown sheet", got)
	}
}

func TestDispatchAnimationKnownNameSelected(t *testing.T) {
	w := newTestWorker(t)

	w.dispatch(directive.Animation("Heart"))

	if got, _ := w.animation.Load().(string); got != "Heart" {
		t.Errorf("animation = %q, want Heart", got)
	}
}

func TestDispatchTimerDrawsDoneAtZeroRemaining(t *testing.T) {
	w := newTestWorker(t)
	past := time.Now().Add(-10 * time.Minute)
	w.dispatch(directive.Timer(past, 1*time.Minute))

	got := w.Display().Snapshot()
	if n := litPixelCount(got); n == 0 {
		t.Error("expected TIMER draw to light pixels")
	}

	want := image.NewGray(image.Rect(0, 0, render.Width, render.Height))
	render.DrawText(want, "Done!", 0, 44, 1)
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if want.GrayAt(x, y).Y != 0 && got.GrayAt(x, y).Y == 0 {
				t.Fatalf("\"Done!\" pixel (%d,%d) not lit at zero remaining", x, y)
			}
		}
	}
}

func TestDispatchPingIsNoop(t *testing.T) {
	w := newTestWorker(t)
	w.dispatch(directive.Animation("Heart"))

	before := w.Display().Snapshot()
	w.dispatch(directive.Ping())
	after := w.Display().Snapshot()

	if litPixelCount(before) != litPixelCount(after) {
		t.Error("PING should not alter the framebuffer")
	}
	if got, _ := w.animation.Load().(string); got != "Heart" {
		t.Errorf("animation = %q, want unchanged Heart after PING", got)
	}
}
