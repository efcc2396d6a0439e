// Package render implements W-Renderer's display surface: a simulated 1-bit
// framebuffer, fixed-width text drawing, the timer's circle/pie-sector
// indicator, and the sprite-sheet animation frames compiled into the
// worker binary.
package render

import (
	"image"
	"image/color"
	"sync"
)

// Width and Height match the SSD1306 panel the original firmware drives
// (original_source/client: DisplaySize128x64).
const (
	Width  = 128
	Height = 64
)

// Display owns the single framebuffer a worker renders into. Exactly one
// goroutine may hold mu across a draw; spec §5 forbids holding it across
// network I/O, which render package methods never perform.
type Display struct {
	mu  sync.Mutex
	img *image.Gray
}

// NewDisplay returns a blank (all-off) display.
func NewDisplay() *Display {
	return &Display{img: image.NewGray(image.Rect(0, 0, Width, Height))}
}

// on/off match BinaryColor::On / Off from the original firmware: a set
// pixel is fully lit.
var (
	pixelOn  = color.Gray{Y: 0xff}
	pixelOff = color.Gray{Y: 0x00}
)

// Edit runs fn with the framebuffer lock held, clearing the frame first.
// Every W-Renderer transition (spec §4.7) goes through this.
func (d *Display) Edit(fn func(img *image.Gray)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.img.Pix {
		d.img.Pix[i] = pixelOff.Y
	}
	fn(d.img)
}

// Snapshot copies the current frame out for inspection (tests, or a
// future debug endpoint). The copy is taken under the lock, so the
// caller can read the result afterward without holding it.
func (d *Display) Snapshot() *image.Gray {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := image.NewGray(d.img.Bounds())
	copy(out.Pix, d.img.Pix)
	return out
}

func setPixel(img *image.Gray, x, y int, on bool) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	if on {
		img.SetGray(x, y, pixelOn)
	} else {
		img.SetGray(x, y, pixelOff)
	}
}
