package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawText draws s at the top-left baseline-adjusted origin (x, y), using
// basicfont.Face7x13 scaled by scale. spec §4.7 calls for a 6×13 font for
// messages (scale 1, basicfont's native 7×13 is the nearest fixed-width
// face available — see SPEC_FULL §9.1) and a 10×20 font for timers
// (scale 2, giving 14×26 glyphs, closer to the spec's 10×20 than any
// unscaled stdlib-adjacent face).
func DrawText(img *image.Gray, s string, x, y, scale int) {
	face := basicfont.Face7x13
	if scale <= 1 {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(onColor),
			Face: face,
			Dot:  fixed.P(x, y+face.Ascent),
		}
		drawer.DrawString(s)
		return
	}
	drawScaledText(img, s, x, y, scale, face)
}

var onColor = pixelOn

// drawScaledText renders each glyph into a small 1x scratch canvas, then
// nearest-neighbor blits it up by scale. golang.org/x/image/font has no
// built-in scaling hook, so this is the direct way to approximate a
// larger fixed-width face from Face7x13 without hand-rolling glyph data.
func drawScaledText(img *image.Gray, s string, x, y, scale int, face *basicfont.Face) {
	advance := face.Metrics().Height.Ceil()
	cursor := x

	for _, r := range s {
		scratch := image.NewGray(image.Rect(0, 0, advance, advance))
		drawer := &font.Drawer{
			Dst:  scratch,
			Src:  image.NewUniform(onColor),
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		drawer.DrawString(string(r))

		blitScaled(img, scratch, cursor, y, scale)

		aw, ok := face.GlyphAdvance(r)
		if !ok {
			aw = fixed.I(advance)
		}
		cursor += aw.Ceil() * scale
	}
}

func blitScaled(dst *image.Gray, src *image.Gray, x, y, scale int) {
	b := src.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			if src.GrayAt(sx, sy).Y == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					setPixel(dst, x+sx*scale+dx, y+sy*scale+dy, true)
				}
			}
		}
	}
}

// BlitRegion copies every pixel of src within srcRect (lit and unlit)
// onto dst, with srcRect's top-left placed at dstOrigin — used by the
// animation task to draw one sprite frame (spec
// §4.7 step 3: "blit only the pixels within the frame's bounding
// rectangle").
func BlitRegion(dst *image.Gray, src *image.Gray, srcRect image.Rectangle, dstOrigin image.Point) {
	draw.DrawMask(dst, image.Rect(dstOrigin.X, dstOrigin.Y, dstOrigin.X+srcRect.Dx(), dstOrigin.Y+srcRect.Dy()),
		src, srcRect.Min, nil, image.Point{}, draw.Over)
}
