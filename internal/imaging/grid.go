package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// drawGrid overlays grid lines every spacing canvas pixels, composited over
// the existing pixels. When labels is set, each intersection is labelled
// with the trace coordinate it maps to.
func drawGrid(img *image.RGBA, m mapping, spacing int, gridColor color.Color, labels bool) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	src := &image.Uniform{C: gridColor}

	// Vertical lines
	for x := spacing; x < width; x += spacing {
		draw.Draw(img, image.Rect(x, 0, x+1, height), src, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := spacing; y < height; y += spacing {
		draw.Draw(img, image.Rect(0, y, width, y+1), src, image.Point{}, draw.Over)
	}

	if !labels {
		return
	}

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}
	for y := spacing; y < height; y += spacing {
		for x := spacing; x < width; x += spacing {
			p := m.toTrace(image.Pt(x, y))
			drawLabel(img, x+2, y+2, fmt.Sprintf("%d,%d", p.X, p.Y), labelColor, bgColor)
		}
	}
}

// labelGlyphs is a 3x5 pixel font for digits, comma and minus.
var labelGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text on a filled background box at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := labelGlyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if image.Pt(px, py).In(bounds) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
