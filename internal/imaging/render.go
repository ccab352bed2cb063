package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/trace-shapes-mcp/internal/detection"
	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// Rendering defaults.
const (
	DefaultSize        = 512
	DefaultMargin      = 24
	DefaultStrokeWidth = 3
	DefaultGridSpacing = 64
	DefaultGridColor   = "#FFFFFF40"
	maxCanvasSize      = 4096
)

// RenderOptions controls RenderTrace. Zero values select the defaults.
type RenderOptions struct {
	Width       int
	Height      int
	Margin      int
	StrokeWidth int
	ShowGrid    bool
	GridSpacing int
	GridColor   string
	GridLabels  bool

	// Scale resizes the finished image (e.g., 2.0 doubles it).
	Scale float64
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = DefaultStrokeWidth
	}
	if o.GridSpacing <= 0 {
		o.GridSpacing = DefaultGridSpacing
	}
	if o.GridColor == "" {
		o.GridColor = DefaultGridColor
	}
	if o.Scale <= 0 {
		o.Scale = 1.0
	}
	return o
}

// RenderResult contains a rendered trace encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// StrokeColor is the hex colour used for the stroke.
	StrokeColor string `json:"stroke_color"`
}

// mapping converts between trace and canvas coordinates.
type mapping struct {
	minX, minY       int
	scale            float64
	offsetX, offsetY float64
}

func newMapping(trace []geometry.Point, width, height, margin int) mapping {
	minX, minY := trace[0].X, trace[0].Y
	maxX, maxY := minX, minY
	for _, p := range trace[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	availW := float64(width - 2*margin)
	availH := float64(height - 2*margin)
	boxW := float64(maxX - minX)
	boxH := float64(maxY - minY)

	scale := math.Inf(1)
	if boxW > 0 {
		scale = availW / boxW
	}
	if boxH > 0 {
		scale = math.Min(scale, availH/boxH)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	return mapping{
		minX:    minX,
		minY:    minY,
		scale:   scale,
		offsetX: float64(margin) + (availW-boxW*scale)/2,
		offsetY: float64(margin) + (availH-boxH*scale)/2,
	}
}

func (m mapping) toCanvas(p geometry.Point) image.Point {
	return image.Pt(
		int(math.Round(m.offsetX+float64(p.X-m.minX)*m.scale)),
		int(math.Round(m.offsetY+float64(p.Y-m.minY)*m.scale)),
	)
}

func (m mapping) toTrace(c image.Point) geometry.Point {
	return geometry.Pt(
		m.minX+int(math.Round((float64(c.X)-m.offsetX)/m.scale)),
		m.minY+int(math.Round((float64(c.Y)-m.offsetY)/m.scale)),
	)
}

// RenderTrace draws a trace on a dark canvas and returns it as PNG.
//
// The stroke joins consecutive samples in the colour given by ShapeColor
// for result. The centroid is marked with a white cross and the diameter
// witnesses with white squares.
//
// Returns an error for an empty trace, a canvas or scaled output larger
// than 4096 pixels a side, a canvas too small for its margin, coordinates
// out of range, an invalid grid colour or a PNG encoding failure.
func RenderTrace(trace []geometry.Point, result detection.Result, opts RenderOptions) (*RenderResult, error) {
	if len(trace) == 0 {
		return nil, fmt.Errorf("cannot render an empty trace")
	}
	opts = opts.withDefaults()
	if opts.Width > maxCanvasSize || opts.Height > maxCanvasSize {
		return nil, fmt.Errorf("canvas %dx%d exceeds %dx%d", opts.Width, opts.Height, maxCanvasSize, maxCanvasSize)
	}
	if opts.Width <= 2*opts.Margin || opts.Height <= 2*opts.Margin {
		return nil, fmt.Errorf("canvas %dx%d too small for margin %d", opts.Width, opts.Height, opts.Margin)
	}
	scaledWidth := float64(opts.Width) * opts.Scale
	scaledHeight := float64(opts.Height) * opts.Scale
	if scaledWidth > maxCanvasSize || scaledHeight > maxCanvasSize {
		return nil, fmt.Errorf("scale %v makes the image %.0fx%.0f, more than %dx%d",
			opts.Scale, scaledWidth, scaledHeight, maxCanvasSize, maxCanvasSize)
	}
	if scaledWidth < 1 || scaledHeight < 1 {
		return nil, fmt.Errorf("scale %v leaves an empty image", opts.Scale)
	}
	if err := geometry.CheckBounds(trace); err != nil {
		return nil, err
	}

	m := newMapping(trace, opts.Width, opts.Height, opts.Margin)
	shade := ShapeColor(result)
	sr, sg, sb := shade.RGB255()
	stroke := color.NRGBA{R: sr, G: sg, B: sb, A: 255}

	canvas := imaging.New(opts.Width, opts.Height, color.Black)
	prev := m.toCanvas(trace[0])
	canvas.Set(prev.X, prev.Y, stroke)
	for _, p := range trace[1:] {
		next := m.toCanvas(p)
		drawSegment(canvas, prev, next, stroke)
		prev = next
	}

	// Dilation takes the per-channel maximum, so the stroke grows over the
	// black background without changing colour.
	var img *image.RGBA
	if opts.StrokeWidth > 1 {
		img = effect.Dilate(canvas, float64(opts.StrokeWidth-1)/2)
	} else {
		img = clone.AsRGBA(canvas)
	}

	markerColor := color.RGBA{255, 255, 255, 255}
	if centroid, err := geometry.Centroid(trace); err == nil {
		drawCross(img, m.toCanvas(centroid), 4, markerColor)
	}
	if ds := geometry.AllPairsExtremes(trace); ds.Max > 0 {
		drawSquare(img, m.toCanvas(ds.MaxPair[0]), 3, markerColor)
		drawSquare(img, m.toCanvas(ds.MaxPair[1]), 3, markerColor)
	}

	if opts.ShowGrid {
		gridColor, err := ParseColor(opts.GridColor)
		if err != nil {
			return nil, err
		}
		drawGrid(img, m, opts.GridSpacing, gridColor, opts.GridLabels)
	}

	var out image.Image = img
	if opts.Scale != 1.0 {
		out = imaging.Resize(img, int(scaledWidth), int(scaledHeight), imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		StrokeColor: shade.Hex(),
	}, nil
}

// drawSegment draws a 1-pixel line from a to b using Bresenham's algorithm.
func drawSegment(img *image.NRGBA, a, b image.Point, c color.Color) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		img.Set(x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func drawCross(img *image.RGBA, at image.Point, arm int, c color.Color) {
	for d := -arm; d <= arm; d++ {
		img.Set(at.X+d, at.Y, c)
		img.Set(at.X, at.Y+d, c)
	}
}

func drawSquare(img *image.RGBA, at image.Point, half int, c color.Color) {
	for d := -half; d <= half; d++ {
		img.Set(at.X+d, at.Y-half, c)
		img.Set(at.X+d, at.Y+half, c)
		img.Set(at.X-half, at.Y+d, c)
		img.Set(at.X+half, at.Y+d, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
