package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/trace-shapes-mcp/internal/detection"
)

// shapeHues are HSV hues in degrees.
var shapeHues = map[detection.Shape]float64{
	detection.Circle:  200,
	detection.Line:    120,
	detection.Ellipse: 285,
	detection.Unknown: 15,
}

var neutralGrey = colorful.Color{R: 0.55, G: 0.55, B: 0.55}

// ShapeColor returns the stroke colour for a classification.
//
// Full confidence gives the shape's pure hue; zero confidence gives grey.
// Undefined results are always grey.
func ShapeColor(r detection.Result) colorful.Color {
	hue, ok := shapeHues[r.Shape]
	if !ok {
		return neutralGrey
	}
	confidence := float64(r.Confidence) / 100
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	base := colorful.Hsv(hue, 0.85, 1.0)
	return neutralGrey.BlendLab(base, confidence).Clamped()
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
