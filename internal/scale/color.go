// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scale

import (
	"fmt"
	"math"

	"github.com/pdiddy/research-trends/pkg/types"
)

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	green  = RGB{0x00, 0x80, 0x00}
	yellow = RGB{0xff, 0xff, 0x00}
	orange = RGB{0xff, 0xa5, 0x00}
	red    = RGB{0xff, 0x00, 0x00}
)

// Palette holds the colours at the three band stops.
type Palette struct {
	Low, Mid, High RGB
}

var (
	GreenYellowRed = Palette{Low: green, Mid: yellow, High: red}
	GreenOrangeRed = Palette{Low: green, Mid: orange, High: red}
)

// Stop returns the colour at band's stop.
func (p Palette) Stop(b Band) RGB {
	switch b {
	case Low:
		return p.Low
	case Mid:
		return p.Mid
	default:
		return p.High
	}
}

// PaletteFor resolves a configured palette name. Empty selects GreenYellowRed.
func PaletteFor(name types.Palette) (Palette, error) {
	switch name {
	case "", types.PaletteGreenYellowRed:
		return GreenYellowRed, nil
	case types.PaletteGreenOrangeRed:
		return GreenOrangeRed, nil
	default:
		return Palette{}, fmt.Errorf("unknown palette %q: use %s or %s", name, types.PaletteGreenYellowRed, types.PaletteGreenOrangeRed)
	}
}

// Color interpolates value piecewise-linearly between the band stops:
// Low at or below LowHigh, Mid at MidHigh, High at or above MaxValue.
// When stops coincide the lower one wins at LowHigh and High wins at MaxValue.
func (p Palette) Color(value int, bands types.ColorBands) RGB {
	switch {
	case value <= bands.LowHigh:
		return p.Low
	case value >= bands.MaxValue:
		return p.High
	case value <= bands.MidHigh:
		t := float64(value-bands.LowHigh) / float64(bands.MidHigh-bands.LowHigh)
		return lerp(p.Low, p.Mid, t)
	default:
		t := float64(value-bands.MidHigh) / float64(bands.MaxValue-bands.MidHigh)
		return lerp(p.Mid, p.High, t)
	}
}

func lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
