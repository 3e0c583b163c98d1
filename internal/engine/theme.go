package engine

import (
	"image/color"
	"strings"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// DefaultAccent is used for unknown accent identifiers.
const DefaultAccent = "purple"

// lightContrastShift darkens minimal-mode colors on light backgrounds.
const lightContrastShift = 40

var palettes = map[string]domain.Palette{
	"purple": {
		Primary:   domain.RGB{R: 139, G: 92, B: 246},
		Secondary: domain.RGB{R: 168, G: 85, B: 247},
		Accent:    domain.RGB{R: 236, G: 72, B: 153},
	},
	"blue": {
		Primary:   domain.RGB{R: 59, G: 130, B: 246},
		Secondary: domain.RGB{R: 14, G: 165, B: 233},
		Accent:    domain.RGB{R: 6, G: 182, B: 212},
	},
	"pink": {
		Primary:   domain.RGB{R: 236, G: 72, B: 153},
		Secondary: domain.RGB{R: 244, G: 114, B: 182},
		Accent:    domain.RGB{R: 168, G: 85, B: 247},
	},
	"green": {
		Primary:   domain.RGB{R: 34, G: 197, B: 94},
		Secondary: domain.RGB{R: 16, G: 185, B: 129},
		Accent:    domain.RGB{R: 132, G: 204, B: 22},
	},
	"orange": {
		Primary:   domain.RGB{R: 249, G: 115, B: 22},
		Secondary: domain.RGB{R: 251, G: 146, B: 60},
		Accent:    domain.RGB{R: 234, G: 179, B: 8},
	},
	"amber": {
		Primary:   domain.RGB{R: 245, G: 158, B: 11},
		Secondary: domain.RGB{R: 251, G: 191, B: 36},
		Accent:    domain.RGB{R: 249, G: 115, B: 22},
	},
}

// Accents returns the known accent identifiers in menu order.
func Accents() []string {
	return []string{"purple", "blue", "pink", "green", "orange", "amber"}
}

// ResolvePalette maps an accent identifier to its colors. Matching ignores case;
// unknown accents resolve to the purple palette. The table is the same for
// light and dark pages; see ContrastAdjusted.
func ResolvePalette(accent string) domain.Palette {
	if p, ok := palettes[strings.ToLower(strings.TrimSpace(accent))]; ok {
		return p
	}
	return palettes[DefaultAccent]
}

// ContrastAdjusted darkens every channel by a fixed amount on light
// backgrounds so the minimal gradient stays visible.
func ContrastAdjusted(p domain.Palette, isDark bool) domain.Palette {
	if isDark {
		return p
	}
	return domain.Palette{
		Primary:   darken(p.Primary),
		Secondary: darken(p.Secondary),
		Accent:    darken(p.Accent),
	}
}

func darken(c domain.RGB) domain.RGB {
	sub := func(v uint8) uint8 {
		if v < lightContrastShift {
			return 0
		}
		return v - lightContrastShift
	}
	return domain.RGB{R: sub(c.R), G: sub(c.G), B: sub(c.B)}
}

// rgba turns a palette color and a 0..1 alpha into a drawable color.
func rgba(c domain.RGB, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(alpha)*255 + 0.5)}
}

// addChannel adds a 0..1 level scaled to 255 onto v, saturating.
func addChannel(v uint8, level float64) uint8 {
	sum := float64(v) + clamp01(level)*maxMagnitude
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}
