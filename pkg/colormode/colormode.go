// Package colormode applies color-filter post-processing to rendered
// page rasters. Each mode is a stateless 4x5 color matrix; applying one
// never mutates the input image.
package colormode

import (
	"fmt"
	"image"
	"image/color"
)

// Mode selects a color filter.
type Mode int

const (
	// Normal leaves the raster untouched.
	Normal Mode = iota
	// Inverted flips every channel, a cheap dark mode for scanned text.
	Inverted
	// Grayscale uses the Rec. 601 luma weights.
	Grayscale
	// Sepia applies the standard sepia tone matrix.
	Sepia
	// Night combines inversion with a warm dimming tint.
	Night
)

var names = map[Mode]string{
	Normal:    "normal",
	Inverted:  "inverted",
	Grayscale: "grayscale",
	Sepia:     "sepia",
	Night:     "night",
}

func (m Mode) String() string {
	if s, ok := names[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Parse parses the configuration form of a mode.
func Parse(s string) (Mode, error) {
	for m, name := range names {
		if s == name {
			return m, nil
		}
	}
	if s == "" {
		return Normal, nil
	}
	return Normal, fmt.Errorf("unknown color mode %q", s)
}

// Next cycles to the following mode, wrapping after Night.
func (m Mode) Next() Mode {
	if m >= Night {
		return Normal
	}
	return m + 1
}

// Matrix is a 4x5 row-major color matrix. Each output channel is a
// weighted sum of the input channels plus a bias, in 0..255 channel
// space, matching the conventional image filter matrix layout.
type Matrix [20]float64

var matrices = map[Mode]Matrix{
	Inverted: {
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	},
	Grayscale: {
		0.299, 0.587, 0.114, 0, 0,
		0.299, 0.587, 0.114, 0, 0,
		0.299, 0.587, 0.114, 0, 0,
		0, 0, 0, 1, 0,
	},
	Sepia: {
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	},
	Night: {
		-0.9, 0, 0, 0, 235,
		0, -0.85, 0, 0, 220,
		0, 0, -0.7, 0, 180,
		0, 0, 0, 1, 0,
	},
}

// Filter returns the color matrix for m. ok is false for Normal, which
// needs no pass at all.
func (m Mode) Filter() (Matrix, bool) {
	mat, ok := matrices[m]
	return mat, ok
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// ApplyTo transforms a single RGBA color through the matrix.
func (mat Matrix) ApplyTo(c color.RGBA) color.RGBA {
	r, g, b, a := float64(c.R), float64(c.G), float64(c.B), float64(c.A)
	return color.RGBA{
		R: clamp8(mat[0]*r + mat[1]*g + mat[2]*b + mat[3]*a + mat[4]),
		G: clamp8(mat[5]*r + mat[6]*g + mat[7]*b + mat[8]*a + mat[9]),
		B: clamp8(mat[10]*r + mat[11]*g + mat[12]*b + mat[13]*a + mat[14]),
		A: clamp8(mat[15]*r + mat[16]*g + mat[17]*b + mat[18]*a + mat[19]),
	}
}

// Apply returns img filtered through mode m. Normal returns img
// unchanged; every other mode allocates a fresh RGBA raster.
func Apply(m Mode, img image.Image) image.Image {
	mat, ok := m.Filter()
	if !ok {
		return img
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetRGBA(x, y, mat.ApplyTo(color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)))
		}
	}
	return out
}
