package colormode

import (
	"image"
	"image/color"
	"testing"
)

func TestApply_NormalIsPassthrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	if got := Apply(Normal, img); got != image.Image(img) {
		t.Error("Normal mode should return the input image unchanged")
	}
}

func TestApply_Inverted(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 40, A: 255})

	got := Apply(Inverted, img).(*image.RGBA).RGBAAt(0, 0)

	want := color.RGBA{R: 0, G: 255, B: 215, A: 255}
	if got != want {
		t.Errorf("Expected inverted pixel %v, got %v", want, got)
	}
}

func TestApply_GrayscaleEqualChannels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	got := Apply(Grayscale, img).(*image.RGBA).RGBAAt(0, 0)

	if got.R != got.G || got.G != got.B {
		t.Errorf("Grayscale channels should be equal, got %v", got)
	}
	if got.A != 255 {
		t.Errorf("Alpha should be preserved, got %d", got.A)
	}
}

func TestMatrix_Clamps(t *testing.T) {
	mat, ok := Sepia.Filter()
	if !ok {
		t.Fatal("Sepia should have a filter matrix")
	}

	got := mat.ApplyTo(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if got.R != 255 {
		t.Errorf("Sepia on white should clamp red to 255, got %d", got.R)
	}
}

func TestModeCycle(t *testing.T) {
	m := Normal
	seen := map[Mode]bool{}
	for i := 0; i < 5; i++ {
		if seen[m] {
			t.Fatalf("Cycle revisited %v before wrapping", m)
		}
		seen[m] = true
		m = m.Next()
	}
	if m != Normal {
		t.Errorf("Cycle should wrap back to Normal, got %v", m)
	}
}

func TestParse(t *testing.T) {
	if m, err := Parse("sepia"); err != nil || m != Sepia {
		t.Errorf("Parse(sepia) = %v, %v", m, err)
	}
	if m, err := Parse(""); err != nil || m != Normal {
		t.Errorf("Parse empty should default to Normal, got %v, %v", m, err)
	}
	if _, err := Parse("plasma"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
