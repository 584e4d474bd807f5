package transform

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()

	if !m.IsIdentity() {
		t.Error("Identity() should report IsIdentity")
	}

	if m.Scale() != 1.0 {
		t.Errorf("Expected scale 1.0, got %v", m.Scale())
	}

	tx, ty := m.Translate()
	if tx != 0 || ty != 0 {
		t.Errorf("Expected zero translation, got (%v, %v)", tx, ty)
	}
}

func TestApply(t *testing.T) {
	m := ScaleTranslation(2.0, 10, -5)
	p := m.Apply(Point{X: 3, Y: 4})

	if p.X != 16 || p.Y != 3 {
		t.Errorf("Expected (16, 3), got (%v, %v)", p.X, p.Y)
	}
}

func TestMultiply(t *testing.T) {
	// Scale then translate: point (1,1) -> (2,2) -> (12, 7)
	m := Scaling(2).Multiply(Translation(10, 5))
	p := m.Apply(Point{X: 1, Y: 1})

	if p.X != 12 || p.Y != 7 {
		t.Errorf("Expected (12, 7), got (%v, %v)", p.X, p.Y)
	}
}

func TestEqual(t *testing.T) {
	a := ScaleTranslation(1.5, 3, 4)
	b := ScaleTranslation(1.5+1e-12, 3, 4)

	if !a.Equal(b, Epsilon) {
		t.Error("Matrices within epsilon should compare equal")
	}

	c := ScaleTranslation(1.6, 3, 4)
	if a.Equal(c, Epsilon) {
		t.Error("Matrices differing in scale should not compare equal")
	}
}

func TestLerp(t *testing.T) {
	a := Identity()
	b := ScaleTranslation(3, -30, -30)

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp at t=0 should return start, got %v", got)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp at t=1 should return end, got %v", got)
	}

	mid := Lerp(a, b, 0.5)
	if math.Abs(mid.Scale()-2.0) > Epsilon {
		t.Errorf("Expected midpoint scale 2.0, got %v", mid.Scale())
	}
	tx, _ := mid.Translate()
	if math.Abs(tx-(-15)) > Epsilon {
		t.Errorf("Expected midpoint tx -15, got %v", tx)
	}

	// Out-of-range t clamps
	if got := Lerp(a, b, 2.5); got != b {
		t.Errorf("Lerp should clamp t above 1, got %v", got)
	}
}
