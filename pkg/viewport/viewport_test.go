package viewport

import (
	"math"
	"testing"
)

func TestFraction_HorizontalAlwaysOne(t *testing.T) {
	cases := []struct {
		container Size
		page      Size
	}{
		{Size{1000, 2000}, Size{500, 1000}},
		{Size{1, 1}, Size{9999, 3}},
		{Size{800, 400}, Size{0, 0}}, // degenerate page is irrelevant horizontally
	}

	for _, tc := range cases {
		f, err := Fraction(Horizontal, tc.container, tc.page)
		if err != nil {
			t.Fatalf("Fraction(%v, %v) returned error: %v", tc.container, tc.page, err)
		}
		if f != 1.0 {
			t.Errorf("Fraction(%v, %v) = %v, want exactly 1.0", tc.container, tc.page, f)
		}
	}
}

func TestFraction_Vertical(t *testing.T) {
	// Matching aspect ratios: fraction is exactly 1.0
	f, err := Fraction(Vertical, Size{1000, 2000}, Size{500, 1000})
	if err != nil {
		t.Fatal(err)
	}
	if f != 1.0 {
		t.Errorf("Expected 1.0 for matching aspect ratios, got %v", f)
	}

	// Page squatter than the container occupies less of the viewport
	f, err = Fraction(Vertical, Size{400, 800}, Size{500, 700})
	if err != nil {
		t.Fatal(err)
	}
	want := (700.0 / 500.0) / (800.0 / 400.0)
	if math.Abs(f-want) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, f)
	}
}

func TestFraction_DegenerateSizes(t *testing.T) {
	if _, err := Fraction(Vertical, Size{400, 800}, Size{0, 700}); err == nil {
		t.Error("Expected error for zero page width")
	}
	if _, err := Fraction(Vertical, Size{0, 800}, Size{500, 700}); err == nil {
		t.Error("Expected error for zero container width")
	}
}

func TestSizeChanged(t *testing.T) {
	a := Size{400, 800}

	if a.Changed(Size{400.5, 800.5}, 1.0) {
		t.Error("Sub-epsilon jitter should not count as a change")
	}
	if !a.Changed(Size{402, 800}, 1.0) {
		t.Error("Width change beyond epsilon should be detected")
	}
	if !a.Changed(Size{400, 805}, 1.0) {
		t.Error("Height change beyond epsilon should be detected")
	}
}

func TestParseAxis(t *testing.T) {
	if a, err := ParseAxis("horizontal"); err != nil || a != Horizontal {
		t.Errorf("ParseAxis(horizontal) = %v, %v", a, err)
	}
	if a, err := ParseAxis(""); err != nil || a != Vertical {
		t.Errorf("ParseAxis empty should default to vertical, got %v, %v", a, err)
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("Expected error for unknown axis")
	}
}
