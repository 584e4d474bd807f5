// Package viewport holds the pure viewport math shared by the viewer:
// scroll axis, container size comparison, and the page/viewport fraction
// calculation driving paged scrolling.
package viewport

import (
	"fmt"
	"math"
)

// Axis is the scroll direction of the paged surface.
type Axis int

const (
	// Vertical scrolls pages top to bottom.
	Vertical Axis = iota
	// Horizontal scrolls pages left to right.
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis parses the configuration form of an axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "vertical", "":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("unknown scroll axis %q", s)
	}
}

// Size is a container or page extent in logical units.
type Size struct {
	W float64
	H float64
}

// Changed reports whether s differs from o by more than eps on either
// dimension. Used to ignore sub-pixel layout jitter.
func (s Size) Changed(o Size, eps float64) bool {
	return math.Abs(s.W-o.W) > eps || math.Abs(s.H-o.H) > eps
}

// Fraction returns the fraction of the viewport one page occupies along
// the scroll axis.
//
// Horizontal scrolling always returns exactly 1.0: pages are laid out
// edge to edge, each filling the viewport along the scroll direction.
// Vertical scrolling returns the page aspect ratio divided by the
// container aspect ratio. A zero-size page or container is an error,
// never a silent division.
func Fraction(axis Axis, container, page Size) (float64, error) {
	if axis == Horizontal {
		return 1.0, nil
	}
	if page.W <= 0 || page.H <= 0 {
		return 0, fmt.Errorf("degenerate page size %gx%g", page.W, page.H)
	}
	if container.W <= 0 || container.H <= 0 {
		return 0, fmt.Errorf("degenerate container size %gx%g", container.W, container.H)
	}
	pageAspect := page.H / page.W
	containerAspect := container.H / container.W
	return pageAspect / containerAspect, nil
}
