package zoom

import (
	"time"

	"github.com/pndaza/just-pdf-viewer/pkg/transform"
)

// DefaultDuration is the length of an animated zoom transition.
const DefaultDuration = 300 * time.Millisecond

// Animator drives a transform transition. It is handed the start and end
// transforms plus an apply callback; the animator owns the clock and must
// eventually apply the final transform exactly. The zero value (nil) means
// transitions are applied immediately with no animation.
type Animator func(from, to transform.Matrix, apply func(transform.Matrix))

// EaseInOutCubic is the easing curve used for zoom transitions.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}

// TickerAnimator returns an Animator stepping at the given frame interval
// over DefaultDuration with EaseInOutCubic. Each frame runs on its own
// goroutine tick; the final frame always applies the exact target. Useful
// for hosts without their own frame clock.
func TickerAnimator(frame time.Duration) Animator {
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	return func(from, to transform.Matrix, apply func(transform.Matrix)) {
		go func() {
			start := time.Now()
			ticker := time.NewTicker(frame)
			defer ticker.Stop()
			for now := range ticker.C {
				t := float64(now.Sub(start)) / float64(DefaultDuration)
				if t >= 1 {
					apply(to)
					return
				}
				apply(transform.Lerp(from, to, EaseInOutCubic(t)))
			}
		}()
	}
}

// StepAnimator returns an Animator that the host drives manually: the
// returned step function advances the active transition by dt and reports
// whether a transition is still running. Hosts with a frame loop (for
// example a TUI tick) call step once per frame.
func StepAnimator() (Animator, func(dt time.Duration) bool) {
	type tween struct {
		from, to transform.Matrix
		apply    func(transform.Matrix)
		elapsed  time.Duration
	}
	var active *tween

	animator := func(from, to transform.Matrix, apply func(transform.Matrix)) {
		// Latest transition wins; a superseded tween is abandoned mid-flight
		active = &tween{from: from, to: to, apply: apply}
	}

	step := func(dt time.Duration) bool {
		if active == nil {
			return false
		}
		active.elapsed += dt
		t := float64(active.elapsed) / float64(DefaultDuration)
		if t >= 1 {
			active.apply(active.to)
			active = nil
			return false
		}
		active.apply(transform.Lerp(active.from, active.to, EaseInOutCubic(t)))
		return true
	}

	return animator, step
}
