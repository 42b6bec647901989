// Package reconcile decides how to line up the video and dubbed-audio
// durations before the final remux.
package reconcile

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration reports a duration that is zero, negative, or not finite.
var ErrInvalidDuration = errors.New("invalid media duration")

// Plan holds trim instructions. A zero trim leaves that track untouched;
// a positive trim cuts the track to that many seconds starting at offset 0.
type Plan struct {
	TrimPrimary   float64
	TrimSecondary float64
	// Target is the common duration after trimming.
	Target float64
}

// Trimmed reports whether either track is cut.
func (p Plan) Trimmed() bool {
	return p.TrimPrimary > 0 || p.TrimSecondary > 0
}

// Reconcile truncates whichever of primary (video) and secondary (dub)
// is longer to the length of the shorter one. Tracks are never stretched,
// shifted, or sped up. Equal durations produce no trim.
func Reconcile(primary, secondary float64) (Plan, error) {
	if err := checkDuration("primary", primary); err != nil {
		return Plan{}, err
	}
	if err := checkDuration("secondary", secondary); err != nil {
		return Plan{}, err
	}
	switch {
	case primary > secondary:
		return Plan{TrimPrimary: secondary, Target: secondary}, nil
	case secondary > primary:
		return Plan{TrimSecondary: primary, Target: primary}, nil
	default:
		return Plan{Target: primary}, nil
	}
}

func checkDuration(name string, seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fmt.Errorf("%w: %s duration %v", ErrInvalidDuration, name, seconds)
	}
	return nil
}
