package picker

import (
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// RangeEstimator Derives an HSV range from a sampled region by bounding the
// pixels whose hue falls inside the expected band. The result is memoized
// and reused every frame until a new selection invalidates it.
type RangeEstimator struct {
	hueLow  int
	hueHigh int

	cached *HSVRange
}

// NewRangeEstimator Create estimator for the expected hue band
// [hueLow, hueHigh], inclusive. Wrapping bands are not supported here;
// wrap-around only applies to the contour pipeline's bounds.
func NewRangeEstimator(hueLow, hueHigh int) (*RangeEstimator, error) {
	if hueLow < 0 || hueHigh > hueMax {
		return nil, errors.Errorf("expected hue range (%d, %d) must be in [0, %d]", hueLow, hueHigh, hueMax)
	}
	if hueLow > hueHigh {
		return nil, errors.Errorf("expected hue range (%d, %d) must be ordered low to high", hueLow, hueHigh)
	}
	return &RangeEstimator{hueLow: hueLow, hueHigh: hueHigh}, nil
}

// Range returns the memoized range, computing it from the HSV sample on
// the first call after construction or invalidation. A sample with no
// qualifying pixels reports the condition on the console and yields the
// degenerate all-zero range; the operator recovers by selecting again.
func (e *RangeEstimator) Range(sample gocv.Mat) HSVRange {
	if e.cached != nil {
		return *e.cached
	}

	estimated, ok := estimateRange(sample, e.hueLow, e.hueHigh)
	if !ok {
		fmt.Printf("No pixels matched expected hue range (%d, %d), select another region\n", e.hueLow, e.hueHigh)
	}
	e.cached = &estimated
	return estimated
}

// Invalidate drops the memoized range so the next Range call recomputes it
func (e *RangeEstimator) Invalidate() {
	e.cached = nil
}

// estimateRange scans every pixel of the HSV image and bounds the H, S and
// V values of those whose hue lies in [hueLow, hueHigh]. The channels are
// bounded independently, so the result is an axis-aligned box in HSV space
// rather than the tightest box around observed tuples; downstream
// consumers expect exactly this looser bound.
func estimateRange(sample gocv.Mat, hueLow, hueHigh int) (HSVRange, bool) {
	if sample.Empty() {
		return HSVRange{}, false
	}

	lower := HSV{H: hueMax, S: 255, V: 255}
	upper := HSV{}
	matched := false

	for y := 0; y < sample.Rows(); y++ {
		for x := 0; x < sample.Cols(); x++ {
			px := sample.GetVecbAt(y, x)
			h, s, v := int(px[0]), int(px[1]), int(px[2])
			if h < hueLow || h > hueHigh {
				continue
			}
			matched = true
			if h < lower.H {
				lower.H = h
			}
			if h > upper.H {
				upper.H = h
			}
			if s < lower.S {
				lower.S = s
			}
			if s > upper.S {
				upper.S = s
			}
			if v < lower.V {
				lower.V = v
			}
			if v > upper.V {
				upper.V = v
			}
		}
	}

	if !matched {
		return HSVRange{}, false
	}
	return HSVRange{Lower: lower, Upper: upper}, true
}
