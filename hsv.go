package picker

import (
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// OpenCV stores 8-bit hue in half degrees, so the channel tops out at 179
// and red ranges wrap through the 179->0 boundary.
const hueMax = 179

// HSV Single hue-saturation-value color
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

func (c HSV) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.H, c.S, c.V)
}

func (c HSV) scalar() gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0.0)
}

// HSVRange Lower/upper color bound pair. Each saturation and value channel
// satisfies lower <= upper; hue may not, which marks a range that wraps
// through the hue boundary.
type HSVRange struct {
	Lower HSV
	Upper HSV
}

func (r HSVRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Lower, r.Upper)
}

// WrapsHue reports whether the accepted hue band runs from Lower.H through
// hueMax back around to Upper.H.
func (r HSVRange) WrapsHue() bool {
	return r.Lower.H > r.Upper.H
}

// Validate checks channel domains and saturation/value ordering. Hue
// ordering is deliberately not checked, see WrapsHue.
func (r HSVRange) Validate() error {
	for _, bound := range []HSV{r.Lower, r.Upper} {
		if bound.H < 0 || bound.H > hueMax {
			return errors.Errorf("invalid hsv range %s: hue must be in [0, %d]", r, hueMax)
		}
		if bound.S < 0 || bound.S > 255 {
			return errors.Errorf("invalid hsv range %s: saturation must be in [0, 255]", r)
		}
		if bound.V < 0 || bound.V > 255 {
			return errors.Errorf("invalid hsv range %s: value must be in [0, 255]", r)
		}
	}
	if r.Lower.S > r.Upper.S {
		return errors.Errorf("invalid hsv range %s: lower saturation exceeds upper", r)
	}
	if r.Lower.V > r.Upper.V {
		return errors.Errorf("invalid hsv range %s: lower value exceeds upper", r)
	}
	return nil
}
