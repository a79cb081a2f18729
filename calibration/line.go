// Package calibration describes calibration lines and the preferences that hold
// the trusted master line and QA tolerances.
package calibration

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v3"
)

var ErrMissingReference = errors.New("missing reference calibration parameter")

// Line maps a signal to a concentration: concentration = Slope*signal +
// YIntercept. Every value starts out null until the line is built.
type Line struct {
	Slope      null.Float
	YIntercept null.Float
	RSquared   null.Float
}

// Params is the stored form of a line, found under "calibration_parameters".
type Params struct {
	Slope      null.Float `json:"slope"`
	YIntercept null.Float `json:"y_intercept"`
	RSquared   null.Float `json:"r_squared"`
}

// FromReference builds the master line from stored parameters. All three must
// be present.
func FromReference(p Params) (Line, error) {
	var missing []string
	if !p.Slope.Valid {
		missing = append(missing, "slope")
	}
	if !p.YIntercept.Valid {
		missing = append(missing, "y_intercept")
	}
	if !p.RSquared.Valid {
		missing = append(missing, "r_squared")
	}
	if len(missing) > 0 {
		return Line{}, fmt.Errorf("%w: %s", ErrMissingReference, strings.Join(missing, ", "))
	}

	return Line{
		Slope:      p.Slope,
		YIntercept: p.YIntercept,
		RSquared:   p.RSquared,
	}, nil
}

// FromMeasurement wraps the result of a fit.
func FromMeasurement(slope, yIntercept, rSquared float64) Line {
	return Line{
		Slope:      null.FloatFrom(slope),
		YIntercept: null.FloatFrom(yIntercept),
		RSquared:   null.FloatFrom(rSquared),
	}
}

// Valid reports whether every parameter is set.
func (l Line) Valid() bool {
	return l.Slope.Valid && l.YIntercept.Valid && l.RSquared.Valid
}

// Params returns the storable form of l.
func (l Line) Params() Params {
	return Params{
		Slope:      l.Slope,
		YIntercept: l.YIntercept,
		RSquared:   l.RSquared,
	}
}

func (l Line) String() string {
	if !l.Valid() {
		return "unset line"
	}
	return fmt.Sprintf("y=%gx%+g (R^2=%g)", l.Slope.Float64, l.YIntercept.Float64, l.RSquared.Float64)
}
