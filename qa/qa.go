// Package qa checks a freshly fitted calibration line against the master line.
package qa

import (
	"errors"
	"fmt"

	"github.com/carbocation/traqcal/calibration"
)

const (
	SlopeCheck     = "slope_check"
	InterceptCheck = "intercept_check"
	RSquaredCheck  = "r_squared_check"
)

var ErrIncompleteLine = errors.New("line has unset parameters")

// Tolerances are the largest RPDs, in percent, that still pass.
type Tolerances struct {
	SlopePct     float64
	InterceptPct float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		SlopePct:     calibration.DefaultRPDPct,
		InterceptPct: calibration.DefaultRPDPct,
	}
}

// TolerancesFrom reads the QA section of the lab preferences.
func TolerancesFrom(prefs calibration.Preferences) Tolerances {
	return Tolerances{
		SlopePct:     prefs.SlopeTolerancePct(),
		InterceptPct: prefs.InterceptTolerancePct(),
	}
}

// Result holds the outcome of each check. The RPDs are kept so callers can say
// by how much a check failed.
type Result struct {
	SlopeOK     bool
	InterceptOK bool
	RSquaredOK  bool

	SlopeRPD     float64
	InterceptRPD float64
}

func (r Result) Passed() bool {
	return r.SlopeOK && r.InterceptOK && r.RSquaredOK
}

// Checks returns the results keyed by check name.
func (r Result) Checks() map[string]bool {
	return map[string]bool{
		SlopeCheck:     r.SlopeOK,
		InterceptCheck: r.InterceptOK,
		RSquaredCheck:  r.RSquaredOK,
	}
}

// Evaluate compares measured against master. A check passes when its RPD is at
// most the tolerance; R² passes unless measured is below master.
func Evaluate(master, measured calibration.Line, tol Tolerances) (Result, error) {
	out := Result{}

	if !master.Valid() {
		return out, fmt.Errorf("master: %w", ErrIncompleteLine)
	}
	if !measured.Valid() {
		return out, fmt.Errorf("measured: %w", ErrIncompleteLine)
	}

	var err error

	out.SlopeRPD, err = RPD(master.Slope.Float64, measured.Slope.Float64)
	if err != nil {
		return out, fmt.Errorf("slope: %w", err)
	}
	out.SlopeOK = out.SlopeRPD <= tol.SlopePct

	out.InterceptRPD, err = RPD(master.YIntercept.Float64, measured.YIntercept.Float64)
	if err != nil {
		return out, fmt.Errorf("y intercept: %w", err)
	}
	out.InterceptOK = out.InterceptRPD <= tol.InterceptPct

	out.RSquaredOK = measured.RSquared.Float64 >= master.RSquared.Float64

	return out, nil
}
