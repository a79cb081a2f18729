// Package linearity fits a calibration line to the runs of a directory. Each
// run contributes its signal at a reference time; runs at the same
// concentration are averaged before the regression.
package linearity

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/carbocation/runningvariance"
	"github.com/carbocation/traqcal/caldata"
	"github.com/carbocation/traqcal/calibration"
	"github.com/carbocation/traqcal/calrun"
	"gonum.org/v1/gonum/stat"
)

// DefaultReferenceX is the time, in seconds, at which each run's signal is read.
const DefaultReferenceX = 10.0

var ErrDegenerateFit = errors.New("cannot fit a line")

// Point is the averaged signal of every run at one concentration.
type Point struct {
	Concentration string
	Value         float64
	Signal        float64
	StdDev        float64
	Runs          int
}

// Fit holds the direct regression of signal on concentration and the inverted
// line that maps signal back to concentration.
type Fit struct {
	Points          []Point
	DirectSlope     float64
	DirectIntercept float64
	Line            calibration.Line
}

func FitData(data *caldata.Data, referenceX float64) (Fit, error) {
	if data == nil {
		return Fit{}, fmt.Errorf("%w: no data", ErrDegenerateFit)
	}
	return FitRuns(data.Runs, referenceX)
}

func FitRuns(runs []calrun.Run, referenceX float64) (Fit, error) {
	points, err := GroupPoints(runs, referenceX)
	if err != nil {
		return Fit{}, err
	}

	return FitPoints(points)
}

type group struct {
	concentration string
	rs            *runningvariance.RunningStat
	n             int
}

// GroupPoints reads each run at referenceX and averages the runs sharing a
// concentration label. Points come out in the order their label first appears.
func GroupPoints(runs []calrun.Run, referenceX float64) ([]Point, error) {
	groups := make([]*group, 0)
	byConcentration := make(map[string]*group)

	for _, run := range runs {
		idx := NearestIndex(run.X, referenceX)
		if idx < 0 || idx >= len(run.Y) {
			return nil, fmt.Errorf("%s: %w: run has no samples", run.Source, ErrDegenerateFit)
		}

		g, exists := byConcentration[run.Concentration]
		if !exists {
			g = &group{
				concentration: run.Concentration,
				rs:            runningvariance.NewRunningStat(),
			}
			byConcentration[run.Concentration] = g
			groups = append(groups, g)
		}

		g.rs.Push(run.Y[idx])
		g.n++
	}

	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		value, err := strconv.ParseFloat(g.concentration, 64)
		if err != nil {
			return nil, fmt.Errorf("concentration %q: %w", g.concentration, err)
		}

		sd := 0.0
		if g.n > 1 {
			sd = g.rs.StandardDeviation()
		}

		points = append(points, Point{
			Concentration: g.concentration,
			Value:         value,
			Signal:        g.rs.Mean(),
			StdDev:        sd,
			Runs:          g.n,
		})
	}

	return points, nil
}

// FitPoints regresses signal on concentration by ordinary least squares and
// inverts the result.
func FitPoints(points []Point) (Fit, error) {
	if len(points) < 2 {
		return Fit{}, fmt.Errorf("%w: need at least 2 concentrations, have %d", ErrDegenerateFit, len(points))
	}

	x := make([]float64, 0, len(points))
	y := make([]float64, 0, len(points))
	for _, p := range points {
		x = append(x, p.Value)
		y = append(y, p.Signal)
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if beta == 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return Fit{}, fmt.Errorf("%w: direct slope is %v", ErrDegenerateFit, beta)
	}

	slope, intercept, err := Invert(beta, alpha)
	if err != nil {
		return Fit{}, err
	}

	r2 := stat.RSquared(x, y, nil, alpha, beta)

	return Fit{
		Points:          points,
		DirectSlope:     beta,
		DirectIntercept: alpha,
		Line:            calibration.FromMeasurement(slope, intercept, r2),
	}, nil
}

// Invert turns signal = slopeD*c + interceptD into c = slope*signal + intercept.
func Invert(slopeD, interceptD float64) (slope, intercept float64, err error) {
	if slopeD == 0 || math.IsNaN(slopeD) || math.IsInf(slopeD, 0) {
		return 0, 0, fmt.Errorf("%w: cannot invert slope %v", ErrDegenerateFit, slopeD)
	}

	return 1 / slopeD, -interceptD / slopeD, nil
}
