package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/traqcal/linearity"
	"github.com/carbocation/traqcal/qa"
)

const na = "NA"

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func printReport(w io.Writer, rep report, withRuns bool) error {
	bw := bufio.NewWriter(w)

	if withRuns {
		printRuns(bw, rep)
	}
	printPoints(bw, rep.Fit.Points)
	printLine(bw, rep)
	if rep.QA != nil {
		printQA(bw, *rep.QA)
	}

	return bw.Flush()
}

func row(w io.Writer, fields ...string) {
	fmt.Fprintln(w, strings.Join(fields, "\t"))
}

func printRuns(w io.Writer, rep report) {
	fmt.Fprintln(w, "# runs")
	row(w, "source", "concentration", "samples", "x", "signal")
	for _, run := range rep.Data.Runs {
		x, signal := na, na
		if idx := linearity.NearestIndex(run.X, rep.ReferenceX); idx >= 0 {
			x, signal = ftoa(run.X[idx]), ftoa(run.Y[idx])
		}
		row(w, run.Source, run.Concentration, strconv.Itoa(run.Len()), x, signal)
	}
	for _, s := range rep.Data.Skipped {
		row(w, s.Source, na, "0", na, na)
	}
}

func printPoints(w io.Writer, points []linearity.Point) {
	fmt.Fprintln(w, "# points")
	row(w, "concentration", "runs", "signal", "std_dev")
	for _, p := range points {
		row(w, p.Concentration, strconv.Itoa(p.Runs), ftoa(p.Signal), ftoa(p.StdDev))
	}
}

func printLine(w io.Writer, rep report) {
	fmt.Fprintln(w, "# line")
	row(w, "line", "slope", "y_intercept", "r_squared")

	fit := rep.Fit.Line
	row(w, "measured", ftoa(fit.Slope.Float64), ftoa(fit.YIntercept.Float64), ftoa(fit.RSquared.Float64))

	if rep.Master.Valid() {
		m := rep.Master
		row(w, "master", ftoa(m.Slope.Float64), ftoa(m.YIntercept.Float64), ftoa(m.RSquared.Float64))
	}
}

func printQA(w io.Writer, result qa.Result) {
	fmt.Fprintln(w, "# qa")
	row(w, "check", "passed", "rpd")
	row(w, qa.SlopeCheck, strconv.FormatBool(result.SlopeOK), ftoa(result.SlopeRPD))
	row(w, qa.InterceptCheck, strconv.FormatBool(result.InterceptOK), ftoa(result.InterceptRPD))
	row(w, qa.RSquaredCheck, strconv.FormatBool(result.RSquaredOK), na)
}
