package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/carbocation/traqcal"
	"github.com/carbocation/traqcal/caldata"
	"github.com/carbocation/traqcal/calibration"
	"github.com/carbocation/traqcal/calrun"
	"github.com/carbocation/traqcal/linearity"
	"github.com/carbocation/traqcal/qa"
)

type config struct {
	Dir         string
	Format      string
	AxisOrder   string
	ConfigPath  string
	MasterPath  string
	ReferenceX  float64
	SkipInvalid bool
	Concurrency int
	PrintRuns   bool
}

type report struct {
	ConfigPath string
	ReferenceX float64
	Data       *caldata.Data
	Fit        linearity.Fit

	// Master and QA are only set when a master line is configured.
	Master calibration.Line
	QA     *qa.Result
}

// Failures describes each QA check that did not pass.
func (r report) Failures() []string {
	if r.QA == nil {
		return nil
	}

	var out []string
	if !r.QA.SlopeOK {
		out = append(out, fmt.Sprintf("slope failed: %g", r.QA.SlopeRPD))
	}
	if !r.QA.InterceptOK {
		out = append(out, fmt.Sprintf("y intercept failed: %g", r.QA.InterceptRPD))
	}
	if !r.QA.RSquaredOK {
		out = append(out, fmt.Sprintf("r squared failed: %g < %g", r.Fit.Line.RSquared.Float64, r.Master.RSquared.Float64))
	}

	return out
}

func run(ctx context.Context, cfg config) (report, error) {
	rep := report{ReferenceX: cfg.ReferenceX}

	format, err := calrun.ParseFormat(cfg.Format)
	if err != nil {
		return rep, err
	}

	axisOrder, err := calrun.ParseAxisOrder(cfg.AxisOrder)
	if err != nil {
		return rep, err
	}

	prefs, err := calibration.ParsePreferencesFromPathOrDefault(cfg.ConfigPath)
	if err != nil {
		return rep, err
	}
	rep.ConfigPath = prefs.ConfigPath

	masterPrefs := prefs
	if cfg.MasterPath != "" {
		masterPrefs, err = calibration.ParsePreferencesFromPath(cfg.MasterPath)
		if err != nil {
			return rep, err
		}
		rep.ConfigPath = masterPrefs.ConfigPath
	}

	store, err := traqcal.NewRouterFor(ctx, cfg.Dir)
	if err != nil {
		return rep, err
	}
	defer store.Close()

	opts := caldata.Options{
		Run:         calrun.Options{AxisOrder: axisOrder},
		Concurrency: cfg.Concurrency,
	}
	if cfg.SkipInvalid {
		opts.Policy = caldata.SkipInvalid
	}

	log.Printf("Loading %s runs from %s\n", format, cfg.Dir)
	rep.Data, err = caldata.Load(ctx, store, cfg.Dir, format, opts)
	if err != nil {
		return rep, err
	}
	log.Printf("Loaded %d runs at %d concentrations (%d skipped)\n", len(rep.Data.Runs), len(rep.Data.Concentrations()), len(rep.Data.Skipped))

	rep.Fit, err = linearity.FitData(rep.Data, cfg.ReferenceX)
	if err != nil {
		return rep, err
	}

	rep.Master, err = masterPrefs.MasterLine()
	if errors.Is(err, calibration.ErrMissingReference) && cfg.MasterPath == "" {
		// QA needs a master line but the fit alone is still useful.
		return rep, nil
	} else if err != nil {
		return rep, fmt.Errorf("%s: %w", rep.ConfigPath, err)
	}

	result, err := qa.Evaluate(rep.Master, rep.Fit.Line, qa.TolerancesFrom(prefs))
	if err != nil {
		return rep, err
	}
	rep.QA = &result

	return rep, nil
}
