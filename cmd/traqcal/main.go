// traqcal fits a calibration line to a directory of sensor calibration runs and
// checks it against the lab's master line.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/carbocation/traqcal/calibration"
	_ "github.com/carbocation/traqcal/compileinfoprint"
	"github.com/carbocation/traqcal/linearity"
)

// ExitQAFailed is returned when the fit worked but did not pass QA.
const ExitQAFailed = 2

func main() {
	cfg := config{}

	flag.StringVar(&cfg.Dir, "dir", "", "Directory (local path, gs://bucket/prefix or s3://bucket/prefix) holding one calibration run per file, named like 4_15_trial1.txt")
	flag.StringVar(&cfg.Format, "format", "VSP", "Instrument export format: VSP or Stone")
	flag.StringVar(&cfg.AxisOrder, "axis-order", "current,time", "Column order of VSP exports: current,time or time,current")
	flag.StringVar(&cfg.ConfigPath, "config", calibration.DefaultPreferencesPath, "Preferences JSON with calibration_parameters and qa_parameters. A missing file means defaults and no QA.")
	flag.StringVar(&cfg.MasterPath, "master", "", "(Optional) JSON file whose calibration_parameters replace the master line from -config")
	flag.Float64Var(&cfg.ReferenceX, "reference-x", linearity.DefaultReferenceX, "Time, in seconds, at which each run's signal is read")
	flag.BoolVar(&cfg.SkipInvalid, "skip-invalid", false, "Log and skip files that cannot be read instead of failing")
	flag.IntVar(&cfg.Concurrency, "concurrency", 0, "Number of files to read at once. 0 means one per CPU.")
	flag.BoolVar(&cfg.PrintRuns, "runs", false, "Also print one line per run")
	flag.Parse()

	if cfg.Dir == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -dir")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := run(ctx, cfg)
	if err != nil {
		log.Fatalln(err)
	}

	if err := printReport(os.Stdout, rep, cfg.PrintRuns); err != nil {
		log.Fatalln(err)
	}

	if rep.QA == nil {
		log.Println("No master line configured in", rep.ConfigPath, "so QA was not run")
		return
	}

	failures := rep.Failures()
	for _, msg := range failures {
		log.Println(msg)
	}

	if len(failures) > 0 {
		stop()
		os.Exit(ExitQAFailed)
	}

	log.Println("QA passed")
}
