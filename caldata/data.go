// Package caldata loads every calibration run in a directory and orders them by
// concentration.
package caldata

import (
	"errors"
	"fmt"

	"github.com/carbocation/traqcal/calrun"
)

var ErrDirectoryNotFound = errors.New("directory not found")

// Policy decides what happens when one file in a directory cannot be built.
type Policy int

const (
	// AbortOnError fails the whole load on the first bad file.
	AbortOnError Policy = iota

	// SkipInvalid logs bad files, records them in Data.Skipped and continues.
	SkipInvalid
)

func (p Policy) String() string {
	switch p {
	case AbortOnError:
		return "abort"
	case SkipInvalid:
		return "skip"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

type Options struct {
	Run    calrun.Options
	Policy Policy

	// Concurrency bounds how many files are read at once. Zero means one per
	// CPU.
	Concurrency int
}

// Skipped is a file left out under SkipInvalid.
type Skipped struct {
	Source string
	Err    error
}

// Data is the set of runs found in one directory, sorted ascending by the
// numeric value of their concentration. It is not modified after Load.
type Data struct {
	Directory string
	Format    calrun.Format
	Runs      []calrun.Run
	Skipped   []Skipped
}

// Concentrations lists the distinct concentrations in run order.
func (d *Data) Concentrations() []string {
	out := make([]string, 0, len(d.Runs))
	seen := make(map[string]struct{})
	for _, run := range d.Runs {
		if _, exists := seen[run.Concentration]; exists {
			continue
		}
		seen[run.Concentration] = struct{}{}
		out = append(out, run.Concentration)
	}

	return out
}

// ConcentrationError reports a run whose concentration label is not a number.
type ConcentrationError struct {
	Source        string
	Concentration string
	Err           error
}

func (e *ConcentrationError) Error() string {
	return fmt.Sprintf("%s: concentration %q is not numeric: %v", e.Source, e.Concentration, e.Err)
}

func (e *ConcentrationError) Unwrap() error { return e.Err }
