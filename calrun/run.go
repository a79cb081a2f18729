// Package calrun turns one instrument export into a normalized calibration run:
// the concentration encoded in its name plus an (x, y) curve that starts at
// x = 0.
package calrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/traqcal"
)

// Run is one normalized measurement file. Treat it as read-only once built.
type Run struct {
	Source        string
	Concentration string
	X             []float64
	Y             []float64
}

func (r Run) Len() int {
	return len(r.X)
}

// ConcentrationValue parses Concentration. A name like "a_b_trial.txt" parses
// fine as an identifier but fails here.
func (r Run) ConcentrationValue() (float64, error) {
	return strconv.ParseFloat(r.Concentration, 64)
}

// Opener is the part of a traqcal.Store that Build needs.
type Opener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Build loads source with the loader and transform registered for format.
func Build(ctx context.Context, opener Opener, format Format, source string, opts Options) (Run, error) {
	layout, exists := Formats[format]
	if !exists {
		return Run{}, &FormatError{Tag: string(format)}
	}

	concentration, err := ExtractConcentration(source)
	if err != nil {
		return Run{}, err
	}

	if err := ctx.Err(); err != nil {
		return Run{}, err
	}

	raw, err := load(ctx, opener, layout, source, opts)
	if err != nil {
		return Run{}, err
	}

	x, y, err := layout.Transform(raw)
	if err != nil {
		return Run{}, asLoadError(source, err)
	}

	run := Run{
		Source:        source,
		Concentration: concentration,
		X:             x,
		Y:             y,
	}

	if err := run.validate(); err != nil {
		return Run{}, &LoadError{Source: source, Err: err}
	}

	return run, nil
}

// BuildFile is Build against the local filesystem.
func BuildFile(format Format, path string, opts Options) (Run, error) {
	return Build(context.Background(), traqcal.LocalStore{}, format, path, opts)
}

func load(ctx context.Context, opener Opener, layout Layout, source string, opts Options) (Raw, error) {
	rc, err := opener.Open(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer rc.Close()

	r, err := traqcal.MaybeDecompress(rc)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer r.Close()

	cols, err := readTable(r, source, layout.HeaderRows, layout.Columns)
	if err != nil {
		return nil, err
	}

	raw, err := layout.Select(cols, source, opts)
	if err != nil {
		return nil, asLoadError(source, err)
	}

	return raw, nil
}

func asLoadError(source string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Source: source, Err: err}
}

func (r Run) validate() error {
	if len(r.X) != len(r.Y) {
		return fmt.Errorf("x has %d samples but y has %d", len(r.X), len(r.Y))
	}
	if len(r.X) == 0 {
		return fmt.Errorf("no samples")
	}
	if r.X[0] != 0 {
		return fmt.Errorf("x starts at %g, not 0", r.X[0])
	}
	for i := 1; i < len(r.X); i++ {
		if r.X[i] < r.X[i-1] {
			return fmt.Errorf("x decreases at sample %d (%g after %g)", i, r.X[i], r.X[i-1])
		}
	}

	return nil
}
