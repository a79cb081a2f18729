package caldata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"runtime"
	"sort"
	"strings"

	"github.com/carbocation/traqcal"
	"github.com/carbocation/traqcal/calrun"
	"golang.org/x/sync/errgroup"
)

// Load builds a Run for every file in dir. Sub-directories and hidden files
// (names starting with ".") are ignored. Runs are built concurrently but the
// result does not depend on completion order.
func Load(ctx context.Context, store traqcal.Store, dir string, format calrun.Format, opts Options) (*Data, error) {
	if _, exists := calrun.Formats[format]; !exists {
		return nil, &calrun.FormatError{Tag: string(format)}
	}

	entries, err := store.List(ctx, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, ErrDirectoryNotFound)
	} else if err != nil {
		return nil, err
	}

	sources := runSources(entries)

	runs, failures, err := buildAll(ctx, store, format, sources, opts)
	if err != nil {
		return nil, err
	}

	out := &Data{
		Directory: dir,
		Format:    format,
	}

	keyed := make([]keyedRun, 0, len(runs))
	for i, run := range runs {
		if failures[i] != nil {
			out.Skipped = append(out.Skipped, Skipped{Source: sources[i], Err: failures[i]})
			continue
		}

		c, err := run.ConcentrationValue()
		if err != nil {
			cerr := &ConcentrationError{Source: run.Source, Concentration: run.Concentration, Err: err}
			if opts.Policy == AbortOnError {
				return nil, cerr
			}
			log.Printf("Skipping %s: %v\n", run.Source, cerr)
			out.Skipped = append(out.Skipped, Skipped{Source: run.Source, Err: cerr})
			continue
		}

		keyed = append(keyed, keyedRun{run: run, concentration: c})
	}

	// Stable, so replicate runs keep their listing order.
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].concentration < keyed[j].concentration
	})

	out.Runs = make([]calrun.Run, 0, len(keyed))
	for _, k := range keyed {
		out.Runs = append(out.Runs, k.run)
	}

	return out, nil
}

type keyedRun struct {
	run           calrun.Run
	concentration float64
}

func runSources(entries []traqcal.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir || strings.HasPrefix(e.Name, ".") {
			continue
		}
		out = append(out, e.Path)
	}

	sort.Strings(out)

	return out
}

// buildAll returns one slot per source. Under SkipInvalid a failed source has
// a zero Run and its error in failures; under AbortOnError the first
// failure is returned as err.
func buildAll(ctx context.Context, store traqcal.Store, format calrun.Format, sources []string, opts Options) ([]calrun.Run, []error, error) {
	runs := make([]calrun.Run, len(sources))
	failures := make([]error, len(sources))

	limit := opts.Concurrency
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			run, err := calrun.Build(gctx, store, format, source, opts.Run)
			if err != nil {
				failures[i] = err
				// A cancelled load fails whatever the policy; only bad files
				// are skipped.
				if opts.Policy == AbortOnError || gctx.Err() != nil || isCancellation(err) {
					return err
				}
				log.Printf("Skipping %s: %v\n", source, err)
				return nil
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Prefer a real failure over the cancellations it caused in its
		// siblings.
		for _, f := range failures {
			if f != nil && !isCancellation(f) {
				return nil, nil, f
			}
		}
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return runs, failures, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
