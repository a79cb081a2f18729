package calrun

import "fmt"

const (
	vspHeaderRows = 1
	vspColumns    = 2

	// VSP exports current in amps; curves are reported in microamps.
	currentScale = 1e6
)

// selectVSP returns (time, current) regardless of the column order in the file.
func selectVSP(cols [][]float64, source string, opts Options) (Raw, error) {
	switch opts.AxisOrder {
	case TimeCurrent:
		return Raw{cols[0], cols[1]}, nil
	case CurrentTime:
		return Raw{cols[1], cols[0]}, nil
	}

	return nil, &LoadError{Source: source, Err: fmt.Errorf("invalid axis order %s", opts.AxisOrder)}
}

func transformVSP(raw Raw) ([]float64, []float64, error) {
	if len(raw) != 2 {
		return nil, nil, fmt.Errorf("VSP transform expects (time, current), got %d sequences", len(raw))
	}
	time, current := raw[0], raw[1]

	return zeroed(time), scaled(current, currentScale), nil
}
