package calrun

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

const (
	stoneHeaderRows = 4
	stoneColumns    = 10

	// Column positions: time, count1, stage1, count2, stage2, count3, stage3,
	// current1, current2, current3.
	stoneColTime   = 0
	stoneColCount2 = 3
	stoneColStage2 = 4
	stoneColCount3 = 5

	// MeasurementStage is the stage code the reader reports once the baseline
	// phase is over and the calibration curve starts.
	MeasurementStage = 2

	msPerSecond = 1000.0
)

// selectStone returns (time, count2, stage2, count3). The remaining channels
// are not used for calibration.
func selectStone(cols [][]float64, source string, opts Options) (Raw, error) {
	return Raw{cols[stoneColTime], cols[stoneColCount2], cols[stoneColStage2], cols[stoneColCount3]}, nil
}

func transformStone(raw Raw) ([]float64, []float64, error) {
	if len(raw) != 4 {
		return nil, nil, fmt.Errorf("Stone transform expects (time, count2, stage2, count3), got %d sequences", len(raw))
	}
	time, count2, stage2, count3 := raw[0], raw[1], raw[2], raw[3]

	counts, err := selectChannel(count2, count3)
	if err != nil {
		return nil, nil, err
	}

	// stage2 marks the window for whichever channel was picked; it is the only
	// stage column the loader keeps.
	start := measurementStart(stage2)
	if start < 0 {
		return nil, nil, ErrNoMeasurementStage
	}

	x := zeroed(time[start:])
	for i := range x {
		x[i] /= msPerSecond
	}

	y := make([]float64, len(counts)-start)
	copy(y, counts[start:])

	return x, y, nil
}

// selectChannel keeps the count channel with the larger peak. On a tie count3
// wins.
func selectChannel(count2, count3 []float64) ([]float64, error) {
	max2, err := stats.Max(count2)
	if err != nil {
		return nil, fmt.Errorf("count2: %w", err)
	}
	max3, err := stats.Max(count3)
	if err != nil {
		return nil, fmt.Errorf("count3: %w", err)
	}

	if max2 > max3 {
		return count2, nil
	}
	return count3, nil
}

// measurementStart is the first index at MeasurementStage, or -1.
func measurementStart(stages []float64) int {
	for i, stage := range stages {
		if stage == MeasurementStage {
			return i
		}
	}
	return -1
}
