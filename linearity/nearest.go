package linearity

import "math"

// NearestIndex returns the index of the value in xs closest to ref. The first
// of several equally close values wins. It returns -1 for an empty slice.
func NearestIndex(xs []float64, ref float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, x := range xs {
		if dist := math.Abs(x - ref); dist < bestDist {
			best, bestDist = i, dist
		}
	}

	return best
}
