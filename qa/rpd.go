package qa

import (
	"errors"
	"fmt"
	"math"
)

var ErrUndefinedRPD = errors.New("relative percent difference is undefined when the values sum to zero")

// RPD is the relative percent difference |a-b| / ((a+b)/2) * 100. It is
// symmetric in a and b. When a+b is zero the result is NaN along with
// ErrUndefinedRPD.
func RPD(a, b float64) (float64, error) {
	if a+b == 0 {
		return math.NaN(), fmt.Errorf("RPD(%g, %g): %w", a, b, ErrUndefinedRPD)
	}

	return math.Abs(a-b) / ((a + b) / 2) * 100, nil
}
