package calrun

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readTable parses a whitespace-delimited numeric table into columns. The first
// headerRows lines are skipped, as are blank lines and lines starting with #.
// Every remaining row must have exactly columns fields.
func readTable(r io.Reader, source string, headerRows, columns int) ([][]float64, error) {
	out := make([][]float64, columns)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for line := 1; scanner.Scan(); line++ {
		if line <= headerRows {
			continue
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != columns {
			return nil, &LoadError{Source: source, Line: line, Err: fmt.Errorf("expected %d columns, got %d", columns, len(fields))}
		}

		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &LoadError{Source: source, Line: line, Err: err}
			}
			out[i] = append(out[i], v)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	if len(out[0]) == 0 {
		return nil, &LoadError{Source: source, Err: errors.New("no data rows")}
	}

	return out, nil
}

// zeroed shifts a sequence so that it starts at 0.
func zeroed(in []float64) []float64 {
	out := make([]float64, len(in))
	if len(in) == 0 {
		return out
	}

	first := in[0]
	for i, v := range in {
		out[i] = v - first
	}

	return out
}

func scaled(in []float64, factor float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v * factor
	}

	return out
}
