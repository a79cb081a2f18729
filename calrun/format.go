package calrun

import (
	"fmt"
	"sort"
	"strings"
)

// Format names an instrument export layout. The values match the analysis
// types the lab has always used, so existing batch scripts keep working.
type Format string

const (
	VSP   Format = "LactateVSPCalibration"
	Stone Format = "LactateStoneCalibration"
)

// Raw holds the numeric sequences a loader extracts, in the order its
// transform expects them.
type Raw [][]float64

// Layout describes one format. Build reads a table of Columns fields after
// HeaderRows lines, Select picks the sequences the format needs from its
// columns and Transform normalizes them. Adding a format means adding one entry
// to Formats.
type Layout struct {
	ShortName  string
	HeaderRows int
	Columns    int
	Select     func(cols [][]float64, source string, opts Options) (Raw, error)
	Transform  func(raw Raw) (x, y []float64, err error)
}

var Formats = map[Format]Layout{
	VSP: {
		ShortName:  "VSP",
		HeaderRows: vspHeaderRows,
		Columns:    vspColumns,
		Select:     selectVSP,
		Transform:  transformVSP,
	},
	Stone: {
		ShortName:  "Stone",
		HeaderRows: stoneHeaderRows,
		Columns:    stoneColumns,
		Select:     selectStone,
		Transform:  transformStone,
	},
}

// ParseFormat accepts either the full format name or its short name, ignoring
// case.
func ParseFormat(tag string) (Format, error) {
	tag = strings.TrimSpace(tag)
	for f, l := range Formats {
		if strings.EqualFold(tag, string(f)) || strings.EqualFold(tag, l.ShortName) {
			return f, nil
		}
	}

	return "", &FormatError{Tag: tag}
}

func FormatNames() string {
	names := make([]string, 0, 2*len(Formats))
	for f, l := range Formats {
		names = append(names, string(f), l.ShortName)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// AxisOrder says which column of a VSP export is time and which is current.
type AxisOrder int

const (
	CurrentTime AxisOrder = iota
	TimeCurrent
)

func (a AxisOrder) String() string {
	switch a {
	case CurrentTime:
		return "current,time"
	case TimeCurrent:
		return "time,current"
	}
	return fmt.Sprintf("AxisOrder(%d)", int(a))
}

// ParseAxisOrder accepts "current,time" or "time,current". Pipes and spaces are
// tolerated, so "Current | Time" works too.
func ParseAxisOrder(s string) (AxisOrder, error) {
	norm := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	norm = strings.ReplaceAll(norm, "|", ",")

	switch norm {
	case "current,time", "":
		return CurrentTime, nil
	case "time,current":
		return TimeCurrent, nil
	}

	return CurrentTime, fmt.Errorf("invalid axis order %q: must be current,time or time,current", s)
}

// Options carries per-format loader settings.
type Options struct {
	AxisOrder AxisOrder
}
