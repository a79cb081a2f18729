package calibration

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/carbocation/pfx"
	"github.com/carbocation/traqcal"
	"gopkg.in/guregu/null.v3"
)

const (
	DefaultPreferencesPath = "config/preferences.json"

	// DefaultRPDPct is the slope and intercept tolerance used when the
	// preferences do not set one.
	DefaultRPDPct = 5.0
)

// QAParams is found under "qa_parameters". Values are percentages.
type QAParams struct {
	SlopeRPD      null.Float `json:"slope_rpd"`
	YInterceptRPD null.Float `json:"y_intercept_rpd"`
}

// Preferences is the lab's stored configuration. Values may be written either
// as numbers or as numeric strings.
type Preferences struct {
	ConfigPath  string   `json:"-"`
	Calibration Params   `json:"calibration_parameters"`
	QA          QAParams `json:"qa_parameters"`
}

func ParsePreferences(r io.Reader) (Preferences, error) {
	out := Preferences{}

	err := json.NewDecoder(r).Decode(&out)
	if err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	return out, nil
}

func ParsePreferencesFromPath(path string) (Preferences, error) {
	path = traqcal.ExpandHome(path)

	f, err := os.Open(path)
	if err != nil {
		return Preferences{ConfigPath: path}, pfx.Err(err)
	}
	defer f.Close()

	out, err := ParsePreferences(f)
	out.ConfigPath = path

	return out, err
}

// ParsePreferencesFromPathOrDefault treats a missing file as empty
// preferences, so every value falls back to its default.
func ParsePreferencesFromPathOrDefault(path string) (Preferences, error) {
	path = traqcal.ExpandHome(path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Preferences{ConfigPath: path}, nil
	}

	return ParsePreferencesFromPath(path)
}

// MasterLine is the reference line QA compares against.
func (p Preferences) MasterLine() (Line, error) {
	return FromReference(p.Calibration)
}

func (p Preferences) SlopeTolerancePct() float64 {
	if p.QA.SlopeRPD.Valid {
		return p.QA.SlopeRPD.Float64
	}
	return DefaultRPDPct
}

func (p Preferences) InterceptTolerancePct() float64 {
	if p.QA.YInterceptRPD.Valid {
		return p.QA.YInterceptRPD.Float64
	}
	return DefaultRPDPct
}
