package calibration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsePreferences(t *testing.T) {
	for _, v := range []struct {
		Name        string
		JSON        string
		Slope       float64
		SlopeTol    float64
		InterceptTo float64
	}{
		{
			Name:        "numbers",
			JSON:        `{"calibration_parameters": {"slope": 0.0066, "y_intercept": 0.1, "r_squared": 0.98}, "qa_parameters": {"slope_rpd": 10, "y_intercept_rpd": 2.5}}`,
			Slope:       0.0066,
			SlopeTol:    10,
			InterceptTo: 2.5,
		},
		{
			// The preferences dialog saved everything as text.
			Name:        "strings",
			JSON:        `{"calibration_parameters": {"slope": "0.0066", "y_intercept": "0.1", "r_squared": "0.98"}, "qa_parameters": {"slope_rpd": "7"}}`,
			Slope:       0.0066,
			SlopeTol:    7,
			InterceptTo: DefaultRPDPct,
		},
		{
			Name:        "no qa section",
			JSON:        `{"calibration_parameters": {"slope": 1, "y_intercept": 0, "r_squared": 1}}`,
			Slope:       1,
			SlopeTol:    DefaultRPDPct,
			InterceptTo: DefaultRPDPct,
		},
	} {
		prefs, err := ParsePreferences(strings.NewReader(v.JSON))
		if err != nil {
			t.Fatalf("%s: %v", v.Name, err)
		}

		master, err := prefs.MasterLine()
		if err != nil {
			t.Fatalf("%s: %v", v.Name, err)
		}
		if master.Slope.Float64 != v.Slope {
			t.Fatalf("%s: expected slope %v, got %v", v.Name, v.Slope, master.Slope.Float64)
		}
		if prefs.SlopeTolerancePct() != v.SlopeTol || prefs.InterceptTolerancePct() != v.InterceptTo {
			t.Fatalf("%s: unexpected tolerances %v/%v", v.Name, prefs.SlopeTolerancePct(), prefs.InterceptTolerancePct())
		}
	}
}

func TestParsePreferencesErrors(t *testing.T) {
	if _, err := ParsePreferences(strings.NewReader(`{"calibration_parameters": `)); err == nil {
		t.Fatalf("expected a syntax error")
	}
	if _, err := ParsePreferences(strings.NewReader(`{"calibration_parameters": {"slope": "steep"}}`)); err == nil {
		t.Fatalf("expected a parse error for a non-numeric slope")
	}
}

func TestParsePreferencesFromPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "preferences.json")
	if err := os.WriteFile(p, []byte(`{"calibration_parameters": {"slope": 2, "y_intercept": 1, "r_squared": 0.9}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	prefs, err := ParsePreferencesFromPath(p)
	if err != nil {
		t.Fatal(err)
	}
	if prefs.ConfigPath != p || prefs.Calibration.YIntercept.Float64 != 1 {
		t.Fatalf("unexpected preferences %+v", prefs)
	}

	missing := filepath.Join(dir, "missing.json")
	if _, err := ParsePreferencesFromPath(missing); err == nil {
		t.Fatalf("expected an error for a missing file")
	}

	prefs, err = ParsePreferencesFromPathOrDefault(missing)
	if err != nil {
		t.Fatal(err)
	}
	if prefs.SlopeTolerancePct() != DefaultRPDPct {
		t.Fatalf("expected default tolerances, got %+v", prefs)
	}
	if _, err := prefs.MasterLine(); err == nil {
		t.Fatalf("expected no master line in empty preferences")
	}
}
