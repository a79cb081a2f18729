package caldata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/traqcal"
	"github.com/carbocation/traqcal/calrun"
)

func vspFile(current10s float64) string {
	return fmt.Sprintf("Current Time\n0.0001 100\n0.0002 105\n%g 110\n0.0003 115\n", current10s)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadSortsNumerically(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"10_0_a.txt":  vspFile(1e-4),
		"2_5_a.txt":   vspFile(2e-4),
		"100_0_a.txt": vspFile(3e-4),
		".DS_Store":   "not a data file",
	})
	if err := os.Mkdir(filepath.Join(dir, "1_0_subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	data, err := Load(context.Background(), traqcal.LocalStore{}, dir, calrun.VSP, Options{})
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(data.Runs))
	for _, run := range data.Runs {
		got = append(got, run.Concentration)
	}

	expected := []string{"2.5", "10.0", "100.0"}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected %v, got %v", expected, got)
	}

	if data.Format != calrun.VSP || data.Directory != dir || len(data.Skipped) != 0 {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestLoadReplicatesKeepListingOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1_0_b.txt": vspFile(1e-4),
		"1_0_a.txt": vspFile(1e-4),
		"0_5_a.txt": vspFile(1e-4),
	})

	data, err := Load(context.Background(), traqcal.LocalStore{}, dir, calrun.VSP, Options{Concurrency: 2})
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"0_5_a.txt", "1_0_a.txt", "1_0_b.txt"}
	for i, run := range data.Runs {
		if filepath.Base(run.Source) != expected[i] {
			t.Fatalf("position %d: expected %s, got %s", i, expected[i], run.Source)
		}
	}

	if c := data.Concentrations(); len(c) != 2 || c[0] != "0.5" || c[1] != "1.0" {
		t.Fatalf("unexpected distinct concentrations %v", c)
	}
}

func TestLoadDirectoryNotFound(t *testing.T) {
	_, err := Load(context.Background(), traqcal.LocalStore{}, filepath.Join(t.TempDir(), "nope"), calrun.VSP, Options{})
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load(context.Background(), traqcal.LocalStore{}, t.TempDir(), calrun.Format("Nope"), Options{})
	if !errors.Is(err, calrun.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLoadPolicies(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1_0_a.txt":   vspFile(1e-4),
		"2_0_a.txt":   vspFile(2e-4),
		"3_0_bad.txt": "Current Time\n1 2 3\n",
		"x_y_a.txt":   vspFile(3e-4),
	})

	_, err := Load(context.Background(), traqcal.LocalStore{}, dir, calrun.VSP, Options{Policy: AbortOnError})
	if err == nil {
		t.Fatalf("expected the load to abort")
	}
	if !errors.Is(err, calrun.ErrLoad) {
		var ce *ConcentrationError
		if !errors.As(err, &ce) {
			t.Fatalf("expected a LoadError or ConcentrationError, got %v", err)
		}
	}

	data, err := Load(context.Background(), traqcal.LocalStore{}, dir, calrun.VSP, Options{Policy: SkipInvalid})
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Runs) != 2 {
		t.Fatalf("expected 2 good runs, got %d", len(data.Runs))
	}
	if len(data.Skipped) != 2 {
		t.Fatalf("expected 2 skipped files, got %+v", data.Skipped)
	}

	skipped := make(map[string]error)
	for _, s := range data.Skipped {
		skipped[filepath.Base(s.Source)] = s.Err
	}
	if !errors.Is(skipped["3_0_bad.txt"], calrun.ErrLoad) {
		t.Fatalf("expected 3_0_bad.txt to be skipped with a LoadError, got %v", skipped)
	}
	var ce *ConcentrationError
	if !errors.As(skipped["x_y_a.txt"], &ce) || ce.Concentration != "x.y" {
		t.Fatalf("expected x_y_a.txt to be skipped with a ConcentrationError, got %v", skipped)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1_0_a.txt": vspFile(1e-4),
		"2_0_a.txt": vspFile(2e-4),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, policy := range []Policy{AbortOnError, SkipInvalid} {
		data, err := Load(ctx, traqcal.LocalStore{}, dir, calrun.VSP, Options{Policy: policy})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v (data %+v)", policy, err, data)
		}
		if data != nil {
			t.Fatalf("%s: expected no data from a cancelled load, got %+v", policy, data)
		}
	}
}

func TestLoadPathIsAFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1_0_a.txt": vspFile(1e-4),
	})

	_, err := Load(context.Background(), traqcal.LocalStore{}, filepath.Join(dir, "1_0_a.txt"), calrun.VSP, Options{})
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestLoadEmptyLocalDirectory(t *testing.T) {
	data, err := Load(context.Background(), traqcal.LocalStore{}, t.TempDir(), calrun.VSP, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Runs) != 0 || len(data.Skipped) != 0 {
		t.Fatalf("expected an empty load, got %+v", data)
	}
}

func TestLoadNonNumericConcentrationAborts(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1_0_a.txt": vspFile(1e-4),
		"x_y_a.txt": vspFile(3e-4),
	})

	_, err := Load(context.Background(), traqcal.LocalStore{}, dir, calrun.VSP, Options{})

	var ce *ConcentrationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ConcentrationError, got %v", err)
	}
}

// memStore serves files from memory, standing in for a bucket.
type memStore map[string]string

func (m memStore) List(ctx context.Context, dir string) ([]traqcal.Entry, error) {
	var out []traqcal.Entry
	for p := range m {
		if strings.HasPrefix(p, dir+"/") {
			out = append(out, traqcal.Entry{Path: p, Name: p[len(dir)+1:]})
		}
	}
	if len(out) == 0 {
		return nil, fs.ErrNotExist
	}
	return out, nil
}

func (m memStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	content, exists := m[path]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestLoadFromStore(t *testing.T) {
	store := memStore{
		"gs://lab/batch/3_0_a.txt": vspFile(3e-4),
		"gs://lab/batch/1_0_a.txt": vspFile(1e-4),
		"gs://lab/batch/2_0_a.txt": vspFile(2e-4),
	}

	data, err := Load(context.Background(), store, "gs://lab/batch", calrun.VSP, Options{Concurrency: 1})
	if err != nil {
		t.Fatal(err)
	}

	if len(data.Runs) != 3 || data.Runs[0].Concentration != "1.0" || data.Runs[2].Concentration != "3.0" {
		t.Fatalf("unexpected runs: %+v", data.Runs)
	}

	if _, err := Load(context.Background(), store, "gs://lab/other", calrun.VSP, Options{}); !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}
