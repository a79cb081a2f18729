package compileinfo

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.23.0",
		Path:      "github.com/carbocation/traqcal/cmd/traqcal",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := fromBuildInfo(bi).String()
	expected := "github.com/carbocation/traqcal/cmd/traqcal v0.3.0 (go1.23.0) commit abc123 from 2024-01-02T03:04:05Z with local modifications"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestStringDevel(t *testing.T) {
	c := CompileInfo{Package: "traqcal", Version: "(devel)", GoVersion: "go1.23.0"}
	if got := c.String(); got != "traqcal (go1.23.0)" {
		t.Fatalf("unexpected %q", got)
	}

	if got := (CompileInfo{}).String(); got != "traqcal: no build information available" {
		t.Fatalf("unexpected %q", got)
	}
}
