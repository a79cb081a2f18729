// Package compileinfo reports which commit a calibration binary was built from,
// so a QA report can be traced back to the code that produced it.
package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Package == "" {
		return "traqcal: no build information available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s", c.Package)
	if c.Version != "" && c.Version != "(devel)" {
		fmt.Fprintf(&b, " %s", c.Version)
	}
	fmt.Fprintf(&b, " (%s)", c.GoVersion)

	if c.Commit != "" {
		fmt.Fprintf(&b, " commit %s", c.Commit)
		if c.CommitTime != "" {
			fmt.Fprintf(&b, " from %s", c.CommitTime)
		}
		if c.Modified {
			b.WriteString(" with local modifications")
		}
	}

	return b.String()
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		GoVersion: z.GoVersion,
		Package:   z.Path,
		Version:   z.Main.Version,
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func Fprint(w io.Writer) {
	fmt.Fprintln(w, Get())
}

func PrintToStdErr() {
	Fprint(os.Stderr)
}
