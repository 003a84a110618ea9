// Package buildinfo reports which umlstack build is running.
//
// Release builds stamp the variables below via ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/umlstack/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/umlstack/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/umlstack/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with "go install" carry no ldflags; [Get] then falls
// back to the module version and VCS stamp recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build description.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// Get returns the ldflags values, filling unset ones from the embedded
// module build information when it is available.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
	if i.GoVersion != "" {
		fmt.Fprintf(&b, "\ngo: %s", i.GoVersion)
	}
	return b.String()
}

// Template returns the cobra version template. extra lines, such as the
// supported file format versions, are appended verbatim.
func Template(extra ...string) string {
	var b strings.Builder
	b.WriteString("{{.Name}} ")
	b.WriteString(Get().String())
	b.WriteString("\n")
	for _, line := range extra {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
