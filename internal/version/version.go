// Package version reports build and runtime information for finditor.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	SemVer    string `json:"semver" yaml:"semver"`
	BuildDate string `json:"build_date" yaml:"build_date"`

	GitCommit string `json:"git_commit" yaml:"git_commit"`
	GitBranch string `json:"git_branch" yaml:"git_branch"`

	GoVersion string `json:"go_version" yaml:"go_version"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Platform  string `json:"platform" yaml:"platform"`

	NumCPU     int `json:"num_cpu" yaml:"num_cpu"`
	GOMAXPROCS int `json:"gomaxprocs" yaml:"gomaxprocs"`

	BuildDeps []Module `json:"build_deps,omitempty" yaml:"build_deps,omitempty"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version" yaml:"version"`
}

// GetBuildInfo returns build information for the running binary
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:    Version,
		SemVer:     strings.TrimPrefix(strings.Split(Version, "-")[0], "v"),
		BuildDate:  BuildDate,
		GitCommit:  GitCommit,
		GitBranch:  GitBranch,
		GoVersion:  runtime.Version(),
		Compiler:   runtime.Compiler,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			info.BuildDeps = append(info.BuildDeps, Module{Path: dep.Path, Version: dep.Version})
		}
		if info.GitCommit == "unknown" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.GitCommit = s.Value
				}
			}
		}
	}

	return info
}

// Short returns the one line version string
func Short() string {
	return fmt.Sprintf("finditor %s (%s, %s)", Version, GitCommit, runtime.Version())
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	return text(GetBuildInfo())
}

// Render formats the build information as text, json or yaml.
func Render(format string) (string, error) {
	info := GetBuildInfo()

	switch format {
	case "", "text":
		return text(info), nil
	case "json":
		b, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "yaml":
		b, err := yaml.Marshal(info)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported version format: %s", format)
	}
}

func text(info BuildInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "finditor %s\n\n", info.Version)

	b.WriteString("Build:\n")
	fmt.Fprintf(&b, "  Version:      %s\n", info.Version)
	fmt.Fprintf(&b, "  Semantic Ver: %s\n", info.SemVer)
	fmt.Fprintf(&b, "  Build Date:   %s\n", info.BuildDate)
	fmt.Fprintf(&b, "  Commit:       %s\n", info.GitCommit)
	fmt.Fprintf(&b, "  Branch:       %s\n\n", info.GitBranch)

	b.WriteString("Runtime:\n")
	fmt.Fprintf(&b, "  Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Compiler:     %s\n", info.Compiler)
	fmt.Fprintf(&b, "  Platform:     %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:         %d\n", info.NumCPU)
	fmt.Fprintf(&b, "  GOMAXPROCS:   %d\n", info.GOMAXPROCS)

	if len(info.BuildDeps) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, dep := range info.BuildDeps {
			fmt.Fprintf(&b, "  - %s@%s\n", dep.Path, dep.Version)
		}
	}

	return b.String()
}
