package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set by ldflags:
//
//	go build -ldflags "-X github.com/flowbaker/filevault/internal/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns build information, filling gaps left by ldflags from the
// module build info and VCS stamps.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if (info.Version == "" || info.Version == "dev") && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = setting.Value
			}
		}
	}

	return info
}

// Short returns the version with an abbreviated commit, e.g. "v1.2.0-1a2b3c4".
func (i Info) Short() string {
	if len(i.GitCommit) >= 7 {
		return fmt.Sprintf("%s-%s", i.Version, i.GitCommit[:7])
	}
	return i.Version
}

func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "filevault %s", i.Short())
	if i.BuildDate != "" {
		fmt.Fprintf(&b, " (built %s)", i.BuildDate)
	}
	fmt.Fprintf(&b, " %s %s", i.GoVersion, i.Platform)
	return b.String()
}

// UserAgent is sent with every request to the backend.
func UserAgent() string {
	return "filevault-cli/" + strings.TrimPrefix(Get().Version, "v")
}
