// Package version exposes build metadata injected at link time.
package version

import (
	"runtime"
	"time"
)

// Component is the service name reported in build info, the X-Mailer
// header of outbound mail, and the mgctl User-Agent.
const Component = "mailgate"

// Injected via -ldflags on release builds. The zero values identify a
// local development build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo is the shape served by GET /version and printed by mgctl.
// BuildTime is a pointer so development builds, whose BuildDate does not
// parse, omit the field instead of serving the zero timestamp.
type BuildInfo struct {
	Component string     `json:"component" yaml:"component"`
	Version   string     `json:"version" yaml:"version"`
	GitCommit string     `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string     `json:"buildDate" yaml:"buildDate"`
	GoVersion string     `json:"goVersion" yaml:"goVersion"`
	Platform  string     `json:"platform" yaml:"platform"`
	BuildTime *time.Time `json:"buildTime,omitempty" yaml:"buildTime,omitempty"`
}

// GetBuildInfo collects the injected values plus the runtime identity.
// BuildTime is only populated when BuildDate parses as RFC3339.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Component: Component,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if t, err := time.Parse(time.RFC3339, BuildDate); err == nil {
		info.BuildTime = &t
	}
	return info
}

// UserAgent returns the component/version identifier, e.g. "mailgate/1.2.0".
func UserAgent() string {
	return Component + "/" + Version
}
