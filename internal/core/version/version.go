// Package version reports what build is running
package version

import "runtime/debug"

// Service is the name the API reports in health, version and clickhouse client info
const Service = "astrochat-api"

// set with -ldflags "-X astrochat/internal/core/version.version=v1.2.0 -X ...commit=... -X ...date=..."
var (
	version = "dev"
	commit  = ""
	date    = "unknown"
)

// BuildInfo is the /meta/version payload
type BuildInfo struct {
	Service string `json:"service" example:"astrochat-api"`
	Version string `json:"version" example:"v1.2.0"`
	Commit  string `json:"commit"  example:"3f9a0c1"`
	Date    string `json:"date"    example:"2025-09-02"`
}

// Info returns the linked build values; without -ldflags the commit comes from
// the vcs stamp go build records, shortened to 7 characters
func Info() BuildInfo {
	return BuildInfo{Service: Service, Version: version, Commit: Commit(), Date: date}
}

// Commit is the short revision this binary was built from, or "unknown"
func Commit() string {
	if commit != "" {
		return commit
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
