package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	semver "github.com/Masterminds/semver/v3"
)

// Version information for all CLI tools
var (
	Version   = "0.3.0"
	BuildDate = "2026-10-18"
	CommitSHA = "unknown" // Will be set during build
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information. The version is
// normalized through semver so "v0.3" and "0.3.0" print the same way.
func GetVersionInfo() *VersionInfo {
	v := Version
	if sv, err := semver.NewVersion(Version); err == nil {
		v = sv.String()
	}
	return &VersionInfo{
		Version:   v,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion prints version information in a consistent format
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
	return err
}

// CheckVersion fails when the running compiler does not satisfy constraint,
// e.g. ">= 0.3, < 1".
func CheckVersion(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid compiler version %q: %w", Version, err)
	}
	if ok, reasons := c.Validate(v); !ok {
		if len(reasons) > 0 {
			return fmt.Errorf("compiler version %s does not satisfy %q: %w", v, constraint, reasons[0])
		}
		return fmt.Errorf("compiler version %s does not satisfy %q", v, constraint)
	}
	return nil
}
