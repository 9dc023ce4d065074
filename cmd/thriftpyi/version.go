package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var releaseVersion string

// Version reports the module version for tagged installs and
// "devel-<VERSION>[+<rev>]" for local builds.
func Version() string {
	return versionFrom(strings.TrimSpace(releaseVersion), debug.ReadBuildInfo)
}

func versionFrom(base string, readInfo func() (*debug.BuildInfo, bool)) string {
	info, ok := readInfo()
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	v := "devel-" + base
	if rev := setting(info, "vcs.revision"); len(rev) >= 7 {
		v += "+" + rev[:7]
	}
	return v
}

func setting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
