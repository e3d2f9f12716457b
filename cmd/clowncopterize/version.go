package main

import (
	"runtime/debug"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = ""

// buildVersion returns the link-time version, else the module version from
// build info.
func buildVersion() string {
	if version != "" {
		return version
	}
	if v, ok := inferVersion(); ok {
		return v
	}
	return "devel"
}

// inferVersion attempts to infer the module version from build info.
func inferVersion() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, true
	}
	return "", false
}
