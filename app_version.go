package main

import (
	"runtime/debug"
)

// set with -ldflags "-X main.appVer=..."
var appVer string = ""

// appVersion reports the module version for go install builds, the
// ldflags-injected version otherwise, or "#UNAVAILABLE".
func appVersion() string {
	if v, ok := debug.ReadBuildInfo(); ok && v.Main.Version != "" && v.Main.Version != "(devel)" {
		return v.Main.Version
	}
	if appVer != "" {
		return appVer
	}
	return "#UNAVAILABLE"
}
