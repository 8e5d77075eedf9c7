package config

import (
	"fmt"
	"runtime/debug"
)

// these values are set at build time with -ldflags "-X ..."
var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

type Version struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func NewVersion() *Version {
	v := &Version{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	if v.Commit == "none" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					v.Commit = s.Value
				}
			}
		}
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("go_tileloader %s (commit %s, built %s)", v.Version, v.Commit, v.Date)
}
