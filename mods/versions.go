// Package mods carries build information stamped by the magefile through -ldflags.
package mods

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

var (
	versionString   = ""
	versionGitSHA   = ""
	buildTimestamp  = ""
	goVersionString = ""
)

type Version struct {
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
	GitSHA     string `json:"git"`
}

func (v *Version) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

var (
	_version     *Version
	_versionOnce sync.Once
)

// GetVersion parses the stamped version, a development build reports v0.0.0.
func GetVersion() *Version {
	_versionOnce.Do(func() {
		_version = parseVersion(versionString, versionGitSHA)
	})
	return _version
}

func parseVersion(str, sha string) *Version {
	v, err := semver.NewVersion(str)
	if err != nil {
		return &Version{GitSHA: sha}
	}
	return &Version{
		Major:      int(v.Major()),
		Minor:      int(v.Minor()),
		Patch:      int(v.Patch()),
		Prerelease: v.Prerelease(),
		GitSHA:     sha,
	}
}

func DisplayVersion() string {
	return strings.ToUpper(versionString)
}

func VersionString() string {
	return fmt.Sprintf("%s (%v %v)", strings.ToUpper(versionString), versionGitSHA, buildTimestamp)
}

func BuildCompiler() string {
	return goVersionString
}

func BuildTimestamp() string {
	return buildTimestamp
}
