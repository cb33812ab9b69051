// Package format handles story-format version parsing and the availability
// windows that gate built-in and custom functions.
package format

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"gitlab.com/tozd/go/errors"
)

// Version is a parsed story format version. Chapbook versions are
// dot-separated integers compared component-wise; semver's coercion of
// partial versions like "2.0" matches that behavior.
type Version = semver.Version

func Parse(s string) (*Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Errorf("parsing version %q: %w", s, err)
	}
	return v, nil
}

// MustParse is for static catalog entries whose versions are known good.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Window is the availability window of a function: present from Since,
// warned about from Deprecated, gone from Removed. Nil bounds are open.
type Window struct {
	Since      *Version
	Deprecated *Version
	Removed    *Version
}

// Availability classifies a format version against the window.
type Availability int

const (
	Available Availability = iota
	AvailableDeprecated
	TooEarly
	Gone
)

// Check classifies current against the window. A nil current version (no
// declared story format version) is treated as always in range.
func (w Window) Check(current *Version) Availability {
	if current == nil {
		return Available
	}
	if w.Since != nil && current.LessThan(w.Since) {
		return TooEarly
	}
	if w.Removed != nil && !current.LessThan(w.Removed) {
		return Gone
	}
	if w.Deprecated != nil && !current.LessThan(w.Deprecated) {
		return AvailableDeprecated
	}
	return Available
}
