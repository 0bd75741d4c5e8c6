// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDataDir returns the directory where the note database and
// calendar files live by default.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "almanac")
}

// DefaultDBPath returns the default note database location.
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "almanac.db")
}

// FindCalendarFile resolves a calendar definition path: an explicit path is
// expanded and used as-is; a bare name is looked up in the data directory
// with a .yaml extension.
func FindCalendarFile(nameOrPath string) string {
	if nameOrPath == "" {
		return ""
	}
	expanded := ExpandPath(nameOrPath)
	if strings.ContainsAny(expanded, "/\\") || strings.HasSuffix(expanded, ".yaml") || strings.HasSuffix(expanded, ".yml") {
		return expanded
	}
	return filepath.Join(DefaultDataDir(), "calendars", expanded+".yaml")
}
