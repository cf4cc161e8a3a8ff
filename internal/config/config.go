// Package config provides centralized configuration for gittopo.
package config

import (
	"log"
	"os"
	"strconv"
)

// DefaultGitDirName is the repository marker directory searched for while
// walking up from the start directory.
const DefaultGitDirName = ".git"

// Config holds run-wide configuration.
type Config struct {
	// StartDir is where the upward search for the repository begins.
	// Empty means the process working directory.
	StartDir string

	// GitDirName is the name of the repository marker directory.
	GitDirName string

	// Debug enables stage logging on stderr. An unparsable GITTOPO_DEBUG
	// is logged and treated as false.
	Debug bool
}

// DefaultConfig returns the default configuration, reading from environment variables.
func DefaultConfig() *Config {
	var debug bool
	if v := os.Getenv("GITTOPO_DEBUG"); v != "" {
		var err error
		if debug, err = strconv.ParseBool(v); err != nil {
			log.Printf("config: ignoring GITTOPO_DEBUG=%q: not a boolean", v)
		}
	}
	return &Config{
		StartDir:   os.Getenv("GITTOPO_DIR"),
		GitDirName: DefaultGitDirName,
		Debug:      debug,
	}
}

// ResolveStartDir fills in StartDir with the working directory when unset.
func (c *Config) ResolveStartDir() (string, error) {
	if c.StartDir != "" {
		return c.StartDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	c.StartDir = wd
	return wd, nil
}
