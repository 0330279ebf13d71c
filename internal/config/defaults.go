// Package config persists taskwatch's application settings: the watched
// directory and the polling interval.
package config

import "time"

const (
	// DefaultPollingInterval is the polling interval in milliseconds used
	// when none is stored.
	DefaultPollingInterval = 30000
	// MinPollingInterval is the smallest accepted polling interval in
	// milliseconds.
	MinPollingInterval = 1000

	// AppDir is the directory under the user config dir holding taskwatch files.
	AppDir = "taskwatch"
	// FileName is the config file name.
	FileName = "config.json"

	// DefaultAddr is where the HTTP API listens unless told otherwise.
	DefaultAddr = "127.0.0.1:3001"
	// DefaultCORSOrigin is the dashboard origin allowed by default.
	DefaultCORSOrigin = "http://localhost:3000"
)

// Default returns the configuration used when nothing is stored.
func Default() Config {
	return Config{PollingInterval: DefaultPollingInterval}
}

// Interval returns the polling interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.PollingInterval) * time.Millisecond
}
