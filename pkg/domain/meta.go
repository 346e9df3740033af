package domain

import "time"

// FormatVersion is the blob format tag stamped into Meta on every save.
const FormatVersion = "1"

// DefaultExitLabel is the text given to the default terminal answer of a
// freshly created node when the project config does not override it.
const DefaultExitLabel = "Exit"

// Meta carries blob-level bookkeeping. Checksum is optional: older blobs
// don't have one and its absence is never an error.
type Meta struct {
	Version  string    `json:"version"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Checksum string    `json:"checksum,omitempty"`
}

// NewMeta returns metadata for a fresh graph created at now.
func NewMeta(now time.Time) Meta {
	return Meta{Version: FormatVersion, Created: now, Updated: now}
}

// Config holds authoring defaults persisted alongside the graph.
// AutosaveDebounce counts whole driver cycles, not wall-clock time: the save
// fires on the tick where the counter reaches this value since the last
// mutation. The JSON key is kept for compatibility with existing blobs.
type Config struct {
	ExitLabel        string `json:"exitLabel"`
	AutosaveDebounce int    `json:"autosaveDebounceInterval"`
}

// DefaultConfig returns the configuration used when a blob has no cfg section.
func DefaultConfig() Config {
	return Config{
		ExitLabel:        DefaultExitLabel,
		AutosaveDebounce: 1,
	}
}

// Normalized fills zero-valued fields with defaults. Loaded blobs may omit
// either field; missing optionals fall back rather than fail.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.ExitLabel == "" {
		c.ExitLabel = def.ExitLabel
	}
	if c.AutosaveDebounce < 1 {
		c.AutosaveDebounce = def.AutosaveDebounce
	}
	return c
}
