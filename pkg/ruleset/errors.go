package ruleset

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are not YAML, JSON or TOML.
	ErrUnsupportedFormat = errors.New("unsupported rule file format")

	// ErrDecode is returned when a rule file cannot be decoded.
	ErrDecode = errors.New("failed to decode rule file")

	// ErrCompile is returned when a rule in a rule set does not compile.
	ErrCompile = errors.New("failed to compile rule set")

	// ErrDuplicate is returned when two files define the same rule set.
	ErrDuplicate = errors.New("duplicate rule set")

	// ErrNotFound is returned when a rule set is not registered.
	ErrNotFound = errors.New("rule set not found")

	// ErrEmptyName is returned for a rule set without a name.
	ErrEmptyName = errors.New("rule set name is empty")

	// ErrWatcherRunning is returned when Watch is called twice.
	ErrWatcherRunning = errors.New("watcher already running")
)
