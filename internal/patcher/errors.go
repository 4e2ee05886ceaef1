package patcher

import "fmt"

// Error kinds reported on stderr
const (
	KindConfig    = "ConfigError"
	KindRead      = "IOReadError"
	KindWrite     = "IOWriteError"
	KindZeroMatch = "ZeroMatchError"
)

// ConfigError is a malformed rule or rule set. Nothing has been read or written when it is returned.
type ConfigError struct {
	RuleID string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("%s: %v", KindConfig, e.Err)
	}
	return fmt.Sprintf("%s: rule %s: %v", KindConfig, e.RuleID, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ReadError is a failure to load the target file
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", KindRead, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a failure to persist the target file. The original content is left in place.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", KindWrite, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ZeroMatchError is returned when a rule with the fail policy matched nothing
type ZeroMatchError struct {
	Path   string
	RuleID string
}

func (e *ZeroMatchError) Error() string {
	return fmt.Sprintf("%s: %s: rule %s matched nothing", KindZeroMatch, e.Path, e.RuleID)
}
