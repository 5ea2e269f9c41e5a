package model

import (
	"github.com/pkg/errors"
)

// Error kinds. Callers wrap these with errors.Wrap and test with errors.Is.
var (
	// ErrConfiguration marks a malformed sweep definition: ambiguous group
	// overlap, unknown mode or tool, missing required field. Always fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrToolInvocation marks an external tool that exited non-zero or could
	// not be started. Recorded per combination.
	ErrToolInvocation = errors.New("tool invocation error")
	// ErrResultParse marks tool output that could not be read into a record.
	ErrResultParse = errors.New("result parse error")
	// ErrSampling marks a sample size the sequence cannot satisfy.
	ErrSampling = errors.New("sampling error")
	// ErrDerivation marks a derived parameter that could not be produced.
	ErrDerivation = errors.New("derivation error")
)

// ConfigError wraps ErrConfiguration with a formatted message.
func ConfigError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// IsFatal reports whether err must abort the whole sweep rather than a
// single combination.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrSampling) ||
		errors.Is(err, ErrDerivation)
}
