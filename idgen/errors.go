package idgen

import (
	"errors"

	"github.com/eykd/dictid/internal/alphabet"
	"github.com/eykd/dictid/internal/pool"
)

// Construction errors. New wraps each in a *ConfigError.
var (
	ErrInvalidAlphabetType   = alphabet.ErrInvalidType
	ErrInvalidAlphabetLength = alphabet.ErrInvalidLength
	ErrInvalidPoolSize       = pool.ErrInvalidSize
	ErrMissingScratchBuffer  = errors.New("secure source configured without a scratch buffer")
	ErrMissingSecureSource   = errors.New("scratch buffer configured without a secure source")
	ErrShortScratchBuffer    = pool.ErrShortScratch
	ErrInvalidMapping        = pool.ErrInvalidMapping
)

// ErrSourceFailed is wrapped by TryCreate and TryCreateArray when the secure
// source cannot be read.
var ErrSourceFailed = pool.ErrSourceFailed

// ConfigError reports which configuration field was rejected.
type ConfigError struct {
	Field string
	Err   error
}

// Error returns the field and underlying error.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Err.Error()
	}
	return "invalid " + e.Field + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
