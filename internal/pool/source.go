package pool

import (
	"io"
	"math/rand/v2"
)

// SecureSource fills byte buffers with unpredictable bytes. crypto/rand.Reader
// is the usual choice.
type SecureSource = io.Reader

// FallbackSource yields uniform floats in [0, 1). Values outside that range
// are clamped to the first or last index.
type FallbackSource interface {
	Float64() float64
}

type globalFloat struct{}

func (globalFloat) Float64() float64 { return rand.Float64() }

// DefaultFallback returns a FallbackSource backed by the process-wide
// math/rand/v2 generator.
func DefaultFallback() FallbackSource { return globalFloat{} }
