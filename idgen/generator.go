// Package idgen generates random identifiers from a configurable alphabet.
//
// A Generator keeps a pool of pre-drawn random indices and refills it in
// batches, so most calls never touch the random source. Without a secure
// source the pool is filled from math/rand/v2; set Config.SecureSource to
// crypto/rand.Reader for unguessable identifiers.
//
// A Generator is not safe for concurrent use. Use one per goroutine.
package idgen

import (
	"fmt"
	"io"
	"math"

	"github.com/eykd/dictid/internal/alphabet"
	"github.com/eykd/dictid/internal/pool"
)

// DefaultSize is the identifier length used by ID. With the default
// 64-symbol alphabet it carries 132 bits of entropy.
const DefaultSize = 22

// DefaultPoolCapacity is the number of indices drawn per refill.
const DefaultPoolCapacity = pool.DefaultCapacity

// Mapping selects how secure bytes become alphabet indices.
type Mapping = pool.Mapping

// Mapping modes.
const (
	MappingMask    = pool.MappingMask
	MappingUniform = pool.MappingUniform
)

// FallbackSource yields uniform floats in [0, 1).
type FallbackSource = pool.FallbackSource

// Config holds the construction options. The zero value is valid.
type Config struct {
	// Alphabet is a string, []string, []rune, []byte, []int, or []any of
	// strings and code points. Nil selects the URL-safe 64-symbol alphabet.
	Alphabet any
	// PoolCapacity is the number of indices drawn per refill, up to 65536.
	// Zero selects DefaultPoolCapacity.
	PoolCapacity int
	// SecureSource, when set, supplies every random byte.
	SecureSource io.Reader
	// Fallback is used without a SecureSource. Nil selects math/rand/v2.
	Fallback FallbackSource
	Mapping  Mapping
	// Strict requires SecureSource and ScratchBuffer to be set together.
	Strict bool
	// ScratchBuffer receives raw secure bytes on each refill.
	ScratchBuffer []byte
}

// Generator produces identifiers. It owns its pool and scratch buffers.
type Generator struct {
	alphabet *alphabet.Alphabet
	pool     *pool.Pool
	indices  []int
	symbols  []string
	buf      []byte
}

// New validates cfg and builds a Generator. Every error is a *ConfigError.
func New(cfg Config) (*Generator, error) {
	a := alphabet.Default()
	if cfg.Alphabet != nil {
		var err error
		a, err = alphabet.Parse(cfg.Alphabet)
		if err != nil {
			return nil, &ConfigError{Field: "alphabet", Err: err}
		}
	}

	if cfg.PoolCapacity < 0 || cfg.PoolCapacity > pool.MaxCapacity {
		return nil, &ConfigError{
			Field: "pool capacity",
			Err:   fmt.Errorf("%d: %w", cfg.PoolCapacity, ErrInvalidPoolSize),
		}
	}
	capacity := cfg.PoolCapacity
	if capacity == 0 {
		capacity = DefaultPoolCapacity
	}

	if !cfg.Mapping.Valid() {
		return nil, &ConfigError{Field: "mapping", Err: fmt.Errorf("%v: %w", cfg.Mapping, ErrInvalidMapping)}
	}

	if cfg.Strict {
		if err := checkStrict(cfg, capacity); err != nil {
			return nil, err
		}
	}

	p, err := pool.New(pool.Options{
		Capacity: capacity,
		Size:     a.Size(),
		Secure:   cfg.SecureSource,
		Fallback: cfg.Fallback,
		Mapping:  cfg.Mapping,
		Scratch:  cfg.ScratchBuffer,
	})
	if err != nil {
		return nil, &ConfigError{Field: "pool", Err: err}
	}

	return &Generator{
		alphabet: a,
		pool:     p,
		indices:  make([]int, DefaultSize),
		symbols:  make([]string, DefaultSize),
		buf:      make([]byte, 0, DefaultSize),
	}, nil
}

func checkStrict(cfg Config, capacity int) error {
	hasSource := cfg.SecureSource != nil
	hasScratch := cfg.ScratchBuffer != nil
	switch {
	case hasSource && !hasScratch:
		return &ConfigError{Field: "scratch buffer", Err: ErrMissingScratchBuffer}
	case hasScratch && !hasSource:
		return &ConfigError{Field: "secure source", Err: ErrMissingSecureSource}
	case hasSource:
		if need := cfg.Mapping.ScratchLen(capacity); len(cfg.ScratchBuffer) < need {
			return &ConfigError{
				Field: "scratch buffer",
				Err:   fmt.Errorf("length %d, need %d: %w", len(cfg.ScratchBuffer), need, ErrShortScratchBuffer),
			}
		}
	}
	return nil
}

// ID returns an identifier of DefaultSize symbols.
func (g *Generator) ID() string {
	return g.Create(DefaultSize)
}

// Create returns size symbols joined into one string, or "" when size < 1.
// It panics if the secure source fails; use TryCreate to handle that.
func (g *Generator) Create(size int) string {
	s, err := g.TryCreate(size)
	if err != nil {
		panic(err)
	}
	return s
}

// CreateArray returns size symbols in a new slice owned by the caller, or an
// empty slice when size < 1. It panics if the secure source fails.
func (g *Generator) CreateArray(size int) []string {
	out, err := g.TryCreateArray(size)
	if err != nil {
		panic(err)
	}
	return out
}

// TryCreate is Create that returns secure source failures.
func (g *Generator) TryCreate(size int) (string, error) {
	if size < 1 {
		return "", nil
	}
	if err := g.read(size); err != nil {
		return "", err
	}

	buf := g.buf[:0]
	if table := g.alphabet.Bytes(); table != nil {
		for _, i := range g.indices {
			buf = append(buf, table[i])
		}
	} else {
		for _, i := range g.indices {
			buf = append(buf, g.alphabet.SymbolAt(i)...)
		}
	}
	g.buf = buf
	return string(buf), nil
}

// TryCreateArray is CreateArray that returns secure source failures.
func (g *Generator) TryCreateArray(size int) ([]string, error) {
	if size < 1 {
		return []string{}, nil
	}
	if err := g.read(size); err != nil {
		return nil, err
	}

	if len(g.symbols) != size {
		g.symbols = resize(g.symbols, size)
	}
	for n, i := range g.indices {
		g.symbols[n] = g.alphabet.SymbolAt(i)
	}
	out := make([]string, size)
	copy(out, g.symbols)
	return out, nil
}

func (g *Generator) read(size int) error {
	if len(g.indices) != size {
		g.indices = resize(g.indices, size)
	}
	if err := g.pool.Read(g.indices); err != nil {
		return fmt.Errorf("drawing %d indices: %w", size, err)
	}
	return nil
}

func resize[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}

// Alphabet returns the configured symbols in order.
func (g *Generator) Alphabet() []string {
	return g.alphabet.Symbols()
}

// Distinct returns the number of unique symbols in the alphabet.
func (g *Generator) Distinct() int {
	return g.alphabet.Distinct()
}

// Normalized reports whether every symbol is already in NFC form.
func (g *Generator) Normalized() bool {
	return g.alphabet.Normalized()
}

// PoolCapacity returns the number of indices drawn per refill.
func (g *Generator) PoolCapacity() int {
	return g.pool.Capacity()
}

// Mapping returns the byte mapping in effect.
func (g *Generator) Mapping() Mapping {
	return g.pool.Mapping()
}

// Secure reports whether a secure source is configured.
func (g *Generator) Secure() bool {
	return g.pool.Secure()
}

// Biased reports whether the configured mapping samples some indices more
// often than others.
func (g *Generator) Biased() bool {
	return g.pool.Biased()
}

// EntropyBits estimates the entropy of an identifier of the given size,
// assuming uniform index sampling.
func (g *Generator) EntropyBits(size int) float64 {
	if size < 1 {
		return 0
	}
	return math.Round(g.alphabet.EntropyBits()*float64(size)*100) / 100
}
