// Package pool buffers random alphabet indices so identifiers can be built
// without touching the random source on every call.
//
// A Pool is not safe for concurrent use.
package pool

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultCapacity is the number of indices drawn per refill when no
// capacity is configured.
const DefaultCapacity = 128

// MaxCapacity bounds the pool to the largest buffer a secure source is
// expected to fill in one call.
const MaxCapacity = 65536

// ErrInvalidSize is returned for a capacity outside [1, MaxCapacity].
var ErrInvalidSize = errors.New("pool capacity must be between 1 and 65536")

// ErrInvalidAlphabetSize is returned when the alphabet size is below 1.
var ErrInvalidAlphabetSize = errors.New("alphabet size must be at least 1")

// ErrShortScratch is returned when a supplied scratch buffer cannot hold one
// refill's worth of bytes.
var ErrShortScratch = errors.New("scratch buffer shorter than refill")

// ErrSourceFailed wraps a read failure from the secure source.
var ErrSourceFailed = errors.New("secure source failed")

// Options configures a Pool.
type Options struct {
	// Capacity is the number of indices per refill. Zero selects
	// DefaultCapacity.
	Capacity int
	// Size is the alphabet size indices are drawn for.
	Size int
	// Secure, when set, replaces Fallback as the source of randomness.
	Secure SecureSource
	// Fallback is used without a secure source. Nil selects DefaultFallback.
	Fallback FallbackSource
	Mapping  Mapping
	// Scratch is reused for raw secure bytes when long enough; otherwise a
	// buffer is allocated.
	Scratch []byte
}

// Pool is a fixed-capacity buffer of indices in [0, size) with a read cursor.
// Entries before the cursor are consumed; a refill rewrites every entry and
// rewinds the cursor to zero.
type Pool struct {
	indices  []int
	offset   int
	size     int
	secure   SecureSource
	fallback FallbackSource
	mapping  Mapping
	scratch  []byte
	drawer   uniformDrawer
	refills  int
}

// New validates opts and performs the initial refill.
func New(opts Options) (*Pool, error) {
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidSize)
	}
	if opts.Size < 1 {
		return nil, ErrInvalidAlphabetSize
	}
	if !opts.Mapping.Valid() {
		return nil, fmt.Errorf("%v: %w", opts.Mapping, ErrInvalidMapping)
	}

	p := &Pool{
		indices:  make([]int, capacity),
		size:     opts.Size,
		secure:   opts.Secure,
		fallback: opts.Fallback,
		mapping:  opts.Mapping,
	}
	if p.fallback == nil {
		p.fallback = DefaultFallback()
	}
	if p.secure != nil {
		need := p.mapping.ScratchLen(capacity)
		if len(opts.Scratch) >= need {
			p.scratch = opts.Scratch[:need]
		} else {
			p.scratch = make([]byte, need)
		}
	}
	p.drawer.p = p

	if err := p.Refill(); err != nil {
		return nil, err
	}
	return p, nil
}

// Refill repopulates every slot and rewinds the cursor.
func (p *Pool) Refill() error {
	switch {
	case p.secure == nil:
		p.fillFallback()
	case p.mapping == MappingUniform:
		if err := p.fillUniform(); err != nil {
			return err
		}
	default:
		if err := p.fillMask(); err != nil {
			return err
		}
	}
	p.offset = 0
	p.refills++
	return nil
}

func (p *Pool) readSecure() error {
	if _, err := io.ReadFull(p.secure, p.scratch); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceFailed, err)
	}
	return nil
}

func (p *Pool) fillMask() error {
	if err := p.readSecure(); err != nil {
		return err
	}
	buf := p.scratch
	idx := p.indices
	size := p.size
	n := len(idx)
	head := n - n%batch
	for i := 0; i < head; i += batch {
		idx[i] = maskIndex(buf[i], size)
		idx[i+1] = maskIndex(buf[i+1], size)
		idx[i+2] = maskIndex(buf[i+2], size)
		idx[i+3] = maskIndex(buf[i+3], size)
	}
	for i := head; i < n; i++ {
		idx[i] = maskIndex(buf[i], size)
	}
	return nil
}

func (p *Pool) fillUniform() error {
	if err := p.readSecure(); err != nil {
		return err
	}
	p.drawer.pos = 0
	for i := range p.indices {
		v, err := p.drawer.next()
		if err != nil {
			return err
		}
		p.indices[i] = v
	}
	return nil
}

func (p *Pool) fillFallback() {
	size := float64(p.size)
	last := p.size - 1
	for i := range p.indices {
		v := int(math.Floor(p.fallback.Float64() * size))
		// Float rounding can land on size for very large alphabets, and a
		// misbehaving source may leave [0, 1).
		p.indices[i] = min(max(v, 0), last)
	}
}

// Capacity returns the number of slots.
func (p *Pool) Capacity() int { return len(p.indices) }

// Offset returns the read cursor.
func (p *Pool) Offset() int { return p.offset }

// Refills returns how many refills have run, including the initial one.
func (p *Pool) Refills() int { return p.refills }

// Size returns the alphabet size indices are drawn for.
func (p *Pool) Size() int { return p.size }

// Mapping returns the configured byte mapping.
func (p *Pool) Mapping() Mapping { return p.mapping }

// Secure reports whether a secure source is configured.
func (p *Pool) Secure() bool { return p.secure != nil }

// Biased reports whether indices are drawn non-uniformly: masking with a
// secure source over a size that is not a power of two, or exceeds 256.
func (p *Pool) Biased() bool {
	if p.secure == nil || p.mapping != MappingMask {
		return false
	}
	if p.size == 256 {
		return false
	}
	return p.size > 256 || p.size&(p.size-1) != 0
}

// Snapshot copies the current slots, consumed or not.
func (p *Pool) Snapshot() []int {
	out := make([]int, len(p.indices))
	copy(out, p.indices)
	return out
}
