package pool

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidMapping is returned for a mapping name or value other than mask
// or uniform.
var ErrInvalidMapping = errors.New("mapping must be mask or uniform")

// Mapping selects how raw secure bytes become alphabet indices.
type Mapping int

const (
	// MappingMask uses the byte verbatim for 256-symbol alphabets and
	// byte & (size-1) otherwise. It is only uniform when size is a power of
	// two no larger than 256; other sizes skew toward indices sharing bits
	// with size-1.
	MappingMask Mapping = iota
	// MappingUniform draws 32-bit values and reduces them with a
	// multiply-shift plus rejection, which is exactly uniform for any size.
	MappingUniform
)

func (m Mapping) String() string {
	switch m {
	case MappingMask:
		return "mask"
	case MappingUniform:
		return "uniform"
	}
	return fmt.Sprintf("Mapping(%d)", int(m))
}

// ParseMapping accepts the names produced by String.
func ParseMapping(s string) (Mapping, error) {
	switch s {
	case "", "mask":
		return MappingMask, nil
	case "uniform":
		return MappingUniform, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidMapping)
}

// Valid reports whether m is one of the defined modes.
func (m Mapping) Valid() bool {
	return m == MappingMask || m == MappingUniform
}

// ScratchLen returns the scratch buffer length a pool of the given capacity
// needs under m.
func (m Mapping) ScratchLen(capacity int) int {
	if m == MappingUniform {
		return 4 * capacity
	}
	return capacity
}

// maskIndex maps one byte to an index under MappingMask.
func maskIndex(b byte, size int) int {
	if size == 256 {
		return int(b)
	}
	return int(b) & (size - 1)
}

// uniformDrawer hands out exactly uniform indices from a scratch buffer,
// re-reading the source when the buffer runs dry.
type uniformDrawer struct {
	p   *Pool
	pos int
}

func (d *uniformDrawer) next() (int, error) {
	n := uint32(d.p.size)
	for {
		if d.pos+4 > len(d.p.scratch) {
			if err := d.p.readSecure(); err != nil {
				return 0, err
			}
			d.pos = 0
		}
		x := binary.LittleEndian.Uint32(d.p.scratch[d.pos:])
		d.pos += 4
		hi, lo := bits.Mul32(x, n)
		if lo < n {
			// Reject the partial band so every index has equal weight.
			if lo < -n%n {
				continue
			}
		}
		return int(hi), nil
	}
}
