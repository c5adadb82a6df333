// Package alphabet holds the immutable symbol table identifiers are drawn from.
package alphabet

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidType is returned when the alphabet value is not a string or a
// sequence of symbols or code points.
var ErrInvalidType = errors.New("alphabet must be a string or a sequence of symbols")

// ErrInvalidLength is returned for an empty alphabet or an empty symbol.
var ErrInvalidLength = errors.New("alphabet must be non-empty")

// Alphabet is an ordered, fixed table of symbols kept exactly as supplied.
// Symbols may repeat; a repeated symbol is sampled proportionally more often.
type Alphabet struct {
	symbols []string
	// bytes is set when every symbol is a single ASCII byte.
	bytes []byte
}

// Parse builds an Alphabet from a string, []string, []rune, []byte, []int, or
// a []any of strings and integer code points as produced by YAML and TOML
// decoders.
func Parse(v any) (*Alphabet, error) {
	switch t := v.(type) {
	case string:
		return FromString(t)
	case []string:
		return FromSymbols(t)
	case []rune:
		return FromCodes(t)
	case []byte:
		codes := make([]rune, len(t))
		for i, b := range t {
			codes[i] = rune(b)
		}
		return FromCodes(codes)
	case []int:
		codes := make([]rune, len(t))
		for i, c := range t {
			if c < 0 || c > utf8.MaxRune {
				return nil, fmt.Errorf("code %d at index %d: %w", c, i, ErrInvalidType)
			}
			codes[i] = rune(c)
		}
		return FromCodes(codes)
	case []any:
		return fromValues(t)
	default:
		return nil, fmt.Errorf("got %T: %w", v, ErrInvalidType)
	}
}

// FromString splits s into one symbol per rune. A combining mark is a
// symbol of its own.
func FromString(s string) (*Alphabet, error) {
	if s == "" {
		return nil, ErrInvalidLength
	}
	symbols := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		symbols = append(symbols, string(r))
	}
	return build(symbols), nil
}

// FromSymbols keeps each element whole, so a symbol may span several runes.
func FromSymbols(in []string) (*Alphabet, error) {
	if len(in) == 0 {
		return nil, ErrInvalidLength
	}
	symbols := make([]string, len(in))
	for i, s := range in {
		if s == "" {
			return nil, fmt.Errorf("symbol at index %d is empty: %w", i, ErrInvalidLength)
		}
		symbols[i] = s
	}
	return build(symbols), nil
}

// FromCodes builds an alphabet of single-rune symbols from code points.
func FromCodes(codes []rune) (*Alphabet, error) {
	if len(codes) == 0 {
		return nil, ErrInvalidLength
	}
	symbols := make([]string, len(codes))
	for i, c := range codes {
		if !utf8.ValidRune(c) {
			return nil, fmt.Errorf("code %d at index %d: %w", c, i, ErrInvalidType)
		}
		symbols[i] = string(c)
	}
	return build(symbols), nil
}

func fromValues(values []any) (*Alphabet, error) {
	if len(values) == 0 {
		return nil, ErrInvalidLength
	}
	symbols := make([]string, len(values))
	for i, v := range values {
		var code int64
		switch t := v.(type) {
		case string:
			if t == "" {
				return nil, fmt.Errorf("symbol at index %d is empty: %w", i, ErrInvalidLength)
			}
			symbols[i] = t
			continue
		case int:
			code = int64(t)
		case int64:
			code = t
		case uint64:
			if t > utf8.MaxRune {
				return nil, fmt.Errorf("code %d at index %d: %w", t, i, ErrInvalidType)
			}
			code = int64(t)
		default:
			return nil, fmt.Errorf("element %d has type %T: %w", i, v, ErrInvalidType)
		}
		if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
			return nil, fmt.Errorf("code %d at index %d: %w", code, i, ErrInvalidType)
		}
		symbols[i] = string(rune(code))
	}
	return build(symbols), nil
}

func build(symbols []string) *Alphabet {
	a := &Alphabet{symbols: symbols}
	table := make([]byte, len(symbols))
	for i, s := range symbols {
		if len(s) != 1 || s[0] >= utf8.RuneSelf {
			return a
		}
		table[i] = s[0]
	}
	a.bytes = table
	return a
}

// Size returns the number of symbols, counting duplicates.
func (a *Alphabet) Size() int { return len(a.symbols) }

// SymbolAt returns the symbol at index i. It panics when i is out of range;
// callers obtain indices from a pool sized to this alphabet.
func (a *Alphabet) SymbolAt(i int) string {
	if i < 0 || i >= len(a.symbols) {
		panic(fmt.Sprintf("alphabet: index %d out of range [0, %d)", i, len(a.symbols)))
	}
	return a.symbols[i]
}

// Symbols returns a copy of the symbol table.
func (a *Alphabet) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Bytes returns the byte lookup table when every symbol is one ASCII byte,
// or nil otherwise. The returned slice must not be modified.
func (a *Alphabet) Bytes() []byte { return a.bytes }

// canonical maps each symbol to its NFC form, so canonically equivalent
// spellings such as "e\u0301" and "\u00e9" compare equal.
func (a *Alphabet) canonical() []string {
	return lo.Map(a.symbols, func(s string, _ int) string {
		return norm.NFC.String(s)
	})
}

// Normalized reports whether every symbol is already in NFC form.
func (a *Alphabet) Normalized() bool {
	return lo.EveryBy(a.symbols, norm.NFC.IsNormalString)
}

// Distinct returns the number of unique symbols. Canonically equivalent
// symbols count once.
func (a *Alphabet) Distinct() int {
	return len(lo.Uniq(a.canonical()))
}

// EntropyBits returns the Shannon entropy of one uniformly drawn index,
// measured over symbols so that duplicates and canonically equivalent
// spellings are accounted for.
func (a *Alphabet) EntropyBits() float64 {
	total := float64(len(a.symbols))
	bits := 0.0
	for _, count := range lo.CountValues(a.canonical()) {
		p := float64(count) / total
		bits -= p * math.Log2(p)
	}
	return bits
}
