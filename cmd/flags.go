package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/dictid/internal/alphabet"
)

// Overrides carries generator flags the user set explicitly. Nil fields
// leave the config file value in place.
type Overrides struct {
	Alphabet *string
	Preset   *string
	Pool     *int
	Secure   *bool
	Uniform  *bool
	Strict   *bool
}

// generatorFlags binds the flags shared by every command that builds a
// generator.
type generatorFlags struct {
	alphabet string
	preset   string
	pool     int
	secure   bool
	uniform  bool
	strict   bool
}

func (g *generatorFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&g.alphabet, "alphabet", "", "Symbols to draw from, one per character")
	f.StringVar(&g.preset, "preset", "", "Named alphabet ("+strings.Join(alphabet.PresetNames(), ", ")+")")
	f.IntVar(&g.pool, "pool", 0, "Random indices drawn per refill (default 128, max 65536)")
	f.BoolVar(&g.secure, "secure", false, "Draw from the operating system's secure random source")
	f.BoolVar(&g.uniform, "uniform", false, "Map secure bytes uniformly for any alphabet size")
	f.BoolVar(&g.strict, "strict", false, "Require the secure source and its scratch buffer together")
}

// overrides returns only the flags that were set on the command line.
func (g *generatorFlags) overrides(cmd *cobra.Command) Overrides {
	var o Overrides
	f := cmd.Flags()
	if f.Changed("alphabet") {
		o.Alphabet = &g.alphabet
	}
	if f.Changed("preset") {
		o.Preset = &g.preset
	}
	if f.Changed("pool") {
		o.Pool = &g.pool
	}
	if f.Changed("secure") {
		o.Secure = &g.secure
	}
	if f.Changed("uniform") {
		o.Uniform = &g.uniform
	}
	if f.Changed("strict") {
		o.Strict = &g.strict
	}
	return o
}
