package alphabet

import "sort"

// Preset alphabets.
const (
	// URLSafe is the 64-symbol default. Ordered by code point.
	URLSafe = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"
	Base62  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	Lower36 = "abcdefghijklmnopqrstuvwxyz0123456789"
	Hex     = "0123456789abcdef"
	// Legible drops characters that are easily confused when read aloud or
	// handwritten.
	Legible = "ABEGHNQRTadeghnqrt2345789"
)

// DefaultPreset names the preset used when nothing is configured.
const DefaultPreset = "url"

// Preset returns the symbols for a named preset.
func Preset(name string) (string, bool) {
	switch name {
	case "url":
		return URLSafe, true
	case "base62":
		return Base62, true
	case "lower36":
		return Lower36, true
	case "hex":
		return Hex, true
	case "legible":
		return Legible, true
	}
	return "", false
}

// PresetNames lists the known preset names in sorted order.
func PresetNames() []string {
	names := []string{"url", "base62", "lower36", "hex", "legible"}
	sort.Strings(names)
	return names
}

// Default returns the alphabet of DefaultPreset.
func Default() *Alphabet {
	symbols, _ := Preset(DefaultPreset)
	a, err := FromString(symbols)
	if err != nil {
		panic(err)
	}
	return a
}
