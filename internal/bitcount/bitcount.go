// Package bitcount tallies the binary digits of a text.
package bitcount

import "math/bits"

// Tally is the result of counting the digits of every character.
type Tally struct {
	Ones  int
	Zeros int
	Chars int
	// Bits assumes eight bits on the wire per character.
	Bits int
}

// Count tallies text one code point at a time. Each code point contributes
// the digits of its binary form without leading zeros, so NUL counts as a
// single zero.
func Count(text string) Tally {
	var t Tally
	for _, r := range text {
		t.Chars++
		v := uint32(r)
		if v == 0 {
			t.Zeros++
			continue
		}
		ones := bits.OnesCount32(v)
		t.Ones += ones
		t.Zeros += bits.Len32(v) - ones
	}
	t.Bits = t.Chars * 8
	return t
}
