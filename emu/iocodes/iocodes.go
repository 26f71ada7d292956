/*
 * drum1100 - Character code tables.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package iocodes holds the internal 5-bit character code tables: the
// external (ASCII) to internal mapping, the internal to printable mapping,
// and the reverse-bit table used by the .pt paper-tape format.
package iocodes

// Internal codes.
const (
	Space  = 0
	Minus  = 1
	CR     = 2
	Tab    = 3
	Stop   = 4
	Reload = 5
	Period = 6
	Wait   = 7
	// 8..15 duplicate 0..7 with the parity bit (bit 3) set.
	Digit0 = 16 // 16..25 are decimal digits 0..9.
	HexA   = 26 // 26..31 are hex A..F.

	// Ignored sentinel for bytes the input filter cannot map.
	Ignored = 0xFF
)

// printable is indexed by internal code 0..31.
var printable = [32]byte{
	' ', '-', 'C', 'T', 'S', '/', '.', '~',
	' ', '-', 'C', 'T', 'S', '/', '.', '~',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'u', 'v', 'w', 'x', 'y', 'z',
}

// ToPrintable returns the display character for an internal code.
func ToPrintable(code byte) byte {
	return printable[code&0x1F]
}

// inputFilter maps an ASCII byte to its internal code, or Ignored.
var inputFilter = buildInputFilter()

func buildInputFilter() map[byte]byte {
	m := make(map[byte]byte, 64)
	m[' '] = Space
	m['-'] = Minus
	m['\r'] = CR
	m['\n'] = CR
	m['\f'] = CR
	m['\t'] = Tab
	m['S'] = Stop
	m['s'] = Stop
	m['/'] = Reload
	m['.'] = Period
	m['~'] = Wait
	for d := byte(0); d <= 9; d++ {
		m['0'+d] = Digit0 + d
	}
	// Case-insensitive hex letters u..z map to decimal-hex digits 10..15.
	for i, c := range []byte("uvwxyz") {
		m[c] = HexA + byte(i)
		m[c-('u'-'U')] = HexA + byte(i)
	}
	return m
}

// ToInternal maps an arbitrary input byte to an internal code, or Ignored
// (0xFF) for characters with no mapping.
func ToInternal(ch byte) byte {
	if code, ok := inputFilter[ch]; ok {
		return code
	}
	return Ignored
}

// ReverseBits reverses the low 5 bits of a code, used to translate between
// the .ptr (___54321) and .pt (___12345) binary channel layouts.
func ReverseBits(code byte) byte {
	code &= 0x1F
	var out byte
	for i := 0; i < 5; i++ {
		out <<= 1
		out |= code & 1
		code >>= 1
	}
	return out
}

// IsTerminator reports whether an internal code ends an input block
// (Reload or Stop).
func IsTerminator(code byte) bool {
	if code >= Digit0 {
		return false
	}
	c := code & 0x07
	return c == Reload || c == Stop
}
