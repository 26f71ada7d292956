/*
 * drum1100 - 29-bit word and bit-field primitives.
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

// Package word implements the 29-bit sign-and-magnitude storage word and
// the contiguous bit-field extract/insert operations the rest of the core
// is built on.
package word

// Word is a 29-bit value. The top 3 bits of the backing uint32 are always
// zero; every constructor and mutator masks to Mask.
type Word uint32

const (
	Width int  = 29
	Mask  Word = (1 << Width) - 1 // 0x1FFFFFFF

	SignBit Word = 1 << 28 // Bit 0 in the programmer's numbering.
	MagMask Word = SignBit - 1
)

// New masks v down to 29 bits. Every write path in the core calls this
// (or an operation built on it) before a value reaches storage.
func New(v uint32) Word {
	return Word(v) & Mask
}

// Sign reports whether the sign bit is set (negative, by convention).
func (w Word) Sign() bool {
	return w&SignBit != 0
}

// Magnitude returns the 28-bit magnitude, sign bit stripped.
func (w Word) Magnitude() Word {
	return w & MagMask
}

// IsZero treats both +0 and -0 as zero, per spec's CQ convention.
func (w Word) IsZero() bool {
	return w.Magnitude() == 0
}

// Negate flips the sign bit and leaves the magnitude untouched.
func (w Word) Negate() Word {
	return w ^ SignBit
}

// WithSign returns w with the sign bit forced to neg.
func (w Word) WithSign(neg bool) Word {
	if neg {
		return w.Magnitude() | SignBit
	}
	return w.Magnitude()
}

// Complement returns the mod-2^28 two's-complement-like magnitude used by
// the adder to fold subtraction into addition.
func Complement(m Word) Word {
	return (Word(1<<28) - (m & MagMask)) & MagMask
}

// Extract pulls out a width-bit field starting at bit position lo
// (LSB-relative, position 0 is the least significant bit of the word).
func Extract(w Word, lo, width int) Word {
	mask := Word((uint32(1) << width) - 1)
	return (w >> lo) & mask
}

// Insert writes a width-bit field of v into w at bit position lo, masking
// v to width bits first and leaving the rest of w untouched.
func Insert(w Word, lo, width int, v Word) Word {
	mask := Word((uint32(1) << width) - 1)
	w &^= mask << lo
	w |= (v & mask) << lo
	return New(uint32(w))
}
