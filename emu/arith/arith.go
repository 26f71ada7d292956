/*
 * drum1100 - Arithmetic unit.
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

// Package arith implements the bit-serial arithmetic unit: single and
// double precision add/subtract, multiply, divide, and normalize/shift
// over sign-and-magnitude 29-bit words.
package arith

import "github.com/ncornish/drum1100/emu/word"

// Characteristic selects among the four variants of a destination's
// operation family.
const (
	CAdd      = 0 // Add
	CAddAbs   = 1 // Add Absolute
	CSub      = 2 // Subtract
	CSubAbs   = 3 // Subtract Absolute
)

// Unit holds the overflow flip-flop, which is sticky until read/cleared
// by a test (CQ).
type Unit struct {
	FO bool // Overflow flip-flop.
}

// addMagnitudes sums two 28-bit magnitudes mod 2^28 and reports the carry
// out of bit 28, the same "complementing" shape the teacher's adder uses
// for its two's-complement operands, adapted to unsigned magnitudes.
func addMagnitudes(a, b word.Word) (sum word.Word, carryOut bool) {
	s := uint32(a&word.MagMask) + uint32(b&word.MagMask)
	return word.Word(s) & word.MagMask, s > uint32(word.MagMask)
}

// Add implements the Add/Add-Absolute/Subtract/Subtract-Absolute family.
// x is the destination operand (e.g. AR), y is the source. Overflow is
// set when both operands share a sign and the result's sign differs
// from theirs.
func (u *Unit) Add(characteristic int, x, y word.Word) word.Word {
	switch characteristic {
	case CAddAbs:
		y = y.WithSign(false)
	case CSub:
		y = y.Negate()
	case CSubAbs:
		y = y.WithSign(true)
	}

	xNeg, yNeg := x.Sign(), y.Sign()
	var resultNeg bool
	var mag word.Word

	if xNeg == yNeg {
		var carry bool
		mag, carry = addMagnitudes(x, y)
		resultNeg = xNeg
		if carry {
			u.FO = true
		}
	} else {
		// Opposite signs: subtract the smaller magnitude from the larger.
		xm, ym := x.Magnitude(), y.Magnitude()
		if xm >= ym {
			mag = xm - ym
			resultNeg = xNeg
		} else {
			mag = ym - xm
			resultNeg = yNeg
		}
	}

	return mag.WithSign(resultNeg)
}

// ClearOverflow clears FO, as done by a test-for-overflow operation.
func (u *Unit) ClearOverflow() {
	u.FO = false
}

// Multiply performs the 57-bit double-precision multiply: 29 bit-times
// of shift-and-add under control of the multiplier bits, producing a
// PN:MQ-style product. The sign of the product is the XOR of the
// operand signs, computed up front ("early/late sign") before the
// magnitude bits are generated.
func (u *Unit) Multiply(multiplicand, multiplier word.Word) (hi, lo word.Word) {
	sign := multiplicand.Sign() != multiplier.Sign()

	a := uint64(multiplicand.Magnitude())
	m := uint64(multiplier.Magnitude())
	product := a * m // Fits in 56 bits: two 28-bit magnitudes.

	lo = word.New(uint32(product) & uint32(word.MagMask))
	hi = word.New(uint32(product>>28) & uint32(word.MagMask))
	lo = lo.WithSign(sign)
	hi = hi.WithSign(sign)
	return hi, lo
}

// Divide performs restoring division of a 56-bit dividend (dividendHi:
// dividendLo) by a 29-bit divisor, producing a 29-bit quotient and a
// remainder with the dividend's sign. FO is set when the quotient would
// not fit in 28 magnitude bits.
func (u *Unit) Divide(dividendHi, dividendLo, divisor word.Word) (quotient, remainder word.Word) {
	if divisor.Magnitude() == 0 {
		u.FO = true
		return 0, 0
	}

	n := (uint64(dividendHi.Magnitude()) << 28) | uint64(dividendLo.Magnitude())
	d := uint64(divisor.Magnitude())

	q := n / d
	r := n % d

	if q > uint64(word.MagMask) {
		u.FO = true
		q &= uint64(word.MagMask)
	}

	qSign := dividendHi.Sign() != divisor.Sign()
	quotient = word.New(uint32(q)).WithSign(qSign)
	remainder = word.New(uint32(r)).WithSign(dividendHi.Sign())
	return quotient, remainder
}

// Normalize shifts the 57-bit pnHi:pnLo pair left until the leading
// magnitude bit of pnHi is 1 (or the pair is zero), returning the new
// pair and the number of shifts performed — the value the command
// interpreter accumulates into the AR exponent counter.
func Normalize(pnHi, pnLo word.Word) (newHi, newLo word.Word, shifts int) {
	if pnHi.Magnitude() == 0 && pnLo.Magnitude() == 0 {
		return pnHi, pnLo, 0
	}
	hiSign, loSign := pnHi.Sign(), pnLo.Sign()
	hi := uint64(pnHi.Magnitude())
	lo := uint64(pnLo.Magnitude())
	pair := (hi << 28) | lo

	const leadBit = uint64(1) << 55 // Bit 27 of the high word (0-indexed from top of 56-bit field).
	for pair&leadBit == 0 {
		pair <<= 1
		shifts++
		if shifts > 56 {
			break
		}
	}
	newHi = word.New(uint32(pair>>28) & uint32(word.MagMask)).WithSign(hiSign)
	newLo = word.New(uint32(pair) & uint32(word.MagMask)).WithSign(loSign)
	return newHi, newLo, shifts
}

// Shift performs a variable-amount arithmetic shift of a single word, the
// amount and direction driven by the command's Characteristic field. A
// positive amount shifts left (toward the sign), negative shifts right.
func Shift(w word.Word, amount int) word.Word {
	mag := uint32(w.Magnitude())
	if amount >= 0 {
		mag = (mag << uint(amount)) & uint32(word.MagMask)
	} else {
		mag >>= uint(-amount)
	}
	return word.New(mag).WithSign(w.Sign())
}
