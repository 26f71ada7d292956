/*
 * drum1100 - Command word packing.
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

package interp

import "github.com/ncornish/drum1100/emu/word"

// Bit layout of a command word, MSB to LSB: P(1) T(7) BP(1) N(7) C(2)
// S(5) D(5) DS(1), totalling the full 29 bits.
const (
	dsLo, dsW = 0, 1
	dLo, dW   = 1, 5
	sLo, sW   = 6, 5
	cLo, cW   = 11, 2
	nLo, nW   = 13, 7
	bpLo      = 20
	tLo, tW   = 21, 7
	pLo       = 28
)

// Destination/source addresses 24..31: registers and operation codes.
// The specific assignment within 24..31 is this implementation's
// resolution of an originally named-but-unnumbered list — see
// DESIGN.md.
const (
	AddrMQ      = 24
	AddrID      = 25
	AddrPN      = 26
	AddrAR      = 27
	AddrCM      = 28
	AddrArithOp = 29 // C selects Shift/Multiply/Divide/Normalize.
	AddrIO      = 30 // I/O trigger.
	AddrHalt    = 31
)

// Characteristic values when D == AddrArithOp.
const (
	OpShift = 0
	OpMul   = 1
	OpDiv   = 2
	OpNorm  = 3
)

// Command is a command word unpacked into its named fields.
type Command struct {
	P  bool // Immediate (false) vs deferred (true).
	T  int  // Word-time of execution within the line.
	BP bool // Breakpoint flag.
	N  int  // Next-command word-time.
	C  int  // Characteristic, 0..3.
	S  int  // Source address, 0..31.
	D  int  // Destination address, 0..31.
	DS bool // Double-precision selector.
}

// Unpack decodes a drum word into its command fields.
func Unpack(w word.Word) Command {
	return Command{
		P:  word.Extract(w, pLo, 1) != 0,
		T:  int(word.Extract(w, tLo, tW)),
		BP: word.Extract(w, bpLo, 1) != 0,
		N:  int(word.Extract(w, nLo, nW)),
		C:  int(word.Extract(w, cLo, cW)),
		S:  int(word.Extract(w, sLo, sW)),
		D:  int(word.Extract(w, dLo, dW)),
		DS: word.Extract(w, dsLo, dsW) != 0,
	}
}

// Pack encodes command fields into a drum word, the inverse of Unpack.
func Pack(c Command) word.Word {
	var w word.Word
	w = word.Insert(w, pLo, 1, b2w(c.P))
	w = word.Insert(w, tLo, tW, word.Word(c.T))
	w = word.Insert(w, bpLo, 1, b2w(c.BP))
	w = word.Insert(w, nLo, nW, word.Word(c.N))
	w = word.Insert(w, cLo, cW, word.Word(c.C))
	w = word.Insert(w, sLo, sW, word.Word(c.S))
	w = word.Insert(w, dLo, dW, word.Word(c.D))
	w = word.Insert(w, dsLo, dsW, b2w(c.DS))
	return w
}

func b2w(b bool) word.Word {
	if b {
		return 1
	}
	return 0
}
