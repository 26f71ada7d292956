/*
 * drum1100 - Drum storage model.
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

// Package drum implements the fixed-size drum storage model: 20 long
// tracks of 108 words, 4 fast tracks of 4 words, the special arithmetic
// registers, and the rotational position counter L.
package drum

import (
	"fmt"

	"github.com/ncornish/drum1100/emu/word"
)

const (
	LongTracks  = 20
	LongWords   = 108
	FastTracks  = 4
	FastWords   = 4
	PrecessTrk  = 23 // Track with distinguished precession behavior.
	RevWordTime = LongWords
)

// Addressing: 0..19 long lines, 20..23 fast lines, 24..31 registers/ops.
const (
	AddrLongBase = 0
	AddrFastBase = 20
	AddrMQ       = 24
	AddrID       = 25
	AddrPN       = 26
	AddrAR       = 27
	AddrCM       = 28
)

// Drum holds all word storage and the rotational position register L.
type Drum struct {
	long [LongTracks][LongWords]word.Word
	fast [FastTracks][FastWords]word.Word

	mq     word.Word // Multiplier-quotient, low half.
	mqHigh word.Word
	id     word.Word // Intermediate division, low half.
	idHigh word.Word
	pn     word.Word // Product-number, low half.
	pnHigh word.Word
	ar     word.Word // Accumulator.
	cm     word.Word // Command register line (single word view).

	l int // Rotational position register, [0,108).
}

// New returns a zeroed drum, matching power-up state.
func New() *Drum {
	return &Drum{}
}

// L returns the current rotational position.
func (d *Drum) L() int {
	return d.l
}

// SetL forces the rotational position, used only by reset.
func (d *Drum) SetL(l int) {
	d.l = ((l % RevWordTime) + RevWordTime) % RevWordTime
}

// Rotate advances L by one word-time, wrapping at 108.
func (d *Drum) Rotate() {
	d.l = (d.l + 1) % RevWordTime
}

// ReadWord is a pure read; it does not consult or change L.
func (d *Drum) ReadWord(track, index int) (word.Word, error) {
	switch {
	case track >= AddrLongBase && track < AddrLongBase+LongTracks:
		return d.long[track][index%LongWords], nil
	case track >= AddrFastBase && track < AddrFastBase+FastTracks:
		return d.fast[track-AddrFastBase][index%FastWords], nil
	case track == AddrMQ:
		if index == 0 {
			return d.mq, nil
		}
		return d.mqHigh, nil
	case track == AddrID:
		if index == 0 {
			return d.id, nil
		}
		return d.idHigh, nil
	case track == AddrPN:
		if index == 0 {
			return d.pn, nil
		}
		return d.pnHigh, nil
	case track == AddrAR:
		return d.ar, nil
	case track == AddrCM:
		return d.cm, nil
	default:
		return 0, fmt.Errorf("drum: no storage at track %d", track)
	}
}

// WriteWord masks value to 29 bits and stores it at the addressed position.
func (d *Drum) WriteWord(track, index int, value word.Word) error {
	value = word.New(uint32(value))
	switch {
	case track >= AddrLongBase && track < AddrLongBase+LongTracks:
		d.long[track][index%LongWords] = value
	case track >= AddrFastBase && track < AddrFastBase+FastTracks:
		d.fast[track-AddrFastBase][index%FastWords] = value
	case track == AddrMQ:
		if index == 0 {
			d.mq = value
		} else {
			d.mqHigh = value
		}
	case track == AddrID:
		if index == 0 {
			d.id = value
		} else {
			d.idHigh = value
		}
	case track == AddrPN:
		if index == 0 {
			d.pn = value
		} else {
			d.pnHigh = value
		}
	case track == AddrAR:
		d.ar = value
	case track == AddrCM:
		d.cm = value
	default:
		return fmt.Errorf("drum: no storage at track %d", track)
	}
	return nil
}

// ReadAtCurrent reads the word presently under the head on track, using L.
func (d *Drum) ReadAtCurrent(track int) (word.Word, error) {
	return d.ReadWord(track, d.l)
}

// WriteAtCurrent writes the word presently under the head on track.
func (d *Drum) WriteAtCurrent(track int, value word.Word) error {
	return d.WriteWord(track, d.l, value)
}

// MQPair / IDPair / PNPair give double-precision access to the register
// pairs used by multiply/divide/normalize.
func (d *Drum) MQPair() (lo, hi word.Word)   { return d.mq, d.mqHigh }
func (d *Drum) SetMQPair(lo, hi word.Word)   { d.mq, d.mqHigh = word.New(uint32(lo)), word.New(uint32(hi)) }
func (d *Drum) IDPair() (lo, hi word.Word)   { return d.id, d.idHigh }
func (d *Drum) SetIDPair(lo, hi word.Word)   { d.id, d.idHigh = word.New(uint32(lo)), word.New(uint32(hi)) }
func (d *Drum) PNPair() (lo, hi word.Word)   { return d.pn, d.pnHigh }
func (d *Drum) SetPNPair(lo, hi word.Word)   { d.pn, d.pnHigh = word.New(uint32(lo)), word.New(uint32(hi)) }
func (d *Drum) AR() word.Word                { return d.ar }
func (d *Drum) SetAR(v word.Word)            { d.ar = word.New(uint32(v)) }
func (d *Drum) CM() word.Word                { return d.cm }
func (d *Drum) SetCM(v word.Word)            { d.cm = word.New(uint32(v)) }

// Precess shifts the entire 108-word track-23 ring left by 5 bits,
// treating it as one 3132-bit ring, and ORs the new 5-bit code into the
// low-order bits of the tail word. It returns the 5 bits shifted out of
// the head of the ring.
func (d *Drum) Precess(inCode word.Word) (outBits word.Word) {
	const shift = 5
	track := &d.long[PrecessTrk]

	// A 108-word left shift by 5 bits: each word's new value is the low
	// (29-shift) bits of the same word shifted up, OR'd with the top
	// `shift` bits of the next word in ring order. The bits that leave the
	// head of the ring (word 0) become outBits. The ring does not wrap:
	// the tail word's incoming high bits are zero-filled, and the new
	// code is OR'd into its low bits afterward.
	var shifted [LongWords]word.Word
	for i := 0; i < LongWords-1; i++ {
		top := word.Extract(track[i+1], word.Width-shift, shift)
		shifted[i] = word.New((uint32(track[i])<<shift)&uint32(word.Mask) | uint32(top))
	}
	shifted[LongWords-1] = word.New((uint32(track[LongWords-1])<<shift)&uint32(word.Mask))
	outBits = word.Extract(track[0], word.Width-shift, shift)
	shifted[LongWords-1] |= inCode & word.Word((1<<shift)-1)
	*track = shifted
	return outBits
}
