/*
 * drum1100 - I/O subsystem: precession input, scheduled output, bell.
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

// Package iosystem implements the IOSubsystem: the precession path for
// character input, scheduled character-at-a-time output, cancellation,
// and the bell, grounded in the teacher's channel busy/cancel protocol
// (emu/sys_channel.StartIO/HaltIO) and its event-driven device callback
// pattern (emu/model1052, emu/event).
package iosystem

import (
	"log/slog"

	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/drum"
	"github.com/ncornish/drum1100/emu/iocodes"
	"github.com/ncornish/drum1100/emu/timing"
	"github.com/ncornish/drum1100/emu/word"
)

// DrumCycle is one full revolution, the unit ring_bell's gap and
// several device rates are expressed in.
const DrumCycle = drum.RevWordTime

// NextCode supplies the next character of an output block; ok is false
// once the source line is exhausted.
type NextCode func() (code int, ok bool)

// IOSubsystem is the single owner of the active transfer: at most one
// input or output block runs at a time, enforced by busy/cancel
// semantics.
type IOSubsystem struct {
	drum   *drum.Drum
	bus    *bus.Bus
	events *timing.EventList

	busy     bool
	canceled bool
	active   device.Device

	clock    int64 // Word-times since power-up, advanced by Tick.
	lastBell int64
}

// New wires an IOSubsystem to the drum it precesses input into and the
// bus it reports violations and TR through.
func New(d *drum.Drum, b *bus.Bus, events *timing.EventList) *IOSubsystem {
	return &IOSubsystem{drum: d, bus: b, events: events}
}

// Tick advances the I/O subsystem's word-time clock by one and fires any
// events due, called once per emulated word-time by the command
// interpreter's main loop.
func (io *IOSubsystem) Tick() {
	io.clock++
	io.events.Advance(1)
}

// Busy reports whether an input or output block is currently active.
func (io *IOSubsystem) Busy() bool {
	return io.busy
}

// framePump is implemented by input devices whose Read arms a block
// that is then advanced one frame at a time by periodic calls to Next,
// the input-side counterpart of StartOutput's dev.Write/sendNext loop.
type framePump interface {
	Next() bool
}

// rated is implemented by input devices that know their own native
// frame interval. BeginInput falls back to one frame per drum cycle
// for a framePump device that doesn't implement it.
type rated interface {
	FrameWordTimes() int
}

// BeginInput starts an input block from dev, refusing (and latching a
// violation) if another transfer is already active. If dev is a
// framePump, BeginInput schedules the recurring Next calls that deliver
// its frames through ReceiveInputCode.
func (io *IOSubsystem) BeginInput(dev device.Device) bool {
	if io.busy {
		io.bus.Violate()
		slog.Warn("io: input requested while busy", "device", dev.Name())
		return false
	}
	if !dev.Read() {
		return false
	}
	io.busy = true
	io.canceled = false
	io.active = dev
	io.bus.FF.TR = true
	if pump, ok := dev.(framePump); ok {
		wt := DrumCycle
		if r, ok := dev.(rated); ok {
			wt = r.FrameWordTimes()
		}
		io.pumpInput(pump, wt)
	}
	return true
}

func (io *IOSubsystem) pumpInput(pump framePump, wt int) {
	if io.canceled {
		io.endInput()
		return
	}
	if !pump.Next() {
		io.endInput()
		return
	}
	io.events.AddEvent(io, func(int) {
		io.pumpInput(pump, wt)
	}, wt, 0)
}

// ReceiveInputCode precesses one 5-bit code into track 23. It returns
// true if the block should terminate: either a recognized terminator
// code (Reload or Stop) was seen, or the call arrived with no input
// block active, which is an error condition.
func (io *IOSubsystem) ReceiveInputCode(code int) bool {
	if !io.busy {
		io.bus.Violate()
		return true
	}
	io.drum.Precess(word.Word(code) & 0x1F)
	if io.canceled {
		io.endInput()
		return true
	}
	if iocodes.IsTerminator(byte(code)) {
		io.endInput()
		return true
	}
	return false
}

func (io *IOSubsystem) endInput() {
	io.busy = false
	io.bus.FF.TR = false
	io.active = nil
}

// StartOutput selects dev and begins transmitting characters produced by
// next, one every wordTimesPerChar word-times, by calling dev.Write for
// each. Refuses if another transfer is already active.
func (io *IOSubsystem) StartOutput(dev device.Device, wordTimesPerChar int, next NextCode) bool {
	if io.busy {
		io.bus.Violate()
		slog.Warn("io: output requested while busy", "device", dev.Name())
		return false
	}
	io.busy = true
	io.canceled = false
	io.active = dev
	io.bus.FF.TR = true
	io.sendNext(dev, wordTimesPerChar, next)
	return true
}

func (io *IOSubsystem) sendNext(dev device.Device, wt int, next NextCode) {
	if io.canceled {
		io.endOutput()
		return
	}
	code, ok := next()
	if !ok {
		io.endOutput()
		return
	}
	if !dev.Write(word.New(uint32(code) & 0x1F)) {
		io.endOutput()
		return
	}
	io.events.AddEvent(io, func(int) {
		io.sendNext(dev, wt, next)
	}, wt, 0)
}

func (io *IOSubsystem) endOutput() {
	io.busy = false
	io.bus.FF.TR = false
	io.active = nil
}

// CancelIO aborts the active transfer. Cancel is idempotent: calling it
// with nothing active is a no-op. TR clears only after the in-flight
// character completes, not synchronously.
func (io *IOSubsystem) CancelIO() {
	if io.active == nil {
		return
	}
	io.canceled = true
	io.active.Cancel()
}

// Amplitude computes ring_bell's amplitude for a given word-time
// duration: proportional to word_times/108, clamped at 1.0.
func Amplitude(wordTimes int) float64 {
	a := float64(wordTimes) / float64(DrumCycle)
	if a > 1.0 {
		a = 1.0
	}
	return a
}

// RingBell requests a bell cue of the given word-time duration, honoring
// the three-drum-cycle minimum gap between rings. Returns false if
// suppressed by the gap rule.
func (io *IOSubsystem) RingBell(wordTimes int) bool {
	const minGap = 3 * DrumCycle
	if io.clock-io.lastBell < minGap {
		return false
	}
	io.lastBell = io.clock
	slog.Info("bell", "amplitude", Amplitude(wordTimes))
	return true
}
