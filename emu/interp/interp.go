/*
 * drum1100 - Command interpreter: fetch/decode/execute cycle.
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

// Package interp implements the command interpreter: the per-word-time
// fetch/decode/execute cycle, the deferred/immediate tie-break,
// breakpoints, tracing, and halt logic, grounded in the shape of the
// teacher's emu/cpu.CycleCPU main loop and emu/core.Start outer run
// loop.
package interp

import (
	"log/slog"

	"github.com/ncornish/drum1100/emu/arith"
	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/drum"
	"github.com/ncornish/drum1100/emu/iosystem"
	"github.com/ncornish/drum1100/emu/timing"
	"github.com/ncornish/drum1100/emu/word"
)

// TraceRecord is one entry of the diagnostic trace sink.
type TraceRecord struct {
	L       int
	Command Command
	FO      bool
	CH      bool
	VV      bool
}

// Interpreter owns the fetch/decode/execute cycle. It does not own the
// peripherals it dispatches I/O commands to; those are reached through
// IO.
type Interpreter struct {
	Drum  *drum.Drum
	Bus   *bus.Bus
	Arith *arith.Unit
	IO    *iosystem.IOSubsystem
	Sched *timing.Scheduler

	Trace     bool
	traceSink func(TraceRecord)

	cmdLine     int // Line the current command was fetched from.
	fetchAt     int // Word-time the next fetch is due.
	pending     Command
	havePending bool
	revolution  int // Count of full drum revolutions completed since Reset.
	armRev      int // Revolution pending must not fire before.

	outputDevice device.Device
	outputRate   int
	inputDevice  device.Device
}

// receiver is implemented by devices that accept a callback to deliver
// input codes through, set once by SelectInput rather than wired at
// construction time.
type receiver interface {
	SetReceive(func(code int) bool)
}

// New builds an interpreter over already-constructed components.
func New(d *drum.Drum, b *bus.Bus, io *iosystem.IOSubsystem, sched *timing.Scheduler) *Interpreter {
	return &Interpreter{
		Drum:  d,
		Bus:   b,
		Arith: &arith.Unit{},
		IO:    io,
		Sched: sched,
	}
}

// SetTraceSink installs the callback tracing records are emitted to.
func (in *Interpreter) SetTraceSink(sink func(TraceRecord)) {
	in.traceSink = sink
}

// SelectOutput names the device and character rate the I/O trigger
// addresses on its next even-Characteristic execution. Config loading
// and the operator console call this to attach a peripheral before any
// command can drive it.
func (in *Interpreter) SelectOutput(dev device.Device, wordTimesPerChar int) {
	in.outputDevice = dev
	in.outputRate = wordTimesPerChar
}

// SelectInput names the device the I/O trigger addresses on its next
// odd-Characteristic execution, wiring its delivery callback to
// IOSubsystem.ReceiveInputCode if the device supports SetReceive.
func (in *Interpreter) SelectInput(dev device.Device) {
	in.inputDevice = dev
	if r, ok := dev.(receiver); ok {
		r.SetReceive(in.IO.ReceiveInputCode)
	}
}

// Reset returns the interpreter to its quiescent, post-reset state:
// L and the fetch pointer return to zero, command decoding restarts,
// drum contents are untouched.
func (in *Interpreter) Reset() {
	in.Drum.SetL(0)
	in.cmdLine = 0
	in.fetchAt = 0
	in.havePending = false
	in.revolution = 0
	in.armRev = 0
	in.Bus.Reset()
}

// Halted reports whether the interpreter is idling (CH set, or the
// Compute switch is not in a running position).
func (in *Interpreter) Halted() bool {
	return in.Bus.FF.CH || !in.Bus.ComputeGoing()
}

// Step performs the work of one word-time: rotate the drum, advance I/O,
// and fetch or execute a command if this word-time is the one it is
// due. Returns false once the interpreter has halted and should not be
// stepped again until Reset/Resume.
func (in *Interpreter) Step() bool {
	if in.Halted() {
		return false
	}

	l := in.Drum.L()

	if !in.havePending && l == in.fetchAt {
		in.fetch()
	}

	if in.havePending && l == in.pending.T && in.revolution >= in.armRev {
		in.execute(in.pending)
		in.havePending = false
	}

	if l == drum.LongWords-1 {
		in.revolution++
	}
	in.Drum.Rotate()
	in.IO.Tick()
	return !in.Halted()
}

func (in *Interpreter) fetch() {
	w, err := in.Drum.ReadWord(in.cmdLine, in.Drum.L())
	if err != nil {
		slog.Error("interp: fetch failed", "line", in.cmdLine, "error", err)
		in.Bus.Violate()
		return
	}
	in.Drum.SetCM(w)
	cmd := Unpack(w)

	in.pending = cmd
	in.havePending = true

	// P chooses which revolution's pass through T fires the command:
	// immediate (P=false) takes the next pass through T regardless of
	// revolution, deferred (P=true) is barred from firing until the
	// revolution after this one, even if T has not yet been passed this
	// revolution.
	if cmd.P {
		in.armRev = in.revolution + 1
	} else {
		in.armRev = in.revolution
	}

	if in.Bus.Compute == bus.ComputeBP && cmd.BP {
		in.Bus.Halt()
	}

	in.emitTrace(cmd)
}

func (in *Interpreter) emitTrace(cmd Command) {
	if !in.Trace || in.traceSink == nil {
		return
	}
	in.traceSink(TraceRecord{
		L:       in.Drum.L(),
		Command: cmd,
		FO:      in.Arith.FO,
		CH:      in.Bus.FF.CH,
		VV:      in.Bus.FF.VV,
	})
}

// execute performs the one-word-time transfer from S to D under
// modifier C, then schedules the next fetch per cmd.N.
func (in *Interpreter) execute(cmd Command) {
	switch cmd.D {
	case AddrHalt:
		in.Bus.Halt()
		in.emitTrace(cmd)
		return
	case AddrIO:
		in.executeIO(cmd)
	case AddrArithOp:
		in.executeArithOp(cmd)
	case AddrAR:
		src := in.readOperand(cmd.S)
		in.Drum.SetAR(in.Arith.Add(cmd.C, in.Drum.AR(), src))
		in.Bus.FF.FO = in.Arith.FO
	case AddrMQ, AddrID, AddrPN, AddrCM:
		src := in.readOperand(cmd.S)
		in.writeRegister(cmd.D, src, cmd.DS)
	default:
		// 0..23: plain line-to-line data move at the current position.
		src := in.readOperand(cmd.S)
		if err := in.Drum.WriteAtCurrent(cmd.D, src); err != nil {
			slog.Error("interp: write failed", "dest", cmd.D, "error", err)
			in.Bus.Violate()
		}
	}

	// Next-command formation: destinations 0..23 make their line the
	// new command line; register/op destinations leave the command line
	// unchanged.
	if cmd.D < drum.AddrFastBase+drum.FastTracks {
		in.cmdLine = cmd.D
	}
	in.fetchAt = cmd.N
}

func (in *Interpreter) readOperand(addr int) word.Word {
	switch addr {
	case AddrMQ:
		lo, _ := in.Drum.MQPair()
		return lo
	case AddrID:
		lo, _ := in.Drum.IDPair()
		return lo
	case AddrPN:
		lo, _ := in.Drum.PNPair()
		return lo
	case AddrAR:
		return in.Drum.AR()
	case AddrCM:
		return in.Drum.CM()
	default:
		v, err := in.Drum.ReadAtCurrent(addr)
		if err != nil {
			slog.Error("interp: read failed", "src", addr, "error", err)
			in.Bus.Violate()
			return 0
		}
		return v
	}
}

func (in *Interpreter) writeRegister(addr int, v word.Word, ds bool) {
	switch addr {
	case AddrMQ:
		if ds {
			_, hi := in.Drum.MQPair()
			in.Drum.SetMQPair(v, hi)
		} else {
			in.Drum.SetMQPair(v, 0)
		}
	case AddrID:
		in.Drum.SetIDPair(v, 0)
	case AddrPN:
		in.Drum.SetPNPair(v, 0)
	case AddrCM:
		in.Drum.SetCM(v)
	}
}

func (in *Interpreter) executeArithOp(cmd Command) {
	mqLo, mqHi := in.Drum.MQPair()
	pnLo, pnHi := in.Drum.PNPair()
	switch cmd.C {
	case OpShift:
		amount := cmd.S - 16 // S doubles as a signed shift count around its midpoint.
		in.Drum.SetMQPair(arith.Shift(mqLo, amount), arith.Shift(mqHi, amount))
	case OpMul:
		hi, lo := in.Arith.Multiply(mqLo, in.readOperand(cmd.S))
		in.Drum.SetPNPair(lo, hi)
	case OpDiv:
		q, r := in.Arith.Divide(pnHi, pnLo, in.readOperand(cmd.S))
		in.Drum.SetMQPair(q, 0)
		in.Drum.SetPNPair(r, 0)
	case OpNorm:
		hi, lo, _ := arith.Normalize(pnHi, pnLo)
		in.Drum.SetPNPair(lo, hi)
	}
	in.Bus.FF.FO = in.Arith.FO
}

// executeIO starts a transfer on the device named by a prior
// SelectOutput/SelectInput call. The trigger's Characteristic selects
// direction: even C values start output of line cmd.S, odd values begin
// an input block. With nothing selected the trigger is a no-op but
// still marks TR so later commands can run interleaved with the I/O.
func (in *Interpreter) executeIO(cmd Command) {
	if cmd.C%2 == 0 {
		in.startOutput(cmd.S)
	} else {
		in.startInput()
	}
	in.Bus.FF.TR = true
}

func (in *Interpreter) startOutput(line int) {
	if in.outputDevice == nil {
		return
	}
	idx := 0
	next := func() (int, bool) {
		if idx >= drum.LongWords {
			return 0, false
		}
		w, err := in.Drum.ReadWord(line, idx)
		if err != nil {
			return 0, false
		}
		idx++
		return int(w) & 0x1F, true
	}
	in.IO.StartOutput(in.outputDevice, in.outputRate, next)
}

func (in *Interpreter) startInput() {
	if in.inputDevice == nil {
		return
	}
	in.IO.BeginInput(in.inputDevice)
}
