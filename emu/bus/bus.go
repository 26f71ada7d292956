/*
 * drum1100 - System bus: switches, reset, violation state.
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

// Package bus owns the process-scoped switch panel and flip-flop state
// that system reset and power up/down touch, so that state is not kept
// in ambient globals.
package bus

import "log/slog"

// Compute switch positions.
type ComputeSwitch int

const (
	ComputeOff ComputeSwitch = iota
	ComputeGo
	ComputeBP
)

// Enable switch positions.
type EnableSwitch int

const (
	EnableOff EnableSwitch = iota
	EnableOn
)

// Punch switch positions.
type PunchSwitch int

const (
	PunchOff PunchSwitch = iota
	PunchOn
	PunchRewind
)

// Condition is a tagged error/status kind the core surfaces. Nothing
// in the core throws an exceptional unwind; callers switch on Condition
// explicitly.
type Condition int

const (
	None Condition = iota
	Violation
	InputOverrun
	OutputOverrun
	IOCanceled
	EndOfMedium
	HaltExecuted
)

func (c Condition) String() string {
	switch c {
	case Violation:
		return "violation"
	case InputOverrun:
		return "input overrun"
	case OutputOverrun:
		return "output overrun"
	case IOCanceled:
		return "io canceled"
	case EndOfMedium:
		return "end of medium"
	case HaltExecuted:
		return "halt executed"
	default:
		return "none"
	}
}

// Flip-flops of the console and command interpreter.
type FlipFlops struct {
	CH bool // Halt.
	CG bool // No-command / auto-restart.
	CQ bool // Test.
	CS bool // I/O side.
	C1 bool // Double-precision.
	FO bool // Overflow.
	IP bool // PN sign.
	RC bool // Ready to receive command.
	TR bool // Transfer active.
	BP bool // Break.
	VV bool // Violation.
	DI bool // Deferred-immediate.
	AS bool // Auto/standard reload; observable but not given a specific
	// transition rule — callers may set/read it but the bus never toggles
	// it on its own.
}

// reset returns the documented initial flip-flop state: CH=1, CG=0,
// TR=0, VV=0. Every other flip-flop starts false too; the hardware
// reference gives no initial value for AS, so it is left as-is.
func reset(keepAS bool, as bool) FlipFlops {
	return FlipFlops{CH: true, AS: keepAS && as}
}

// Bus is the single owner of switch state, flip-flops, and the
// rotational-position-independent "violation" latch. It plays the role
// the teacher's emu/core + master-packet dispatch plays, collapsed into
// one struct because this machine runs single-threaded cooperative
// scheduling rather than the teacher's multi-goroutine split.
type Bus struct {
	Compute ComputeSwitch
	Enable  EnableSwitch
	Punch   PunchSwitch
	FF      FlipFlops

	poweredUp bool
}

// New returns a freshly powered-down bus.
func New() *Bus {
	return &Bus{FF: reset(false, false)}
}

// PowerUp brings the bus up: switches to Off, flip-flops to their
// documented reset state. The drum itself is zeroed by the caller, not
// by the bus.
func (b *Bus) PowerUp() {
	b.Compute = ComputeOff
	b.Enable = EnableOff
	b.Punch = PunchOff
	b.FF = reset(false, false)
	b.poweredUp = true
	slog.Info("system bus powered up")
}

// PowerDown idles the bus without losing switch positions a real console
// would retain across a power cycle... but this core does not persist
// configuration, so PowerDown simply marks power off.
func (b *Bus) PowerDown() {
	b.poweredUp = false
	slog.Info("system bus powered down")
}

// PoweredUp reports whether PowerUp has been called more recently than
// PowerDown.
func (b *Bus) PoweredUp() bool {
	return b.poweredUp
}

// Reset returns all flip-flops and L to their initial values without
// touching drum contents or the AS flip-flop's current value. The
// caller is responsible for resetting L on the drum; Reset only owns
// flip-flop state.
func (b *Bus) Reset() {
	as := b.FF.AS
	b.FF = reset(true, as)
	slog.Info("system reset")
}

// Violate latches VV. It can only be cleared by an explicit reset
// action.
func (b *Bus) Violate() {
	b.FF.VV = true
	slog.Warn("violation latched")
}

// ClearViolation is the explicit reset action required to clear VV;
// it does not touch any other flip-flop.
func (b *Bus) ClearViolation() {
	b.FF.VV = false
}

// Halt sets CH, matching HaltExecuted (destination D=31).
func (b *Bus) Halt() {
	b.FF.CH = true
}

// Resume clears CH so the interpreter may run again, set by a console
// start action.
func (b *Bus) Resume() {
	b.FF.CH = false
}

// ComputeGoing reports whether the Compute switch permits execution.
func (b *Bus) ComputeGoing() bool {
	return b.Compute == ComputeGo || b.Compute == ComputeBP
}
