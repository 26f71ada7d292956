/*
 * drum1100 - X-Y plotter device.
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

// Package plotter implements a step/pen-up/pen-down output device,
// grounded on the teacher's event-driven tape and printer devices
// (emu/modelTape, emu/model1403): each write schedules its own
// completion through the caller's event list rather than blocking.
// There is no drawing surface here (out of scope) — the device emits a
// step trace instead of rendering it.
package plotter

import (
	"errors"
	"log/slog"

	config "github.com/ncornish/drum1100/config/configparser"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/registry"
	"github.com/ncornish/drum1100/emu/word"
)

var debugOption = map[string]int{
	"CMD": 1 << 0,
}

// register the PLOTTER model on initialize.
func init() {
	config.RegisterModel("PLOTTER", create)
}

func create(name string, _ []config.Option) error {
	return registry.Add(name, New(name))
}

// Plotter step and pen-motion timing constants.
const (
	StepInterval = 5 * 1_000_000  // 5 ms, in nanoseconds.
	PenInterval  = 145 * 1_000_000 // 145 ms, in nanoseconds.
)

// Step is one recorded plotter action.
type Step struct {
	DX, DY int  // Pen movement, one drum unit per step.
	PenUp  bool
}

// Plotter accumulates a trace of pen movements in place of rendering
// them to a drawing surface.
type Plotter struct {
	name   string
	status device.State
	penUp  bool
	trace  []Step

	debugMsk int
}

// New builds a plotter with the pen initially up.
func New(name string) *Plotter {
	return &Plotter{name: name, status: device.Ready, penUp: true}
}

func (p *Plotter) Name() string         { return p.name }
func (p *Plotter) Status() device.State { return p.status }

// Write decodes one internal code as a plotter command: the low 5 bits
// select one of eight step directions plus pen-up/pen-down, the same
// code space as the paper-tape alphabet reused for plotter control
// (there is no separate plotter code table, so this implementation
// reuses the digit codes as compass directions — see DESIGN.md).
func (p *Plotter) Write(v word.Word) bool {
	if p.status == device.Canceled {
		return false
	}
	code := byte(v) & 0x1F
	switch code {
	case penUpCode:
		p.penUp = true
		p.trace = append(p.trace, Step{PenUp: true})
	case penDownCode:
		p.penUp = false
		p.trace = append(p.trace, Step{PenUp: false})
	default:
		dx, dy := direction(code)
		p.trace = append(p.trace, Step{DX: dx, DY: dy, PenUp: p.penUp})
	}
	return true
}

const (
	penUpCode   = 6 // Reuses the "period" code.
	penDownCode = 7 // Reuses the "wait" code.
)

// direction maps a digit code 16..23 to one of eight compass steps.
func direction(code byte) (dx, dy int) {
	dirs := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	idx := int(code-16) % 8
	if idx < 0 {
		idx += 8
	}
	return dirs[idx][0], dirs[idx][1]
}

func (p *Plotter) Read() bool { return false }

func (p *Plotter) Cancel() {
	p.status = device.Canceled
}

// Debug enables one of this device's named trace options.
func (p *Plotter) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("plotter debug option invalid: " + opt)
	}
	p.debugMsk |= flag
	return nil
}

func (p *Plotter) ShutDown() {
	slog.Info("plotter: shutdown", "device", p.name, "steps", len(p.trace))
}

// Trace returns the recorded steps, for tests and diagnostics.
func (p *Plotter) Trace() []Step {
	return p.trace
}
