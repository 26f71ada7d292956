/*
 * drum1100 - Typewriter keyboard/print device.
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

// Package typewriter implements the keyboard/print device, grounded on
// the teacher's console device (emu/model1052), but trimmed to local
// stdin/stdout: the teacher's telnet remote-console path has no
// counterpart here (see DESIGN.md for why telnet was dropped) since
// this machine's typewriter is a local physical unit, not a remote
// terminal.
package typewriter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	config "github.com/ncornish/drum1100/config/configparser"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/iocodes"
	"github.com/ncornish/drum1100/emu/registry"
	"github.com/ncornish/drum1100/emu/word"
)

// register the TYPEWRITER model on initialize, wired to the process's
// own stdin/stdout since this is a local unit, not a remote terminal.
func init() {
	config.RegisterModel("TYPEWRITER", create)
}

func create(name string, _ []config.Option) error {
	return registry.Add(name, New(name, os.Stdout, os.Stdin))
}

// WordTimesPerChar is the rate a character is sent at when this device
// is selected for output: one character every four drum cycles, ≈8.6
// chars/sec.
const WordTimesPerChar = 4 * 108

// Typewriter is both the output (print) and input (keyboard) device
// attached to the Enable switch.
type Typewriter struct {
	name   string
	out    *bufio.Writer
	in     *bufio.Reader
	status device.State
	line   []byte // Accumulated characters for the current printed line.

	// Receive delivers a keyboard code to the I/O subsystem, mirroring
	// papertape.Reader.Receive.
	Receive func(code int) bool

	pending []byte // Buffered keyboard input not yet delivered.

	debugMsk int
}

const (
	debugCmd = 1 << iota
	debugData
)

var debugOption = map[string]int{
	"CMD":  debugCmd,
	"DATA": debugData,
}

// New builds a typewriter writing to out and reading from in (normally
// os.Stdout and os.Stdin; injectable for tests).
func New(name string, out io.Writer, in io.Reader) *Typewriter {
	return &Typewriter{
		name:   name,
		out:    bufio.NewWriter(out),
		in:     bufio.NewReader(in),
		status: device.Ready,
	}
}

func (t *Typewriter) Name() string         { return t.name }
func (t *Typewriter) Status() device.State { return t.status }

// SetReceive wires the callback Next delivers codes through, called by
// the interpreter's SelectInput before this device is addressed.
func (t *Typewriter) SetReceive(fn func(code int) bool) { t.Receive = fn }

// FrameWordTimes reports the word-time interval BeginInput schedules
// Next at: the same character rate as typewriter output.
func (t *Typewriter) FrameWordTimes() int { return WordTimesPerChar }

// Write prints one internal code, flushing the accumulated line on a
// carriage return.
func (t *Typewriter) Write(v word.Word) bool {
	if t.status == device.Canceled {
		return false
	}
	code := byte(v) & 0x1F
	if code == iocodes.CR {
		t.line = append(t.line, '\n')
		t.out.Write(t.line)
		t.out.Flush()
		t.line = t.line[:0]
		return true
	}
	t.line = append(t.line, iocodes.ToPrintable(code))
	return true
}

// Read arms the keyboard: the caller's scheduler should call Next once
// per frame interval afterward to pull characters out of stdin and
// deliver them via Receive.
func (t *Typewriter) Read() bool {
	if t.status != device.Ready {
		return false
	}
	t.status = device.Busy
	return true
}

// Next reads one line from stdin (buffering it internally) and delivers
// its characters one at a time through Receive, terminating the block
// with a CR after the line. Returns false once the block has ended.
func (t *Typewriter) Next() bool {
	if t.status != device.Busy {
		return false
	}
	if len(t.pending) == 0 {
		line, err := t.in.ReadString('\n')
		if err != nil && len(line) == 0 {
			t.status = device.Ready
			return false
		}
		for _, b := range []byte(line) {
			if b == '\n' {
				continue
			}
			code := iocodes.ToInternal(b)
			if code != iocodes.Ignored {
				t.pending = append(t.pending, code)
			}
		}
		t.pending = append(t.pending, iocodes.CR)
	}
	code := t.pending[0]
	t.pending = t.pending[1:]
	stop := t.Receive(int(code))
	if stop || (code == iocodes.CR && len(t.pending) == 0) {
		t.status = device.Ready
		return false
	}
	return true
}

func (t *Typewriter) Cancel() {
	t.status = device.Canceled
}

func (t *Typewriter) ShutDown() {
	t.out.Flush()
}

// Debug enables one of this device's named trace options.
func (t *Typewriter) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("typewriter debug option invalid: " + opt)
	}
	t.debugMsk |= flag
	return nil
}

// Bell prints an audible-cue marker to the transcript; there is no real
// speaker to drive, so this stands in for ring_bell's side effect.
func (t *Typewriter) Bell(amplitude float64) {
	fmt.Fprintf(t.out, "\a")
	t.out.Flush()
	slog.Debug("typewriter: bell", "device", t.name, "amplitude", amplitude)
}
