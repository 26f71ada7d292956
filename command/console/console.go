/*
 * drum1100 - Operator console.
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

// Package console is the operator's line-command front end, grounded on
// the table-driven, minimum-abbreviation dispatch of command/parser but
// addressing peripherals by their configuration-file name through
// emu/registry rather than a channel device number: there is no channel
// here, so attach/show take a name, not a hex address.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/interp"
	"github.com/ncornish/drum1100/emu/registry"
)

type cmd struct {
	name    string // Command name.
	min     int    // Minimum abbreviation length.
	process func(*cmdLine, *Console) (bool, error)
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "start", min: 3, process: start},
	{name: "stop", min: 3, process: stop},
	{name: "step", min: 2, process: step},
	{name: "reset", min: 3, process: reset},
	{name: "show", min: 2, process: show},
	{name: "attach", min: 2, process: attach},
	{name: "select", min: 3, process: selectDevice},
	{name: "quit", min: 1, process: quit},
}

// Console reads operator commands from in and writes responses to out,
// dispatching them against a single Interpreter.
type Console struct {
	Machine *interp.Interpreter
	out     io.Writer
	in      *bufio.Scanner
}

// New builds a console reading lines from in and writing to out.
func New(m *interp.Interpreter, in io.Reader, out io.Writer) *Console {
	return &Console{Machine: m, out: out, in: bufio.NewScanner(in)}
}

// Run reads and executes commands until "quit" or end of input. Run does
// not advance word-times itself; start/step only change the Compute
// switch and flip-flops the caller's main loop consults.
func (c *Console) Run() {
	fmt.Fprint(c.out, "drum1100> ")
	for c.in.Scan() {
		quit, err := c.Process(c.in.Text())
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
		}
		if quit {
			return
		}
		fmt.Fprint(c.out, "drum1100> ")
	}
}

// Process executes one command line, returning true if the console
// should stop reading further input.
func (c *Console) Process(line string) (bool, error) {
	cl := cmdLine{line: line}
	name := cl.getWord()
	if name == "" {
		return false, nil
	}

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(&cl, c)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// matchCommand reports whether name is a valid abbreviation of m, at
// least m.min characters and a prefix of m.name.
func matchCommand(m cmd, name string) bool {
	if len(name) < m.min || len(name) > len(m.name) {
		return false
	}
	return m.name[:len(name)] == name
}

func matchList(name string) []cmd {
	var out []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			out = append(out, m)
		}
	}
	return out
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord returns the next whitespace-delimited token, lower-cased.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

// rest returns everything remaining on the line, case preserved, for
// arguments like file names that should not be lower-cased.
func (l *cmdLine) rest() string {
	l.skipSpace()
	return l.line[l.pos:]
}

func start(_ *cmdLine, c *Console) (bool, error) {
	c.Machine.Bus.Compute = bus.ComputeGo
	c.Machine.Bus.Resume()
	slog.Info("console: start")
	return false, nil
}

func stop(_ *cmdLine, c *Console) (bool, error) {
	c.Machine.Bus.Halt()
	slog.Info("console: stop")
	return false, nil
}

// step single-steps the interpreter, by default one word-time, or the
// count given as an argument.
func step(l *cmdLine, c *Console) (bool, error) {
	n := 1
	if w := l.getWord(); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil || v < 1 {
			return false, errors.New("step count must be a positive number: " + w)
		}
		n = v
	}
	c.Machine.Bus.Resume()
	for range n {
		if !c.Machine.Step() {
			break
		}
	}
	return false, nil
}

func reset(_ *cmdLine, c *Console) (bool, error) {
	c.Machine.Reset()
	slog.Info("console: reset")
	return false, nil
}

// show prints interpreter state, or one device's status if named.
func show(l *cmdLine, c *Console) (bool, error) {
	name := l.getWord()
	if name == "" {
		fmt.Fprintf(c.out, "L=%d CH=%v CG=%v VV=%v TR=%v\n",
			c.Machine.Drum.L(), c.Machine.Bus.FF.CH, c.Machine.Bus.FF.CG,
			c.Machine.Bus.FF.VV, c.Machine.Bus.FF.TR)
		return false, nil
	}

	dev, err := registry.Get(name)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "%s: %v\n", dev.Name(), dev.Status())
	return false, nil
}

// attach connects a file to a named device's reader/punch/plotter
// backing store. Devices differ on whether Attach can fail, so both
// shapes are accepted.
func attach(l *cmdLine, _ *Console) (bool, error) {
	name := l.getWord()
	if name == "" {
		return false, errors.New("attach requires a device name")
	}

	dev, err := registry.Get(name)
	if err != nil {
		return false, err
	}

	path := l.rest()
	if path == "" {
		return false, errors.New("attach requires a file name")
	}

	switch d := dev.(type) {
	case interface{ Attach(string) error }:
		return false, d.Attach(path)
	case interface{ Attach(string) }:
		d.Attach(path)
		return false, nil
	default:
		return false, fmt.Errorf("device %s does not support attach", name)
	}
}

// selectDevice names the device the I/O trigger addresses: "select
// output <name> <wordTimesPerChar>" or "select input <name>".
func selectDevice(l *cmdLine, c *Console) (bool, error) {
	dir := l.getWord()
	name := l.getWord()
	if dir == "" || name == "" {
		return false, errors.New("select requires a direction (input|output) and a device name")
	}

	dev, err := registry.Get(name)
	if err != nil {
		return false, err
	}

	switch dir {
	case "output":
		rateWord := l.getWord()
		rate, err := strconv.Atoi(rateWord)
		if err != nil || rate < 0 {
			return false, errors.New("select output requires a non-negative word-time rate: " + rateWord)
		}
		c.Machine.SelectOutput(dev, rate)
	case "input":
		c.Machine.SelectInput(dev)
	default:
		return false, errors.New("select direction must be input or output: " + dir)
	}
	return false, nil
}

func quit(_ *cmdLine, _ *Console) (bool, error) {
	slog.Info("console: quit")
	return true, nil
}
