/*
 * drum1100 - Device Interface functions
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

// Package device defines the contract every peripheral implements, the
// same role the teacher's emu/device.Device interface plays for channel
// attached units, narrowed to the single in-line, one-character-at-a-time
// transfer model this machine uses.
package device

import "github.com/ncornish/drum1100/emu/word"

// State is a device's externally observable readiness.
type State int

const (
	Ready State = iota
	Busy
	Canceled
)

func (s State) String() string {
	switch s {
	case Busy:
		return "busy"
	case Canceled:
		return "canceled"
	default:
		return "ready"
	}
}

// Device is implemented by every peripheral the command interpreter and
// I/O subsystem can address: paper tape reader/punch, typewriter,
// plotter. Each call is non-blocking; long transfers are driven by the
// device scheduling its own completion through the shared timing
// scheduler and reporting State via Status.
type Device interface {
	// Name identifies the device in logs and console commands.
	Name() string

	// Status reports the device's current readiness.
	Status() State

	// Write begins an output transfer of one character-width value.
	// Returns false if the device is not Ready.
	Write(v word.Word) bool

	// Read begins an input transfer; the device delivers the character
	// asynchronously via the callback registered with the I/O subsystem.
	// Returns false if the device is not Ready.
	Read() bool

	// Cancel aborts any in-flight transfer, moving the device to
	// Canceled until the next Write or Read.
	Cancel()

	// ShutDown releases any resources (open files, etc.) held by the
	// device, called once at process exit.
	ShutDown()

	// Debug enables a named debug option, returning an error if opt is
	// not one this device recognizes.
	Debug(opt string) error
}
