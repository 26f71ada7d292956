/*
 * drum1100 - Paper-tape reader and punch devices.
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

// Package papertape implements the three bit-exact paper-tape image
// formats as DeviceInterface peripherals, grounded on the teacher's
// generalized card reader/punch (util/card/card.go): the same
// attach-by-filename, auto-detecting-format, deck-in-memory shape,
// narrowed from 80-column card images to one-frame-per-byte tape
// images.
package papertape

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	config "github.com/ncornish/drum1100/config/configparser"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/iocodes"
	"github.com/ncornish/drum1100/emu/registry"
	"github.com/ncornish/drum1100/emu/word"
)

var debugOption = map[string]int{
	"CMD":  1 << 0,
	"DATA": 1 << 1,
}

// register the READER and PUNCH models on initialize.
func init() {
	config.RegisterModel("READER", createReader)
	config.RegisterModel("PUNCH", createPunch)
}

func createReader(name string, options []config.Option) error {
	r := NewReader(name)
	for _, opt := range options {
		if strings.EqualFold(opt.Name, "file") && opt.EqualOpt != "" {
			if err := r.Attach(opt.EqualOpt); err != nil {
				return err
			}
		}
	}
	return registry.Add(name, r)
}

func createPunch(name string, options []config.Option) error {
	p := NewPunch(name)
	for _, opt := range options {
		if strings.EqualFold(opt.Name, "file") && opt.EqualOpt != "" {
			p.Attach(opt.EqualOpt)
		}
	}
	return registry.Add(name, p)
}

// Format identifies one of the three tape image encodings.
type Format int

const (
	FormatText    Format = iota // ".pti"
	FormatBinary                // ".ptr", channels ___54321
	FormatReverse               // ".pt", channels ___12345
)

// DetectFormat picks a Format from a file extension.
func DetectFormat(name string) Format {
	switch {
	case strings.HasSuffix(name, ".ptr"):
		return FormatBinary
	case strings.HasSuffix(name, ".pt"):
		return FormatReverse
	default:
		return FormatText
	}
}

// Reader is an input device that delivers one internal code per frame
// from an attached tape image, advancing through the IOSubsystem's
// receive_input_code path. ReceiveFunc is supplied by the caller so the
// device does not need to know about iosystem.IOSubsystem directly.
type Reader struct {
	name    string
	frames  []byte // Internal codes, one per frame, already translated.
	pos     int
	status  device.State
	Receive func(code int) bool // Delivers a code; returns true to stop.

	debugMsk int
}

// NewReader constructs a reader with no tape attached.
func NewReader(name string) *Reader {
	return &Reader{name: name, status: device.Ready}
}

// ReaderWordTimesPerFrame is the reader's native input rate: 250
// frames/sec scaled against the drum's word-time clock (108
// word-times/revolution at 1800 RPM, i.e. 3240 word-times/sec).
const ReaderWordTimesPerFrame = 13

// FrameWordTimes reports the word-time interval BeginInput schedules
// Next at.
func (r *Reader) FrameWordTimes() int { return ReaderWordTimesPerFrame }

// Attach loads a tape image, auto-detecting its format from the file
// extension, and translating it to the internal code table up front
// (mirroring the teacher's Attach + readDeck shape).
func (r *Reader) Attach(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("papertape: attach %s: %w", path, err)
	}
	defer f.Close()

	frames, err := decode(f, DetectFormat(path))
	if err != nil {
		return fmt.Errorf("papertape: decode %s: %w", path, err)
	}
	r.frames = frames
	r.pos = 0
	r.status = device.Ready
	slog.Info("papertape: reader attached", "device", r.name, "path", path, "frames", len(frames))
	return nil
}

func decode(f *os.File, format Format) ([]byte, error) {
	if format == FormatText {
		return decodeText(f)
	}
	return decodeBinary(f, format)
}

func decodeText(f *os.File) ([]byte, error) {
	var out []byte
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, b := range []byte(line) {
			code := iocodes.ToInternal(b)
			if code != iocodes.Ignored {
				out = append(out, code)
			}
		}
		out = append(out, iocodes.CR)
	}
	return out, sc.Err()
}

func decodeBinary(f *os.File, format Format) ([]byte, error) {
	raw, err := bufReadAll(f)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		code := b & 0x1F
		if b&0xE0 != 0 {
			return nil, fmt.Errorf("papertape: frame %#x has nonzero upper bits", b)
		}
		if format == FormatReverse {
			code = iocodes.ReverseBits(code)
		}
		out = append(out, code)
	}
	return out, nil
}

func bufReadAll(f *os.File) ([]byte, error) {
	r := bufio.NewReader(f)
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}

func (r *Reader) Name() string        { return r.name }
func (r *Reader) Status() device.State { return r.status }

// Frames returns the reader's decoded internal codes, for tools that
// convert between tape image formats without driving the device through
// a live transfer.
func (r *Reader) Frames() []byte { return r.frames }

// SetReceive wires the callback Next delivers codes through, called by
// the interpreter's SelectInput before this device is addressed.
func (r *Reader) SetReceive(fn func(code int) bool) { r.Receive = fn }

// Write is not valid on a reader.
func (r *Reader) Write(word.Word) bool { return false }

// Read begins delivering frames; the device itself drives Receive
// synchronously here because frame timing is owned by the caller's
// scheduler, not by this device.
func (r *Reader) Read() bool {
	if r.status != device.Ready || r.pos >= len(r.frames) {
		return false
	}
	r.status = device.Busy
	return true
}

// Next delivers the next frame through Receive, called once per frame
// interval by the caller's scheduled loop. Returns false once the tape
// is exhausted or the block has been terminated.
func (r *Reader) Next() bool {
	if r.status != device.Busy || r.pos >= len(r.frames) {
		r.status = device.Ready
		return false
	}
	code := r.frames[r.pos]
	r.pos++
	stop := r.Receive(int(code))
	if stop || r.pos >= len(r.frames) {
		r.status = device.Ready
		return false
	}
	return true
}

func (r *Reader) Cancel() {
	r.status = device.Canceled
}

func (r *Reader) ShutDown() {}

// Debug enables one of this device's named trace options.
func (r *Reader) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("papertape reader debug option invalid: " + opt)
	}
	r.debugMsk |= flag
	return nil
}

// Punch is an output device that accumulates written frames in memory
// and can flush them to a tape image in any of the three formats.
type Punch struct {
	name   string
	frames []byte
	status device.State
	path   string
	format Format

	debugMsk int
}

// NewPunch constructs a punch with no output file attached.
func NewPunch(name string) *Punch {
	return &Punch{name: name, status: device.Ready}
}

// Attach opens the destination file the punch will flush to, format
// chosen by extension as the reader does.
func (p *Punch) Attach(path string) {
	p.path = path
	p.format = DetectFormat(path)
}

// SetFormat overrides the format inferred by Attach, for callers that
// need to force an encoding regardless of the destination file's name.
func (p *Punch) SetFormat(f Format) {
	p.format = f
}

func (p *Punch) Name() string        { return p.name }
func (p *Punch) Status() device.State { return p.status }

func (p *Punch) Write(v word.Word) bool {
	if p.status == device.Canceled {
		return false
	}
	p.frames = append(p.frames, byte(v)&0x1F)
	return true
}

// WriteFrames appends a block of already-translated internal codes in
// one call, for tools that convert between tape image formats without
// driving the device through a live transfer.
func (p *Punch) WriteFrames(frames []byte) {
	p.frames = append(p.frames, frames...)
}

func (p *Punch) Read() bool { return false }

func (p *Punch) Cancel() {
	p.status = device.Canceled
}

// Debug enables one of this device's named trace options.
func (p *Punch) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("papertape punch debug option invalid: " + opt)
	}
	p.debugMsk |= flag
	return nil
}

// ShutDown flushes any buffered frames to the attached file, matching
// the teacher's pattern of closing/flushing on device shutdown.
func (p *Punch) ShutDown() {
	if p.path == "" {
		return
	}
	if err := p.Flush(); err != nil {
		slog.Error("papertape: flush on shutdown failed", "device", p.name, "error", err)
	}
}

// Flush writes every accumulated frame to the attached file in the
// punch's format.
func (p *Punch) Flush() error {
	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("papertape: flush %s: %w", p.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	switch p.format {
	case FormatText:
		for _, code := range p.frames {
			if code == iocodes.CR {
				w.WriteByte('\n')
				continue
			}
			w.WriteByte(iocodes.ToPrintable(code))
		}
	case FormatBinary:
		w.Write(p.frames)
	case FormatReverse:
		for _, code := range p.frames {
			w.WriteByte(iocodes.ReverseBits(code))
		}
	}
	return w.Flush()
}
