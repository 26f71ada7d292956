package iosystem

import (
	"testing"

	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/drum"
	"github.com/ncornish/drum1100/emu/timing"
	"github.com/ncornish/drum1100/emu/word"
)

type fakeDevice struct {
	name     string
	readOK   bool
	writes   []word.Word
	writeOK  bool
	canceled bool
}

func (f *fakeDevice) Name() string { return f.name }
func (f *fakeDevice) Status() device.State {
	if f.canceled {
		return device.Canceled
	}
	return device.Ready
}
func (f *fakeDevice) Write(v word.Word) bool {
	if !f.writeOK {
		return false
	}
	f.writes = append(f.writes, v)
	return true
}
func (f *fakeDevice) Read() bool { return f.readOK }
func (f *fakeDevice) Cancel()    { f.canceled = true }
func (f *fakeDevice) ShutDown()  {}
func (f *fakeDevice) Debug(string) error { return nil }

func newIO() (*IOSubsystem, *bus.Bus) {
	d := drum.New()
	b := bus.New()
	el := &timing.EventList{}
	return New(d, b, el), b
}

// fakePump is an input device that delivers a fixed sequence of codes
// through Receive, one per Next call, the way papertape.Reader and
// typewriter.Typewriter do.
type fakePump struct {
	fakeDevice
	codes   []int
	pos     int
	Receive func(code int) bool
}

func (f *fakePump) Next() bool {
	if f.pos >= len(f.codes) {
		return false
	}
	code := f.codes[f.pos]
	f.pos++
	stop := f.Receive(code)
	return !stop && f.pos < len(f.codes)
}

func TestBeginInputRefusedWhenBusy(t *testing.T) {
	io, b := newIO()
	dev := &fakeDevice{name: "kb", readOK: true, writeOK: true}
	if !io.BeginInput(dev) {
		t.Fatal("first BeginInput should succeed")
	}
	if io.BeginInput(dev) {
		t.Fatal("second BeginInput while busy should be refused")
	}
	if !b.FF.VV {
		t.Errorf("expected violation latch set")
	}
}

func TestReceiveInputCodeTerminatesOnStop(t *testing.T) {
	io, _ := newIO()
	dev := &fakeDevice{name: "kb", readOK: true}
	io.BeginInput(dev)
	if io.ReceiveInputCode(1) {
		t.Errorf("non-terminator code should not end the block")
	}
	if !io.Busy() {
		t.Errorf("block should remain active")
	}
	if !io.ReceiveInputCode(4) { // Stop
		t.Errorf("Stop code should terminate the block")
	}
	if io.Busy() {
		t.Errorf("block should have ended")
	}
}

func TestReceiveInputCodeWithoutBeginIsViolation(t *testing.T) {
	io, b := newIO()
	if !io.ReceiveInputCode(0) {
		t.Errorf("unsolicited code should report an error")
	}
	if !b.FF.VV {
		t.Errorf("expected violation")
	}
}

func TestBeginInputPumpsFramePumpDeviceToCompletion(t *testing.T) {
	io, _ := newIO()
	dev := &fakePump{fakeDevice: fakeDevice{name: "rdr", readOK: true}, codes: []int{1, 2, 4}} // 4 = Stop
	dev.Receive = io.ReceiveInputCode

	if !io.BeginInput(dev) {
		t.Fatal("BeginInput should succeed")
	}
	for i := 0; i < 3*DrumCycle; i++ {
		io.Tick()
	}

	if dev.pos != len(dev.codes) {
		t.Fatalf("device delivered %d of %d codes, want all of them", dev.pos, len(dev.codes))
	}
	if io.Busy() {
		t.Errorf("input should have idled after the Stop code terminated the block")
	}
}

func TestStartOutputSendsAllCharsThenIdles(t *testing.T) {
	io, _ := newIO()
	dev := &fakeDevice{name: "ptp", writeOK: true}
	chars := []int{1, 2, 3}
	i := 0
	next := func() (int, bool) {
		if i >= len(chars) {
			return 0, false
		}
		c := chars[i]
		i++
		return c, true
	}
	if !io.StartOutput(dev, 0, next) {
		t.Fatal("StartOutput should succeed")
	}
	if len(dev.writes) != len(chars) {
		t.Fatalf("wrote %d chars, want %d", len(dev.writes), len(chars))
	}
	if io.Busy() {
		t.Errorf("output should have idled after exhausting source")
	}
}

func TestCancelIOIsIdempotent(t *testing.T) {
	io, _ := newIO()
	io.CancelIO()
	io.CancelIO()
}

func TestRingBellRespectsMinimumGap(t *testing.T) {
	io, _ := newIO()
	if !io.RingBell(54) {
		t.Errorf("first ring should succeed")
	}
	if io.RingBell(54) {
		t.Errorf("second ring within the gap should be suppressed")
	}
	for i := 0; i < 3*DrumCycle; i++ {
		io.Tick()
	}
	if !io.RingBell(54) {
		t.Errorf("ring after the gap elapses should succeed")
	}
}

func TestAmplitudeClampsAtOne(t *testing.T) {
	if got := Amplitude(DrumCycle * 2); got != 1.0 {
		t.Errorf("Amplitude(2 cycles) = %v, want 1.0", got)
	}
	if got := Amplitude(DrumCycle / 2); got <= 0 || got >= 1.0 {
		t.Errorf("Amplitude(half cycle) = %v, want in (0,1)", got)
	}
}
