package interp

import (
	"testing"

	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/drum"
	"github.com/ncornish/drum1100/emu/iosystem"
	"github.com/ncornish/drum1100/emu/timing"
	"github.com/ncornish/drum1100/emu/word"
)

// fakeOutputDevice records every value written to it, to verify the I/O
// trigger actually reaches a selected device.
type fakeOutputDevice struct {
	name string
	got  []word.Word
}

func (f *fakeOutputDevice) Name() string         { return f.name }
func (f *fakeOutputDevice) Status() device.State { return device.Ready }
func (f *fakeOutputDevice) Write(v word.Word) bool {
	f.got = append(f.got, v)
	return true
}
func (f *fakeOutputDevice) Read() bool            { return false }
func (f *fakeOutputDevice) Cancel()               {}
func (f *fakeOutputDevice) ShutDown()             {}
func (f *fakeOutputDevice) Debug(string) error    { return nil }

func newMachine(t *testing.T) (*Interpreter, *drum.Drum, *bus.Bus) {
	t.Helper()
	d := drum.New()
	b := bus.New()
	b.PowerUp()
	b.Compute = bus.ComputeGo
	el := &timing.EventList{}
	io := iosystem.New(d, b, el)
	sched := timing.New()
	return New(d, b, io, sched), d, b
}

// runUntilHalt steps the interpreter up to max word-times, stopping early
// if it halts.
func runUntilHalt(in *Interpreter, max int) {
	for i := 0; i < max; i++ {
		if !in.Step() {
			return
		}
	}
}

func TestAddScenario(t *testing.T) {
	// Accumulate word 0 of line 0 into AR with a single command, then
	// verify AR holds the sum.
	in, d, _ := newMachine(t)
	d.WriteWord(0, 0, word.New(1)) // +1
	d.SetAR(word.New(2))           // Pre-load AR with +2.
	cmd := Command{P: false, T: 0, N: 1, C: 0, S: 0, D: AddrAR}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	runUntilHalt(in, drum.LongWords+1)

	if got := d.AR().Magnitude(); got != 3 {
		t.Errorf("AR magnitude = %#x, want 3", got)
	}
}

func TestHaltStopsTheInterpreter(t *testing.T) {
	in, d, b := newMachine(t)
	cmd := Command{P: false, T: 0, N: 1, D: AddrHalt}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	runUntilHalt(in, drum.LongWords+1)

	if !b.FF.CH {
		t.Errorf("expected CH set after executing a D=31 command")
	}
	if in.Step() {
		t.Errorf("Step should report halted once CH is set")
	}
}

func TestPlainLineMoveCopiesWord(t *testing.T) {
	in, d, _ := newMachine(t)
	want := word.New(0x1234)
	d.WriteWord(0, 5, want)
	cmd := Command{P: false, T: 5, N: 6, S: 0, D: 1}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	runUntilHalt(in, drum.LongWords+1)

	got, _ := d.ReadWord(1, 5)
	if got != want {
		t.Errorf("line 1 word 5 = %#x, want %#x", got, want)
	}
}

func TestMultiplyScenario(t *testing.T) {
	in, d, _ := newMachine(t)
	d.SetMQPair(word.New(3), 0)
	d.WriteWord(2, 0, word.New(5))
	cmd := Command{P: false, T: 0, N: 1, C: OpMul, S: 2, D: AddrArithOp}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	runUntilHalt(in, drum.LongWords+1)

	lo, hi := d.PNPair()
	if lo.Magnitude() != 15 || hi.Magnitude() != 0 {
		t.Errorf("PN = hi=%#x lo=%#x, want hi=0 lo=15", hi, lo)
	}
}

func TestIOTriggerStartsOutputOnSelectedDevice(t *testing.T) {
	in, d, _ := newMachine(t)
	dev := &fakeOutputDevice{name: "ptp0"}
	in.SelectOutput(dev, 0)

	d.WriteWord(5, 0, word.New(7))
	d.WriteWord(5, 1, word.New(9))
	cmd := Command{P: false, T: 0, N: 1, C: 0, S: 5, D: AddrIO}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	runUntilHalt(in, drum.LongWords+1)

	if len(dev.got) != drum.LongWords {
		t.Fatalf("device received %d words, want %d", len(dev.got), drum.LongWords)
	}
	if dev.got[0].Magnitude() != 7 || dev.got[1].Magnitude() != 9 {
		t.Errorf("device got %#x, %#x, want 7, 9", dev.got[0], dev.got[1])
	}
}

func TestDeferredCommandWaitsForNextRevolution(t *testing.T) {
	in, d, b := newMachine(t)
	cmd := Command{P: true, T: 5, N: 6, D: AddrHalt}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	// Step through to L=5 this revolution: a deferred command must not
	// fire on its own pass through T.
	for i := 0; i < 6; i++ {
		if !in.Step() {
			t.Fatalf("interpreter halted before the first pass through T, at step %d", i)
		}
	}
	if b.FF.CH {
		t.Errorf("deferred command fired on its own revolution instead of waiting for the next")
	}

	// Step through the rest of this revolution into the next pass through
	// T=5, where the deferred command is now armed.
	runUntilHalt(in, drum.LongWords)
	if !b.FF.CH {
		t.Errorf("expected deferred command to fire on the following revolution's pass through T")
	}
}

func TestImmediateCommandFiresOnFirstPass(t *testing.T) {
	in, d, b := newMachine(t)
	cmd := Command{P: false, T: 5, N: 6, D: AddrHalt}
	d.WriteWord(in.cmdLine, 0, Pack(cmd))

	for i := 0; i < 6; i++ {
		in.Step()
	}
	if !b.FF.CH {
		t.Errorf("expected immediate command to fire on its own revolution's pass through T")
	}
}

func TestHaltedInterpreterDoesNotStep(t *testing.T) {
	in, _, b := newMachine(t)
	b.Halt()
	if in.Step() {
		t.Errorf("Step should report halted immediately when CH is set")
	}
}
