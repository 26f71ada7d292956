package console

import (
	"strings"
	"testing"

	"github.com/ncornish/drum1100/emu/bus"
	"github.com/ncornish/drum1100/emu/device"
	"github.com/ncornish/drum1100/emu/drum"
	"github.com/ncornish/drum1100/emu/interp"
	"github.com/ncornish/drum1100/emu/iosystem"
	"github.com/ncornish/drum1100/emu/registry"
	"github.com/ncornish/drum1100/emu/timing"
	"github.com/ncornish/drum1100/emu/word"
)

func newTestConsole(t *testing.T) (*Console, *bus.Bus) {
	t.Helper()
	d := drum.New()
	b := bus.New()
	b.PowerUp()
	el := &timing.EventList{}
	io := iosystem.New(d, b, el)
	sched := timing.New()
	m := interp.New(d, b, io, sched)
	var out strings.Builder
	return New(m, strings.NewReader(""), &out), b
}

func TestStartSetsComputeGoing(t *testing.T) {
	c, b := newTestConsole(t)
	if _, err := c.Process("start"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !b.ComputeGoing() {
		t.Errorf("expected Compute switch running after start")
	}
	if b.FF.CH {
		t.Errorf("expected CH cleared after start")
	}
}

func TestStopHaltsTheMachine(t *testing.T) {
	c, b := newTestConsole(t)
	c.Process("start")
	if _, err := c.Process("stop"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !b.FF.CH {
		t.Errorf("expected CH set after stop")
	}
}

func TestStepAdvancesL(t *testing.T) {
	c, b := newTestConsole(t)
	b.Compute = bus.ComputeGo
	if _, err := c.Process("step 3"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := c.Machine.Drum.L(); got != 3 {
		t.Errorf("L = %d, want 3", got)
	}
}

func TestStepRejectsBadCount(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("step abc"); err == nil {
		t.Errorf("expected error for non-numeric step count")
	}
}

func TestResetClearsCH(t *testing.T) {
	c, b := newTestConsole(t)
	b.Halt()
	if _, err := c.Process("reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if b.FF.CH {
		t.Errorf("expected CH cleared by reset")
	}
}

func TestQuitStopsTheConsole(t *testing.T) {
	c, _ := newTestConsole(t)
	quit, err := c.Process("quit")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if !quit {
		t.Errorf("expected quit to return true")
	}
}

func TestUnknownCommand(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("bogus"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestAbbreviationTooShort(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("s"); err == nil {
		t.Errorf("expected error: \"s\" is shorter than every command's minimum")
	}
}

func TestAbbreviationMatchesUniqueCommand(t *testing.T) {
	c, b := newTestConsole(t)
	if _, err := c.Process("sta"); err != nil {
		t.Fatalf("sta: %v", err)
	}
	if !b.ComputeGoing() {
		t.Errorf("expected \"sta\" to abbreviate start")
	}
}

func TestShowWithNoArgumentPrintsState(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("show"); err != nil {
		t.Fatalf("show: %v", err)
	}
}

func TestShowUnknownDevice(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("show nosuch"); err == nil {
		t.Errorf("expected error for unregistered device")
	}
}

func TestAttachRequiresNameAndFile(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("attach"); err == nil {
		t.Errorf("expected error for attach with no device name")
	}
}

func TestAttachUnknownDevice(t *testing.T) {
	c, _ := newTestConsole(t)
	if _, err := c.Process("attach nosuch foo.txt"); err == nil {
		t.Errorf("expected error for attach to unregistered device")
	}
}

func TestAttachUnsupportedDevice(t *testing.T) {
	c, _ := newTestConsole(t)
	name := "typewriter0"
	registry.Add(name, fakeDevice{name: name})
	if _, err := c.Process("attach " + name + " foo.txt"); err == nil {
		t.Errorf("expected error for attach to a device with no Attach method")
	}
}

func TestSelectOutputWiresDevice(t *testing.T) {
	c, _ := newTestConsole(t)
	name := "plotter0"
	registry.Add(name, fakeDevice{name: name})
	if _, err := c.Process("select output " + name + " 5"); err != nil {
		t.Fatalf("select output: %v", err)
	}
}

func TestSelectInputWiresDevice(t *testing.T) {
	c, _ := newTestConsole(t)
	name := "reader0"
	registry.Add(name, fakeDevice{name: name})
	if _, err := c.Process("select input " + name); err != nil {
		t.Fatalf("select input: %v", err)
	}
}

func TestSelectRejectsBadDirection(t *testing.T) {
	c, _ := newTestConsole(t)
	name := "plotter1"
	registry.Add(name, fakeDevice{name: name})
	if _, err := c.Process("select sideways " + name); err == nil {
		t.Errorf("expected error for unknown select direction")
	}
}

func TestSelectOutputRejectsBadRate(t *testing.T) {
	c, _ := newTestConsole(t)
	name := "plotter2"
	registry.Add(name, fakeDevice{name: name})
	if _, err := c.Process("select output " + name + " abc"); err == nil {
		t.Errorf("expected error for non-numeric output rate")
	}
}

// fakeDevice satisfies device.Device with no Attach method, to exercise
// the "does not support attach" path without pulling in a real device.
type fakeDevice struct {
	name string
}

func (f fakeDevice) Name() string            { return f.name }
func (f fakeDevice) Status() device.State    { return device.Ready }
func (f fakeDevice) Write(word.Word) bool    { return true }
func (f fakeDevice) Read() bool              { return true }
func (f fakeDevice) Cancel()                 {}
func (f fakeDevice) ShutDown()               {}
func (f fakeDevice) Debug(string) error      { return nil }
