package plotter

import (
	"testing"

	"github.com/ncornish/drum1100/emu/word"
)

func TestPenUpDownTracked(t *testing.T) {
	p := New("plot0")
	p.Write(word.New(penDownCode))
	if p.penUp {
		t.Errorf("expected pen down")
	}
	p.Write(word.New(penUpCode))
	if !p.penUp {
		t.Errorf("expected pen up")
	}
}

func TestStepRecordsDirection(t *testing.T) {
	p := New("plot0")
	p.Write(word.New(16)) // First compass direction.
	trace := p.Trace()
	if len(trace) != 1 {
		t.Fatalf("got %d steps, want 1", len(trace))
	}
	if trace[0].DX == 0 && trace[0].DY == 0 {
		t.Errorf("expected a nonzero step")
	}
}

func TestWriteAfterCancelFails(t *testing.T) {
	p := New("plot0")
	p.Cancel()
	if p.Write(word.New(16)) {
		t.Errorf("Write should fail once canceled")
	}
}
