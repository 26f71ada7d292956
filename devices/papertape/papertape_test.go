package papertape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ncornish/drum1100/emu/iocodes"
	"github.com/ncornish/drum1100/emu/word"
)

func TestBinaryFormatRoundTripIsIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tape.ptr")
	frames := []byte{0, 1, 4, 5, 16, 31}
	if err := os.WriteFile(path, frames, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewReader("ptr0")
	if err := r.Attach(path); err != nil {
		t.Fatal(err)
	}

	p := NewPunch("ptp0")
	out := filepath.Join(dir, "out.ptr")
	p.Attach(out)

	r.Receive = func(code int) bool {
		p.Write(word.New(uint32(code)))
		return false
	}
	r.Read()
	for r.Next() {
	}
	p.Flush()

	roundTripped, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(roundTripped) != len(frames) {
		t.Fatalf("got %d frames, want %d", len(roundTripped), len(frames))
	}
	for i, f := range frames {
		if roundTripped[i] != f {
			t.Errorf("frame %d = %#x, want %#x", i, roundTripped[i], f)
		}
	}
}

func TestPtAndPtrDifferByBitReversal(t *testing.T) {
	for code := byte(0); code < 32; code++ {
		rev := iocodes.ReverseBits(code)
		back := iocodes.ReverseBits(rev)
		if back != code {
			t.Errorf("ReverseBits(ReverseBits(%d)) = %d, want %d", code, back, code)
		}
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	cases := map[string]Format{
		"x.pti": FormatText,
		"x.ptr": FormatBinary,
		"x.pt":  FormatReverse,
	}
	for name, want := range cases {
		if got := DetectFormat(name); got != want {
			t.Errorf("DetectFormat(%q) = %v, want %v", name, got, want)
		}
	}
}
