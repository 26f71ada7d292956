package typewriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ncornish/drum1100/emu/iocodes"
	"github.com/ncornish/drum1100/emu/word"
)

func TestWritePrintsLineOnCR(t *testing.T) {
	var out bytes.Buffer
	tw := New("tty0", &out, strings.NewReader(""))

	for _, ch := range "HI" {
		code := iocodes.ToInternal(byte(ch))
		tw.Write(word.New(uint32(code)))
	}
	tw.Write(word.New(uint32(iocodes.CR)))

	if got := out.String(); got != "HI\n" {
		t.Errorf("output = %q, want %q", got, "HI\n")
	}
}

func TestReadDeliversTypedLineThenStops(t *testing.T) {
	var out bytes.Buffer
	tw := New("tty0", &out, strings.NewReader("AB\n"))

	var got []int
	tw.Receive = func(code int) bool {
		got = append(got, code)
		return false
	}

	if !tw.Read() {
		t.Fatal("Read should succeed when idle")
	}
	for tw.Next() {
	}

	if len(got) != 3 {
		t.Fatalf("delivered %d codes, want 3 (A, B, CR)", len(got))
	}
	if got[len(got)-1] != iocodes.CR {
		t.Errorf("last delivered code = %d, want CR", got[len(got)-1])
	}
}

func TestWriteAfterCancelFails(t *testing.T) {
	var out bytes.Buffer
	tw := New("tty0", &out, strings.NewReader(""))
	tw.Cancel()
	if tw.Write(word.New(uint32(iocodes.Space))) {
		t.Errorf("Write should fail once canceled")
	}
}
