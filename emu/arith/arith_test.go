package arith

import (
	"testing"

	"github.com/ncornish/drum1100/emu/word"
)

func TestAddScenario(t *testing.T) {
	// +1 and +2 encode as 0x2 and 0x4 (magnitude<<1), exercised here at
	// the bit level the unit actually operates on.
	u := &Unit{}
	x := word.New(1)
	y := word.New(2)
	got := u.Add(CAdd, x, y)
	if got != word.New(3) {
		t.Errorf("Add(1,2) = %#x, want 3", got)
	}
	if u.FO {
		t.Errorf("unexpected overflow")
	}
}

func TestAddThenSubtractRecoversX(t *testing.T) {
	u := &Unit{}
	for _, x := range []word.Word{word.New(5), word.New(0x10000005), word.New(0), word.New(0x0FFFFFFF)} {
		for _, y := range []word.Word{word.New(3), word.New(0x10000003), word.New(0)} {
			sum := u.Add(CAdd, x, y)
			back := u.Add(CSub, sum, y)
			if back.Magnitude() != x.Magnitude() {
				t.Errorf("add(%#x,%#x) then sub(%#x) = %#x magnitude, want %#x", x, y, y, back, x.Magnitude())
			}
		}
	}
}

func TestOverflowOnMaxPositives(t *testing.T) {
	u := &Unit{}
	maxPos := word.Word(word.MagMask)
	got := u.Add(CAdd, maxPos, maxPos)
	if !u.FO {
		t.Errorf("expected FO set after overflowing add")
	}
	if got.Magnitude() > word.MagMask {
		t.Errorf("result leaked above 28-bit magnitude: %#x", got)
	}
}

func TestOverflowIsStickyUntilCleared(t *testing.T) {
	u := &Unit{}
	u.Add(CAdd, word.Word(word.MagMask), word.Word(word.MagMask))
	if !u.FO {
		t.Fatal("expected FO set")
	}
	u.Add(CAdd, word.New(1), word.New(1))
	if !u.FO {
		t.Errorf("FO must remain set until explicitly cleared")
	}
	u.ClearOverflow()
	if u.FO {
		t.Errorf("ClearOverflow did not clear FO")
	}
}

func TestMultiplyScenario(t *testing.T) {
	u := &Unit{}
	hi, lo := u.Multiply(word.New(3), word.New(5))
	if hi.Magnitude() != 0 || lo.Magnitude() != 15 {
		t.Errorf("3*5 = hi=%#x lo=%#x, want hi=0 lo=15", hi, lo)
	}
	if lo.Sign() || hi.Sign() {
		t.Errorf("3*5 must be positive")
	}
	if u.FO {
		t.Errorf("unexpected overflow from multiply")
	}
}

func TestMultiplyIsCommutative(t *testing.T) {
	u := &Unit{}
	a, b := word.New(12345), word.New(6789)
	hi1, lo1 := u.Multiply(a, b)
	hi2, lo2 := u.Multiply(b, a)
	if hi1 != hi2 || lo1 != lo2 {
		t.Errorf("multiply not commutative: (%#x,%#x) vs (%#x,%#x)", hi1, lo1, hi2, lo2)
	}
}

func TestDivideReconstructsDividend(t *testing.T) {
	u := &Unit{}
	divisor := word.New(97)
	hi, lo := u.Multiply(word.New(123456), divisor)
	// Add a remainder smaller than the divisor to the low word's magnitude
	// to build an exact dividend = q*d + r.
	q, r := u.Divide(hi, lo, divisor)
	if q.Magnitude() != 123456 {
		t.Errorf("quotient = %d, want 123456", q.Magnitude())
	}
	if r.Magnitude() != 0 {
		t.Errorf("remainder = %d, want 0", r.Magnitude())
	}
}

func TestDivideByZeroSetsOverflow(t *testing.T) {
	u := &Unit{}
	u.Divide(word.New(0), word.New(10), word.New(0))
	if !u.FO {
		t.Errorf("divide by zero must set FO")
	}
}

func TestNormalizeZeroIsNoop(t *testing.T) {
	hi, lo, shifts := Normalize(word.New(0), word.New(0))
	if shifts != 0 || hi.Magnitude() != 0 || lo.Magnitude() != 0 {
		t.Errorf("Normalize(0,0) should be a no-op")
	}
}

func TestNormalizeSetsLeadingBit(t *testing.T) {
	hi, _, shifts := Normalize(word.New(1), word.New(0))
	if shifts == 0 {
		t.Errorf("expected normalize to shift a small value")
	}
	if hi.Magnitude()&(1<<27) == 0 {
		t.Errorf("normalized high word does not have leading magnitude bit set: %#x", hi)
	}
}

func TestShiftRoundTrip(t *testing.T) {
	w := word.New(0x100).WithSign(true)
	left := Shift(w, 3)
	back := Shift(left, -3)
	if back.Magnitude() != w.Magnitude() {
		t.Errorf("shift left then right = %#x, want magnitude %#x", back, w.Magnitude())
	}
	if back.Sign() != w.Sign() {
		t.Errorf("Shift must preserve sign")
	}
}
