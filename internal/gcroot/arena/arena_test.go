package arena

import (
	"testing"

	"github.com/kolkov/gcroots/internal/gcroot/classify"
	"github.com/kolkov/gcroots/internal/gcroot/value"
)

func TestNewRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, -4096} {
		if a, err := New(size); err == nil {
			a.Close()
			t.Errorf("New(%d) succeeded, want error", size)
		}
	}
}

func TestBoundsAndAlignment(t *testing.T) {
	a, err := New(1 << 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Base()%uintptr(wordSize) != 0 {
		t.Errorf("base %#x not word aligned", a.Base())
	}
	if a.Limit() <= a.Base() {
		t.Errorf("limit %#x not above base %#x", a.Limit(), a.Base())
	}

	b := a.Bounds()
	if b.Start != a.Base() || b.End != a.Limit() {
		t.Errorf("Bounds() = %+v, want [%#x, %#x)", b, a.Base(), a.Limit())
	}
}

func TestAllocSlotsClassifyYoung(t *testing.T) {
	a, err := New(1 << 12)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	v := a.Block(4)
	if v == 0 {
		t.Fatal("Block returned zero value")
	}
	if got := classify.Classify(v, a.Bounds()); got != classify.Young {
		t.Errorf("arena block classifies %v, want young", got)
	}
	if got := classify.Classify(v, classify.Bounds{}); got != classify.Old {
		t.Errorf("arena block outside bounds classifies %v, want old", got)
	}
}

func TestAllocExhaustion(t *testing.T) {
	a, err := New(4 * wordSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if p := a.Alloc(4); p == nil {
		t.Fatal("Alloc(4) failed on a 4-word arena")
	}
	if p := a.Alloc(1); p != nil {
		t.Error("Alloc on exhausted arena must return nil")
	}
}

func TestSlotsAreWritable(t *testing.T) {
	a, err := New(1 << 12)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	slot := a.Alloc(1)
	*slot = value.MakeInt(41)
	if slot.Int() != 41 {
		t.Errorf("slot readback = %d, want 41", slot.Int())
	}
}
