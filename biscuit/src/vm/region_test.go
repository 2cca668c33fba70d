package vm

import "testing"

func TestReserveFromEmpty(t *testing.T) {
	r := NewMappingRegion(0x1000)
	start, wrapped, err := r.Reserve(4)
	if err != 0 {
		t.Fatalf("Reserve: %v", err)
	}
	if wrapped {
		t.Fatalf("unexpected wrap from empty region")
	}
	if start != 0 {
		t.Fatalf("start = %d, want 0", start)
	}
	if r.Tail() != 4 {
		t.Fatalf("tail = %d, want 4", r.Tail())
	}
}

func TestReserveFillsRegion(t *testing.T) {
	r := NewMappingRegion(0)
	if _, _, err := r.Reserve(CapacityPages); err != 0 {
		t.Fatalf("Reserve: %v", err)
	}
	if !r.Full() {
		t.Fatalf("region should be full")
	}
	if r.Head() != r.Tail() {
		t.Fatalf("head=%d tail=%d, want equal when full", r.Head(), r.Tail())
	}
	if _, _, err := r.Reserve(1); err == 0 {
		t.Fatalf("expected NoSpace reserving into a full region")
	}
}

func TestReserveWrapsWhenTailRunTooSmall(t *testing.T) {
	r := NewMappingRegion(0)
	// Consume pages [0,28) then free the first 8, leaving a tail run of
	// only 4 pages but a head-prefix run of 8.
	if _, _, err := r.Reserve(28); err != 0 {
		t.Fatalf("Reserve: %v", err)
	}
	r.ReleaseHead(8)
	if r.Head() != 8 {
		t.Fatalf("head = %d, want 8", r.Head())
	}
	start, wrapped, err := r.Reserve(6)
	if err != 0 {
		t.Fatalf("Reserve: %v", err)
	}
	if !wrapped {
		t.Fatalf("expected wrap: tail run was only 4 pages, head prefix had 8")
	}
	if start != 0 {
		t.Fatalf("start = %d, want 0 (wrapped reservation starts at page 0)", start)
	}
}

func TestReserveFailsWhenNeitherRunFits(t *testing.T) {
	r := NewMappingRegion(0)
	r.Reserve(28)
	r.ReleaseHead(2) // head=2, tail=28: tail-run=4, head-prefix=2, neither fits 5
	if _, _, err := r.Reserve(5); err == 0 {
		t.Fatalf("expected NoSpace: tail run 4 and head prefix 2 both too small for 5")
	}
}

func TestReleaseTailUnwindsWrap(t *testing.T) {
	r := NewMappingRegion(0)
	r.tail = 2
	r.ReleaseTail(1)
	if r.Tail() != 1 {
		t.Fatalf("tail = %d, want 1", r.Tail())
	}
	r.tail = 0
	r.ReleaseTail(1)
	if r.Tail() != CapacityPages-1 {
		t.Fatalf("tail = %d, want wraparound to %d", r.Tail(), CapacityPages-1)
	}
}

func TestRecomputeTailEmptyResetsToZero(t *testing.T) {
	r := NewMappingRegion(0)
	r.tail = 7
	r.RecomputeTail(nil)
	if r.Tail() != 0 {
		t.Fatalf("tail = %d, want 0 for no live mappings", r.Tail())
	}
}

func TestRecomputeTailUsesHighestLiveEnd(t *testing.T) {
	r := NewMappingRegion(0)
	live := []*Mapping_t{
		{Start: 0, End: 4096},
		{Start: 8192, End: 12288},
	}
	r.RecomputeTail(live)
	if r.Tail() != 3 {
		t.Fatalf("tail = %d, want 3 (12288 bytes -> 3 pages)", r.Tail())
	}
}
