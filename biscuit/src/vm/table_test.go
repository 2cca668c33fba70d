package vm

import "testing"

func TestAllocSlotAndDrop(t *testing.T) {
	tbl := &MappingTable_t{}
	i, err := tbl.AllocSlot()
	if err != 0 {
		t.Fatalf("AllocSlot: %v", err)
	}
	tbl.Set(i, &Mapping_t{Start: 0x1000, End: 0x2000})
	if got, ok := tbl.FindByStart(0x1000); !ok || got != i {
		t.Fatalf("FindByStart = (%d,%v), want (%d,true)", got, ok, i)
	}
	tbl.Drop(i)
	if _, ok := tbl.FindByStart(0x1000); ok {
		t.Fatalf("dropped slot still found")
	}
}

func TestAllocSlotTooManyMaps(t *testing.T) {
	tbl := &MappingTable_t{}
	for i := 0; i < MaxMaps; i++ {
		slot, err := tbl.AllocSlot()
		if err != 0 {
			t.Fatalf("AllocSlot %d: %v", i, err)
		}
		tbl.Set(slot, &Mapping_t{Start: uintptr(i)})
	}
	if _, err := tbl.AllocSlot(); err == 0 {
		t.Fatalf("expected TooManyMaps after filling all %d slots", MaxMaps)
	}
}

func TestFindByEndAndLive(t *testing.T) {
	tbl := &MappingTable_t{}
	a := &Mapping_t{Start: 0, End: 0x1000}
	b := &Mapping_t{Start: 0x1000, End: 0x3000}
	sa, _ := tbl.AllocSlot()
	tbl.Set(sa, a)
	sb, _ := tbl.AllocSlot()
	tbl.Set(sb, b)

	if i, ok := tbl.FindByEnd(0x3000); !ok || tbl.Get(i) != b {
		t.Fatalf("FindByEnd did not locate b")
	}
	live := tbl.Live()
	if len(live) != 2 {
		t.Fatalf("Live() len = %d, want 2", len(live))
	}
}

func TestMappingSharedFlag(t *testing.T) {
	shared := &Mapping_t{Flags: MAP_SHARED}
	private := &Mapping_t{Flags: MAP_PRIVATE}
	if !shared.Shared() {
		t.Fatalf("MAP_SHARED mapping should report Shared()")
	}
	if private.Shared() {
		t.Fatalf("MAP_PRIVATE mapping should not report Shared()")
	}
}
