package iceberg

import "testing"

func TestWithL2Capacity_AppliedToShape(t *testing.T) {
	tbl, err := New(10, WithL2Capacity(4), WithMaxLgLgN(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tbl.L2Capacity(); got != 4 {
		t.Fatalf("L2Capacity() = %d; want 4", got)
	}
	if tbl.l2Slots != 4 {
		t.Fatalf("l2Slots = %d; want 4", tbl.l2Slots)
	}
}

func TestWithMaxLgLgN_WidensL2Slots(t *testing.T) {
	tbl, err := New(10, WithL2Capacity(8), WithMaxLgLgN(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tbl.l2Slots != 8+8/dChoices {
		t.Fatalf("l2Slots = %d; want %d", tbl.l2Slots, 8+8/dChoices)
	}
}

func TestWithSeeds_OverridesDefaults(t *testing.T) {
	custom := [numSeeds]uint64{1, 2, 3, 4, 5}
	tbl, err := New(10, WithSeeds(custom))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tbl.seeds != custom {
		t.Fatalf("seeds = %v; want %v", tbl.seeds, custom)
	}
}

func TestDefaultTableConfig_MatchesDocumentedDefaults(t *testing.T) {
	cfg := defaultTableConfig()
	if cfg.l2Capacity != 8 {
		t.Errorf("default l2Capacity = %d; want 8", cfg.l2Capacity)
	}
	if cfg.maxLgLgN != 4 {
		t.Errorf("default maxLgLgN = %d; want 4", cfg.maxLgLgN)
	}
	if cfg.seeds != defaultSeeds {
		t.Errorf("default seeds = %v; want %v", cfg.seeds, defaultSeeds)
	}
}
