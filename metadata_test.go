package iceberg

import "testing"

func TestSlotMask64_FindsMatches(t *testing.T) {
	var md l1BlockMD
	md.slots[3].Store(42)
	md.slots[17].Store(42)
	md.slots[40].Store(7)

	mask := slotMask64(&md, 42)
	if popcount64(mask) != 2 {
		t.Fatalf("popcount = %d; want 2", popcount64(mask))
	}
	if mask&(1<<3) == 0 || mask&(1<<17) == 0 {
		t.Fatalf("mask %064b missing expected bits", mask)
	}
	if mask&(1<<40) != 0 {
		t.Fatalf("mask %064b unexpectedly matched slot 40", mask)
	}
}

func TestSlotMask64_EmptyScan(t *testing.T) {
	var md l1BlockMD
	md.slots[0].Store(5)
	md.slots[1].Store(0) // explicit, redundant with zero value
	md.slots[2].Store(9)

	mask := slotMask64(&md, 0)
	want := uint64(1) << 1
	for i := 3; i < len(md.slots); i++ {
		want |= 1 << uint(i)
	}
	if mask != want {
		t.Fatalf("empty mask = %064b; want %064b", mask, want)
	}
}

func TestSlotMask32_RespectsBlockMask(t *testing.T) {
	var md l2BlockMD
	md.slots[0].Store(9)
	md.slots[20].Store(9) // beyond a narrow block mask

	blockMask := uint32(1<<10 - 1) // only slots [0,10) are "real"
	mask := slotMask32(&md, 9, blockMask)
	if mask != 1 {
		t.Fatalf("mask = %032b; want only bit 0 set", mask)
	}
}

func TestSelectNth_WalksSetBitsInOrder(t *testing.T) {
	mask := uint64(0b1011_0100) // bits 2, 4, 5, 7
	want := []uint8{2, 4, 5, 7}

	for i, w := range want {
		if got := selectNth(mask, i); got != w {
			t.Errorf("selectNth(mask, %d) = %d; want %d", i, got, w)
		}
	}
}

func TestPopcount64(t *testing.T) {
	if got := popcount64(0xFF); got != 8 {
		t.Errorf("popcount64(0xFF) = %d; want 8", got)
	}
	if got := popcount64(0); got != 0 {
		t.Errorf("popcount64(0) = %d; want 0", got)
	}
}
