package iceberg

import (
	"fmt"
	"iter"
)

// Tuning constants, bit-exact per spec.md §6.
const (
	slotBits    = 6 // L1 slots per block = 1<<slotBits = 64
	fprintBits  = 8
	dChoices    = 2
	l2ScanWidth = 32 // metadata scan width for L2 blocks
)

// kv is one slot's payload. Fields are plain (non-atomic); the
// happens-before edge that makes them safe to read/write without their own
// synchronization comes from the paired atomic metadata store/load beside
// them (spec.md §5's ordering rules) — see metadata.go.
type kv struct {
	key, val uint64
}

type l1Block struct {
	slots [1 << slotBits]kv
}

type l2Block struct {
	slots [l2ScanWidth]kv
}

// Table is a fixed-capacity, concurrent, three-tier hash table mapping
// 64-bit keys to 64-bit values. See the package doc comment for an overview.
type Table struct {
	nblocks   uint64
	blockBits uint

	l1   []l1Block
	l1md []l1BlockMD
	l2   []l2Block
	l2md []l2BlockMD
	l3   []l3List

	counters ballCounters
	seeds    [numSeeds]uint64

	l2Slots int    // C_LV2 + maxLgLgN/DChoices, total usable slots per L2 block
	l2Mask  uint32 // (1<<l2Slots)-1
	l2Full  uint64 // C_LV2 * nblocks: L2 counter value at which L2 is full
	l2Cap   int    // C_LV2, kept for Stats/total-capacity accounting
}

// New builds a table with 2^logSlots primary slots. logSlots must be at
// least slotBits (6), since an L1 block holds 64 slots.
func New(logSlots int, opts ...Option) (*Table, error) {
	if logSlots < slotBits {
		return nil, fmt.Errorf("iceberg: logSlots must be >= %d: %w", slotBits, ErrInvalidShape)
	}

	cfg := defaultTableConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.l2Capacity <= 0 {
		return nil, fmt.Errorf("iceberg: l2 capacity must be positive: %w", ErrInvalidShape)
	}
	if cfg.maxLgLgN < 0 {
		return nil, fmt.Errorf("iceberg: maxLgLgN must be non-negative: %w", ErrInvalidShape)
	}

	l2Slots := cfg.l2Capacity + cfg.maxLgLgN/dChoices
	if l2Slots <= 0 || l2Slots > l2ScanWidth {
		return nil, fmt.Errorf("iceberg: l2 slots per block (%d) must be in (0, %d]: %w", l2Slots, l2ScanWidth, ErrInvalidShape)
	}

	blockBits := uint(logSlots - slotBits)
	nblocks := uint64(1) << blockBits

	t := &Table{
		nblocks:   nblocks,
		blockBits: blockBits,
		l1:        make([]l1Block, nblocks),
		l1md:      make([]l1BlockMD, nblocks),
		l2:        make([]l2Block, nblocks),
		l2md:      make([]l2BlockMD, nblocks),
		l3:        make([]l3List, nblocks),
		counters:  newBallCounters(),
		seeds:     cfg.seeds,
		l2Slots:   l2Slots,
		l2Mask:    uint32(1)<<uint(l2Slots) - 1,
		l2Full:    uint64(cfg.l2Capacity) * nblocks,
		l2Cap:     cfg.l2Capacity,
	}
	return t, nil
}

// Close releases resources held by the table. No-op: the backing storage is
// plain Go-GC-managed memory, so there is nothing to release explicitly —
// provided for API symmetry with the teacher's cache types.
func (*Table) Close() {}

// Insert adds (key, val) to the table, trying L1 then L2 then L3. It always
// reports true: the overflow tier can absorb any key that doesn't fit in
// the first two tiers, per spec.md §7. Duplicate keys are permitted; Get
// and Remove then operate on whichever matching physical slot they find
// first (spec.md §6's multi-map-on-physical-slots contract).
func (t *Table) Insert(key, val uint64, tid int) bool {
	fp, idx := t.split(t.hash1(key))
	md := &t.l1md[idx]

	mask := slotMask64(md, 0)
	popct := popcount64(mask)
	for i := 0; i < popct; i++ {
		slot := selectNth(mask, i)
		if md.slots[slot].CompareAndSwap(0, 1) {
			t.l1[idx].slots[slot] = kv{key: key, val: val}
			md.slots[slot].Store(fp) // release: publishes the committed slot
			t.counters.add(t.counters.lv1, 1, tid)
			return true
		}
		// CAS lost the race to a concurrent inserter: skip this slot,
		// try the next candidate from the same (stale) mask.
	}

	return t.insertL2(key, val, idx, tid)
}

// insertL2 implements spec.md §4.3's two-choice balancing: prefer whichever
// of the two candidate L2 blocks has strictly more empty slots, falling
// back to L3 once L2 as a whole is full or the chosen block is exhausted.
func (t *Table) insertL2(key, val uint64, l3Idx uint64, tid int) bool {
	if t.counters.lv2Balls() >= t.l2Full {
		return t.insertL3(key, val, l3Idx, tid)
	}

	fp1, idx1 := t.split(t.hash2(key, 0))
	fp2, idx2 := t.split(t.hash2(key, 1))

	md1 := &t.l2md[idx1]
	md2 := &t.l2md[idx2]
	m1 := slotMask32(md1, 0, t.l2Mask)
	m2 := slotMask32(md2, 0, t.l2Mask)
	p1 := popcount64(m1)
	p2 := popcount64(m2)

	fp, idx, md, mask, popct := fp1, idx1, md1, m1, p1
	if p2 > p1 {
		fp, idx, md, mask, popct = fp2, idx2, md2, m2, p2
	}

	for i := 0; i < popct; i++ {
		slot := selectNth(mask, i)
		if md.slots[slot].CompareAndSwap(0, 1) {
			t.l2[idx].slots[slot] = kv{key: key, val: val}
			md.slots[slot].Store(fp)
			t.counters.add(t.counters.lv2, 1, tid)
			return true
		}
	}

	return t.insertL3(key, val, l3Idx, tid)
}

func (t *Table) insertL3(key, val uint64, idx uint64, tid int) bool {
	t.l3[idx].insert(key, val)
	t.counters.add(t.counters.lv3, 1, tid)
	return true
}

// Get retrieves the value stored for key, searching L1, then both L2
// candidate blocks, then L3, in that order. It reports false on a miss.
//
// L1/L2 lookup is lock-free and safe against concurrent inserts on other
// slots. It is not safe against a concurrent Remove of the exact key being
// looked up — per spec.md §3/§5, Get may observe either the pre- or
// post-remove state in that case, never a corrupted one.
func (t *Table) Get(key uint64) (uint64, bool) {
	fp, idx := t.split(t.hash1(key))
	md := &t.l1md[idx]

	mask := slotMask64(md, fp)
	popct := popcount64(mask)
	for i := 0; i < popct; i++ {
		slot := selectNth(mask, i)
		if t.l1[idx].slots[slot].key == key {
			return t.l1[idx].slots[slot].val, true
		}
	}

	// Two-choice asymmetry (spec.md §9): insert picks the emptier block,
	// but lookup must probe both candidates unconditionally since load may
	// have shifted since insert.
	for i := 0; i < dChoices; i++ {
		fp2, idx2 := t.split(t.hash2(key, i))
		md2 := &t.l2md[idx2]
		mask2 := slotMask32(md2, fp2, t.l2Mask)
		popct2 := popcount64(mask2)
		for j := 0; j < popct2; j++ {
			slot := selectNth(mask2, j)
			if t.l2[idx2].slots[slot].key == key {
				return t.l2[idx2].slots[slot].val, true
			}
		}
	}

	return t.l3[idx].get(key)
}

// Remove deletes one slot matching key, searching in the same order as Get
// (L1, both L2 candidates, L3). It reports false if key was absent.
func (t *Table) Remove(key uint64, tid int) bool {
	fp, idx := t.split(t.hash1(key))
	md := &t.l1md[idx]

	mask := slotMask64(md, fp)
	popct := popcount64(mask)
	for i := 0; i < popct; i++ {
		slot := selectNth(mask, i)
		if t.l1[idx].slots[slot].key == key {
			md.slots[slot].Store(0) // release: commit point of the removal
			t.counters.add(t.counters.lv1, -1, tid)
			return true
		}
	}

	return t.removeL2(key, idx, tid)
}

func (t *Table) removeL2(key uint64, l3Idx uint64, tid int) bool {
	for i := 0; i < dChoices; i++ {
		fp, idx := t.split(t.hash2(key, i))
		md := &t.l2md[idx]
		mask := slotMask32(md, fp, t.l2Mask)
		popct := popcount64(mask)
		for j := 0; j < popct; j++ {
			slot := selectNth(mask, j)
			if t.l2[idx].slots[slot].key == key {
				md.slots[slot].Store(0)
				t.counters.add(t.counters.lv2, -1, tid)
				return true
			}
		}
	}

	return t.removeL3(key, l3Idx, tid)
}

func (t *Table) removeL3(key uint64, idx uint64, tid int) bool {
	if t.l3[idx].remove(key) {
		t.counters.add(t.counters.lv3, -1, tid)
		return true
	}
	return false
}

// L2Capacity returns C_LV2, the target average occupancy configured for the
// secondary tier (see WithL2Capacity).
func (t *Table) L2Capacity() int { return t.l2Cap }

// Lv1Balls returns the number of live entries currently in the primary tier.
func (t *Table) Lv1Balls() uint64 { return t.counters.lv1Balls() }

// Lv2Balls returns the number of live entries currently in the secondary tier.
func (t *Table) Lv2Balls() uint64 { return t.counters.lv2Balls() }

// Lv3Balls returns the number of live entries currently in the overflow tier.
func (t *Table) Lv3Balls() uint64 { return t.counters.lv3Balls() }

// TotBalls returns the total number of live entries across all tiers.
func (t *Table) TotBalls() uint64 { return t.counters.totBalls() }

// totalCapacity is lv3Balls (unbounded) plus the fixed L1+L2 capacity of
// every block, per spec.md §4.7.
func (t *Table) totalCapacity() uint64 {
	return t.counters.lv3Balls() + t.nblocks*((1<<slotBits)+uint64(t.l2Slots))
}

// LoadFactor returns tot_balls/total_capacity. Eventually consistent: the
// sharded counters it's built from may lag actual inserts/removes slightly.
func (t *Table) LoadFactor() float64 {
	return float64(t.TotBalls()) / float64(t.totalCapacity())
}

// TableStats bundles every counter/capacity figure Stats reports in one call.
type TableStats struct {
	Lv1Balls, Lv2Balls, Lv3Balls, TotBalls uint64
	Capacity                               uint64
	LoadFactor                             float64
}

// Stats returns a snapshot of the table's occupancy and capacity.
func (t *Table) Stats() TableStats {
	lv1 := t.counters.lv1Balls()
	lv2 := t.counters.lv2Balls()
	lv3 := t.counters.lv3Balls()
	capacity := lv3 + t.nblocks*((1<<slotBits)+uint64(t.l2Slots))
	tot := lv1 + lv2 + lv3
	return TableStats{
		Lv1Balls:   lv1,
		Lv2Balls:   lv2,
		Lv3Balls:   lv3,
		TotBalls:   tot,
		Capacity:   capacity,
		LoadFactor: float64(tot) / float64(capacity),
	}
}

// All returns an unordered iterator over every live (key, val) pair across
// all three tiers. It makes no ordering guarantee (spec.md's Non-goals
// explicitly exclude iteration order) and exists for tests/diagnostics, not
// as a load-bearing part of the insert/get/remove protocol.
func (t *Table) All() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		for idx := uint64(0); idx < t.nblocks; idx++ {
			md := &t.l1md[idx]
			for slot := 0; slot < len(md.slots); slot++ {
				if md.slots[slot].Load() >= 2 {
					kv := t.l1[idx].slots[slot]
					if !yield(kv.key, kv.val) {
						return
					}
				}
			}
		}
		for idx := uint64(0); idx < t.nblocks; idx++ {
			md := &t.l2md[idx]
			for slot := 0; slot < t.l2Slots; slot++ {
				if md.slots[slot].Load() >= 2 {
					kv := t.l2[idx].slots[slot]
					if !yield(kv.key, kv.val) {
						return
					}
				}
			}
		}
		for idx := range t.l3 {
			if !t.l3[idx].all(yield) {
				return
			}
		}
	}
}

// String returns a one-line summary of the table's shape and occupancy.
func (t *Table) String() string {
	s := t.Stats()
	return fmt.Sprintf("iceberg.Table{blocks: %d, balls: %d/%d, loadFactor: %.4f}",
		t.nblocks, s.TotBalls, s.Capacity, s.LoadFactor)
}
