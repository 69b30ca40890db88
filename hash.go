package iceberg

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// numSeeds mirrors the source's five-entry seed array. Only seeds[0]
// (primary tier) and seeds[1]/seeds[2] (the two secondary-tier choices) are
// currently consumed; seeds[3]/seeds[4] are reserved the same way the
// original reserves them for tiers this design doesn't use.
const numSeeds = 5

// defaultSeeds are used unless overridden by WithSeeds (tests only).
var defaultSeeds = [numSeeds]uint64{
	12351327692179052,
	23246347347385899,
	35236262354132235,
	13604702930934770,
	57439820692984798,
}

// keyedHash hashes key under the given seed using xxhash, the table's
// assumed external hash primitive (spec.md §1 leaves the exact primitive
// unspecified; xxhash is a real, widely used non-cryptographic 64-bit hash).
func keyedHash(key, seed uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], key)
	binary.LittleEndian.PutUint64(buf[8:16], seed)
	return xxhash.Sum64(buf[:])
}

// nonzeroFP guarantees the low fprintBits of h are neither 0 nor 1, freeing
// those two byte values for the empty/reserved sentinels.
func nonzeroFP(h uint64) uint64 {
	if h&((1<<fprintBits)-2) != 0 {
		return h
	}
	return h | 2
}

// hash1 computes the primary-tier keyed hash for key.
func (t *Table) hash1(key uint64) uint64 {
	return nonzeroFP(keyedHash(key, t.seeds[0]))
}

// hash2 computes the i-th secondary-tier keyed hash for key, i in [0, DChoices).
func (t *Table) hash2(key uint64, i int) uint64 {
	return nonzeroFP(keyedHash(key, t.seeds[i+1]))
}

// split derives (fingerprint, block index) from a keyed hash, per spec.md §4.1.
func (t *Table) split(h uint64) (fp uint8, idx uint64) {
	fp = uint8(h & 0xFF)
	idx = (h >> fprintBits) & (t.nblocks - 1)
	return fp, idx
}
