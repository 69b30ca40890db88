// Package iceberg provides a concurrent, in-memory, bounded-load hash table
// mapping 64-bit keys to 64-bit values.
//
// Records are distributed across three tiers of increasing flexibility: a
// large primary tier of cache-line-sized blocks, a smaller secondary tier
// balanced across two hash choices, and an unbounded overflow tier. Every
// slot carries an 8-bit fingerprint of its key so that a miss can usually be
// rejected without touching the key itself. The table never resizes — its
// shape is fixed at construction — and insertion always succeeds because the
// overflow tier absorbs anything the first two tiers can't hold.
//
// Example:
//
//	t, err := iceberg.New(20) // 2^20 primary slots
//	if err != nil {
//	    return err
//	}
//
//	t.Insert(7, 100, 0)
//	v, ok := t.Get(7)   // v == 100, ok == true
//	t.Remove(7, 0)
//	_, ok = t.Get(7)    // ok == false
package iceberg
