package render

import "github.com/cespare/xxhash/v2"

// labelInterner deduplicates repeated cell text across hashes, the same
// shared-pool role stringtable.StringTable plays for a workbook's shared
// strings, but built incrementally at render time and keyed by content
// hash instead of file order.
type labelInterner struct {
	strings []string
	byHash  map[uint64][]uint32
}

func newLabelInterner() *labelInterner {
	return &labelInterner{byHash: map[uint64][]uint32{}}
}

// Intern returns the id for s, allocating a new one if s has not been seen.
func (t *labelInterner) Intern(s string) uint32 {
	h := xxhash.Sum64String(s)
	for _, id := range t.byHash[h] {
		if t.strings[id] == s {
			return id
		}
	}
	id := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	t.byHash[h] = append(t.byHash[h], id)
	return id
}

// Get returns the interned string at id. It panics if id is out of range,
// matching stringtable.StringTable.Get's slice-index behavior.
func (t *labelInterner) Get(id uint32) string {
	return t.strings[id]
}

// Len returns the number of distinct strings interned so far.
func (t *labelInterner) Len() int {
	return len(t.strings)
}
