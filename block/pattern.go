package block

// patternTable assigns a stable id to each distinct sorted key-id tuple
// observed across a block's variants, issuing ids in first-sight order.
type patternTable struct {
	idByHash map[uint64]int
	keys     [][]int32 // pattern id -> sorted key tuple
	perSite  []int     // pattern id assigned to each variant, in append order
}

func newPatternTable() *patternTable {
	return &patternTable{idByHash: make(map[uint64]int)}
}

// Observe assigns (issuing if new) a pattern id to keys and records it as
// the pattern for the next variant.
func (t *patternTable) Observe(keys []int32) int {
	h := patternHash(keys)
	if id, ok := t.idByHash[h]; ok {
		t.perSite = append(t.perSite, id)

		return id
	}

	id := len(t.keys)
	t.idByHash[h] = id
	stored := append([]int32(nil), keys...)
	t.keys = append(t.keys, stored)
	t.perSite = append(t.perSite, id)

	return id
}

// Matrix builds the 2-D bit matrix (row = pattern id, column = local key
// index within globalKeys) plus the column-to-global-key id vector.
// matrix[pattern][localKeyIndex] = 1 iff that key participates in that
// pattern. Row width is ceil(K/8) bytes where K = len(globalKeys).
func (t *patternTable) Matrix(globalKeys []int32) (rows [][]byte, keyOrder []int32) {
	localIndex := make(map[int32]int, len(globalKeys))
	for i, k := range globalKeys {
		localIndex[k] = i
	}

	rowWidth := (len(globalKeys) + 7) / 8
	rows = make([][]byte, len(t.keys))
	for pid, keys := range t.keys {
		row := make([]byte, rowWidth)
		for _, k := range keys {
			idx, ok := localIndex[k]
			if !ok {
				continue
			}
			row[idx/8] |= 1 << uint(idx%8)
		}
		rows[pid] = row
	}

	return rows, globalKeys
}

// GlobalKeys returns the union of every key id seen across all patterns,
// sorted ascending, suitable as the column ordering passed to Matrix.
func (t *patternTable) GlobalKeys() []int32 {
	seen := make(map[int32]struct{})
	var out []int32
	for _, keys := range t.keys {
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	sortInt32s(out)

	return out
}
