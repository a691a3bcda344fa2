package bspdiff

import (
	"github.com/user/bspgo/pkg/bsp"
)

// RecordDiff diffs the printable record form of two decoded lumps.
type RecordDiff struct {
	Lines *LineDiff `json:"lines"`
}

// Strategy returns StrategyRecords.
func (*RecordDiff) Strategy() Strategy { return StrategyRecords }

func diffRecords(left, right bsp.Lump, context int) *RecordDiff {
	return &RecordDiff{Lines: diffLines(left.Lines(), right.Lines(), context)}
}

// KeyDiff compares one key of an entity pair. A nil side means the key is
// absent there, which is not the same as a present empty value.
type KeyDiff struct {
	Key   string   `json:"key"`
	Left  []string `json:"left"`
	Right []string `json:"right"`
	Equal bool     `json:"equal"`
}

// LeftPresent reports whether the left entity has the key.
func (k KeyDiff) LeftPresent() bool { return k.Left != nil }

// RightPresent reports whether the right entity has the key.
func (k KeyDiff) RightPresent() bool { return k.Right != nil }

// EntityDiff is one differing entity, every key included so the change can
// be shown in place.
type EntityDiff struct {
	Position int       `json:"position"`
	Keys     []KeyDiff `json:"keys"`
}

// EntitiesDiff compares entities position by position up to the shorter
// list; extra entities on one side only show in the counts.
type EntitiesDiff struct {
	LeftCount  int          `json:"left_count"`
	RightCount int          `json:"right_count"`
	Entities   []EntityDiff `json:"entities"`
}

// Strategy returns StrategyEntities.
func (*EntitiesDiff) Strategy() Strategy { return StrategyEntities }

func diffEntities(left, right bsp.Entities) *EntitiesDiff {
	d := &EntitiesDiff{LeftCount: len(left), RightCount: len(right)}
	for i := 0; i < min(len(left), len(right)); i++ {
		a, b := left[i], right[i]
		if a.Equal(b) {
			continue
		}
		d.Entities = append(d.Entities, EntityDiff{Position: i, Keys: diffKeys(a, b)})
	}
	return d
}

// diffKeys walks the left keys in order, then keys only the right has.
func diffKeys(a, b *bsp.Entity) []KeyDiff {
	var keys []KeyDiff
	seen := make(map[string]bool, a.Len())
	for _, k := range a.Keys() {
		seen[k] = true
		keys = append(keys, keyDiff(k, a.Values(k), b.Values(k)))
	}
	for _, k := range b.Keys() {
		if !seen[k] {
			keys = append(keys, keyDiff(k, nil, b.Values(k)))
		}
	}
	return keys
}

func keyDiff(key string, left, right []string) KeyDiff {
	equal := left != nil && right != nil && len(left) == len(right)
	if equal {
		for i := range left {
			if left[i] != right[i] {
				equal = false
				break
			}
		}
	}
	return KeyDiff{Key: key, Left: left, Right: right, Equal: equal}
}

// PakDiff compares the member lists of two embedded archives. Members on both
// sides are Unchanged unless their CRC32 or size differs, then Changed.
type PakDiff struct {
	Removed   []string `json:"removed"`
	Added     []string `json:"added"`
	Unchanged []string `json:"unchanged"`
	Changed   []string `json:"changed"`
}

// Strategy returns StrategyPakFile.
func (*PakDiff) Strategy() Strategy { return StrategyPakFile }

func diffPakFiles(left, right *bsp.PakFile) *PakDiff {
	d := &PakDiff{}
	rightMembers := make(map[string]bsp.PakMember)
	for _, m := range right.Members() {
		rightMembers[m.Name] = m
	}
	leftNames := make(map[string]bool)
	for _, m := range left.Members() {
		leftNames[m.Name] = true
		other, ok := rightMembers[m.Name]
		switch {
		case !ok:
			d.Removed = append(d.Removed, m.Name)
		case other.CRC32 != m.CRC32 || other.Size != m.Size:
			d.Changed = append(d.Changed, m.Name)
		default:
			d.Unchanged = append(d.Unchanged, m.Name)
		}
	}
	for _, m := range right.Members() {
		if !leftNames[m.Name] {
			d.Added = append(d.Added, m.Name)
		}
	}
	return d
}

// ChunkDiff diffs opaque bytes as a sequence of fixed-size hex chunks, so a
// change localises to a chunk-aligned byte range.
type ChunkDiff struct {
	ChunkSize int       `json:"chunk_size"`
	LeftSize  int       `json:"left_size"`
	RightSize int       `json:"right_size"`
	Lines     *LineDiff `json:"lines"`
}

// Strategy returns StrategyChunks.
func (*ChunkDiff) Strategy() Strategy { return StrategyChunks }

// ByteRange is a half-open byte range on each side.
type ByteRange struct {
	Left  Range `json:"left"`
	Right Range `json:"right"`
}

// ByteRanges converts every changed chunk run into byte offsets.
func (c *ChunkDiff) ByteRanges() []ByteRange {
	var out []ByteRange
	for _, op := range c.Lines.Changes() {
		out = append(out, ByteRange{
			Left:  c.toBytes(op.Left, c.LeftSize),
			Right: c.toBytes(op.Right, c.RightSize),
		})
	}
	return out
}

func (c *ChunkDiff) toBytes(r Range, size int) Range {
	return Range{
		Start: min(r.Start*c.ChunkSize, size),
		End:   min(r.End*c.ChunkSize, size),
	}
}

func diffChunks(left, right []byte, chunkSize, context int) *ChunkDiff {
	return &ChunkDiff{
		ChunkSize: chunkSize,
		LeftSize:  len(left),
		RightSize: len(right),
		Lines:     diffLines(chunkLines(left, chunkSize), chunkLines(right, chunkSize), context),
	}
}
