package bsp

import (
	"fmt"
	"strconv"
)

// CodecKind tags how a lump's raw bytes are decoded.
type CodecKind uint8

const (
	CodecNone CodecKind = iota
	CodecRecords
	CodecEntities
	CodecPakFile
	CodecStringTable
	CodecGameLump
	CodecVisibility
)

func (k CodecKind) String() string {
	switch k {
	case CodecNone:
		return "none"
	case CodecRecords:
		return "records"
	case CodecEntities:
		return "entities"
	case CodecPakFile:
		return "pakfile"
	case CodecStringTable:
		return "string-table"
	case CodecGameLump:
		return "game-lump"
	case CodecVisibility:
		return "visibility"
	}
	return "codec(" + strconv.Itoa(int(k)) + ")"
}

// Branch describes one game's version of the format: where the lump
// directory starts, what each index is called and which lumps need decoding.
// Branches are plain data and are never modified after construction.
type Branch struct {
	Name       string
	Version    uint32
	Magic      uint32
	HeaderBase int // address of directory slot 0
	Lumps      [LumpCount]string
	Codecs     map[int]CodecKind    // special lumps
	Records    map[int]RecordFormat // fixed-size record lumps
	Partitions []string             // entity partition file suffixes, e.g. "env"
}

// LumpName returns the name of index i, or UNKNOWN_<i> if the branch leaves
// it unnamed.
func (b *Branch) LumpName(i int) string {
	if i < 0 || i >= LumpCount {
		return "INVALID_" + strconv.Itoa(i)
	}
	if name := b.Lumps[i]; name != "" {
		return name
	}
	return "UNKNOWN_" + strconv.Itoa(i)
}

// Index resolves a lump name to its index.
func (b *Branch) Index(name string) (int, error) {
	for i := range b.Lumps {
		if b.Lumps[i] == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q is not a %s lump", ErrUnknownLump, name, b.Name)
}

// Codec reports which codec, if any, the branch registers for index i.
func (b *Branch) Codec(i int) (CodecKind, bool) {
	if kind, ok := b.Codecs[i]; ok && kind != CodecNone {
		return kind, true
	}
	if _, ok := b.Records[i]; ok {
		return CodecRecords, true
	}
	return CodecNone, false
}

// IndexOf returns the first index registered with the given codec kind.
func (b *Branch) IndexOf(kind CodecKind) (int, bool) {
	for i := 0; i < LumpCount; i++ {
		if k, ok := b.Codec(i); ok && k == kind {
			return i, true
		}
	}
	return -1, false
}

// HeaderAddress returns the file offset of directory slot i.
func (b *Branch) HeaderAddress(i int) int {
	return b.HeaderBase + i*LumpHeaderSize
}

// headerRegionEnd is the smallest file size that holds the whole directory.
func (b *Branch) headerRegionEnd() int {
	return b.HeaderAddress(LumpCount)
}
