// Package bsptest builds small BSP files in memory for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zip"

	"github.com/user/bspgo/pkg/bsp"
)

// Lump is one directory slot to write. Header, if set, overrides the offset
// and length the builder would compute, which lets tests write corrupt slots.
type Lump struct {
	Data    []byte
	Version uint32
	FourCC  uint32
	Header  *bsp.LumpHeader
}

// Builder lays out a file header, the 128 slot directory and then every
// lump payload in index order, each padded to 4 bytes.
type Builder struct {
	Branch   *bsp.Branch
	Revision uint32
	Lumps    map[int]Lump
}

// New returns a builder for branch.
func New(branch *bsp.Branch) *Builder {
	return &Builder{Branch: branch, Lumps: make(map[int]Lump)}
}

// Set stores data at index i with a zero version and fourCC.
func (b *Builder) Set(i int, data []byte) *Builder {
	b.Lumps[i] = Lump{Data: data}
	return b
}

// SetLump stores a full slot description at index i.
func (b *Builder) SetLump(i int, l Lump) *Builder {
	b.Lumps[i] = l
	return b
}

// Bytes serialises the file.
func (b *Builder) Bytes() []byte {
	dirEnd := b.Branch.HeaderAddress(bsp.LumpCount)
	out := make([]byte, dirEnd)
	if b.Branch.HeaderBase >= bsp.FileHeaderSize {
		binary.LittleEndian.PutUint32(out[0:4], b.Branch.Magic)
		binary.LittleEndian.PutUint32(out[4:8], b.Branch.Version)
		binary.LittleEndian.PutUint32(out[8:12], b.Revision)
		binary.LittleEndian.PutUint32(out[12:16], bsp.LumpCount-1)
	}

	var payload bytes.Buffer
	for i := 0; i < bsp.LumpCount; i++ {
		l, ok := b.Lumps[i]
		if !ok {
			continue
		}
		h := bsp.LumpHeader{Version: l.Version, FourCC: l.FourCC}
		if len(l.Data) > 0 {
			h.Offset = uint32(dirEnd + payload.Len())
			h.Length = uint32(len(l.Data))
			payload.Write(l.Data)
			for payload.Len()%4 != 0 {
				payload.WriteByte(0)
			}
		}
		if l.Header != nil {
			h = *l.Header
		}
		slot := out[b.Branch.HeaderAddress(i):]
		binary.LittleEndian.PutUint32(slot[0:4], h.Offset)
		binary.LittleEndian.PutUint32(slot[4:8], h.Length)
		binary.LittleEndian.PutUint32(slot[8:12], h.Version)
		binary.LittleEndian.PutUint32(slot[12:16], h.FourCC)
	}
	return append(out, payload.Bytes()...)
}

// Zip builds a stored zip archive holding the given name/content pairs in
// order.
func Zip(members ...[2]string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, m := range members {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: m[0], Method: zip.Store})
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write([]byte(m[1])); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Pattern returns n bytes where no aligned 32 byte chunk repeats.
func Pattern(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte((i*7 + i/32*13) % 251)
	}
	return out
}

// TestBranch is a small branch with every codec kind registered.
var TestBranch = &bsp.Branch{
	Name:       "test",
	Version:    1,
	Magic:      bsp.RespawnMagic,
	HeaderBase: 16,
	Lumps: [bsp.LumpCount]string{
		0: "ENTITIES",
		1: "PLANES",
		2: "OPAQUE",
		3: "PAKFILE",
		4: "VISIBILITY",
		5: "GAME_LUMP",
		6: "STRING_DATA",
		7: "INDICES",
	},
	Codecs: map[int]bsp.CodecKind{
		0: bsp.CodecEntities,
		3: bsp.CodecPakFile,
		4: bsp.CodecVisibility,
		5: bsp.CodecGameLump,
		6: bsp.CodecStringTable,
	},
	Records: map[int]bsp.RecordFormat{
		1: {Name: "Plane", Layout: "4f"},
		7: {Name: "Index", Layout: "H"},
	},
	Partitions: []string{"env", "script"},
}
