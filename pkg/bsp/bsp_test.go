package bsp_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/bspgo/internal/bsptest"
	"github.com/user/bspgo/pkg/bsp"
)

func TestHeaderAddress(t *testing.T) {
	for _, base := range []int{0, 8, 16} {
		branch := &bsp.Branch{Name: "b", HeaderBase: base}
		prevEnd := -1
		for i := 0; i < bsp.LumpCount; i++ {
			addr := branch.HeaderAddress(i)
			assert.Equal(t, base+i*16, addr)
			assert.GreaterOrEqual(t, addr, prevEnd, "slot %d overlaps slot %d", i, i-1)
			prevEnd = addr + bsp.LumpHeaderSize
		}
	}
}

func TestLoadParsesDirectory(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Revision = 7
	b.SetLump(2, bsptest.Lump{Data: []byte("opaque!"), Version: 3, FourCC: 0x1234})
	b.Set(1, make([]byte, 32))

	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	assert.Equal(t, "rBSP", f.Header.MagicString())
	assert.Equal(t, uint32(1), f.Header.Version)
	assert.Equal(t, uint32(7), f.Header.Revision)
	assert.Equal(t, uint32(127), f.Header.LumpLimit)

	h := f.LumpHeader(2)
	assert.Equal(t, uint32(7), h.Length)
	assert.Equal(t, uint32(3), h.Version)
	assert.Equal(t, uint32(0x1234), h.FourCC)

	raw, err := f.Raw(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("opaque!"), raw)

	raw, err = f.RawByName("PLANES")
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	_, err = f.RawByName("NOPE")
	assert.ErrorIs(t, err, bsp.ErrUnknownLump)

	headers := f.Headers()
	assert.Equal(t, h, headers[2])
	assert.True(t, headers[100].Empty())
}

func TestLoadTooShort(t *testing.T) {
	data := make([]byte, 16+128*16-1)
	_, err := bsp.Load(data, bsptest.TestBranch)
	require.Error(t, err)
	assert.ErrorIs(t, err, bsp.ErrMalformedContainer)

	// exactly the header region is enough
	_, err = bsp.Load(make([]byte, 16+128*16), bsptest.TestBranch)
	assert.NoError(t, err)
}

func TestRawEmptyLumpSkipsRangeCheck(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	// offset far beyond the file, but zero length
	b.SetLump(9, bsptest.Lump{Header: &bsp.LumpHeader{Offset: 0xFFFFFFF0, Length: 0}})
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	raw, err := f.Raw(9)
	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Empty(t, raw)

	raw, err = f.Raw(50)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestRawOutOfRange(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.SetLump(2, bsptest.Lump{Header: &bsp.LumpHeader{Offset: 16 + 128*16, Length: 100}})
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	_, err = f.Raw(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, bsp.ErrOutOfRange)

	var lumpErr *bsp.LumpError
	require.True(t, errors.As(err, &lumpErr))
	assert.Equal(t, 2, lumpErr.Index)
	assert.Equal(t, "OPAQUE", lumpErr.Name)

	_, err = f.Raw(128)
	assert.ErrorIs(t, err, bsp.ErrUnknownLump)
	_, err = f.Raw(-1)
	assert.ErrorIs(t, err, bsp.ErrUnknownLump)
}

func TestRawOffsetOverflow(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.SetLump(2, bsptest.Lump{Header: &bsp.LumpHeader{Offset: 0xFFFFFFFF, Length: 0xFFFFFFFF}})
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)
	_, err = f.Raw(2)
	assert.ErrorIs(t, err, bsp.ErrOutOfRange)
}

func TestRawIsBoundedView(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Set(2, []byte("abc"))
	b.Set(7, []byte{1, 0, 2, 0})
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	raw, err := f.Raw(2)
	require.NoError(t, err)
	assert.Equal(t, 3, cap(raw), "appending must not reach into the next lump")
}

func TestOpenFile(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Set(2, []byte("from disk"))
	path := filepath.Join(t.TempDir(), "test.bsp")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))

	f, err := bsp.Open(path, bsptest.TestBranch)
	require.NoError(t, err)
	raw, err := f.Raw(2)
	require.NoError(t, err)
	assert.Equal(t, "from disk", string(raw))

	_, err = bsp.Open(filepath.Join(t.TempDir(), "missing.bsp"), bsptest.TestBranch)
	assert.Error(t, err)
}

func TestLoadCompressed(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Set(2, bytes.Repeat([]byte("compressible "), 64))
	plain := b.Bytes()

	var lz4Buf bytes.Buffer
	lw := lz4.NewWriter(&lz4Buf)
	_, err := lw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstdData := enc.EncodeAll(plain, nil)
	require.NoError(t, enc.Close())

	for name, data := range map[string][]byte{"lz4": lz4Buf.Bytes(), "zstd": zstdData} {
		t.Run(name, func(t *testing.T) {
			f, err := bsp.Load(data, bsptest.TestBranch)
			require.NoError(t, err)
			assert.Equal(t, len(plain), f.Size())
			raw, err := f.Raw(2)
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte("compressible "), 64), raw)
		})
	}

	t.Run("corrupt lz4", func(t *testing.T) {
		data := append([]byte{0x04, 0x22, 0x4D, 0x18}, 0xFF, 0xFF, 0xFF)
		_, err := bsp.Load(data, bsptest.TestBranch)
		assert.ErrorIs(t, err, bsp.ErrMalformedContainer)
	})
}

func TestParseFileHeader(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(bsp.RespawnMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(37))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(127))

	h, err := bsp.ParseFileHeader(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(37), h.Version)
	assert.Equal(t, "rBSP", h.MagicString())

	_, err = bsp.ParseFileHeader(buf.Bytes()[:8])
	assert.ErrorIs(t, err, bsp.ErrMalformedContainer)
}

func TestPeekFileHeader(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Revision = 9
	b.Set(2, bytes.Repeat([]byte("compressible "), 64))
	plain := b.Bytes()

	var lz4Buf bytes.Buffer
	lw := lz4.NewWriter(&lz4Buf)
	_, err := lw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstdData := enc.EncodeAll(plain, nil)
	require.NoError(t, enc.Close())

	for name, data := range map[string][]byte{"plain": plain, "lz4": lz4Buf.Bytes(), "zstd": zstdData} {
		t.Run(name, func(t *testing.T) {
			h, err := bsp.PeekFileHeader(data)
			require.NoError(t, err)
			assert.Equal(t, uint32(bsp.RespawnMagic), h.Magic)
			assert.Equal(t, bsptest.TestBranch.Version, h.Version)
			assert.Equal(t, uint32(9), h.Revision)
		})
	}

	_, err = bsp.PeekFileHeader(plain[:10])
	assert.ErrorIs(t, err, bsp.ErrMalformedContainer)
	_, err = bsp.PeekFileHeader([]byte{0x04, 0x22, 0x4D, 0x18, 0xFF, 0xFF, 0xFF})
	assert.ErrorIs(t, err, bsp.ErrMalformedContainer)
}

func TestCodecCapability(t *testing.T) {
	br := bsptest.TestBranch
	cases := []struct {
		index int
		kind  bsp.CodecKind
		ok    bool
	}{
		{0, bsp.CodecEntities, true},
		{1, bsp.CodecRecords, true},
		{2, bsp.CodecNone, false},
		{3, bsp.CodecPakFile, true},
		{4, bsp.CodecVisibility, true},
		{5, bsp.CodecGameLump, true},
		{6, bsp.CodecStringTable, true},
		{7, bsp.CodecRecords, true},
		{99, bsp.CodecNone, false},
	}
	for _, tc := range cases {
		kind, ok := br.Codec(tc.index)
		assert.Equal(t, tc.kind, kind, "index %d", tc.index)
		assert.Equal(t, tc.ok, ok, "index %d", tc.index)
	}
	assert.Equal(t, "UNKNOWN_99", br.LumpName(99))
	i, ok := br.IndexOf(bsp.CodecPakFile)
	assert.True(t, ok)
	assert.Equal(t, 3, i)
}

func TestDecodeCachesResult(t *testing.T) {
	ents := []byte("{\n\"classname\" \"worldspawn\"\n}\n")
	b := bsptest.New(bsptest.TestBranch)
	b.Set(0, ents)
	b.Set(6, []byte("a\x00b\x00"))
	b.Set(1, make([]byte, 32))
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	first, err := f.Entities()
	require.NoError(t, err)
	second, err := f.Entities()
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Same(t, first[0], second[0])

	st, err := f.StringTable(6)
	require.NoError(t, err)
	assert.Equal(t, bsp.StringTable{"a", "b", ""}, st)

	planes, err := f.Records(1)
	require.NoError(t, err)
	assert.Equal(t, 2, planes.Len())

	_, err = f.StringTable(1)
	assert.ErrorIs(t, err, bsp.ErrNoCodec)
	_, err = f.Decode(2)
	assert.ErrorIs(t, err, bsp.ErrNoCodec)
	assert.False(t, f.Decodable(2))
	assert.True(t, f.Decodable(0))
}

func TestDecodeConcurrent(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Set(0, []byte("{\n\"classname\" \"worldspawn\"\n}\n"))
	b.Set(1, make([]byte, 64))
	b.Set(3, bsptest.Zip([2]string{"a.txt", "a"}))
	b.Set(6, []byte("not a zip, but a fine string table\x00"))
	b.Set(4, []byte{1, 2, 3, 4})
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	const workers = 16
	lumps := []int{0, 1, 3, 4, 6}
	results := make([][]bsp.Lump, workers)
	errs := make([][]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for _, i := range lumps {
				l, err := f.Decode(i)
				results[w] = append(results[w], l)
				errs[w] = append(errs[w], err)
			}
		}(w)
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for j, i := range lumps {
			assert.Equal(t, errs[0][j], errs[w][j], "lump %d", i)
		}
		// pointer-backed codecs must hand out the one cached value
		assert.Same(t, results[0][1], results[w][1])
		assert.Same(t, results[0][2], results[w][2])
		assert.Same(t, results[0][0].(bsp.Entities)[0], results[w][0].(bsp.Entities)[0])
	}
	assert.ErrorIs(t, errs[0][3], bsp.ErrUnsupportedLump)
	for j := range lumps {
		if j != 3 {
			assert.NoError(t, errs[0][j], "lump %d", lumps[j])
		}
	}
}

func TestDecodeFailuresAreLocal(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	b.Set(0, []byte("{\n\"classname\" \"worldspawn\"\n}\n"))
	b.Set(3, []byte("not a zip"))
	b.Set(4, []byte{1, 0, 0, 0})
	b.Set(5, []byte{1, 0, 0, 0})
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch)
	require.NoError(t, err)

	_, err = f.PakFile()
	assert.ErrorIs(t, err, bsp.ErrInvalidArchive)
	var lumpErr *bsp.LumpError
	require.ErrorAs(t, err, &lumpErr)
	assert.Equal(t, "PAKFILE", lumpErr.Name)

	_, err = f.Decode(4)
	assert.ErrorIs(t, err, bsp.ErrUnsupportedLump)
	assert.Contains(t, err.Error(), "VISIBILITY")

	_, err = f.Decode(5)
	assert.ErrorIs(t, err, bsp.ErrUnsupportedLump)
	assert.Contains(t, err.Error(), "GAME_LUMP")

	ents, err := f.Entities()
	require.NoError(t, err)
	assert.Len(t, ents, 1)
}

func TestPartitions(t *testing.T) {
	b := bsptest.New(bsptest.TestBranch)
	f, err := bsp.Load(b.Bytes(), bsptest.TestBranch,
		bsp.WithPartition("script", []byte("{\n\"classname\" \"info_target\"\n}")),
		bsp.WithPartition("env", []byte("{\n\"classname\" \"env_fog\"\n}")),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"env", "script"}, f.PartitionNames())
	raw, ok := f.Partition("env")
	require.True(t, ok)
	assert.Contains(t, string(raw), "env_fog")

	ents, err := f.PartitionEntities("script")
	require.NoError(t, err)
	require.Len(t, ents, 1)
	v, _ := ents[0].Get("classname")
	assert.Equal(t, "info_target", v)

	_, err = f.PartitionEntities("snd")
	assert.Error(t, err)
}
