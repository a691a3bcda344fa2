package branches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/bspgo/pkg/bsp"
)

func TestTitanfall2Layout(t *testing.T) {
	b := Titanfall2
	assert.Equal(t, 16, b.HeaderAddress(Titanfall2Entities))
	assert.Equal(t, 32, b.HeaderAddress(Titanfall2Planes))
	assert.Equal(t, 16+40*16, b.HeaderAddress(Titanfall2PakFile))
	assert.Equal(t, 2048, b.HeaderAddress(127))

	names := make(map[string]int)
	for i := 0; i < bsp.LumpCount; i++ {
		name := b.LumpName(i)
		require.NotEmpty(t, name, "lump %d", i)
		prev, dup := names[name]
		require.False(t, dup, "%s named at %d and %d", name, prev, i)
		names[name] = i
	}

	for name, want := range map[string]int{
		"ENTITIES":            Titanfall2Entities,
		"PLANES":              Titanfall2Planes,
		"VERTICES":            Titanfall2Vertices,
		"VERTEX_NORMALS":      Titanfall2VertexNormals,
		"GAME_LUMP":           Titanfall2GameLump,
		"PAKFILE":             Titanfall2PakFile,
		"TEXDATA_STRING_DATA": Titanfall2TexDataStringData,
		"MESH_INDICES":        Titanfall2MeshIndices,
	} {
		i, err := b.Index(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, i, name)
	}
}

func TestTitanfall2Codecs(t *testing.T) {
	tests := []struct {
		index int
		kind  bsp.CodecKind
	}{
		{Titanfall2Entities, bsp.CodecEntities},
		{Titanfall2Planes, bsp.CodecRecords},
		{Titanfall2GameLump, bsp.CodecGameLump},
		{Titanfall2PakFile, bsp.CodecPakFile},
		{Titanfall2TexDataStringData, bsp.CodecStringTable},
		{Titanfall2MeshIndices, bsp.CodecRecords},
	}
	for _, tt := range tests {
		kind, ok := Titanfall2.Codec(tt.index)
		assert.True(t, ok, Titanfall2.LumpName(tt.index))
		assert.Equal(t, tt.kind, kind, Titanfall2.LumpName(tt.index))
	}

	_, ok := Titanfall2.Codec(2)
	assert.False(t, ok, "TEXDATA has no codec")

	for i, f := range Titanfall2.Records {
		assert.NotZero(t, f.Size(), "%s layout %q", Titanfall2.LumpName(i), f.Layout)
	}
}

func TestLookup(t *testing.T) {
	b, ok := ByName("Titanfall2")
	require.True(t, ok)
	assert.Same(t, Titanfall2, b)

	b, ok = ByName("37")
	require.True(t, ok)
	assert.Same(t, Titanfall2, b)

	_, ok = ByName("quake")
	assert.False(t, ok)

	b, ok = Detect(bsp.FileHeader{Magic: bsp.RespawnMagic, Version: 37})
	require.True(t, ok)
	assert.Same(t, Titanfall2, b)

	_, ok = Detect(bsp.FileHeader{Magic: bsp.ValveMagic, Version: 37})
	assert.False(t, ok)
	_, ok = ByVersion(29)
	assert.False(t, ok)
}
