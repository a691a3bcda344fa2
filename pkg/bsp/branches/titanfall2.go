package branches

import "github.com/user/bspgo/pkg/bsp"

// Titanfall 2 lump indices with a codec or record format.
const (
	Titanfall2Entities           = 0
	Titanfall2Planes             = 1
	Titanfall2Vertices           = 3
	Titanfall2VertexNormals      = 30
	Titanfall2GameLump           = 35
	Titanfall2PakFile            = 40
	Titanfall2TexDataStringData  = 43
	Titanfall2TexDataStringTable = 44
	Titanfall2MeshIndices        = 79
)

// Titanfall2 is the rBSP v37 layout. UNKNOWN_ lumps hold data nobody has
// identified yet; UNUSED_ lumps are always empty. Roughly 72 of the 128 lumps are
// shipped beside the map as <map>.<hex index>.bsp_lump files, and entities are
// split across five .ent partition files.
var Titanfall2 = &bsp.Branch{
	Name:       "titanfall2",
	Version:    37,
	Magic:      bsp.RespawnMagic,
	HeaderBase: 16,
	Lumps: [bsp.LumpCount]string{
		0:   "ENTITIES",
		1:   "PLANES",
		2:   "TEXDATA",
		3:   "VERTICES",
		4:   "UNKNOWN_4",
		5:   "UNKNOWN_5",
		6:   "UNKNOWN_6",
		7:   "UNKNOWN_7",
		8:   "UNKNOWN_8",
		9:   "UNKNOWN_9",
		10:  "UNUSED_10",
		11:  "UNKNOWN_11",
		12:  "UNKNOWN_12",
		13:  "UNKNOWN_13",
		14:  "MODELS",
		15:  "UNUSED_15",
		16:  "UNUSED_16",
		17:  "UNUSED_17",
		18:  "UNUSED_18",
		19:  "UNUSED_19",
		20:  "UNUSED_20",
		21:  "UNUSED_21",
		22:  "UNUSED_22",
		23:  "UNUSED_23",
		24:  "ENTITY_PARTITIONS",
		25:  "UNUSED_25",
		26:  "UNUSED_26",
		27:  "UNUSED_27",
		28:  "UNUSED_28",
		29:  "PHYS_COLLIDE",
		30:  "VERTEX_NORMALS",
		31:  "UNUSED_31",
		32:  "UNUSED_32",
		33:  "UNUSED_33",
		34:  "UNUSED_34",
		35:  "GAME_LUMP",
		36:  "LEAF_WATERDATA",
		37:  "UNUSED_37",
		38:  "UNUSED_38",
		39:  "UNUSED_39",
		40:  "PAKFILE",
		41:  "UNUSED_41",
		42:  "CUBEMAPS",
		43:  "TEXDATA_STRING_DATA",
		44:  "TEXDATA_STRING_TABLE",
		45:  "UNUSED_45",
		46:  "UNUSED_46",
		47:  "UNUSED_47",
		48:  "UNUSED_48",
		49:  "UNUSED_49",
		50:  "UNUSED_50",
		51:  "UNUSED_51",
		52:  "UNUSED_52",
		53:  "UNUSED_53",
		54:  "WORLDLIGHTS_HDR",
		55:  "UNKNOWN_55",
		56:  "UNUSED_56",
		57:  "UNUSED_57",
		58:  "UNUSED_58",
		59:  "UNUSED_59",
		60:  "UNUSED_60",
		61:  "UNUSED_61",
		62:  "PHYS_LEVEL",
		63:  "UNUSED_63",
		64:  "UNUSED_64",
		65:  "UNUSED_65",
		66:  "TRICOLL_TRIS",
		67:  "UNUSED_67",
		68:  "TRICOLL_NODES",
		69:  "TRICOLL_HEADERS",
		70:  "PHYSTRIS",
		71:  "VERTS_UNLIT",
		72:  "VERTS_LIT_FLAT",
		73:  "VERTS_LIT_BUMP",
		74:  "VERTS_UNLIT_TS",
		75:  "VERTS_BLINN_PHONG",
		76:  "VERTS_RESERVED_5",
		77:  "VERTS_RESERVED_6",
		78:  "VERTS_RESERVED_7",
		79:  "MESH_INDICES",
		80:  "MESHES",
		81:  "MESH_BOUNDS",
		82:  "MATERIAL_SORT",
		83:  "LIGHTMAP_HEADERS",
		84:  "LIGHTMAP_DATA_DXT5",
		85:  "CM_GRID",
		86:  "CM_GRIDCELLS",
		87:  "CM_GEO_SETS",
		88:  "CM_GEO_SET_BOUNDS",
		89:  "CM_PRIMS",
		90:  "CM_PRIM_BOUNDS",
		91:  "CM_UNIQUE_CONTENTS",
		92:  "CM_BRUSHES",
		93:  "CM_BRUSH_SIDE_PLANE_OFFSETS",
		94:  "CM_BRUSH_SIDE_PROPS",
		95:  "CM_BRUSH_TEX_VECS",
		96:  "TRICOLL_BEVEL_STARTS",
		97:  "TRICOLL_BEVEL_INDICES",
		98:  "LIGHTMAP_DATA_SKY",
		99:  "CSM_AABB_NODES",
		100: "CSM_OBJ_REFS",
		101: "LIGHTPROBES",
		102: "STATIC_PROP_LIGHTPROBE_INDEX",
		103: "LIGHTPROBE_TREE",
		104: "LIGHTPROBE_REFS",
		105: "LIGHTMAP_DATA_REAL_TIME_LIGHTS",
		106: "CELL_BSP_NODES",
		107: "CELLS",
		108: "PORTALS",
		109: "PORTAL_VERTS",
		110: "PORTAL_EDGES",
		111: "PORTAL_VERT_EDGES",
		112: "PORTAL_VERT_REFS",
		113: "PORTAL_EDGE_REFS",
		114: "PORTAL_EDGE_ISECT_EDGE",
		115: "PORTAL_EDGE_ISECT_AT_VERT",
		116: "PORTAL_EDGE_ISECT_HEADER",
		117: "OCCLUSION_MESH_VERTS",
		118: "OCCLUSION_MESH_INDICES",
		119: "CELL_AABB_NODES",
		120: "OBJ_REFS",
		121: "OBJ_REF_BOUNDS",
		122: "UNKNOWN_122",
		123: "LEVEL_INFO",
		124: "SHADOW_MESH_OPAQUE_VERTS",
		125: "SHADOW_MESH_ALPHA_VERTS",
		126: "SHADOW_MESH_INDICES",
		127: "SHADOW_MESH_MESHES",
	},
	Codecs: map[int]bsp.CodecKind{
		Titanfall2Entities:          bsp.CodecEntities,
		Titanfall2GameLump:          bsp.CodecGameLump,
		Titanfall2PakFile:           bsp.CodecPakFile,
		Titanfall2TexDataStringData: bsp.CodecStringTable,
	},
	Records: map[int]bsp.RecordFormat{
		Titanfall2Planes:             {Name: "Plane", Layout: "4f"},
		Titanfall2Vertices:           {Name: "Vertex", Layout: "3f"},
		Titanfall2VertexNormals:      {Name: "VertexNormal", Layout: "3f"},
		Titanfall2TexDataStringTable: {Name: "TexDataStringTable", Layout: "i"},
		Titanfall2MeshIndices:        {Name: "MeshIndex", Layout: "H"},
	},
	Partitions: []string{"env", "fx", "script", "snd", "spawn"},
}
