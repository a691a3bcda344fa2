package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/bspgo/pkg/bspdiff"
)

func TestRenderReport(t *testing.T) {
	report := &bspdiff.Report{
		LeftBranch:  "titanfall2",
		RightBranch: "titanfall2",
		Entries: []bspdiff.Entry{
			{
				Left:     bspdiff.Side{Name: "PAKFILE"},
				Right:    bspdiff.Side{Name: "PAKFILE"},
				Headers:  bspdiff.HeaderEquality{Offset: true, Length: false, Version: true, FourCC: true},
				Content:  bspdiff.ContentDiffers,
				Strategy: bspdiff.StrategyPakFile,
				Detail: &bspdiff.PakDiff{
					Removed:   []string{"old.vmt"},
					Added:     []string{"new.vmt"},
					Changed:   []string{"scripts/level.nut"},
					Unchanged: []string{"a", "b"},
				},
			},
			{
				Left:     bspdiff.Side{Name: "UNKNOWN_4"},
				Right:    bspdiff.Side{Name: "UNKNOWN_4"},
				Headers:  bspdiff.HeaderEquality{Offset: true, Length: true, Version: true, FourCC: true},
				Content:  bspdiff.ContentDiffers,
				Strategy: bspdiff.StrategyChunks,
				Detail: &bspdiff.ChunkDiff{
					ChunkSize: 32,
					LeftSize:  64,
					RightSize: 64,
					Lines: &bspdiff.LineDiff{
						LeftLines:  2,
						RightLines: 2,
						Hunks: []bspdiff.Hunk{{
							Left:  bspdiff.Range{Start: 0, End: 2},
							Right: bspdiff.Range{Start: 0, End: 2},
							Ops: []bspdiff.Op{
								{Tag: bspdiff.OpEqual, Left: bspdiff.Range{Start: 0, End: 1}, Right: bspdiff.Range{Start: 0, End: 1}, Lines: []string{"aaaa"}},
								{Tag: bspdiff.OpReplace, Left: bspdiff.Range{Start: 1, End: 2}, Right: bspdiff.Range{Start: 1, End: 2}, Del: []string{"bbbb"}, Add: []string{"cccc"}},
							},
						}},
					},
				},
			},
			{
				Left:    bspdiff.Side{Name: "VERTICES"},
				Right:   bspdiff.Side{Name: "VERTICES"},
				Content: bspdiff.ContentIndeterminate,
				Error:   "lump 3 (VERTICES): out of range",
			},
		},
		Partitions: []bspdiff.PartitionResult{
			{Name: "env", LeftPresent: true, RightPresent: true, Equal: true},
			{Name: "snd", LeftPresent: true},
		},
	}

	var buf bytes.Buffer
	newTextRenderer(&buf).Render(report)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	assert.Equal(t, []string{
		"PAKFILE                       YNYY  NOPE",
		"    - old.vmt",
		"    + new.vmt",
		"    ~ scripts/level.nut",
		"    2 unchanged",
		"UNKNOWN_4                     YYYY  NOPE",
		"    @@ -1,2 +1,2 @@",
		"     00000000 aaaa",
		"    -00000020 bbbb",
		"    +00000020 cccc",
		"VERTICES                      NNNN  ????",
		"    lump 3 (VERTICES): out of range",
		"ENTITIES_env                  YES!",
		"ENTITIES_snd                  only in left",
	}, lines)
}
