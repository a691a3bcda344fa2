package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/bspgo/pkg/bsp"
	"github.com/user/bspgo/pkg/bspdiff"
)

// textRenderer writes a report in the classic per-lump layout:
//
//	NAME                        YYNY  NOPE
//
// followed by any detailed diff, indented.
type textRenderer struct {
	w     io.Writer
	equal lipgloss.Style
	diff  lipgloss.Style
	unk   lipgloss.Style
	del   lipgloss.Style
	add   lipgloss.Style
	hunk  lipgloss.Style
	dim   lipgloss.Style
}

// newTextRenderer styles output for w. Colour is dropped when w is not a
// terminal.
func newTextRenderer(w io.Writer) *textRenderer {
	r := lipgloss.NewRenderer(w)
	return &textRenderer{
		w:     w,
		equal: r.NewStyle().Foreground(lipgloss.Color("2")),
		diff:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		unk:   r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		del:   r.NewStyle().Foreground(lipgloss.Color("1")),
		add:   r.NewStyle().Foreground(lipgloss.Color("2")),
		hunk:  r.NewStyle().Foreground(lipgloss.Color("6")),
		dim:   r.NewStyle().Faint(true),
	}
}

const nameWidth = 28

func (t *textRenderer) verdict(c bspdiff.Content) string {
	switch c {
	case bspdiff.ContentEqual:
		return t.equal.Render("YES!")
	case bspdiff.ContentDiffers:
		return t.diff.Render("NOPE")
	}
	return t.unk.Render("????")
}

func (t *textRenderer) flags(h bspdiff.HeaderEquality) string {
	var b strings.Builder
	for _, c := range h.Flags() {
		if c == 'Y' {
			b.WriteString(t.equal.Render("Y"))
		} else {
			b.WriteString(t.diff.Render("N"))
		}
	}
	return b.String()
}

func (t *textRenderer) Render(r *bspdiff.Report) {
	if r.LeftBranch != r.RightBranch {
		fmt.Fprintf(t.w, "%s\n", t.dim.Render(fmt.Sprintf("comparing %s against %s", r.LeftBranch, r.RightBranch)))
	}
	for i := range r.Entries {
		e := &r.Entries[i]
		fmt.Fprintf(t.w, "%-*s  %s  %s\n", nameWidth, e.Name(), t.flags(e.Headers), t.verdict(e.Content))
		if e.Error != "" {
			fmt.Fprintf(t.w, "    %s\n", t.unk.Render(e.Error))
		}
		if e.Detail != nil {
			t.detail(e.Detail)
		}
	}
	for _, p := range r.Partitions {
		name := "ENTITIES_" + p.Name
		switch {
		case !p.LeftPresent:
			fmt.Fprintf(t.w, "%-*s  %s\n", nameWidth, name, t.add.Render("only in right"))
		case !p.RightPresent:
			fmt.Fprintf(t.w, "%-*s  %s\n", nameWidth, name, t.del.Render("only in left"))
		case p.Equal:
			fmt.Fprintf(t.w, "%-*s  %s\n", nameWidth, name, t.verdict(bspdiff.ContentEqual))
		default:
			fmt.Fprintf(t.w, "%-*s  %s\n", nameWidth, name, t.verdict(bspdiff.ContentDiffers))
		}
	}
}

func (t *textRenderer) detail(d bspdiff.Detail) {
	switch d := d.(type) {
	case *bspdiff.RecordDiff:
		t.lines(d.Lines, nil)
	case *bspdiff.ChunkDiff:
		t.lines(d.Lines, func(line int) string {
			return fmt.Sprintf("%08x ", line*d.ChunkSize)
		})
	case *bspdiff.EntitiesDiff:
		t.entities(d)
	case *bspdiff.PakDiff:
		t.pak(d)
	}
}

// lines prints unified-style hunks. prefix, if set, labels each line by its
// position on its own side.
func (t *textRenderer) lines(d *bspdiff.LineDiff, prefix func(int) string) {
	label := func(i int) string {
		if prefix == nil {
			return ""
		}
		return prefix(i)
	}
	for _, h := range d.Hunks {
		fmt.Fprintf(t.w, "    %s\n", t.hunk.Render(fmt.Sprintf("@@ -%s +%s @@", unifiedRange(h.Left), unifiedRange(h.Right))))
		for _, op := range h.Ops {
			if op.Tag == bspdiff.OpEqual {
				for i, l := range op.Lines {
					fmt.Fprintf(t.w, "     %s%s\n", label(op.Left.Start+i), l)
				}
				continue
			}
			for i, l := range op.Del {
				fmt.Fprintf(t.w, "    %s\n", t.del.Render("-"+label(op.Left.Start+i)+l))
			}
			for i, l := range op.Add {
				fmt.Fprintf(t.w, "    %s\n", t.add.Render("+"+label(op.Right.Start+i)+l))
			}
		}
	}
}

// unifiedRange formats r the way diff -u does: 1-based start, and the start
// of an empty range is the line before it.
func unifiedRange(r bspdiff.Range) string {
	start := r.Start + 1
	switch r.Len() {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, r.Len())
}

func (t *textRenderer) entities(d *bspdiff.EntitiesDiff) {
	if d.LeftCount != d.RightCount {
		fmt.Fprintf(t.w, "    %s\n", t.dim.Render(fmt.Sprintf("%d entities -> %d entities", d.LeftCount, d.RightCount)))
	}
	for _, ent := range d.Entities {
		fmt.Fprintf(t.w, "    Entity #%d {\n", ent.Position)
		for _, k := range ent.Keys {
			if k.Equal {
				for _, v := range k.Left {
					fmt.Fprintf(t.w, "       %q %q\n", k.Key, v)
				}
				continue
			}
			for _, v := range k.Left {
				fmt.Fprintf(t.w, "    %s\n", t.del.Render(fmt.Sprintf("-  %q %q", k.Key, v)))
			}
			for _, v := range k.Right {
				fmt.Fprintf(t.w, "    %s\n", t.add.Render(fmt.Sprintf("+  %q %q", k.Key, v)))
			}
		}
		fmt.Fprintf(t.w, "    }\n")
	}
}

func (t *textRenderer) pak(d *bspdiff.PakDiff) {
	for _, n := range d.Removed {
		fmt.Fprintf(t.w, "    %s\n", t.del.Render("- "+n))
	}
	for _, n := range d.Added {
		fmt.Fprintf(t.w, "    %s\n", t.add.Render("+ "+n))
	}
	for _, n := range d.Changed {
		fmt.Fprintf(t.w, "    %s\n", t.unk.Render("~ "+n))
	}
	fmt.Fprintf(t.w, "    %s\n", t.dim.Render(fmt.Sprintf("%d unchanged", len(d.Unchanged))))
}

// renderHeaders dumps the file header and every non-empty directory slot.
func renderHeaders(w io.Writer, label string, f *bsp.File) {
	fmt.Fprintf(w, "%s: %s branch, %d bytes\n", label, f.Branch.Name, f.Size())
	if f.Branch.HeaderBase >= bsp.FileHeaderSize {
		h := f.Header
		fmt.Fprintf(w, "  magic=%q version=%d revision=%d lump_limit=%d\n", h.MagicString(), h.Version, h.Revision, h.LumpLimit)
	}
	headers := f.Headers()
	for i, h := range headers {
		if h.Empty() {
			continue
		}
		fmt.Fprintf(w, "  %3d %-*s %s\n", i, nameWidth, f.LumpName(i), h)
	}
}
