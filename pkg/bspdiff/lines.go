package bspdiff

import (
	"encoding/hex"

	"github.com/pmezard/go-difflib/difflib"
)

// OpTag classifies a diff operation.
type OpTag string

const (
	OpEqual   OpTag = "equal"
	OpReplace OpTag = "replace"
	OpDelete  OpTag = "delete"
	OpInsert  OpTag = "insert"
)

// Range is a half-open line range [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Op is one operation of a hunk. Left lines are removed from the left side
// (or kept, for OpEqual), Right lines are added from the right side.
type Op struct {
	Tag   OpTag    `json:"tag"`
	Left  Range    `json:"left"`
	Right Range    `json:"right"`
	Lines []string `json:"lines,omitempty"` // OpEqual context
	Del   []string `json:"del,omitempty"`
	Add   []string `json:"add,omitempty"`
}

// Hunk is a group of changes with surrounding context.
type Hunk struct {
	Left  Range `json:"left"`
	Right Range `json:"right"`
	Ops   []Op  `json:"ops"`
}

// LineDiff is a line-oriented diff between two sequences.
type LineDiff struct {
	LeftLines  int    `json:"left_lines"`
	RightLines int    `json:"right_lines"`
	Hunks      []Hunk `json:"hunks"`
}

// Changes returns every non-equal operation across all hunks.
func (d *LineDiff) Changes() []Op {
	var out []Op
	for _, h := range d.Hunks {
		for _, op := range h.Ops {
			if op.Tag != OpEqual {
				out = append(out, op)
			}
		}
	}
	return out
}

var opTags = map[byte]OpTag{'e': OpEqual, 'r': OpReplace, 'd': OpDelete, 'i': OpInsert}

// diffLines compares two line sequences, keeping context lines around each
// change. Groups holding nothing but context are dropped.
//
// The common prefix and suffix are cut off before matching and the matcher
// runs with autojunk off, so a single changed line in a lump full of repeats
// (zero padding, identical records) is a single replace.
func diffLines(a, b []string, context int) *LineDiff {
	d := &LineDiff{LeftLines: len(a), RightLines: len(b)}
	codes := opCodes(a, b)
	if codes == nil {
		return d
	}
	for _, group := range groupOpCodes(codes, context) {
		var h Hunk
		changed := false
		for _, c := range group {
			op := Op{
				Tag:   opTags[c.Tag],
				Left:  Range{c.I1, c.I2},
				Right: Range{c.J1, c.J2},
			}
			if op.Tag == OpEqual {
				op.Lines = a[c.I1:c.I2]
			} else {
				changed = true
				op.Del = a[c.I1:c.I2]
				op.Add = b[c.J1:c.J2]
			}
			h.Ops = append(h.Ops, op)
		}
		if !changed {
			continue
		}
		h.Left = Range{group[0].I1, group[len(group)-1].I2}
		h.Right = Range{group[0].J1, group[len(group)-1].J2}
		d.Hunks = append(d.Hunks, h)
	}
	return d
}

// opCodes returns the edit script from a to b, or nil if they are equal.
func opCodes(a, b []string) []difflib.OpCode {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	if prefix == len(a) && prefix == len(b) {
		return nil
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	var codes []difflib.OpCode
	if prefix > 0 {
		codes = append(codes, difflib.OpCode{Tag: 'e', I1: 0, I2: prefix, J1: 0, J2: prefix})
	}
	m := difflib.NewMatcherWithJunk(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix], false, nil)
	for _, c := range m.GetOpCodes() {
		c.I1, c.I2 = c.I1+prefix, c.I2+prefix
		c.J1, c.J2 = c.J1+prefix, c.J2+prefix
		codes = append(codes, c)
	}
	if suffix > 0 {
		codes = append(codes, difflib.OpCode{Tag: 'e', I1: len(a) - suffix, I2: len(a), J1: len(b) - suffix, J2: len(b)})
	}
	return codes
}

// groupOpCodes splits codes into hunks with up to n lines of context, the
// way SequenceMatcher.GetGroupedOpCodes does for its own opcodes.
func groupOpCodes(codes []difflib.OpCode, n int) [][]difflib.OpCode {
	codes = append([]difflib.OpCode(nil), codes...)
	if c := codes[0]; c.Tag == 'e' {
		codes[0] = difflib.OpCode{Tag: 'e', I1: max(c.I1, c.I2-n), I2: c.I2, J1: max(c.J1, c.J2-n), J2: c.J2}
	}
	if c := codes[len(codes)-1]; c.Tag == 'e' {
		codes[len(codes)-1] = difflib.OpCode{Tag: 'e', I1: c.I1, I2: min(c.I2, c.I1+n), J1: c.J1, J2: min(c.J2, c.J1+n)}
	}

	var groups [][]difflib.OpCode
	var group []difflib.OpCode
	for _, c := range codes {
		i1, i2, j1, j2 := c.I1, c.I2, c.J1, c.J2
		if c.Tag == 'e' && i2-i1 > 2*n {
			group = append(group, difflib.OpCode{Tag: 'e', I1: i1, I2: min(i2, i1+n), J1: j1, J2: min(j2, j1+n)})
			groups = append(groups, group)
			group = nil
			i1, j1 = max(i1, i2-n), max(j1, j2-n)
		}
		group = append(group, difflib.OpCode{Tag: c.Tag, I1: i1, I2: i2, J1: j1, J2: j2})
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].Tag == 'e') {
		groups = append(groups, group)
	}
	return groups
}

// chunkLines splits data into size-byte chunks rendered as hex.
func chunkLines(data []byte, size int) []string {
	lines := make([]string, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		lines = append(lines, hex.EncodeToString(data[start:end]))
	}
	return lines
}
