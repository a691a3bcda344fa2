package bsp

import (
	"bytes"
	"strings"
)

// StringTable is a run of NUL-terminated strings, e.g. TEXDATA_STRING_DATA.
// A table decoded from bytes ending in NUL keeps a trailing "" entry; that
// entry is the terminator of the last string, not a missing string.
type StringTable []string

// DecodeStringTable splits raw on NUL. Each segment is decoded permissively.
func DecodeStringTable(raw []byte) StringTable {
	parts := bytes.Split(raw, []byte{0})
	table := make(StringTable, len(parts))
	for i, p := range parts {
		table[i] = decodeText(p)
	}
	return table
}

// Bytes joins the strings with NUL and terminates the last one. A table of
// two or more entries that already ends in the "" terminator entry is not
// terminated twice, so DecodeStringTable followed by Bytes returns the
// original bytes. A lone "" is one empty string and encodes as a single NUL.
func (t StringTable) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	for i, s := range t {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(s)
	}
	if len(t) < 2 || t[len(t)-1] != "" {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

// Lines returns one line per string, terminator entry included.
func (t StringTable) Lines() []string {
	return []string(t)
}

// Entries returns the strings without the trailing terminator entry.
func (t StringTable) Entries() []string {
	if n := len(t); n > 0 && t[n-1] == "" {
		return t[:n-1]
	}
	return t
}

// At returns the string starting at byte offset off of the encoded table,
// as referenced by TEXDATA_STRING_TABLE entries.
func (t StringTable) At(off int) (string, bool) {
	raw, _ := t.Bytes()
	if off < 0 || off >= len(raw) {
		return "", false
	}
	end := bytes.IndexByte(raw[off:], 0)
	return string(raw[off : off+end]), true
}

func (t StringTable) String() string {
	return strings.Join(t.Entries(), ", ")
}
