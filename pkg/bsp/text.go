package bsp

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText converts lump bytes to a string, replacing invalid UTF-8
// sequences with U+FFFD instead of failing.
func decodeText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		// The replacing decoder only fails on internal errors; keep the bytes.
		return string(raw)
	}
	return string(out)
}
