package bsp

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedContainer is returned when the byte source is too short for
	// the header region or can not be decompressed.
	ErrMalformedContainer = errors.New("bsp: malformed container")

	// ErrOutOfRange is returned when a lump's offset+length runs past the end
	// of the byte source.
	ErrOutOfRange = errors.New("bsp: lump out of range")

	// ErrMalformedEntityText is returned when entity text has an unexpected line.
	ErrMalformedEntityText = errors.New("bsp: malformed entity text")

	// ErrInvalidArchive is returned when a pakfile lump is not a zip archive.
	ErrInvalidArchive = errors.New("bsp: invalid archive")

	// ErrUnsupportedLump is returned when decoding or encoding a lump whose
	// format is not understood (game lump, visibility).
	ErrUnsupportedLump = errors.New("bsp: unsupported lump")

	// ErrUnknownLump is returned for an index outside the directory or a name
	// the branch does not define.
	ErrUnknownLump = errors.New("bsp: unknown lump")

	// ErrMalformedRecords is returned when a record lump's length is not a
	// multiple of its record size.
	ErrMalformedRecords = errors.New("bsp: malformed records")

	// ErrNoCodec is returned by Decode for lumps without a registered codec.
	ErrNoCodec = errors.New("bsp: no codec registered")
)

// LumpError attaches the lump's index and branch name to a failure.
type LumpError struct {
	Index int
	Name  string
	Err   error
}

func (e *LumpError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("lump %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("lump %s (%d): %v", e.Name, e.Index, e.Err)
}

func (e *LumpError) Unwrap() error {
	return e.Err
}

// EntityTextError reports the line that broke entity parsing.
type EntityTextError struct {
	Line    int // 1-based
	Content string
	Reason  string
}

func (e *EntityTextError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unexpected line in entities: L%d: %q: %s", e.Line, e.Content, e.Reason)
	}
	return fmt.Sprintf("unexpected line in entities: L%d: %q", e.Line, e.Content)
}

func (e *EntityTextError) Is(target error) bool {
	return target == ErrMalformedEntityText
}

// UnsupportedLumpError names the lump a codec refuses to handle and why.
type UnsupportedLumpError struct {
	Lump   string
	Reason string
}

func (e *UnsupportedLumpError) Error() string {
	return fmt.Sprintf("%s lump is not supported: %s", e.Lump, e.Reason)
}

func (e *UnsupportedLumpError) Is(target error) bool {
	return target == ErrUnsupportedLump
}
