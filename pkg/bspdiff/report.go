package bspdiff

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/user/bspgo/pkg/bsp"
)

// Content is the outcome of comparing two lumps' bytes.
type Content uint8

const (
	ContentEqual Content = iota
	ContentDiffers
	// ContentIndeterminate means at least one side's bytes could not be read.
	ContentIndeterminate
)

func (c Content) String() string {
	switch c {
	case ContentEqual:
		return "equal"
	case ContentDiffers:
		return "differs"
	case ContentIndeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("content(%d)", uint8(c))
}

// MarshalText encodes the content as its name.
func (c Content) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Strategy names how a detailed diff was produced.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	StrategyRecords
	StrategyEntities
	StrategyPakFile
	StrategyChunks
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyRecords:
		return "records"
	case StrategyEntities:
		return "entities"
	case StrategyPakFile:
		return "pakfile"
	case StrategyChunks:
		return "chunks"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// MarshalText encodes the strategy as its name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HeaderEquality flags which directory fields match.
type HeaderEquality struct {
	Offset  bool `json:"offset"`
	Length  bool `json:"length"`
	Version bool `json:"version"`
	FourCC  bool `json:"fourcc"`
}

// All reports whether every field matches.
func (h HeaderEquality) All() bool {
	return h.Offset && h.Length && h.Version && h.FourCC
}

// Flags renders the four flags as Y/N in offset, length, version, fourCC order.
func (h HeaderEquality) Flags() string {
	yn := func(b bool) byte {
		if b {
			return 'Y'
		}
		return 'N'
	}
	return string([]byte{yn(h.Offset), yn(h.Length), yn(h.Version), yn(h.FourCC)})
}

func compareHeaders(a, b bsp.LumpHeader) HeaderEquality {
	return HeaderEquality{
		Offset:  a.Offset == b.Offset,
		Length:  a.Length == b.Length,
		Version: a.Version == b.Version,
		FourCC:  a.FourCC == b.FourCC,
	}
}

// Side identifies one half of a compared pair.
type Side struct {
	Index  int            `json:"index"`
	Name   string         `json:"name"`
	Header bsp.LumpHeader `json:"header"`
	Digest string         `json:"digest,omitempty"` // BLAKE3-256, hex
}

// Entry is the comparison of one lump pair.
type Entry struct {
	Left     Side           `json:"left"`
	Right    Side           `json:"right"`
	Headers  HeaderEquality `json:"headers"`
	Content  Content        `json:"content"`
	Error    string         `json:"error,omitempty"`
	Strategy Strategy       `json:"strategy,omitempty"`
	Detail   Detail         `json:"detail,omitempty"`

	// Err is the failure behind ContentIndeterminate.
	Err error `json:"-" cbor:"-"`
}

// Name returns the lump name, or "LEFT/RIGHT" when the branches disagree.
func (e *Entry) Name() string {
	if e.Left.Name == e.Right.Name {
		return e.Left.Name
	}
	return e.Left.Name + "/" + e.Right.Name
}

// Detail is the body of a detailed diff: *RecordDiff, *EntitiesDiff,
// *PakDiff or *ChunkDiff.
type Detail interface {
	Strategy() Strategy
}

// PartitionResult compares one entity partition file.
type PartitionResult struct {
	Name         string `json:"name"`
	LeftPresent  bool   `json:"left_present"`
	RightPresent bool   `json:"right_present"`
	Equal        bool   `json:"equal"`
}

// Report is the result of diffing two files.
type Report struct {
	LeftBranch  string            `json:"left_branch"`
	RightBranch string            `json:"right_branch"`
	Entries     []Entry           `json:"entries"`
	Partitions  []PartitionResult `json:"partitions,omitempty"`
}

// Differing returns the entries whose content is not known to be equal.
func (r *Report) Differing() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Content != ContentEqual {
			out = append(out, e)
		}
	}
	return out
}

// Equal reports whether every lump and partition matched.
func (r *Report) Equal() bool {
	if len(r.Differing()) > 0 {
		return false
	}
	for _, p := range r.Partitions {
		if !p.Equal {
			return false
		}
	}
	return true
}

// EncodeJSON writes the report as indented JSON.
func (r *Report) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	return nil
}

var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	cborEncMode, err = opts.EncMode()
	if err != nil {
		panic("bspdiff: CBOR encoder initialization failed: " + err.Error())
	}
}

// EncodeCBOR writes the report as deterministic CBOR.
func (r *Report) EncodeCBOR(w io.Writer) error {
	if err := cborEncMode.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to encode report as CBOR: %w", err)
	}
	return nil
}
