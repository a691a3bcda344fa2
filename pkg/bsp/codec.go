package bsp

import "fmt"

// Lump is the decoded form of a lump with a registered codec.
type Lump interface {
	// Bytes encodes the lump back to its raw form.
	Bytes() ([]byte, error)
	// Lines renders the lump one record per line, for display and diffing.
	Lines() []string
}

var (
	_ Lump = Entities(nil)
	_ Lump = StringTable(nil)
	_ Lump = (*PakFile)(nil)
	_ Lump = (*RecordLump)(nil)
	_ Lump = (*GameLump)(nil)
	_ Lump = (*Visibility)(nil)
)

// DecodeLump runs the codec of the given kind over raw. On failure the
// returned Lump is nil.
func DecodeLump(kind CodecKind, format RecordFormat, raw []byte) (Lump, error) {
	switch kind {
	case CodecRecords:
		r, err := DecodeRecords(format, raw)
		if err != nil {
			return nil, err
		}
		return r, nil
	case CodecEntities:
		e, err := DecodeEntities(raw)
		if err != nil {
			return nil, err
		}
		return e, nil
	case CodecPakFile:
		p, err := DecodePakFile(raw)
		if err != nil {
			return nil, err
		}
		return p, nil
	case CodecStringTable:
		return DecodeStringTable(raw), nil
	case CodecGameLump:
		_, err := DecodeGameLump(raw)
		return nil, err
	case CodecVisibility:
		_, err := DecodeVisibility(raw)
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCodec, kind)
}
