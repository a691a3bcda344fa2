package bsp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RecordFormat describes a lump that is a flat array of fixed-size records.
//
// Layout is a compact field list: f float32, i int32, I uint32, h int16,
// H uint16, b int8, B uint8, each optionally prefixed with a repeat count
// ("4f" is four floats). All fields are little-endian and unpadded.
type RecordFormat struct {
	Name   string
	Layout string
}

var fieldSizes = map[byte]int{'f': 4, 'i': 4, 'I': 4, 'h': 2, 'H': 2, 'b': 1, 'B': 1}

// fields expands the layout into one code per field.
func (rf RecordFormat) fields() ([]byte, error) {
	var out []byte
	count := 0
	for i := 0; i < len(rf.Layout); i++ {
		c := rf.Layout[i]
		switch {
		case c >= '0' && c <= '9':
			count = count*10 + int(c-'0')
		case fieldSizes[c] > 0:
			if count == 0 {
				count = 1
			}
			for ; count > 0; count-- {
				out = append(out, c)
			}
		case c == ' ':
		default:
			return nil, fmt.Errorf("invalid field %q in record layout %q", c, rf.Layout)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty record layout %q", rf.Layout)
	}
	return out, nil
}

// Size returns the byte size of one record, 0 if the layout is invalid.
func (rf RecordFormat) Size() int {
	fields, err := rf.fields()
	if err != nil {
		return 0
	}
	size := 0
	for _, f := range fields {
		size += fieldSizes[f]
	}
	return size
}

// RecordLump is a decoded fixed-size record lump.
type RecordLump struct {
	Format RecordFormat
	raw    []byte
	fields []byte
	size   int
}

// DecodeRecords checks that raw is a whole number of records.
func DecodeRecords(format RecordFormat, raw []byte) (*RecordLump, error) {
	fields, err := format.fields()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecords, err)
	}
	size := format.Size()
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %s record size %d", ErrMalformedRecords, len(raw), format.Name, size)
	}
	return &RecordLump{Format: format, raw: raw, fields: fields, size: size}, nil
}

// Len returns the number of records.
func (r *RecordLump) Len() int {
	return len(r.raw) / r.size
}

// Record returns the field values of record i as int64, uint64 or float64.
func (r *RecordLump) Record(i int) []any {
	b := r.raw[i*r.size : (i+1)*r.size]
	values := make([]any, len(r.fields))
	pos := 0
	for j, f := range r.fields {
		switch f {
		case 'f':
			values[j] = float64(math.Float32frombits(BSPEndian.Uint32(b[pos:])))
		case 'i':
			values[j] = int64(int32(BSPEndian.Uint32(b[pos:])))
		case 'I':
			values[j] = uint64(BSPEndian.Uint32(b[pos:]))
		case 'h':
			values[j] = int64(int16(BSPEndian.Uint16(b[pos:])))
		case 'H':
			values[j] = uint64(BSPEndian.Uint16(b[pos:]))
		case 'b':
			values[j] = int64(int8(b[pos]))
		case 'B':
			values[j] = uint64(b[pos])
		}
		pos += fieldSizes[f]
	}
	return values
}

// Bytes returns the original bytes.
func (r *RecordLump) Bytes() ([]byte, error) {
	return r.raw, nil
}

// Lines renders one record per line, e.g. "Plane(0, 0, 1, 128)".
func (r *RecordLump) Lines() []string {
	lines := make([]string, r.Len())
	for i := range lines {
		lines[i] = r.format(r.Record(i))
	}
	return lines
}

func (r *RecordLump) format(values []any) string {
	var sb strings.Builder
	sb.WriteString(r.Format.Name)
	sb.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch v := v.(type) {
		case float64:
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 32))
		case int64:
			sb.WriteString(strconv.FormatInt(v, 10))
		case uint64:
			sb.WriteString(strconv.FormatUint(v, 10))
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
