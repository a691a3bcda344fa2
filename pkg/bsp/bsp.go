package bsp

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// File is a parsed BSP container. The byte source and lump directory are
// fixed at construction; decoded lumps are computed on first use and cached.
// A File is safe for concurrent use.
type File struct {
	Branch *Branch
	Header FileHeader

	data       []byte
	headers    [LumpCount]LumpHeader
	partitions map[string][]byte

	mu      sync.Mutex
	decoded map[int]decodeResult
}

type decodeResult struct {
	lump Lump
	err  error
}

// Open reads the whole file at path and parses it with branch.
func Open(path string, branch *Branch, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	f, err := Load(data, branch, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return f, nil
}

// Load parses data with branch. data is retained and must not be modified
// afterwards. LZ4 or zstd framed input is decompressed first.
func Load(data []byte, branch *Branch, opts ...Option) (*File, error) {
	if branch == nil {
		return nil, errors.New("bsp: nil branch")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	data, err := Inflate(data)
	if err != nil {
		return nil, err
	}
	if need := branch.headerRegionEnd(); len(data) < need {
		return nil, fmt.Errorf("%w: %d bytes, %s lump directory ends at %d", ErrMalformedContainer, len(data), branch.Name, need)
	}

	f := &File{
		Branch:     branch,
		data:       data,
		partitions: o.partitions,
		decoded:    make(map[int]decodeResult),
	}
	if branch.HeaderBase >= FileHeaderSize {
		f.Header = parseFileHeader(data[:FileHeaderSize])
	}
	for i := 0; i < LumpCount; i++ {
		addr := branch.HeaderAddress(i)
		f.headers[i] = parseLumpHeader(data[addr : addr+LumpHeaderSize])
	}
	return f, nil
}

// Size returns the length of the (decompressed) byte source.
func (f *File) Size() int {
	return len(f.data)
}

// LumpName returns the branch's name for index i.
func (f *File) LumpName(i int) string {
	return f.Branch.LumpName(i)
}

// LumpHeader returns directory slot i. Out of range indices yield a zero header.
func (f *File) LumpHeader(i int) LumpHeader {
	if i < 0 || i >= LumpCount {
		return LumpHeader{}
	}
	return f.headers[i]
}

// Headers returns a copy of the whole lump directory.
func (f *File) Headers() [LumpCount]LumpHeader {
	return f.headers
}

// Raw returns the bytes of lump i as a view into the byte source. An empty
// lump returns an empty slice without looking at its offset.
func (f *File) Raw(i int) ([]byte, error) {
	if i < 0 || i >= LumpCount {
		return nil, &LumpError{Index: i, Err: fmt.Errorf("%w: index %d", ErrUnknownLump, i)}
	}
	h := f.headers[i]
	if h.Empty() {
		return []byte{}, nil
	}
	end := h.End()
	if end > uint64(len(f.data)) {
		return nil, &LumpError{
			Index: i,
			Name:  f.LumpName(i),
			Err:   fmt.Errorf("%w: offset %d + length %d exceeds file size %d", ErrOutOfRange, h.Offset, h.Length, len(f.data)),
		}
	}
	return f.data[h.Offset:end:end], nil
}

// RawByName returns the bytes of the lump the branch calls name.
func (f *File) RawByName(name string) ([]byte, error) {
	i, err := f.Branch.Index(name)
	if err != nil {
		return nil, err
	}
	return f.Raw(i)
}

// Decodable reports whether the branch registers a codec for lump i.
func (f *File) Decodable(i int) bool {
	_, ok := f.Branch.Codec(i)
	return ok
}

// Decode returns the decoded form of lump i. The codec runs at most once per
// lump; its result, failure included, is cached.
func (f *File) Decode(i int) (Lump, error) {
	kind, ok := f.Branch.Codec(i)
	if !ok {
		return nil, &LumpError{Index: i, Name: f.LumpName(i), Err: ErrNoCodec}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.decoded[i]; ok {
		return r.lump, r.err
	}

	var r decodeResult
	raw, err := f.Raw(i)
	if err != nil {
		r.err = err
	} else if r.lump, err = DecodeLump(kind, f.Branch.Records[i], raw); err != nil {
		r.err = &LumpError{Index: i, Name: f.LumpName(i), Err: err}
	}
	f.decoded[i] = r
	return r.lump, r.err
}

// lumpOfKind decodes the first lump registered with kind.
func (f *File) lumpOfKind(kind CodecKind) (Lump, error) {
	i, ok := f.Branch.IndexOf(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s lump", ErrNoCodec, f.Branch.Name, kind)
	}
	return f.Decode(i)
}

// Entities decodes the branch's entities lump.
func (f *File) Entities() (Entities, error) {
	l, err := f.lumpOfKind(CodecEntities)
	if err != nil {
		return nil, err
	}
	return l.(Entities), nil
}

// PakFile decodes the branch's embedded archive lump.
func (f *File) PakFile() (*PakFile, error) {
	l, err := f.lumpOfKind(CodecPakFile)
	if err != nil {
		return nil, err
	}
	return l.(*PakFile), nil
}

// StringTable decodes lump i as a string table.
func (f *File) StringTable(i int) (StringTable, error) {
	if kind, _ := f.Branch.Codec(i); kind != CodecStringTable {
		return nil, &LumpError{Index: i, Name: f.LumpName(i), Err: fmt.Errorf("%w: not a string table", ErrNoCodec)}
	}
	l, err := f.Decode(i)
	if err != nil {
		return nil, err
	}
	return l.(StringTable), nil
}

// Records decodes lump i as fixed-size records.
func (f *File) Records(i int) (*RecordLump, error) {
	if kind, _ := f.Branch.Codec(i); kind != CodecRecords {
		return nil, &LumpError{Index: i, Name: f.LumpName(i), Err: fmt.Errorf("%w: not a record lump", ErrNoCodec)}
	}
	l, err := f.Decode(i)
	if err != nil {
		return nil, err
	}
	return l.(*RecordLump), nil
}

// Partition returns the attached entity partition file named name.
func (f *File) Partition(name string) ([]byte, bool) {
	raw, ok := f.partitions[name]
	return raw, ok
}

// PartitionNames lists the attached partitions, sorted.
func (f *File) PartitionNames() []string {
	names := make([]string, 0, len(f.partitions))
	for name := range f.partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PartitionEntities parses an attached entity partition file.
func (f *File) PartitionEntities(name string) (Entities, error) {
	raw, ok := f.partitions[name]
	if !ok {
		return nil, fmt.Errorf("entity partition %q not attached", name)
	}
	ents, err := DecodeEntities(raw)
	if err != nil {
		return nil, fmt.Errorf("entity partition %s: %w", name, err)
	}
	return ents, nil
}
