package bsp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// PakFile wraps the embedded zip archive of a PAKFILE lump. The original
// bytes are kept as-is; nothing is ever rewritten.
type PakFile struct {
	raw    []byte
	reader *zip.Reader
}

// PakMember describes one archive member.
type PakMember struct {
	Name             string `json:"name"`
	CRC32            uint32 `json:"crc32"`
	Size             uint64 `json:"size"`
	CompressedSize   uint64 `json:"compressed_size"`
	CompressedMethod uint16 `json:"method"`
}

// DecodePakFile opens raw as a zip archive.
func DecodePakFile(raw []byte) (*PakFile, error) {
	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	return &PakFile{raw: raw, reader: r}, nil
}

// Bytes returns exactly the bytes passed to DecodePakFile.
func (p *PakFile) Bytes() ([]byte, error) {
	return p.raw, nil
}

// Lines returns member names in archive order.
func (p *PakFile) Lines() []string {
	return p.Names()
}

// Names lists member names in archive order.
func (p *PakFile) Names() []string {
	names := make([]string, len(p.reader.File))
	for i, f := range p.reader.File {
		names[i] = f.Name
	}
	return names
}

// Members lists member metadata in archive order.
func (p *PakFile) Members() []PakMember {
	members := make([]PakMember, len(p.reader.File))
	for i, f := range p.reader.File {
		members[i] = PakMember{
			Name:             f.Name,
			CRC32:            f.CRC32,
			Size:             f.UncompressedSize64,
			CompressedSize:   f.CompressedSize64,
			CompressedMethod: f.Method,
		}
	}
	return members
}

// ReadMember returns the decompressed contents of the named member.
func (p *PakFile) ReadMember(name string) ([]byte, error) {
	for _, f := range p.reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open pakfile member %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read pakfile member %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("pakfile member %q not found", name)
}
