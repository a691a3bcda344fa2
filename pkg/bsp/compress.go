package bsp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Frame magics of whole-file compression wrappers
var (
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4D, 0x18}
	zstdFrameMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

// Inflate unwraps a map that was stored as a single LZ4 or zstd frame (for
// example mp_angel_city.bsp.lz4). Any other input is returned unchanged.
func Inflate(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, lz4FrameMagic):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 frame: %w", ErrMalformedContainer, err)
		}
		return out, nil
	case bytes.HasPrefix(data, zstdFrameMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd frame: %w", ErrMalformedContainer, err)
		}
		return out, nil
	}
	return data, nil
}

// PeekFileHeader parses the file header at the start of data. Compressed
// input is read through its frame only as far as the header, so a caller can
// pick a branch before handing the whole file to Load.
func PeekFileHeader(data []byte) (FileHeader, error) {
	var r io.Reader = bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, lz4FrameMagic):
		r = lz4.NewReader(r)
	case bytes.HasPrefix(data, zstdFrameMagic):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return FileHeader{}, fmt.Errorf("%w: zstd frame: %w", ErrMalformedContainer, err)
		}
		defer dec.Close()
		r = dec
	}
	head := make([]byte, FileHeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return FileHeader{}, fmt.Errorf("%w: reading file header: %w", ErrMalformedContainer, err)
	}
	return parseFileHeader(head), nil
}
