package bsp

import (
	"encoding/binary"
	"fmt"
)

// Endianness used in BSP files
var BSPEndian = binary.LittleEndian

// LumpCount is the number of header slots in every branch's lump directory.
const LumpCount = 128

// LumpHeaderSize is the size of one lump directory slot
const LumpHeaderSize = 16 // offset, length, version, fourCC (uint32 each)

// FileHeaderSize is the size of the file header preceding the lump directory
// in branches whose header base is at least this large.
const FileHeaderSize = 16

// File magics
const (
	RespawnMagic = 0x50534272 // "rBSP"
	ValveMagic   = 0x50534256 // "VBSP"
)

// FileHeader is the fixed header at the start of the file.
type FileHeader struct {
	Magic     uint32 `json:"magic"`
	Version   uint32 `json:"version"`
	Revision  uint32 `json:"revision"`   // map revision, incremented on every compile
	LumpLimit uint32 `json:"lump_limit"` // 127 in Respawn files
}

// MagicString returns the magic as its four ASCII characters.
func (h FileHeader) MagicString() string {
	var b [4]byte
	BSPEndian.PutUint32(b[:], h.Magic)
	return string(b[:])
}

// LumpHeader is one slot of the lump directory.
type LumpHeader struct {
	Offset  uint32 `json:"offset"` // 0 means absent
	Length  uint32 `json:"length"` // 0 means empty
	Version uint32 `json:"version"`
	FourCC  uint32 `json:"fourcc"` // compression / identifier tag
}

// Empty reports whether the lump holds no bytes.
func (h LumpHeader) Empty() bool {
	return h.Length == 0
}

// End returns the first byte past the lump. Computed in 64 bits so a corrupt
// header can not wrap around.
func (h LumpHeader) End() uint64 {
	return uint64(h.Offset) + uint64(h.Length)
}

func (h LumpHeader) String() string {
	return fmt.Sprintf("offset=%d length=%d version=%d fourCC=%#08x", h.Offset, h.Length, h.Version, h.FourCC)
}

// parseLumpHeader decodes a 16 byte directory slot.
func parseLumpHeader(slot []byte) LumpHeader {
	return LumpHeader{
		Offset:  BSPEndian.Uint32(slot[0:4]),
		Length:  BSPEndian.Uint32(slot[4:8]),
		Version: BSPEndian.Uint32(slot[8:12]),
		FourCC:  BSPEndian.Uint32(slot[12:16]),
	}
}

// parseFileHeader decodes the 16 byte file header.
func parseFileHeader(b []byte) FileHeader {
	return FileHeader{
		Magic:     BSPEndian.Uint32(b[0:4]),
		Version:   BSPEndian.Uint32(b[4:8]),
		Revision:  BSPEndian.Uint32(b[8:12]),
		LumpLimit: BSPEndian.Uint32(b[12:16]),
	}
}

// ParseFileHeader reads the file header from the start of data. It does not
// inspect the lump directory, so it can be used to pick a branch before Load.
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, fmt.Errorf("%w: %d bytes is too short for the file header", ErrMalformedContainer, len(data))
	}
	return parseFileHeader(data[:FileHeaderSize]), nil
}
