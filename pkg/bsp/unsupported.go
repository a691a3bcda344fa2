package bsp

// GameLump stands in for the GAME_LUMP payload, which is not decoded.
//
// The lump starts with a count of sub-lumps, each with its own header and
// each compressed independently. Which header field flags a sub-lump as
// compressed, and with what scheme, has not been confirmed, so decoding is
// refused rather than guessed. Real support needs its own format research.
type GameLump struct{}

// DecodeGameLump always fails with ErrUnsupportedLump.
func DecodeGameLump(raw []byte) (*GameLump, error) {
	return nil, &UnsupportedLumpError{Lump: "GAME_LUMP", Reason: "sub-lump compression is not understood"}
}

// Bytes always fails with ErrUnsupportedLump.
func (g *GameLump) Bytes() ([]byte, error) {
	return nil, &UnsupportedLumpError{Lump: "GAME_LUMP", Reason: "sub-lump compression is not understood"}
}

// Lines returns nil; there is nothing decoded to print.
func (g *GameLump) Lines() []string { return nil }

// Visibility stands in for the VISIBILITY payload, which is not decoded.
//
// The lump is believed to hold, per cluster, a pair of offsets into
// run-length encoded bitsets: one for the potentially visible set and one for
// the potentially audible set. Where the cluster count comes from and how the
// runs are encoded in these branches is unconfirmed.
type Visibility struct{}

// DecodeVisibility always fails with ErrUnsupportedLump.
func DecodeVisibility(raw []byte) (*Visibility, error) {
	return nil, &UnsupportedLumpError{Lump: "VISIBILITY", Reason: "PVS/PAS encoding is not understood"}
}

// Bytes always fails with ErrUnsupportedLump.
func (v *Visibility) Bytes() ([]byte, error) {
	return nil, &UnsupportedLumpError{Lump: "VISIBILITY", Reason: "PVS/PAS encoding is not understood"}
}

// Lines returns nil; there is nothing decoded to print.
func (v *Visibility) Lines() []string { return nil }
