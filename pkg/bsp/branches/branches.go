// Package branches holds the lump layouts of the supported game branches.
package branches

import (
	"strconv"
	"strings"

	"github.com/user/bspgo/pkg/bsp"
)

// All lists every known branch.
var All = []*bsp.Branch{Titanfall2}

// ByVersion returns the branch whose file header carries version.
func ByVersion(version uint32) (*bsp.Branch, bool) {
	for _, b := range All {
		if b.Version == version {
			return b, true
		}
	}
	return nil, false
}

// ByName returns the branch called name (case-insensitive), or the branch
// with that version if name is a number.
func ByName(name string) (*bsp.Branch, bool) {
	for _, b := range All {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	if v, err := strconv.ParseUint(name, 10, 32); err == nil {
		return ByVersion(uint32(v))
	}
	return nil, false
}

// Detect picks the branch matching the file header's magic and version.
func Detect(h bsp.FileHeader) (*bsp.Branch, bool) {
	for _, b := range All {
		if b.Magic == h.Magic && b.Version == h.Version {
			return b, true
		}
	}
	return nil, false
}
