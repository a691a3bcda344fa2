// Package bspdiff compares two BSP files lump by lump.
//
// Each file may use a different branch, so lumps are compared through an
// explicit pairing of left index to right index rather than by name. For
// every pair the report flags which directory fields match and whether the
// bytes match; on request it also carries a detailed diff built with the best
// strategy both sides support:
//
//  1. record lumps and string tables: a line diff of each record's printed form
//  2. entities: key-by-key comparison of entities at the same position
//  3. embedded archives: added, removed and unchanged member names
//  4. anything else, or a lump that fails to decode: a line diff of
//     fixed-size hex chunks
package bspdiff

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/user/bspgo/pkg/bsp"
)

// Differ compares files. A Differ holds no state between calls and may be
// used concurrently.
type Differ struct {
	opts options
}

// New returns a Differ configured by opts.
func New(opts ...Option) (*Differ, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", o.chunkSize)
	}
	if o.context < 0 {
		return nil, fmt.Errorf("context must not be negative, got %d", o.context)
	}
	for l, r := range o.pairing {
		if l < 0 || l >= bsp.LumpCount || r < 0 || r >= bsp.LumpCount {
			return nil, fmt.Errorf("%w: pairing %d -> %d is outside 0..%d", bsp.ErrUnknownLump, l, r, bsp.LumpCount-1)
		}
	}
	return &Differ{opts: o}, nil
}

// Diff compares left and right with a Differ built from opts.
func Diff(left, right *bsp.File, opts ...Option) (*Report, error) {
	d, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return d.Diff(left, right), nil
}

// PairByName pairs each left index with the right index of the same name.
// Lumps the right branch does not name are left out.
func PairByName(left, right *bsp.Branch) map[int]int {
	pairing := make(map[int]int)
	for i := 0; i < bsp.LumpCount; i++ {
		if j, err := right.Index(left.LumpName(i)); err == nil {
			pairing[i] = j
		}
	}
	return pairing
}

// Diff compares every paired lump, then the entity partitions.
func (d *Differ) Diff(left, right *bsp.File) *Report {
	r := &Report{LeftBranch: left.Branch.Name, RightBranch: right.Branch.Name}
	for _, p := range d.pairs() {
		if e, ok := d.diffLump(left, p[0], right, p[1]); ok {
			r.Entries = append(r.Entries, e)
		}
	}
	r.Partitions = d.diffPartitions(left, right)
	return r
}

// pairs returns the pairing sorted by left index.
func (d *Differ) pairs() [][2]int {
	if d.opts.pairing == nil {
		out := make([][2]int, bsp.LumpCount)
		for i := range out {
			out[i] = [2]int{i, i}
		}
		return out
	}
	out := make([][2]int, 0, len(d.opts.pairing))
	for l, r := range d.opts.pairing {
		out = append(out, [2]int{l, r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// diffLump compares one pair. Pairs where both lumps are empty produce no
// entry.
func (d *Differ) diffLump(left *bsp.File, li int, right *bsp.File, ri int) (Entry, bool) {
	lh, rh := left.LumpHeader(li), right.LumpHeader(ri)
	if lh.Empty() && rh.Empty() {
		return Entry{}, false
	}
	e := Entry{
		Left:    Side{Index: li, Name: left.LumpName(li), Header: lh},
		Right:   Side{Index: ri, Name: right.LumpName(ri), Header: rh},
		Headers: compareHeaders(lh, rh),
	}

	lraw, lerr := left.Raw(li)
	rraw, rerr := right.Raw(ri)
	if lerr != nil || rerr != nil {
		e.Content = ContentIndeterminate
		e.Err = errors.Join(lerr, rerr)
		e.Error = e.Err.Error()
		d.opts.logger.Warn("lump could not be read", "lump", e.Name(), "left", li, "right", ri, "error", e.Err)
		return e, true
	}
	e.Left.Digest = digest(lraw)
	e.Right.Digest = digest(rraw)

	if bytes.Equal(lraw, rraw) {
		e.Content = ContentEqual
		return e, true
	}
	e.Content = ContentDiffers
	if d.opts.detail {
		e.Detail = d.detail(left, li, lraw, right, ri, rraw)
		e.Strategy = e.Detail.Strategy()
	}
	return e, true
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// lineCodec reports whether kind decodes to one printable line per record.
func lineCodec(kind bsp.CodecKind) bool {
	return kind == bsp.CodecRecords || kind == bsp.CodecStringTable
}

// detail picks the richest strategy both sides support, falling back to
// chunks when either side fails to decode.
func (d *Differ) detail(left *bsp.File, li int, lraw []byte, right *bsp.File, ri int, rraw []byte) Detail {
	lk, lok := left.Branch.Codec(li)
	rk, rok := right.Branch.Codec(ri)
	if lok && rok {
		switch {
		case lineCodec(lk) && lineCodec(rk):
			if ll, rl, ok := d.decodeBoth(left, li, right, ri); ok {
				return diffRecords(ll, rl, d.opts.context)
			}
		case lk == bsp.CodecEntities && rk == bsp.CodecEntities:
			if ll, rl, ok := d.decodeBoth(left, li, right, ri); ok {
				return diffEntities(ll.(bsp.Entities), rl.(bsp.Entities))
			}
		case lk == bsp.CodecPakFile && rk == bsp.CodecPakFile:
			if ll, rl, ok := d.decodeBoth(left, li, right, ri); ok {
				return diffPakFiles(ll.(*bsp.PakFile), rl.(*bsp.PakFile))
			}
		}
	}
	return diffChunks(lraw, rraw, d.opts.chunkSize, d.opts.context)
}

// decodeBoth decodes both lumps, logging and reporting false if either fails.
func (d *Differ) decodeBoth(left *bsp.File, li int, right *bsp.File, ri int) (bsp.Lump, bsp.Lump, bool) {
	ll, lerr := left.Decode(li)
	rl, rerr := right.Decode(ri)
	if err := errors.Join(lerr, rerr); err != nil {
		d.opts.logger.Debug("decode failed, comparing chunks instead",
			"lump", left.LumpName(li), "left", li, "right", ri, "error", err)
		return nil, nil, false
	}
	return ll, rl, true
}

// diffPartitions compares entity partition files by exact equality.
func (d *Differ) diffPartitions(left, right *bsp.File) []PartitionResult {
	names := d.opts.partitions
	if names == nil {
		names = partitionNames(left, right)
	}
	var out []PartitionResult
	for _, name := range names {
		lraw, lok := left.Partition(name)
		rraw, rok := right.Partition(name)
		if !lok && !rok {
			continue
		}
		out = append(out, PartitionResult{
			Name:         name,
			LeftPresent:  lok,
			RightPresent: rok,
			Equal:        lok && rok && bytes.Equal(lraw, rraw),
		})
	}
	return out
}

func partitionNames(left, right *bsp.File) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list []string) {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	add(left.Branch.Partitions)
	add(right.Branch.Partitions)
	add(left.PartitionNames())
	add(right.PartitionNames())
	return names
}
