// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package pak

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// countSize is the byte size of the leading entry count.
	countSize = 4
	// offsetSize is the byte size of one offset table slot.
	offsetSize = 4
)

// Pak is an ordered list of entries stored behind a uint32 offset table.
type Pak struct {
	entries []Entry
}

// New returns a container holding the given entries in order.
func New(entries ...Entry) *Pak {
	p := &Pak{entries: make([]Entry, len(entries))}
	copy(p.entries, entries)

	return p
}

// TableSize returns the encoded size of count plus offset table for n entries.
func TableSize(n int) int {
	return countSize + offsetSize*n
}

// Decode parses buf into a container. Entries are zero-copy raw views into buf
// until they are promoted or replaced, so buf must not be modified while the
// returned value is in use.
func Decode(buf []byte) (*Pak, error) {
	if len(buf) < countSize {
		return nil, fmt.Errorf("%w: short count (%d bytes)", ErrInvalidOffsetTable, len(buf))
	}

	count := uint64(binary.LittleEndian.Uint32(buf[:countSize]))
	tableEnd := uint64(countSize) + offsetSize*count
	if tableEnd > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: table of %d entries exceeds %d bytes", ErrInvalidOffsetTable, count, len(buf))
	}

	if count == 0 {
		if len(buf) != countSize {
			return nil, fmt.Errorf("%w: %d trailing bytes after empty table", ErrInvalidOffsetTable, len(buf)-countSize)
		}

		return &Pak{}, nil
	}

	n := int(count)
	bounds := make([]int, n+1)
	for i := range n {
		pos := countSize + offsetSize*i
		bounds[i] = int(binary.LittleEndian.Uint32(buf[pos : pos+offsetSize]))
	}
	bounds[n] = len(buf)

	if uint64(bounds[0]) != tableEnd {
		return nil, fmt.Errorf("%w: first offset %d, want %d", ErrInvalidOffsetTable, bounds[0], tableEnd)
	}

	for i := 1; i <= n; i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, fmt.Errorf("%w: boundary %d (%d) not above %d", ErrInvalidOffsetTable, i, bounds[i], bounds[i-1])
		}
	}

	entries := make([]Entry, n)
	for i := range n {
		entries[i] = Entry{kind: KindRaw, data: buf[bounds[i]:bounds[i+1]:bounds[i+1]]}
	}

	return &Pak{entries: entries}, nil
}

// Len returns number of entries.
func (p *Pak) Len() int {
	if p == nil {
		return 0
	}

	return len(p.entries)
}

// Entry returns a pointer to entry i for in-place promotion or replacement.
func (p *Pak) Entry(i int) (*Entry, error) {
	if i < 0 || i >= p.Len() {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, p.Len())
	}

	return &p.entries[i], nil
}

// Append adds entries to the end of the container.
func (p *Pak) Append(entries ...Entry) {
	p.entries = append(p.entries, entries...)
}

// Encode serializes every entry in its current representation into a fresh buffer.
func (p *Pak) Encode() ([]byte, error) {
	n := p.Len()
	payloads := make([][]byte, n)
	total := uint64(TableSize(n))
	for i := range n {
		data, err := p.entries[i].encode()
		if err != nil {
			return nil, fmt.Errorf("encode entry %d: %w", i, err)
		}

		if len(data) == 0 {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyEntry, i)
		}

		payloads[i] = data
		total += uint64(len(data))
	}

	// The last entry start must fit the table; the end is implied by buffer length.
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrContainerTooLarge, total)
	}

	out := make([]byte, TableSize(n), total)
	binary.LittleEndian.PutUint32(out[:countSize], uint32(n)) //nolint:gosec // bounded by total check

	offset := uint32(TableSize(n)) //nolint:gosec // bounded by total check
	for i := range n {
		pos := countSize + offsetSize*i
		binary.LittleEndian.PutUint32(out[pos:pos+offsetSize], offset)
		offset += uint32(len(payloads[i])) //nolint:gosec // bounded by total check
	}

	for i := range n {
		out = append(out, payloads[i]...)
	}

	return out, nil
}
