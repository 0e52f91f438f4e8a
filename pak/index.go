// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package pak

import "fmt"

// Index walks indices through nested containers and returns the final slot.
// Every slot on the way except the last is promoted to a nested container.
func (p *Pak) Index(indices ...int) (*Entry, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: empty index path", ErrInvalidIndices)
	}

	current := p
	last := len(indices) - 1
	for depth, idx := range indices[:last] {
		entry, err := current.Entry(idx)
		if err != nil {
			return nil, fmt.Errorf("index %v at depth %d: %w", indices, depth, err)
		}

		sub, err := entry.AsPak()
		if err != nil {
			return nil, fmt.Errorf("%w: %v at depth %d: %w", ErrInvalidIndices, indices, depth, err)
		}

		current = sub
	}

	entry, err := current.Entry(indices[last])
	if err != nil {
		return nil, fmt.Errorf("index %v at depth %d: %w", indices, last, err)
	}

	return entry, nil
}

// ReplaceData overwrites the slot at indices with raw bytes.
func (p *Pak) ReplaceData(indices []int, data []byte) error {
	entry, err := p.Index(indices...)
	if err != nil {
		return err
	}

	entry.SetData(data)
	return nil
}

// ReplaceUTF8 overwrites the slot at indices with UTF-8 text.
func (p *Pak) ReplaceUTF8(indices []int, s string) error {
	entry, err := p.Index(indices...)
	if err != nil {
		return err
	}

	entry.SetUTF8(s)
	return nil
}

// ReplaceUTF16 overwrites the slot at indices with UTF-16LE text.
func (p *Pak) ReplaceUTF16(indices []int, s string) error {
	entry, err := p.Index(indices...)
	if err != nil {
		return err
	}

	entry.SetUTF16(s)
	return nil
}

// ReplacePak overwrites the slot at indices with a nested container.
func (p *Pak) ReplacePak(indices []int, sub *Pak) error {
	entry, err := p.Index(indices...)
	if err != nil {
		return err
	}

	entry.SetPak(sub)
	return nil
}
