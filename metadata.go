// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"fmt"
	"os"
)

// ReadHeaderFile opens a WAD and returns its parsed header without keeping the file open.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open WAD: %w", err)
	}
	defer func() { _ = f.Close() }()

	h, err := ReadHeader(f)
	if err != nil {
		return nil, fmt.Errorf("parse WAD %s: %w", path, err)
	}

	return h, nil
}

// ListFiles opens a WAD and returns file records selected by filter, without payload reads.
func ListFiles(path string, filter FilterOptions) ([]FileEntry, error) {
	pf, err := newPathFilter(filter)
	if err != nil {
		return nil, err
	}

	h, err := ReadHeaderFile(path)
	if err != nil {
		return nil, err
	}

	last := make(map[string]int, len(h.Files))
	for i := range h.Files {
		last[h.Files[i].Path] = i
	}

	out := make([]FileEntry, 0, len(h.Files))
	for i := range h.Files {
		if last[h.Files[i].Path] != i || !pf.Match(h.Files[i].Path) {
			continue
		}

		out = append(out, h.Files[i])
	}

	return out, nil
}
