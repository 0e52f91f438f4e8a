// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

// ReadFile reads the full payload of the file at path.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	idx, err := a.lookupFile(path)
	if err != nil {
		return nil, err
	}

	if data, ok := a.cache.get(path); ok {
		return data, nil
	}

	a.logger.Info("reading file", slog.String("path", path), slog.String("wad", a.path))

	sr, err := a.sectionReader(&a.header.Files[idx])
	if err != nil {
		return nil, err
	}

	buf := make([]byte, sr.Size())
	if _, err := io.ReadFull(sr, buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	a.cache.put(path, buf)
	return buf, nil
}

// OpenFile returns a reader over the payload of the file at path.
// The reader is invalidated by the next InjectFile or Close.
func (a *Archive) OpenFile(path string) (*io.SectionReader, error) {
	idx, err := a.lookupFile(path)
	if err != nil {
		return nil, err
	}

	return a.sectionReader(&a.header.Files[idx])
}

// sectionReader validates entry bounds against current file length.
func (a *Archive) sectionReader(entry *FileEntry) (*io.SectionReader, error) {
	start, end, err := a.dataRange(entry)
	if err != nil {
		return nil, err
	}

	size, err := a.fileSize()
	if err != nil {
		return nil, err
	}

	if end > uint64(size) { //nolint:gosec // Stat size is non-negative
		return nil, fmt.Errorf("%w: %s ends at %d, file length %d", ErrEntryOutOfBounds, entry.Path, end, size)
	}

	return io.NewSectionReader(a.file, int64(start), int64(entry.Size)), nil //nolint:gosec // bounded by file size
}

// dataRange returns absolute [start, end) of entry payload.
func (a *Archive) dataRange(entry *FileEntry) (uint64, uint64, error) {
	start := a.header.Size + entry.Offset
	end := start + entry.Size
	if start < a.header.Size || end < start || end > math.MaxInt64 {
		return 0, 0, fmt.Errorf("%w: %s offset %d size %d", ErrEntryOutOfBounds, entry.Path, entry.Offset, entry.Size)
	}

	return start, end, nil
}
