// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
)

// injectOutcome describes how one payload was stored.
type injectOutcome struct {
	// grown is number of bytes appended to the file.
	grown int64
	// relocated reports whether payload moved to end of file.
	relocated bool
}

// InjectFile replaces the payload of the file at path.
//
// A payload that fits the current slot is written in place and the rest of
// the old slot is left as unused slack. A larger payload is appended at the
// end of the file and the record offset is rewritten. The record size field
// is written first, then the offset, then the data; an I/O error between
// these writes leaves the archive inconsistent and is not rolled back.
func (a *Archive) InjectFile(path string, data []byte) error {
	_, err := a.injectFile(path, data)
	return err
}

// injectFile runs one injection with a scoped read-write handle.
func (a *Archive) injectFile(path string, data []byte) (outcome injectOutcome, err error) {
	idx, err := a.lookupFile(path)
	if err != nil {
		return outcome, err
	}

	a.logger.Info("injecting file",
		slog.String("path", path),
		slog.String("wad", a.path),
		slog.Int("size", len(data)),
	)

	a.cache.remove(path)

	if err := a.swapHandle(os.O_RDWR); err != nil {
		return outcome, fmt.Errorf("reopen WAD for writing: %w", err)
	}
	defer func() {
		if restoreErr := a.swapHandle(os.O_RDONLY); restoreErr != nil {
			// Never keep a writable handle past this call.
			closeQuietly(a.file)
			a.file = nil
			err = joinErrors(err, fmt.Errorf("reopen WAD read-only: %w", restoreErr))
		}
	}()

	outcome, err = a.injectInto(&a.header.Files[idx], data)
	if err != nil {
		return outcome, fmt.Errorf("inject %s: %w", path, err)
	}

	if err := a.file.Sync(); err != nil {
		return outcome, fmt.Errorf("sync WAD: %w", err)
	}

	return outcome, nil
}

// injectInto patches entry record and payload through the current read-write handle.
// The record is validated before the first write, so a rejected record leaves the file untouched.
func (a *Archive) injectInto(entry *FileEntry, data []byte) (injectOutcome, error) {
	var outcome injectOutcome

	oldSize := entry.Size
	newSize := uint64(len(data))
	inPlace := newSize <= oldSize

	var start uint64
	var total int64
	if inPlace {
		begin, _, err := a.dataRange(entry)
		if err != nil {
			return outcome, err
		}
		start = begin
	} else {
		size, err := a.fileSize()
		if err != nil {
			return outcome, err
		}

		if uint64(size) < a.header.Size { //nolint:gosec // Stat size is non-negative
			return outcome, fmt.Errorf("%w: file length %d below header size %d", ErrEntryOutOfBounds, size, a.header.Size)
		}
		total = size
	}

	var field [sizeFieldSize]byte
	binary.LittleEndian.PutUint64(field[:], newSize)
	if _, err := a.file.WriteAt(field[:], entry.sizeFieldOffset()); err != nil {
		return outcome, fmt.Errorf("write size field: %w", err)
	}
	entry.Size = newSize

	if inPlace {
		if _, err := a.file.WriteAt(data, int64(start)); err != nil { //nolint:gosec // bounded by dataRange
			return outcome, fmt.Errorf("write payload in place: %w", err)
		}

		a.logger.Debug("payload written in place",
			slog.String("path", entry.Path),
			slog.Uint64("offset", entry.Offset),
			slog.Uint64("slack", oldSize-newSize),
		)

		return outcome, nil
	}

	newOffset := uint64(total) - a.header.Size //nolint:gosec // checked above
	binary.LittleEndian.PutUint64(field[:], newOffset)
	if _, err := a.file.WriteAt(field[:offsetFieldSize], entry.sizeFieldOffset()+sizeFieldSize); err != nil {
		return outcome, fmt.Errorf("write offset field: %w", err)
	}
	entry.Offset = newOffset

	if err := a.file.Truncate(total + int64(len(data))); err != nil {
		return outcome, fmt.Errorf("extend WAD: %w", err)
	}

	if _, err := a.file.WriteAt(data, total); err != nil {
		return outcome, fmt.Errorf("write relocated payload: %w", err)
	}

	a.logger.Debug("payload relocated",
		slog.String("path", entry.Path),
		slog.Uint64("old_size", oldSize),
		slog.Uint64("new_offset", newOffset),
	)

	outcome.relocated = true
	outcome.grown = int64(len(data))
	return outcome, nil
}

// swapHandle opens the backing file with flag and replaces the current handle.
// On failure the current handle is kept.
func (a *Archive) swapHandle(flag int) error {
	f, err := os.OpenFile(a.path, flag, 0)
	if err != nil {
		return err
	}

	closeQuietly(a.file)
	a.file = f
	return nil
}
