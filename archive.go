// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
)

// discardLogger is used when OpenOptions.Logger is nil.
var discardLogger = slog.New(slog.DiscardHandler)

// Archive is an open WAD file. It normally holds a read-only handle; InjectFile
// reopens the file read-write for the duration of one call.
//
// Archive is not safe for concurrent use while InjectFile or Batch.Commit runs.
type Archive struct {
	// file is the current handle, read-only outside of injection.
	file *os.File
	// logger receives read and inject events.
	logger *slog.Logger
	// cache holds recent ReadFile results when enabled.
	cache *readCache
	// files maps file path to index in header.Files; last duplicate wins.
	files map[string]int
	// dirs maps directory path to index in header.Dirs; last duplicate wins.
	dirs map[string]int
	// path is the backing file path used for reopen.
	path string
	// header is the in-memory mirror of on-disk header fields.
	header Header
}

// Open opens WAD file by path and parses its header.
func Open(path string) (*Archive, error) {
	return OpenWithOptions(path, OpenOptions{})
}

// OpenWithOptions opens WAD file by path and parses its header using explicit options.
func OpenWithOptions(path string, opts OpenOptions) (*Archive, error) {
	opts.applyDefaults()

	a := &Archive{
		path:   path,
		logger: opts.Logger,
	}

	if opts.CacheEntries > 0 {
		cache, err := newReadCache(opts.CacheEntries)
		if err != nil {
			return nil, err
		}

		a.cache = cache
	}

	if err := a.load(); err != nil {
		return nil, err
	}

	return a, nil
}

// load opens the backing file read-only and parses header and lookup maps.
func (a *Archive) load() error {
	f, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("open WAD: %w", err)
	}

	h, err := ReadHeader(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("parse WAD %s: %w", a.path, err)
	}

	a.file = f
	a.header = *h
	a.buildIndex()
	a.cache.purge()

	a.logger.Debug("opened WAD",
		slog.String("path", a.path),
		slog.Int("files", len(h.Files)),
		slog.Int("dirs", len(h.Dirs)),
		slog.Uint64("header_size", h.Size),
	)

	return nil
}

// buildIndex builds path lookup maps in one pass over each table.
func (a *Archive) buildIndex() {
	a.files = make(map[string]int, len(a.header.Files))
	for i := range a.header.Files {
		a.files[a.header.Files[i].Path] = i
	}

	a.dirs = make(map[string]int, len(a.header.Dirs))
	for i := range a.header.Dirs {
		a.dirs[a.header.Dirs[i].Path] = i
	}
}

// Path returns the backing file path.
func (a *Archive) Path() string {
	return a.path
}

// Header returns a copy of the in-memory header.
func (a *Archive) Header() Header {
	h := a.header
	h.Files = a.Files()
	h.Dirs = a.Dirs()

	return h
}

// Files returns a copy of file records in table order.
func (a *Archive) Files() []FileEntry {
	out := make([]FileEntry, len(a.header.Files))
	copy(out, a.header.Files)

	return out
}

// Dirs returns a copy of directory records in table order.
func (a *Archive) Dirs() []DirEntry {
	out := make([]DirEntry, len(a.header.Dirs))
	for i := range a.header.Dirs {
		out[i] = a.header.Dirs[i]
		out[i].Subfiles = make([]SubfileEntry, len(a.header.Dirs[i].Subfiles))
		copy(out[i].Subfiles, a.header.Dirs[i].Subfiles)
	}

	return out
}

// FileEntry returns the record for path.
func (a *Archive) FileEntry(path string) (FileEntry, bool) {
	idx, ok := a.files[path]
	if !ok {
		return FileEntry{}, false
	}

	return a.header.Files[idx], true
}

// HasDir reports whether path is present in the directory table.
func (a *Archive) HasDir(path string) bool {
	_, ok := a.dirs[path]
	return ok
}

// ListDir returns child paths of directory as "dir/name". With onlyFiles set,
// subdirectories are skipped. The sequence may be iterated any number of times.
func (a *Archive) ListDir(path string, onlyFiles bool) (iter.Seq[string], error) {
	idx, ok := a.dirs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDir, path)
	}

	dirPath := a.header.Dirs[idx].Path
	subfiles := a.header.Dirs[idx].Subfiles
	return func(yield func(string) bool) {
		for _, sub := range subfiles {
			if onlyFiles && sub.IsDirectory {
				continue
			}

			if !yield(joinDirPath(dirPath, sub.Name)) {
				return
			}
		}
	}, nil
}

// Close closes the underlying file.
func (a *Archive) Close() error {
	if a == nil || a.file == nil {
		return nil
	}

	err := a.file.Close()
	a.file = nil
	a.cache.purge()

	return err
}

// lookupFile resolves file index by path.
func (a *Archive) lookupFile(path string) (int, error) {
	if a == nil || a.file == nil {
		return 0, ErrClosed
	}

	idx, ok := a.files[path]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPath, path)
	}

	return idx, nil
}

// fileSize returns current length of the backing file.
func (a *Archive) fileSize() (int64, error) {
	fi, err := a.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat WAD: %w", err)
	}

	return fi.Size(), nil
}

// closeQuietly closes f and drops the error, for use on failed paths.
func closeQuietly(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}

// joinErrors joins a primary error with a cleanup failure.
func joinErrors(primary error, cleanup error) error {
	if cleanup == nil {
		return primary
	}

	return errors.Join(primary, cleanup)
}
