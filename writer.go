// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

const (
	// packCopyBufferSize is per-pack temporary buffer used by streaming payload copy.
	packCopyBufferSize = 64 * 1024
	// packWriterBufferSize is buffered writer size for payload region.
	packWriterBufferSize = 1024 * 1024
)

// defaultPackCopyBufferPool reuses payload copy buffers between Pack calls.
var defaultPackCopyBufferPool = sync.Pool{
	New: func() any {
		return new([packCopyBufferSize]byte)
	},
}

// Pack writes a WAD to out from the given inputs.
// Inputs are sorted by path, and the directory table is derived from path
// prefixes with "" as root. File offsets are assigned sequentially.
func Pack(ctx context.Context, out io.WriteSeeker, inputs []Input, opts PackOptions) (*PackResult, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	if len(inputs) == 0 {
		return nil, ErrEmptyInputs
	}

	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	sorted, err := preparePackInputs(inputs)
	if err != nil {
		return nil, err
	}

	dirs, err := buildDirTable(sorted)
	if err != nil {
		return nil, err
	}

	h := &Header{
		Version:  opts.Version,
		Reserved: opts.Reserved,
		Files:    make([]FileEntry, len(sorted)),
		Dirs:     dirs,
	}
	for i := range sorted {
		h.Files[i].Path = sorted[i].Path
	}

	base, err := out.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("seek pack start: %w", err)
	}

	// Sizes and offsets are patched after payloads are streamed.
	headerBytes, err := appendHeader(nil, h)
	if err != nil {
		return nil, err
	}

	if _, err := out.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w := bufio.NewWriterSize(out, packWriterBufferSize)
	arr := defaultPackCopyBufferPool.Get().(*[packCopyBufferSize]byte) //nolint:forcetypeassert // pool contains only fixed-size buffers
	defer defaultPackCopyBufferPool.Put(arr)

	var offset uint64
	for i := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := copyInputPayload(w, sorted[i], arr[:])
		if err != nil {
			return nil, err
		}

		h.Files[i].Offset = offset
		h.Files[i].Size = uint64(n) //nolint:gosec // io.Copy never returns negative counts
		offset += uint64(n)         //nolint:gosec // see above

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(PackEntryProgress{
				Path:   h.Files[i].Path,
				Offset: h.Files[i].Offset,
				Size:   h.Files[i].Size,
			})
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush payload: %w", err)
	}

	if err := patchFileRecords(out, base, h.Files); err != nil {
		return nil, err
	}

	if _, err := out.Seek(0, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("seek pack end: %w", err)
	}

	return &PackResult{
		WrittenFiles: len(h.Files),
		WrittenDirs:  len(h.Dirs),
		HeaderSize:   int64(h.Size), //nolint:gosec // header is bounded by in-memory buffer
		DataSize:     int64(offset), //nolint:gosec // bounded by written bytes
	}, nil
}

// PackFile writes a WAD to outPath.
func PackFile(ctx context.Context, outPath string, inputs []Input, opts PackOptions) (*PackResult, error) {
	f, err := os.OpenFile(outPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create WAD file: %w", err)
	}
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	res, err := Pack(ctx, f, inputs, opts)
	if err != nil {
		return nil, err
	}

	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("sync WAD file: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close WAD file: %w", err)
	}
	f = nil

	return res, nil
}

// preparePackInputs normalizes and sorts pack inputs for deterministic output.
func preparePackInputs(inputs []Input) ([]Input, error) {
	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)

	for i := range sorted {
		normalized, err := normalizeArchiveEntryPath(sorted[i].Path)
		if err != nil {
			return nil, err
		}

		sorted[i].Path = normalized
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Path == sorted[i-1].Path {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntryPath, sorted[i].Path)
		}
	}

	return sorted, nil
}

// buildDirTable derives directory listings from sorted file paths.
func buildDirTable(sorted []Input) ([]DirEntry, error) {
	files := make(map[string]struct{}, len(sorted))
	for i := range sorted {
		files[sorted[i].Path] = struct{}{}
	}

	children := map[string]map[string]bool{"": {}}
	addChild := func(dir string, name string, isDir bool) {
		if children[dir] == nil {
			children[dir] = make(map[string]bool)
		}

		children[dir][name] = isDir
	}

	for i := range sorted {
		child := sorted[i].Path
		isDir := false
		for {
			parent, name := splitDirPath(child)
			if _, clash := files[parent]; clash {
				return nil, fmt.Errorf("%w: %q is both file and directory", ErrInvalidEntryPath, parent)
			}

			_, known := children[parent]
			addChild(parent, name, isDir)
			if known {
				break
			}

			child = parent
			isDir = true
		}
	}

	paths := make([]string, 0, len(children))
	for dir := range children {
		paths = append(paths, dir)
	}
	sort.Strings(paths)

	dirs := make([]DirEntry, 0, len(paths))
	for _, dir := range paths {
		names := make([]string, 0, len(children[dir]))
		for name := range children[dir] {
			names = append(names, name)
		}
		sort.Strings(names)

		entry := DirEntry{Path: dir, Subfiles: make([]SubfileEntry, 0, len(names))}
		for _, name := range names {
			entry.Subfiles = append(entry.Subfiles, SubfileEntry{
				Name:        name,
				IsDirectory: children[dir][name],
			})
		}

		dirs = append(dirs, entry)
	}

	return dirs, nil
}

// copyInputPayload streams one input into w and returns written byte count.
func copyInputPayload(w io.Writer, in Input, buf []byte) (int64, error) {
	if in.Open == nil {
		return 0, fmt.Errorf("input %s: Open is nil", in.Path)
	}

	rc, err := in.Open()
	if err != nil {
		return 0, fmt.Errorf("open input %s: %w", in.Path, err)
	}
	defer func() { _ = rc.Close() }()

	n, err := io.CopyBuffer(w, rc, buf)
	if err != nil {
		return n, fmt.Errorf("write payload %s: %w", in.Path, err)
	}

	return n, nil
}

// patchFileRecords rewrites size and offset fields of every file record.
func patchFileRecords(out io.WriteSeeker, base int64, files []FileEntry) error {
	var fields [sizeFieldSize + offsetFieldSize]byte
	for i := range files {
		pos := base + files[i].sizeFieldOffset()
		if _, err := out.Seek(pos, io.SeekStart); err != nil {
			return fmt.Errorf("seek record %s: %w", files[i].Path, err)
		}

		binary.LittleEndian.PutUint64(fields[:sizeFieldSize], files[i].Size)
		binary.LittleEndian.PutUint64(fields[sizeFieldSize:], files[i].Offset)
		if _, err := out.Write(fields[:]); err != nil {
			return fmt.Errorf("patch record %s: %w", files[i].Path, err)
		}
	}

	return nil
}
