// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	// headerReadBufferSize is a sequential read buffer for header parsing.
	headerReadBufferSize = 64 * 1024
	// maxHeaderStringLen bounds one path or name length read from disk.
	maxHeaderStringLen = 64 * 1024
	// maxPreallocRecords bounds record slice preallocation from untrusted counts.
	maxPreallocRecords = 4096
)

// headerReader tracks absolute stream position across buffered sequential reads.
type headerReader struct {
	br  *bufio.Reader
	pos uint64
	buf [8]byte
}

// ReadHeader parses a WAD header from the current position of r.
// On success r is left positioned at the start of the data region.
func ReadHeader(r io.ReadSeeker) (*Header, error) {
	begin, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("seek header start: %w", err)
	}

	hr := &headerReader{
		br:  bufio.NewReaderSize(r, headerReadBufferSize),
		pos: uint64(begin), //nolint:gosec // Seek never returns negative offsets on success
	}

	h, err := hr.readHeader()
	if err != nil {
		return nil, err
	}

	h.Size = hr.pos - uint64(begin) //nolint:gosec // see above
	if _, err := r.Seek(int64(hr.pos), io.SeekStart); err != nil { //nolint:gosec // bounded by stream length
		return nil, fmt.Errorf("seek data start: %w", err)
	}

	return h, nil
}

// readHeader reads prefix, file table and directory table.
func (hr *headerReader) readHeader() (*Header, error) {
	var prefix [headerPrefixLen]byte
	if err := hr.readFull(prefix[:]); err != nil {
		return nil, fmt.Errorf("read header prefix: %w", err)
	}

	if string(prefix[:magicSize]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrMalformedMagic, prefix[:magicSize])
	}

	h := &Header{
		Version: [2]uint32{
			binary.LittleEndian.Uint32(prefix[4:8]),
			binary.LittleEndian.Uint32(prefix[8:12]),
		},
		Reserved: binary.LittleEndian.Uint32(prefix[12:16]),
	}

	fileCount, err := hr.u32()
	if err != nil {
		return nil, fmt.Errorf("read file count: %w", err)
	}

	h.Files = make([]FileEntry, 0, min(fileCount, maxPreallocRecords))
	for i := range fileCount {
		entry, err := hr.readFileEntry()
		if err != nil {
			return nil, fmt.Errorf("read file record %d: %w", i, err)
		}

		h.Files = append(h.Files, entry)
	}

	dirCount, err := hr.u32()
	if err != nil {
		return nil, fmt.Errorf("read dir count: %w", err)
	}

	h.Dirs = make([]DirEntry, 0, min(dirCount, maxPreallocRecords))
	for i := range dirCount {
		entry, err := hr.readDirEntry()
		if err != nil {
			return nil, fmt.Errorf("read dir record %d: %w", i, err)
		}

		h.Dirs = append(h.Dirs, entry)
	}

	return h, nil
}

// readFileEntry reads one file record; EntryOffset is taken before the path length.
func (hr *headerReader) readFileEntry() (FileEntry, error) {
	entry := FileEntry{EntryOffset: hr.pos}

	path, err := hr.str("file path")
	if err != nil {
		return entry, err
	}
	entry.Path = path

	if entry.Size, err = hr.u64(); err != nil {
		return entry, fmt.Errorf("read size of %s: %w", path, err)
	}

	if entry.Offset, err = hr.u64(); err != nil {
		return entry, fmt.Errorf("read offset of %s: %w", path, err)
	}

	return entry, nil
}

// readDirEntry reads one directory record with its subfile list.
func (hr *headerReader) readDirEntry() (DirEntry, error) {
	entry := DirEntry{EntryOffset: hr.pos}

	path, err := hr.str("directory path")
	if err != nil {
		return entry, err
	}
	entry.Path = path

	count, err := hr.u32()
	if err != nil {
		return entry, fmt.Errorf("read subfile count of %q: %w", path, err)
	}

	entry.Subfiles = make([]SubfileEntry, 0, min(count, maxPreallocRecords))
	for range count {
		sub := SubfileEntry{EntryOffset: hr.pos}
		if sub.Name, err = hr.str("subfile name"); err != nil {
			return entry, err
		}

		flag, err := hr.u8()
		if err != nil {
			return entry, fmt.Errorf("read subfile type of %s: %w", sub.Name, err)
		}

		sub.IsDirectory = flag != 0
		entry.Subfiles = append(entry.Subfiles, sub)
	}

	return entry, nil
}

// readFull reads exactly len(p) bytes and advances position.
func (hr *headerReader) readFull(p []byte) error {
	n, err := io.ReadFull(hr.br, p)
	hr.pos += uint64(n) //nolint:gosec // n is non-negative
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}

func (hr *headerReader) u8() (uint8, error) {
	if err := hr.readFull(hr.buf[:1]); err != nil {
		return 0, err
	}

	return hr.buf[0], nil
}

func (hr *headerReader) u32() (uint32, error) {
	if err := hr.readFull(hr.buf[:4]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(hr.buf[:4]), nil
}

func (hr *headerReader) u64() (uint64, error) {
	if err := hr.readFull(hr.buf[:8]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(hr.buf[:8]), nil
}

// str reads a u32 length-prefixed UTF-8 string.
func (hr *headerReader) str(what string) (string, error) {
	n, err := hr.u32()
	if err != nil {
		return "", fmt.Errorf("read %s length: %w", what, err)
	}

	if n > maxHeaderStringLen {
		return "", fmt.Errorf("%w: %s length %d", ErrSizeOverflow, what, n)
	}

	raw := make([]byte, n)
	if err := hr.readFull(raw); err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidUTF8, what, raw)
	}

	return string(raw), nil
}

// appendHeader serializes h and fills record EntryOffset values and Size,
// assuming the header starts at absolute position zero.
func appendHeader(dst []byte, h *Header) ([]byte, error) {
	start := len(dst)
	pos := func() uint64 { return uint64(len(dst) - start) } //nolint:gosec // length is non-negative

	dst = append(dst, Magic...)
	dst = binary.LittleEndian.AppendUint32(dst, h.Version[0])
	dst = binary.LittleEndian.AppendUint32(dst, h.Version[1])
	dst = binary.LittleEndian.AppendUint32(dst, h.Reserved)

	var err error
	dst, err = appendCount(dst, len(h.Files), "file count")
	if err != nil {
		return nil, err
	}

	for i := range h.Files {
		h.Files[i].EntryOffset = pos()
		if dst, err = appendString(dst, h.Files[i].Path); err != nil {
			return nil, err
		}

		dst = binary.LittleEndian.AppendUint64(dst, h.Files[i].Size)
		dst = binary.LittleEndian.AppendUint64(dst, h.Files[i].Offset)
	}

	if dst, err = appendCount(dst, len(h.Dirs), "dir count"); err != nil {
		return nil, err
	}

	for i := range h.Dirs {
		h.Dirs[i].EntryOffset = pos()
		if dst, err = appendString(dst, h.Dirs[i].Path); err != nil {
			return nil, err
		}

		if dst, err = appendCount(dst, len(h.Dirs[i].Subfiles), "subfile count"); err != nil {
			return nil, err
		}

		for j := range h.Dirs[i].Subfiles {
			sub := &h.Dirs[i].Subfiles[j]
			sub.EntryOffset = pos()
			if dst, err = appendString(dst, sub.Name); err != nil {
				return nil, err
			}

			var flag byte
			if sub.IsDirectory {
				flag = 1
			}
			dst = append(dst, flag)
		}
	}

	h.Size = pos()
	return dst, nil
}

// appendCount writes a u32 record count.
func appendCount(dst []byte, n int, what string) ([]byte, error) {
	if uint64(n) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %s %d", ErrSizeOverflow, what, n)
	}

	return binary.LittleEndian.AppendUint32(dst, uint32(n)), nil
}

// appendString writes a u32 length-prefixed string.
func appendString(dst []byte, s string) ([]byte, error) {
	if len(s) > maxHeaderStringLen {
		return nil, fmt.Errorf("%w: string length %d", ErrSizeOverflow, len(s))
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s))) //nolint:gosec // bounded above
	return append(dst, s...), nil
}
