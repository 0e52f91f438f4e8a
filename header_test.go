// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadHeader_Minimal(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader(minimalWAD())
	h, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}

	if h.Version != [2]uint32{1, 2} {
		t.Fatalf("Version=%v, want [1 2]", h.Version)
	}

	if h.Size != minimalHeaderSize {
		t.Fatalf("Size=%d, want %d", h.Size, minimalHeaderSize)
	}

	if len(h.Files) != 1 {
		t.Fatalf("len(Files)=%d, want 1", len(h.Files))
	}

	want := FileEntry{Path: "file", EntryOffset: 20, Size: 16, Offset: 0}
	if h.Files[0] != want {
		t.Fatalf("Files[0]=%+v, want %+v", h.Files[0], want)
	}

	if got := h.Files[0].sizeFieldOffset(); got != 28 {
		t.Fatalf("sizeFieldOffset=%d, want 28", got)
	}

	if len(h.Dirs) != 1 || h.Dirs[0].Path != "" || h.Dirs[0].EntryOffset != 48 {
		t.Fatalf("Dirs=%+v, want root at 48", h.Dirs)
	}

	sub := h.Dirs[0].Subfiles
	if len(sub) != 1 || sub[0].Name != "file" || sub[0].IsDirectory || sub[0].EntryOffset != 56 {
		t.Fatalf("Subfiles=%+v", sub)
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}

	if pos != minimalHeaderSize {
		t.Fatalf("reader position=%d, want %d", pos, minimalHeaderSize)
	}
}

func TestReadHeader_Errors(t *testing.T) {
	t.Parallel()

	badUTF8 := minimalWAD()
	// First byte of the "file" path in the file record.
	badUTF8[24] = 0xff

	testCases := []struct {
		want error
		name string
		data []byte
	}{
		{name: "empty", data: nil, want: io.ErrUnexpectedEOF},
		{name: "short prefix", data: []byte("AGAR\x01"), want: io.ErrUnexpectedEOF},
		{name: "bad magic", data: append([]byte("WAD2"), minimalWAD()[4:]...), want: ErrMalformedMagic},
		{name: "truncated file table", data: minimalWAD()[:30], want: io.ErrUnexpectedEOF},
		{name: "truncated dir table", data: minimalWAD()[:60], want: io.ErrUnexpectedEOF},
		{name: "invalid utf8", data: badUTF8, want: ErrInvalidUTF8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadHeader(bytes.NewReader(tc.data))
			if !errors.Is(err, tc.want) {
				t.Fatalf("ReadHeader err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestReadHeader_StringTooLong(t *testing.T) {
	t.Parallel()

	raw := minimalWAD()
	// File path length field set to 1 MiB.
	raw[20], raw[21], raw[22], raw[23] = 0x00, 0x00, 0x10, 0x00

	_, err := ReadHeader(bytes.NewReader(raw))
	if !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("ReadHeader err=%v, want ErrSizeOverflow", err)
	}
}

func TestAppendHeader_MatchesMinimal(t *testing.T) {
	t.Parallel()

	h := &Header{
		Version: [2]uint32{1, 2},
		Files:   []FileEntry{{Path: "file", Size: 16}},
		Dirs:    []DirEntry{{Path: "", Subfiles: []SubfileEntry{{Name: "file"}}}},
	}

	got, err := appendHeader(nil, h)
	if err != nil {
		t.Fatalf("appendHeader: %v", err)
	}

	want := minimalWAD()[:minimalHeaderSize]
	if !bytes.Equal(got, want) {
		t.Fatalf("appendHeader=%x, want %x", got, want)
	}

	if h.Size != minimalHeaderSize || h.Files[0].EntryOffset != 20 || h.Dirs[0].Subfiles[0].EntryOffset != 56 {
		t.Fatalf("offsets not filled: size=%d file=%d sub=%d",
			h.Size, h.Files[0].EntryOffset, h.Dirs[0].Subfiles[0].EntryOffset)
	}
}

func TestAppendHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	h := &Header{
		Version:  [2]uint32{7, 9},
		Reserved: 42,
		Files: []FileEntry{
			{Path: "a/b.bin", Size: 3, Offset: 0},
			{Path: "c.txt", Size: 5, Offset: 3},
		},
		Dirs: []DirEntry{
			{Path: "", Subfiles: []SubfileEntry{{Name: "a", IsDirectory: true}, {Name: "c.txt"}}},
			{Path: "a", Subfiles: []SubfileEntry{{Name: "b.bin"}}},
		},
	}

	raw, err := appendHeader(nil, h)
	if err != nil {
		t.Fatalf("appendHeader: %v", err)
	}

	parsed, err := ReadHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}

	if parsed.Size != uint64(len(raw)) || parsed.Size != h.Size {
		t.Fatalf("Size=%d, want %d", parsed.Size, len(raw))
	}

	if parsed.Reserved != 42 || parsed.Version != h.Version {
		t.Fatalf("prefix mismatch: %+v", parsed)
	}

	for i := range h.Files {
		if parsed.Files[i] != h.Files[i] {
			t.Fatalf("Files[%d]=%+v, want %+v", i, parsed.Files[i], h.Files[i])
		}
	}

	if !parsed.Dirs[0].Subfiles[0].IsDirectory || parsed.Dirs[1].Path != "a" {
		t.Fatalf("Dirs=%+v", parsed.Dirs)
	}
}
