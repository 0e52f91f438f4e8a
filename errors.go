// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import "errors"

// Sentinel errors for WAD operations. Use errors.Is in callers.
var (
	// ErrMalformedMagic means the file does not start with the "AGAR" magic.
	ErrMalformedMagic = errors.New("invalid WAD file: bad magic")
	// ErrInvalidUTF8 means a file path, directory path or subfile name is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("header string is not valid UTF-8")
	// ErrUnknownPath means the path is not present in the file table.
	ErrUnknownPath = errors.New("unknown file path")
	// ErrUnknownDir means the path is not present in the directory table.
	ErrUnknownDir = errors.New("unknown directory path")
	// ErrEntryOutOfBounds means an entry data range exceeds the current file length.
	ErrEntryOutOfBounds = errors.New("entry data out of file bounds")
	// ErrClosed means the archive is already closed.
	ErrClosed = errors.New("archive already closed")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrEmptyInputs means no inputs were provided.
	ErrEmptyInputs = errors.New("no inputs provided")
	// ErrInvalidEntryPath means an input path is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrDuplicateEntryPath means two inputs resolve to the same path.
	ErrDuplicateEntryPath = errors.New("duplicate entry path")
	// ErrInvalidExtractPath means an archive path is invalid for the extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means the resolved extraction path escapes the destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrInvalidPathRules means one or more path filter rules are invalid.
	ErrInvalidPathRules = errors.New("invalid path rules")
	// ErrSizeOverflow means a length does not fit into its on-disk field.
	ErrSizeOverflow = errors.New("size exceeds on-disk field range")
)
