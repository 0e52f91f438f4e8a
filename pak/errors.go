// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package pak

import "errors"

// Sentinel errors for Pak operations. Use errors.Is in callers.
var (
	// ErrInvalidOffsetTable means the offset table is short, out of bounds, or not strictly ascending.
	ErrInvalidOffsetTable = errors.New("invalid pak offset table")
	// ErrInvalidUTF8 means entry bytes are not valid NUL-terminated UTF-8 text.
	ErrInvalidUTF8 = errors.New("entry is not valid UTF-8 text")
	// ErrInvalidUTF16 means entry bytes are not BOM-prefixed well-formed UTF-16LE text.
	ErrInvalidUTF16 = errors.New("entry is not valid UTF-16LE text")
	// ErrKindMismatch means entry already holds a different typed interpretation.
	ErrKindMismatch = errors.New("entry holds a different interpretation")
	// ErrIndexOutOfRange means an index path step points past the container end.
	ErrIndexOutOfRange = errors.New("pak index out of range")
	// ErrInvalidIndices means an index path is empty or crosses a non-container entry.
	ErrInvalidIndices = errors.New("invalid pak indices")
	// ErrEmptyEntry means an empty raw entry cannot be encoded with strictly ascending offsets.
	ErrEmptyEntry = errors.New("empty pak entry")
	// ErrContainerTooLarge means encoded offsets do not fit into uint32.
	ErrContainerTooLarge = errors.New("pak container exceeds 4 GiB")
)
