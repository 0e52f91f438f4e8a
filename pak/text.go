// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package pak

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	// utf16BOM is the little-endian byte order mark prefixing UTF-16 entries.
	utf16BOM = [2]byte{0xff, 0xfe}

	// utf16LE transcodes BOM-less little-endian code units; the mark is handled here.
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
)

// decodeUTF16 reads BOM-prefixed UTF-16LE code units up to the first zero unit.
func decodeUTF16(data []byte) (string, error) {
	if len(data) < len(utf16BOM) || data[0] != utf16BOM[0] || data[1] != utf16BOM[1] {
		return "", fmt.Errorf("%w: missing FF FE byte order mark", ErrInvalidUTF16)
	}

	body := data[len(utf16BOM):]
	end := 0
	for end < len(body) {
		if end+1 >= len(body) {
			return "", fmt.Errorf("%w: odd trailing byte", ErrInvalidUTF16)
		}

		if binary.LittleEndian.Uint16(body[end:]) == 0 {
			break
		}

		end += 2
	}

	units := body[:end]
	if err := validateUTF16Units(units); err != nil {
		return "", err
	}

	out, err := utf16LE.NewDecoder().Bytes(units)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidUTF16, err)
	}

	return string(out), nil
}

// validateUTF16Units rejects unpaired surrogates in little-endian unit bytes.
func validateUTF16Units(units []byte) error {
	for i := 0; i < len(units); i += 2 {
		u := rune(binary.LittleEndian.Uint16(units[i:]))
		if !utf16.IsSurrogate(u) {
			continue
		}

		if i+3 >= len(units) {
			return fmt.Errorf("%w: unpaired surrogate at unit %d", ErrInvalidUTF16, i/2)
		}

		next := rune(binary.LittleEndian.Uint16(units[i+2:]))
		if utf16.DecodeRune(u, next) == utf8.RuneError {
			return fmt.Errorf("%w: unpaired surrogate at unit %d", ErrInvalidUTF16, i/2)
		}

		i += 2
	}

	return nil
}

// encodeUTF16 writes BOM, little-endian code units and one zero unit.
func encodeUTF16(s string) ([]byte, error) {
	units, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode utf16: %w", err)
	}

	out := make([]byte, 0, len(utf16BOM)+len(units)+2)
	out = append(out, utf16BOM[:]...)
	out = append(out, units...)
	return append(out, 0, 0), nil
}
