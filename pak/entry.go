// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package pak

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Kind identifies the current interpretation of an entry.
type Kind uint8

// Entry interpretations.
const (
	// KindRaw holds bytes exactly as stored.
	KindRaw Kind = iota
	// KindUTF8 holds NUL-terminated UTF-8 text.
	KindUTF8
	// KindUTF16 holds BOM-prefixed, NUL-terminated UTF-16LE text.
	KindUTF16
	// KindPak holds a decoded nested container.
	KindPak
)

// String returns kind name.
func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindUTF8:
		return "utf8"
	case KindUTF16:
		return "utf16"
	case KindPak:
		return "pak"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is one container slot. Promotion from raw bytes to a typed value
// replaces the slot contents and is never reverted by reads.
type Entry struct {
	// data is set for KindRaw.
	data []byte
	// text is set for KindUTF8 and KindUTF16.
	text string
	// sub is set for KindPak.
	sub  *Pak
	kind Kind
}

// RawEntry returns an entry holding data as is.
func RawEntry(data []byte) Entry {
	return Entry{kind: KindRaw, data: data}
}

// UTF8Entry returns an entry encoded as NUL-terminated UTF-8.
func UTF8Entry(s string) Entry {
	return Entry{kind: KindUTF8, text: s}
}

// UTF16Entry returns an entry encoded as BOM-prefixed NUL-terminated UTF-16LE.
func UTF16Entry(s string) Entry {
	return Entry{kind: KindUTF16, text: s}
}

// PakEntry returns an entry holding a nested container.
func PakEntry(p *Pak) Entry {
	if p == nil {
		p = &Pak{}
	}

	return Entry{kind: KindPak, sub: p}
}

// Kind returns current interpretation.
func (e *Entry) Kind() Kind {
	return e.kind
}

// Bytes returns the wire form of the current interpretation.
func (e *Entry) Bytes() ([]byte, error) {
	return e.encode()
}

// AsUTF8 interprets a raw entry as UTF-8 text up to the first NUL and caches it.
func (e *Entry) AsUTF8() (string, error) {
	switch e.kind {
	case KindUTF8:
		return e.text, nil
	case KindRaw:
	default:
		return "", fmt.Errorf("%w: %s as utf8", ErrKindMismatch, e.kind)
	}

	raw := e.data
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}

	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}

	e.promoteText(KindUTF8, string(raw))
	return e.text, nil
}

// AsUTF16 interprets a raw entry as BOM-prefixed UTF-16LE text and caches it.
func (e *Entry) AsUTF16() (string, error) {
	switch e.kind {
	case KindUTF16:
		return e.text, nil
	case KindRaw:
	default:
		return "", fmt.Errorf("%w: %s as utf16", ErrKindMismatch, e.kind)
	}

	text, err := decodeUTF16(e.data)
	if err != nil {
		return "", err
	}

	e.promoteText(KindUTF16, text)
	return e.text, nil
}

// AsPak decodes a raw entry as a nested container and caches it.
// The returned container is owned by the entry; changes to it are
// written out by the parent Encode.
func (e *Entry) AsPak() (*Pak, error) {
	switch e.kind {
	case KindPak:
		return e.sub, nil
	case KindRaw:
	default:
		return nil, fmt.Errorf("%w: %s as pak", ErrKindMismatch, e.kind)
	}

	sub, err := Decode(e.data)
	if err != nil {
		return nil, err
	}

	e.data = nil
	e.sub = sub
	e.kind = KindPak
	return sub, nil
}

// SetData replaces the entry with raw bytes.
func (e *Entry) SetData(data []byte) {
	*e = RawEntry(data)
}

// SetUTF8 replaces the entry with UTF-8 text.
func (e *Entry) SetUTF8(s string) {
	*e = UTF8Entry(s)
}

// SetUTF16 replaces the entry with UTF-16LE text.
func (e *Entry) SetUTF16(s string) {
	*e = UTF16Entry(s)
}

// SetPak replaces the entry with a nested container.
func (e *Entry) SetPak(p *Pak) {
	*e = PakEntry(p)
}

func (e *Entry) promoteText(kind Kind, text string) {
	e.data = nil
	e.text = text
	e.kind = kind
}

// encode serializes the current interpretation.
func (e *Entry) encode() ([]byte, error) {
	switch e.kind {
	case KindRaw:
		return e.data, nil
	case KindUTF8:
		out := make([]byte, 0, len(e.text)+1)
		out = append(out, e.text...)
		return append(out, 0), nil
	case KindUTF16:
		return encodeUTF16(e.text)
	case KindPak:
		return e.sub.Encode()
	default:
		return nil, fmt.Errorf("unknown entry kind %d", e.kind)
	}
}
