// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

/*
Package pak reads and writes Pak containers: a uint32 entry count, a uint32
offset table and concatenated entry payloads. Pak values appear as payloads of
WAD archive files and are frequently nested inside each other.

Wire layout (little-endian):

	count:   u32
	offsets: count × u32   (offsets[0] == 4 + 4*count, strictly ascending)
	payload: entry bytes   (last entry ends at buffer end)

Decoded entries start as raw byte views. Reading an entry as text or as a
nested container promotes the slot and caches the typed value, so later
Encode calls write the promoted form back:

	p, err := pak.Decode(data)
	if err != nil {
	    return err
	}
	line, err := p.Index(3, 0)
	if err != nil {
	    return err
	}
	text, err := line.AsUTF16()
	if err != nil {
	    return err
	}
	line.SetUTF16(strings.ToUpper(text))
	out, err := p.Encode()

Encode always rewrites the whole container; entries may change length freely.
*/
package pak
