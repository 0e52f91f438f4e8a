// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

/*
Package wad provides read, extract, pack, and in-place inject operations for
AGAR WAD archives. Nested Pak containers stored inside WAD files are handled
by the sibling package github.com/woozymasta/wad/pak.

An archive starts with a header holding the "AGAR" magic, a two-part version,
a file table and a directory table. File offsets are relative to the end of
the header. The root directory is stored with the empty path "".

# Reading

Open a WAD and read files by their exact table path:

	a, err := wad.Open("dr2_data.wad")
	if err != nil {
	    return err
	}
	defer a.Close()
	data, err := a.ReadFile("Dr2/data/all/bin/dr2_data.pak")
	if err != nil {
	    return err
	}
	_ = data

Directory listings yield "dir/name" paths, so children of the root come out
as "/name":

	seq, err := a.ListDir("Dr2/data", false)
	if err != nil {
	    return err
	}
	for p := range seq {
	    fmt.Println(p)
	}

For metadata-only scans, use helpers that do not keep the file open:

	files, err := wad.ListFiles("dr2_data.wad", wad.FilterOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.pak"},
	    },
	})

# Injecting

InjectFile overwrites the payload in place when it fits the current slot,
otherwise appends it at end of file and rewrites the record offset:

	if err := a.InjectFile("Dr2/data/all/bin/dr2_data.pak", modified); err != nil {
	    return err
	}

Many files can be replaced in one batch with an optional backup that is
restored when any entry fails:

	inputs, err := a.DirInputs("modified/", wad.FilterOptions{})
	if err != nil {
	    return err
	}
	b := a.NewBatch(wad.BatchOptions{BackupKeep: 1})
	if err := b.Replace(inputs...); err != nil {
	    return err
	}
	res, err := b.Commit(ctx)

# Extracting and packing

	if err := a.Extract(ctx, "out/", wad.ExtractOptions{MaxWorkers: 4}); err != nil {
	    return err
	}

	res, err := wad.PackFile(ctx, "new.wad", []wad.Input{
	    {Path: "data/a.bin", Open: func() (io.ReadCloser, error) { return os.Open("a.bin") }},
	}, wad.PackOptions{})
*/
package wad
