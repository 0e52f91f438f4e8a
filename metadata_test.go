// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"errors"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestReadHeaderFile(t *testing.T) {
	t.Parallel()

	h, err := ReadHeaderFile(writeTestFile(t, "min.wad", minimalWAD()))
	if err != nil {
		t.Fatalf("ReadHeaderFile: %v", err)
	}

	if h.Size != minimalHeaderSize || len(h.Files) != 1 || h.Files[0].Path != "file" {
		t.Fatalf("header=%+v", h)
	}

	_, err = ReadHeaderFile(writeTestFile(t, "bad.wad", []byte("NOPE0000000000000000")))
	if !errors.Is(err, ErrMalformedMagic) {
		t.Fatalf("ReadHeaderFile err=%v, want ErrMalformedMagic", err)
	}
}

func TestListFiles(t *testing.T) {
	t.Parallel()

	path := createTestWAD(t, map[string][]byte{
		"a.txt":          []byte("a"),
		"scripts/main.c": []byte("main"),
		"scripts/util.c": []byte("util"),
	})

	all, err := ListFiles(path, FilterOptions{})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	if len(all) != 3 || all[0].Path != "a.txt" {
		t.Fatalf("ListFiles=%+v", all)
	}

	scripts, err := ListFiles(path, FilterOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "scripts/**"}},
	})
	if err != nil {
		t.Fatalf("ListFiles filtered: %v", err)
	}

	if len(scripts) != 2 || scripts[0].Path != "scripts/main.c" || scripts[1].Path != "scripts/util.c" {
		t.Fatalf("filtered=%+v", scripts)
	}
}

func TestListFiles_CaseInsensitive(t *testing.T) {
	t.Parallel()

	path := createTestWAD(t, map[string][]byte{
		"Scripts/Main.C": []byte("main"),
		"other.txt":      []byte("x"),
	})

	got, err := ListFiles(path, FilterOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "scripts/**"}},
		MatcherOptions: pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		},
	})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	if len(got) != 1 || got[0].Path != "Scripts/Main.C" {
		t.Fatalf("ListFiles=%+v", got)
	}
}

func TestListFiles_ExcludeOnlyRules(t *testing.T) {
	t.Parallel()

	path := createTestWAD(t, map[string][]byte{
		"scripts/a.lin": []byte("lin"),
		"images/b.tga":  []byte("tga"),
	})

	got, err := ListFiles(path, FilterOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "*.tga"}},
	})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	if len(got) != 1 || got[0].Path != "scripts/a.lin" {
		t.Fatalf("ListFiles=%+v, want only scripts/a.lin", got)
	}

	a := mustOpen(t, path)
	selected, err := a.SelectFiles(FilterOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "*.tga"}},
	})
	if err != nil {
		t.Fatalf("SelectFiles: %v", err)
	}

	if len(selected) != 1 || selected[0].Path != "scripts/a.lin" {
		t.Fatalf("SelectFiles=%+v, want only scripts/a.lin", selected)
	}
}

func TestFilterOptionsDefaultAction(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		rules       []pathrules.Rule
		opts        pathrules.MatcherOptions
		wantInclude bool
	}{
		{
			name:        "exclude only",
			rules:       []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "*.tga"}},
			wantInclude: true,
		},
		{
			name: "mixed",
			rules: []pathrules.Rule{
				{Action: pathrules.ActionInclude, Pattern: "scripts/**"},
				{Action: pathrules.ActionExclude, Pattern: "scripts/tmp/**"},
			},
		},
		{
			name:  "explicit",
			rules: []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "*.tga"}},
			opts:  pathrules.MatcherOptions{DefaultAction: pathrules.ActionExclude},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := FilterOptions{Rules: tc.rules, MatcherOptions: tc.opts}
			opts.applyDefaults()
			gotInclude := opts.MatcherOptions.DefaultAction == pathrules.ActionInclude
			if gotInclude != tc.wantInclude {
				t.Fatalf("DefaultAction include=%v, want %v", gotInclude, tc.wantInclude)
			}
		})
	}
}
