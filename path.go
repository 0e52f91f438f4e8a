// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"fmt"
	"path"
	"strings"
)

// NormalizePath converts a user path to the slash-separated form stored in WAD tables.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}

// normalizeArchiveEntryPath converts input path to canonical table form.
func normalizeArchiveEntryPath(raw string) (string, error) {
	normalized := NormalizePath(raw)
	if normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryPath, raw)
	}

	return normalized, nil
}

// joinDirPath builds a listing path the way directory tables address children.
// The root directory is "", so its children come out as "/name".
func joinDirPath(dir string, name string) string {
	return dir + "/" + name
}

// splitDirPath returns parent directory and base name of a table path.
func splitDirPath(p string) (string, string) {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return "", p
	}

	return p[:idx], p[idx+1:]
}
