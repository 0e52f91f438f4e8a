// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// extractCopyBufferSize defines per-worker buffer size for file copy during extraction.
const extractCopyBufferSize = 64 * 1024

// extractWorkItem stores one selected entry with prepared output relative paths.
type extractWorkItem struct {
	relPath string
	relDir  string
	entry   FileEntry
}

// Extract writes selected files from the WAD to dstDir. Extraction is
// parallelized by MaxWorkers; on failure it returns the first encountered error.
func (a *Archive) Extract(ctx context.Context, dstDir string, opts ExtractOptions) error {
	if a == nil || a.file == nil {
		return ErrClosed
	}

	if ctx == nil {
		ctx = context.Background()
	}

	filter, err := newPathFilter(opts.Filter)
	if err != nil {
		return err
	}

	opts.applyDefaults()

	entries := a.selectFiles(filter)
	if len(entries) == 0 {
		return nil
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workItems, err := prepareExtractWorkItems(dstRootAbs, entries)
	if err != nil {
		return err
	}

	if err := prepareExtractDirs(dstRootAbs, workItems); err != nil {
		return err
	}

	a.logger.Info("extracting WAD",
		slog.String("wad", a.path),
		slog.String("dst", dstRootAbs),
		slog.Int("files", len(workItems)),
		slog.Int("workers", opts.MaxWorkers),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxWorkers)

	for _, task := range workItems {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			return a.extractPreparedEntry(gctx, dstRootAbs, task, opts)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// prepareExtractWorkItems validates selected entries and prepares relative fs paths,
// one work item per output file.
func prepareExtractWorkItems(dstRootAbs string, entries []FileEntry) ([]extractWorkItem, error) {
	workItems := make([]extractWorkItem, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for _, entry := range entries {
		normalizedPath, err := normalizeExtractEntryPath(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("normalize entry path %q: %w", entry.Path, err)
		}

		relPath := filepath.FromSlash(normalizedPath)
		if !filepath.IsLocal(relPath) {
			return nil, fmt.Errorf("%w: %q", ErrExtractPathOutsideRoot, entry.Path)
		}

		outPath := filepath.Join(dstRootAbs, relPath)
		if rel, err := filepath.Rel(dstRootAbs, outPath); err != nil || !filepath.IsLocal(rel) {
			return nil, fmt.Errorf("%w: %q", ErrExtractPathOutsideRoot, entry.Path)
		}

		relDir := filepath.Dir(relPath)
		if relDir == "." {
			relDir = ""
		}

		item := extractWorkItem{
			entry:   entry,
			relPath: relPath,
			relDir:  relDir,
		}

		// Table paths normalizing to one output file: the later record wins.
		if idx, dup := seen[relPath]; dup {
			workItems[idx] = item
			continue
		}

		seen[relPath] = len(workItems)
		workItems = append(workItems, item)
	}

	return workItems, nil
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dstRootAbs string, workItems []extractWorkItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		if _, exists := seen[task.relDir]; exists {
			continue
		}
		seen[task.relDir] = struct{}{}

		dirPath := filepath.Join(dstRootAbs, task.relDir)
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// extractPreparedEntry writes one prepared work item to destination root.
func (a *Archive) extractPreparedEntry(ctx context.Context, dstRootAbs string, task extractWorkItem, opts ExtractOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	outPath := filepath.Join(dstRootAbs, task.relPath)

	sr, err := a.sectionReader(&task.entry)
	if err != nil {
		return err
	}

	file, err := openExtractFile(outPath, opts.FileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.entry.Path, err)
	}

	buf := make([]byte, extractCopyBufferSize)
	_, copyErr := io.CopyBuffer(onlyWriter{file}, sr, buf)
	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", task.entry.Path, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.entry.Path, closeErr)
	}

	if opts.OnEntryDone != nil {
		opts.OnEntryDone(task.entry, outPath)
	}

	return nil
}

// onlyWriter hides ReadFrom so io.CopyBuffer uses the worker buffer.
type onlyWriter struct {
	io.Writer
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode) (*os.File, error) {
	switch mode {
	case ExtractFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("unknown extract file mode %q", mode)
	}
}

// normalizeExtractEntryPath normalizes entry path and rejects absolute/traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}

	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}

	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 3 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':' && path[2] == '/'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
