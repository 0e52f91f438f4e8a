// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Batch accumulates payload replacements and injects them on Commit.
type Batch struct {
	archive *Archive
	inputs  []Input
	opts    BatchOptions
}

// NewBatch creates staged batch over an open archive.
func (a *Archive) NewBatch(opts BatchOptions) *Batch {
	opts.applyDefaults()

	return &Batch{
		archive: a,
		opts:    opts,
		inputs:  make([]Input, 0, 8),
	}
}

// Replace schedules replacing payloads of existing files.
// Paths must match file table entries exactly.
func (b *Batch) Replace(inputs ...Input) error {
	if b == nil || b.archive == nil {
		return ErrClosed
	}

	for i := range inputs {
		if strings.TrimSpace(inputs[i].Path) == "" {
			return fmt.Errorf("%w: input path %q", ErrInvalidEntryPath, inputs[i].Path)
		}

		if inputs[i].Open == nil {
			return fmt.Errorf("%w: input %s has nil Open", ErrInvalidEntryPath, inputs[i].Path)
		}

		if _, err := b.archive.lookupFile(inputs[i].Path); err != nil {
			return err
		}
	}

	b.inputs = append(b.inputs, inputs...)
	return nil
}

// Len returns number of staged replacements.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}

	return len(b.inputs)
}

// Commit injects staged replacements in order and stops on the first failure.
//
// Without a backup, entries injected before the failure stay modified and the
// partial result is returned with the error. With BackupKeep above zero, the
// archive is copied to `<archive>.bak` first and restored from it on failure.
func (b *Batch) Commit(ctx context.Context) (*BatchResult, error) {
	if b == nil || b.archive == nil {
		return nil, ErrClosed
	}

	if ctx == nil {
		ctx = context.Background()
	}

	a := b.archive
	if a.file == nil {
		return nil, ErrClosed
	}

	res := &BatchResult{}
	if b.opts.BackupKeep > 0 {
		backupPath := a.path + ".bak"
		if err := prepareBackupSlot(backupPath, b.opts.BackupKeep); err != nil {
			return nil, err
		}

		if err := copyFile(a.path, backupPath); err != nil {
			return nil, fmt.Errorf("write backup: %w", err)
		}

		res.BackupPath = backupPath
	}

	for i := range b.inputs {
		if err := b.commitInput(ctx, b.inputs[i], res); err != nil {
			if res.BackupPath == "" {
				return res, err
			}

			if restoreErr := a.restoreFromBackup(res.BackupPath); restoreErr != nil {
				return nil, fmt.Errorf("%w (restore failed: %w)", err, restoreErr)
			}

			return nil, err
		}
	}

	b.inputs = b.inputs[:0]
	return res, nil
}

// commitInput reads one staged payload and injects it.
func (b *Batch) commitInput(ctx context.Context, in Input, res *BatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := readInput(in)
	if err != nil {
		return err
	}

	outcome, err := b.archive.injectFile(in.Path, data)
	if err != nil {
		return err
	}

	res.Injected++
	res.GrownBytes += outcome.grown
	if outcome.relocated {
		res.Relocated++
	}

	if b.opts.OnEntryDone != nil {
		b.opts.OnEntryDone(InjectProgress{
			Path:      in.Path,
			Size:      uint64(len(data)),
			Relocated: outcome.relocated,
		})
	}

	return nil
}

// readInput loads full payload of one input.
func readInput(in Input) ([]byte, error) {
	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", in.Path, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", in.Path, err)
	}

	return data, nil
}

// restoreFromBackup copies backup over the archive and reloads the header.
func (a *Archive) restoreFromBackup(backupPath string) error {
	a.logger.Warn("restoring WAD from backup",
		slog.String("wad", a.path),
		slog.String("backup", backupPath),
	)

	closeQuietly(a.file)
	a.file = nil

	if err := copyFile(backupPath, a.path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return a.load()
}

// DirInputs builds batch inputs from files under srcDir whose relative
// slash paths are present in the file table and selected by filter.
func (a *Archive) DirInputs(srcDir string, filter FilterOptions) ([]Input, error) {
	if a == nil || a.file == nil {
		return nil, ErrClosed
	}

	pf, err := newPathFilter(filter)
	if err != nil {
		return nil, err
	}

	var inputs []Input
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}

		archivePath := filepath.ToSlash(rel)
		if _, ok := a.files[archivePath]; !ok || !pf.Match(archivePath) {
			return nil
		}

		inputs = append(inputs, Input{
			Path: archivePath,
			Open: func() (io.ReadCloser, error) { return os.Open(p) },
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", srcDir, err)
	}

	return inputs, nil
}

// prepareBackupSlot rotates/removes existing backup generations before new commit.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	switch keep {
	case 0, 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// copyFile copies src to dst with truncate and fsync.
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
