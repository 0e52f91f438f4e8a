// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	magicSize       = 4  // "AGAR"
	headerPrefixLen = 16 // magic + version[2] + reserved
	lengthFieldSize = 4  // u32 string length prefix
	sizeFieldSize   = 8  // u64 file size
	offsetFieldSize = 8  // u64 file offset
)

// Magic is the 4-byte WAD signature.
const Magic = "AGAR"

// DefaultVersion is written by Pack when PackOptions.Version is zero.
var DefaultVersion = [2]uint32{1, 1}

// Header is the parsed WAD header. Size is the byte length of the header
// region, i.e. the absolute offset where file data starts.
type Header struct {
	// Files are file records in table order.
	Files []FileEntry `json:"files" yaml:"files"`
	// Dirs are directory records in table order.
	Dirs []DirEntry `json:"dirs" yaml:"dirs"`
	// Version is the two-part format version.
	Version [2]uint32 `json:"version" yaml:"version"`
	// Reserved is the unused word following the version.
	Reserved uint32 `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	// Size is header length in bytes.
	Size uint64 `json:"size" yaml:"size"`
}

// FileEntry describes one file record.
type FileEntry struct {
	// Path is the full file path as stored.
	Path string `json:"path" yaml:"path"`
	// EntryOffset is the absolute position of the record's path length field.
	EntryOffset uint64 `json:"entry_offset" yaml:"entry_offset"`
	// Size is payload size in bytes.
	Size uint64 `json:"size" yaml:"size"`
	// Offset is payload position relative to Header.Size.
	Offset uint64 `json:"offset" yaml:"offset"`
}

// sizeFieldOffset returns the absolute position of the record's size field.
func (e *FileEntry) sizeFieldOffset() int64 {
	return int64(e.EntryOffset) + lengthFieldSize + int64(len(e.Path)) //nolint:gosec // header offsets are bounded by file size
}

// DirEntry describes one directory listing.
type DirEntry struct {
	// Path is the directory path as stored; the root directory is "".
	Path string `json:"path" yaml:"path"`
	// Subfiles are direct children in table order.
	Subfiles []SubfileEntry `json:"subfiles" yaml:"subfiles"`
	// EntryOffset is the absolute position of the record's path length field.
	EntryOffset uint64 `json:"entry_offset" yaml:"entry_offset"`
}

// SubfileEntry is one child of a directory listing.
type SubfileEntry struct {
	// Name is the child name without parent path.
	Name string `json:"name" yaml:"name"`
	// EntryOffset is the absolute position of the record's name length field.
	EntryOffset uint64 `json:"entry_offset" yaml:"entry_offset"`
	// IsDirectory reports whether child is a directory.
	IsDirectory bool `json:"is_directory" yaml:"is_directory"`
}

// Input describes one payload source for Pack or Batch.
type Input struct {
	// Open returns payload stream for this entry.
	Open func() (io.ReadCloser, error) `json:"-" yaml:"-"`
	// Path is destination path inside the archive.
	Path string `json:"path" yaml:"path"`
}

// OpenOptions configures Open behavior.
type OpenOptions struct {
	// Logger receives read and inject events; nil discards them.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// CacheEntries enables an LRU cache of ReadFile results with this many entries.
	// Zero disables caching.
	CacheEntries int `json:"cache_entries,omitempty" yaml:"cache_entries,omitempty"`
}

// FilterOptions selects archive paths by ordered include/exclude rules.
type FilterOptions struct {
	// Rules are evaluated in order; the last matching rule wins.
	// Empty rule set selects every path.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
}

// PackEntryProgress contains one completed entry write event from Pack.
type PackEntryProgress struct {
	// Path is entry path written to archive.
	Path string `json:"path" yaml:"path"`
	// Offset is payload offset relative to header end.
	Offset uint64 `json:"offset" yaml:"offset"`
	// Size is payload size in bytes.
	Size uint64 `json:"size" yaml:"size"`
}

// PackOptions configures Pack behavior.
type PackOptions struct {
	// OnEntryDone is called after one entry payload is written.
	OnEntryDone func(entry PackEntryProgress) `json:"-" yaml:"-"`
	// Version is written into the header; zero means DefaultVersion.
	Version [2]uint32 `json:"version,omitzero" yaml:"version,omitzero"`
	// Reserved is written into the reserved header word.
	Reserved uint32 `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

// PackResult contains pack output statistics.
type PackResult struct {
	// WrittenFiles is number of file records written.
	WrittenFiles int `json:"written_files" yaml:"written_files"`
	// WrittenDirs is number of directory records written.
	WrittenDirs int `json:"written_dirs" yaml:"written_dirs"`
	// HeaderSize is header length in bytes.
	HeaderSize int64 `json:"header_size" yaml:"header_size"`
	// DataSize is total payload bytes written.
	DataSize int64 `json:"data_size" yaml:"data_size"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one file is fully written to disk.
	OnEntryDone func(entry FileEntry, outputPath string) `json:"-" yaml:"-"`
	// Filter selects archive paths to extract.
	Filter FilterOptions `json:"filter,omitzero" yaml:"filter,omitzero"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// InjectProgress contains one completed injection event from Batch.Commit.
type InjectProgress struct {
	// Path is injected file path.
	Path string `json:"path" yaml:"path"`
	// Size is new payload size.
	Size uint64 `json:"size" yaml:"size"`
	// Relocated reports whether payload was moved to end of file.
	Relocated bool `json:"relocated,omitempty" yaml:"relocated,omitempty"`
}

// BatchOptions configures Batch commit behavior.
type BatchOptions struct {
	// OnEntryDone is called after one entry is injected.
	OnEntryDone func(entry InjectProgress) `json:"-" yaml:"-"`
	// BackupKeep controls how many backup generations are created before commit.
	// 0 disables backups (a failed commit leaves earlier entries injected),
	// 1 keeps only `<archive>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	// With a backup present a failed commit restores the archive from it.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
}

// BatchResult contains batch commit statistics.
type BatchResult struct {
	// BackupPath is the backup written before commit, empty when disabled.
	BackupPath string `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	// Injected is number of entries injected.
	Injected int `json:"injected" yaml:"injected"`
	// Relocated is number of entries moved to end of file.
	Relocated int `json:"relocated,omitempty" yaml:"relocated,omitempty"`
	// GrownBytes is number of bytes appended to the archive.
	GrownBytes int64 `json:"grown_bytes,omitempty" yaml:"grown_bytes,omitempty"`
}

// applyDefaults fills zero-valued open options with defaults.
func (opts *OpenOptions) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = discardLogger
	}

	if opts.CacheEntries < 0 {
		opts.CacheEntries = 0
	}
}

// applyDefaults fills zero-valued filter options with defaults.
// An unset DefaultAction selects unmatched paths when every rule is an
// exclude rule, and drops them otherwise.
func (opts *FilterOptions) applyDefaults() {
	if opts.MatcherOptions.DefaultAction != pathrules.ActionUnknown {
		return
	}

	opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
	for _, rule := range opts.Rules {
		if rule.Action != pathrules.ActionExclude {
			opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
			return
		}
	}
}

// applyDefaults fills zero-valued pack options with defaults.
func (opts *PackOptions) applyDefaults() {
	if opts.Version == ([2]uint32{}) {
		opts.Version = DefaultVersion
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	opts.Filter.applyDefaults()

	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeTruncate
	}

	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}

	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
}

// applyDefaults fills zero-valued batch options with defaults.
func (opts *BatchOptions) applyDefaults() {
	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}
}
