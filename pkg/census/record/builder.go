// Package record builds one dataset record per scanned file. Each
// metadata extractor is isolated: a failing field degrades to the empty
// string and is logged, and never prevents the remaining fields from
// being computed.
package record

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/census/pkg/census/checksum"
	"github.com/jamesainslie/census/pkg/census/content"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

var logger = logging.Get("record")

// Builder produces records according to its configuration. The zero
// value is not usable; construct with NewBuilder.
type Builder struct {
	// algorithm selects the checksum digest.
	algorithm checksum.Algorithm

	// previewBytes bounds the content preview.
	previewBytes int

	// includeContent controls whether the content column is populated
	// at all. When false, classification and content reads are skipped.
	includeContent bool
}

// NewBuilder returns a Builder using the given checksum algorithm and
// preview byte budget. When includeContent is false the fileContent
// column is always empty and no content reads are attempted.
func NewBuilder(algo checksum.Algorithm, previewBytes int, includeContent bool) *Builder {
	if previewBytes <= 0 {
		previewBytes = content.DefaultPreviewBytes
	}
	return &Builder{
		algorithm:      algo,
		previewBytes:   previewBytes,
		includeContent: includeContent,
	}
}

// Build gathers all metadata fields for the file at path and returns
// the assembled record. info must describe the same file; callers
// obtain it from the directory enumeration to avoid a second stat.
//
// Build never fails as a whole. Individual extraction failures are
// logged and leave the corresponding field empty.
func (b *Builder) Build(path string, info fs.FileInfo) types.Record {
	rec := types.Record{
		Name:   info.Name(),
		SizeKB: types.CeilKB(info.Size()),
	}

	rec.Extension = Extension(rec.Name)
	rec.Modified = info.ModTime().Local().Format(types.TimestampLayout)
	rec.Created = formatCreateTime(path, info)
	rec.Author = fileOwner(info)
	rec.Path = absolutePath(path)
	rec.Permissions = permissionString(info)

	sum, err := checksum.Sum(path, b.algorithm)
	if err != nil {
		logger.Warn("checksum failed", "path", path, "error", err)
	}
	rec.Checksum = sum

	if b.includeContent && !content.IsBinary(path) {
		preview, err := content.Preview(path, b.previewBytes)
		if err != nil {
			logger.Warn("content preview failed", "path", path, "error", err)
		} else {
			rec.Content = content.EscapeField(preview)
		}
	}

	return rec
}

// Extension returns the file name extension without its dot. A dot
// that is the first or last character of the name yields no extension,
// so "README", ".gitignore", and "trailing." all map to "".
func Extension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return ""
	}
	return name[dot+1:]
}

// absolutePath resolves path to absolute form, falling back to the
// original on failure.
func absolutePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Warn("path resolution failed", "path", path, "error", err)
		return path
	}
	return abs
}

// formatCreateTime renders the file creation timestamp, or "" when the
// platform exposes no birth time.
func formatCreateTime(path string, info fs.FileInfo) string {
	created, ok := getCreateTime(path, info)
	if !ok {
		return ""
	}
	return created.Local().Format(types.TimestampLayout)
}

// permissionString renders the 9-character POSIX symbolic permission
// string (e.g. "rwxr-xr-x") for the owner, group, and other classes.
// Non-POSIX platforms emit "" instead of a synthesized mode.
func permissionString(info fs.FileInfo) string {
	if !posixPermissions {
		logger.Debug("posix permissions unsupported on this platform")
		return ""
	}
	perm := info.Mode().Perm()

	var sb strings.Builder
	sb.Grow(9)
	for shift := 8; shift >= 0; shift-- {
		bit := perm>>shift&1 == 1
		sym := "rwx"[(8-shift)%3]
		if bit {
			sb.WriteByte(sym)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// fileOwner resolves the owner principal name for a file. On any
// failure, or on platforms without POSIX ownership, it returns "":
// callers never need to special-case platform differences.
func fileOwner(info fs.FileInfo) string {
	return getOwner(info)
}
