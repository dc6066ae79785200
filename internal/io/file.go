package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")
)

// StagingPath returns a hidden, unique sibling path for target.
//
// The staging name keeps target's extension so tools that infer the
// container from the file name behave the same as for the final path:
//
//	StagingPath("/music/A/B/01 Song.flac")
//	// "/music/A/B/.01 Song.3f0c...e1.tmp.flac"
func StagingPath(target string) string {
	dir, base := filepath.Split(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp%s", stem, uuid.NewString(), ext))
}

// IsStagingName reports whether name looks like a StagingPath base name.
func IsStagingName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, ".tmp")
}

// CopyFile copies src to dst.
//
// The content is written to a staging file in dst's directory, synced and
// renamed onto dst. A failed copy removes the staging file and leaves dst
// untouched. The destination directory must exist.
//
// Returns ErrDestinationExists if dst already exists.
//
// Example:
//
//	n, err := CopyFile(ctx, "/src/Artist/Album/cover.jpg", "/dst/Artist/Album/cover.jpg")
func CopyFile(ctx context.Context, src, dst string) (int64, error) {
	if Exists(dst) {
		return 0, ErrDestinationExists
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	staging := StagingPath(dst)
	dstFile, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("%w: create staging file: %v", ErrCopyFailed, err)
	}

	size, err := io.Copy(dstFile, contextReader{ctx: ctx, r: srcFile})
	if err == nil {
		err = dstFile.Sync()
	}
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(staging)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	if err := os.Rename(staging, dst); err != nil {
		_ = os.Remove(staging)
		return 0, fmt.Errorf("%w: rename: %v", ErrCopyFailed, err)
	}

	return size, nil
}

// WriteFile writes data to path through a staging file.
//
// Unlike CopyFile it replaces an existing file.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFile(ctx, "/music/Artist/Album/Album.m3u", playlistContent)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	staging := StagingPath(path)
	if err := os.WriteFile(staging, data, 0644); err != nil {
		_ = os.Remove(staging)
		return err
	}
	if err := os.Rename(staging, path); err != nil {
		_ = os.Remove(staging)
		return err
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// IsDir reports whether path exists and is a directory, following symlinks.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at path. A dangling symlink counts.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// contextReader stops a copy once ctx is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
