package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/wavtoflac/internal/io"
)

// ErrNotUnderRoot is returned when a source path has no relative path
// inside the source root.
var ErrNotUnderRoot = errors.New("path is not under the source root")

// Transform rewrites a root-relative path before it is joined onto the
// destination root.
type Transform func(rel string) string

// Identity keeps the relative path unchanged. Covers use it.
func Identity(rel string) string {
	return rel
}

// SwapExtension returns a Transform that replaces the file extension
// with ext (given without the dot). Files without an extension gain one,
// and dot-files keep their whole name as the stem.
func SwapExtension(ext string) Transform {
	return func(rel string) string {
		dir, base := filepath.Split(rel)
		stem := base
		if e := filepath.Ext(base); e != base {
			stem = strings.TrimSuffix(base, e)
		}
		return dir + stem + "." + ext
	}
}

// Mapper mirrors paths from a source tree into a destination tree.
type Mapper struct {
	SourceRoot string
	DestRoot   string
}

// NewMapper creates a Mapper between two roots.
func NewMapper(sourceRoot, destRoot string) *Mapper {
	return &Mapper{
		SourceRoot: filepath.Clean(sourceRoot),
		DestRoot:   filepath.Clean(destRoot),
	}
}

// Target computes the destination of source without looking at the
// file system: /src/A/B/01 Song.wav maps to /dst/A/B/01 Song.flac with
// SwapExtension("flac").
func (m *Mapper) Target(source string, transform Transform) (string, error) {
	rel, err := filepath.Rel(m.SourceRoot, filepath.Clean(source))
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, ErrNotUnderRoot)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", source, ErrNotUnderRoot)
	}
	return filepath.Join(m.DestRoot, transform(rel)), nil
}

// Map returns the destination of source only when nothing exists there
// yet. A second run over a finished tree therefore maps nothing.
func (m *Mapper) Map(source string, transform Transform) (string, bool) {
	target, err := m.Target(source, transform)
	if err != nil || ioutils.Exists(target) {
		return "", false
	}
	return target, true
}
