package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/handiism/wavtoflac/internal/model"
	"golang.org/x/text/unicode/norm"
)

// Tag derivation errors. Each failure mode is distinct so callers can
// report precisely why a path did not follow the expected layout.
var (
	ErrTooFewAncestors    = errors.New("path needs artist and album directories")
	ErrNoTrackSeparator   = errors.New("file name has no space between track number and title")
	ErrInvalidTrackNumber = errors.New("track number is not a non-negative integer")
)

// DeriveTags infers artist, album, track number and title from a
// destination path shaped like .../<artist>/<album>/<NN> <title>.<ext>.
//
// The album is the stem of the parent directory and the artist the stem of
// the grandparent: like file names, directory names lose their last
// extension, so "Album.2020" yields "Album". The file stem is split at its
// first space: the prefix, with at most one leading '+', must parse as an
// unsigned integer and the trimmed remainder is the title.
//
// All values are returned in Unicode NFC so tags written from decomposed
// (macOS) file names compare equal to their composed forms.
//
// Example:
//
//	tags, err := DeriveTags("/music/Artist/Album/07 My Title.flac")
//	// tags = {Artist: "Artist", Album: "Album", TrackNumber: 7, Title: "My Title"}
func DeriveTags(target string) (model.DerivedTags, error) {
	clean := filepath.Clean(target)

	albumDir := filepath.Dir(clean)
	artistDir := filepath.Dir(albumDir)
	album := dirName(albumDir)
	artist := dirName(artistDir)
	if album == "" || artist == "" {
		return model.DerivedTags{}, fmt.Errorf("%s: %w", target, ErrTooFewAncestors)
	}

	prefix, rest, found := strings.Cut(stem(filepath.Base(clean)), " ")
	if !found {
		return model.DerivedTags{}, fmt.Errorf("%s: %w", target, ErrNoTrackSeparator)
	}

	number, err := strconv.ParseUint(strings.TrimPrefix(prefix, "+"), 10, 32)
	if err != nil {
		return model.DerivedTags{}, fmt.Errorf("%s: %w: %q", target, ErrInvalidTrackNumber, prefix)
	}

	return model.DerivedTags{
		Artist:      norm.NFC.String(artist),
		Album:       norm.NFC.String(album),
		TrackNumber: uint32(number),
		Title:       norm.NFC.String(strings.TrimSpace(rest)),
	}, nil
}

// dirName returns the stem of the last element of dir, or "" when dir is a
// root or the current directory and therefore names nothing.
func dirName(dir string) string {
	base := filepath.Base(dir)
	if base == "." || base == string(filepath.Separator) || base == filepath.VolumeName(dir) {
		return ""
	}
	return stem(base)
}

// stem strips the last extension from name. A leading dot does not start
// an extension, so ".hidden" is its own stem.
func stem(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
