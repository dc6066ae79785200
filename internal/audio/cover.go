package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedCover is returned for cover files outside the image allow-list,
// or whose image type the output container cannot carry.
var ErrUnsupportedCover = errors.New("unsupported cover image type")

var coverMIMETypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"png":  "image/png",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// CoverMIME returns the MIME type of a cover file judged by its extension.
func CoverMIME(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if mime, ok := coverMIMETypes[ext]; ok {
		return mime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCover, filepath.Base(path))
}

// CoverError reports that the text tags were written but the cover could
// not be embedded. The file it refers to is complete and playable.
type CoverError struct {
	Cover string
	Err   error
}

func (e *CoverError) Error() string {
	return fmt.Sprintf("embedding cover %s: %v", e.Cover, e.Err)
}

func (e *CoverError) Unwrap() error {
	return e.Err
}

// IsCoverError reports whether err only concerns cover embedding.
func IsCoverError(err error) bool {
	var ce *CoverError
	return errors.As(err, &ce)
}
