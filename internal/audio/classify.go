package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"
)

// Kind is the classification of a candidate file.
type Kind int

const (
	// KindSkip marks a file that is neither convertible audio nor a cover.
	KindSkip Kind = iota

	// KindAudio marks a lossless source whose container header parsed.
	KindAudio

	// KindCover marks a sidecar cover image matched by name.
	KindCover
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindCover:
		return "cover"
	default:
		return "skip"
	}
}

// ErrNotAudio is returned when no supported container header could be parsed.
var ErrNotAudio = errors.New("no supported audio header")

// Classifier decides whether a file is an audio source, a cover or neither.
//
// Audio detection looks at content only: the file is opened and its header
// is parsed as WAV, then as AIFF. A file is audio as soon as its format
// header parses; the sample data is not inspected. The extension is never consulted, so a
// corrupt "song.wav" is skipped while an extension-less WAV is converted.
//
// Cover detection is by name: a file whose base name equals CoverName is a
// cover candidate. Its image type is validated later, when it is embedded.
//
// Example:
//
//	c := NewClassifier("cover.jpg")
//	kind, err := c.Classify("/music/Artist/Album/01 Intro.wav")
//	if err != nil {
//	    log.Debugf("skipping: %v", err)
//	}
type Classifier struct {
	CoverName string
}

// NewClassifier creates a Classifier matching covers named coverName.
func NewClassifier(coverName string) *Classifier {
	return &Classifier{CoverName: coverName}
}

// Classify inspects path and returns its Kind.
//
// Open and parse failures are returned alongside KindSkip so callers can
// record them; they never make a file anything other than a skip.
func (c *Classifier) Classify(path string) (Kind, error) {
	if c.CoverName != "" && filepath.Base(path) == c.CoverName {
		return KindCover, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return KindSkip, err
	}
	defer f.Close()

	// Only the header is read. A source without samples is still audio;
	// IsValidFile would reject it for its zero duration.
	wd := wav.NewDecoder(f)
	wd.ReadInfo()
	wavErr := wd.Err()
	if wavErr == nil && wd.NumChans > 0 && wd.BitDepth >= 8 {
		return KindAudio, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return KindSkip, err
	}
	ad := aiff.NewDecoder(f)
	ad.ReadInfo()
	if ad.Err() == nil && ad.NumChans > 0 && ad.BitDepth >= 8 {
		return KindAudio, nil
	}

	if wavErr != nil {
		return KindSkip, fmt.Errorf("%w: %v", ErrNotAudio, wavErr)
	}
	return KindSkip, ErrNotAudio
}
