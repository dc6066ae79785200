package convert

import (
	"io"

	"github.com/handiism/wavtoflac/internal/audio"
	"github.com/handiism/wavtoflac/internal/config"
	"github.com/handiism/wavtoflac/internal/encoder"
	"github.com/sirupsen/logrus"
)

// Setup carries the per-invocation values NewFromSettings needs.
type Setup struct {
	SourceRoot string
	DestRoot   string
	DryRun     bool

	// Debug tees encoder stderr to Stderr.
	Debug  bool
	Stderr io.Writer

	Reporter Reporter
	Log      logrus.FieldLogger
}

// NewFromSettings builds a Manager with the encoder, tagger and options
// described by s.
func NewFromSettings(s *config.Settings, setup Setup) (*Manager, error) {
	enc, err := encoder.New(s.EncoderConfig(setup.Debug, setup.Stderr))
	if err != nil {
		return nil, err
	}

	return NewManager(Deps{
		Encoder:  enc,
		Tagger:   audio.NewTagger(s.Format, s.TagConfig()),
		Reporter: setup.Reporter,
		Log:      setup.Log,
	}, Options{
		SourceRoot:       setup.SourceRoot,
		DestRoot:         setup.DestRoot,
		Encoding:         s.EncodingOptions(),
		CoverName:        s.CoverName,
		Workers:          s.Workers,
		JobTimeout:       s.JobTimeout.Duration,
		DryRun:           setup.DryRun,
		Playlist:         s.PlaylistFormat(),
		PlaylistExtended: s.PlaylistExtended,
	}), nil
}
