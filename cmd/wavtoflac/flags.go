package main

import (
	"fmt"

	"github.com/handiism/wavtoflac/internal/config"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/spf13/pflag"
)

// cliFlags holds command line values. Settings flags only override the
// config file when given explicitly.
type cliFlags struct {
	configPath string
	quiet      bool
	debug      bool
	dryRun     bool

	format      string
	compression int
	sampleRate  int
	encoder     string
	workers     int
	coverName   string
	embedCover  bool
	playlist    string
}

func (f *cliFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "path to config file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "print nothing")
	fs.BoolVarP(&f.debug, "debug", "d", false, "debug logging and encoder output")
	fs.BoolVar(&f.dryRun, "dry-run", false, "show what would be converted")

	fs.StringVarP(&f.format, "format", "f", "", "output format: flac or alac")
	fs.IntVarP(&f.compression, "compression", "c", 0, "FLAC compression level (0-8)")
	fs.IntVar(&f.sampleRate, "sample-rate", 0, "resample to this rate in Hz")
	fs.StringVar(&f.encoder, "encoder", "", "encoder backend: ffmpeg or flac")
	fs.IntVarP(&f.workers, "workers", "j", 0, "parallel conversions (default: number of CPUs)")
	fs.StringVar(&f.coverName, "cover-name", "", "file name of album covers")
	fs.BoolVar(&f.embedCover, "embed-cover", true, "embed the album cover in converted files")
	fs.StringVar(&f.playlist, "playlist", "", "playlist per album: none, m3u, pls, wpl, zpl")
}

// apply copies explicitly set flags onto settings.
func (f *cliFlags) apply(s *config.Settings, fs *pflag.FlagSet) error {
	if fs.Changed("format") {
		format, err := model.ParseFormat(f.format)
		if err != nil {
			return fmt.Errorf("--format: %w", err)
		}
		s.Format = format
	}
	if fs.Changed("compression") {
		level := f.compression
		s.CompressionLevel = &level
	}
	if fs.Changed("sample-rate") {
		s.SampleRate = f.sampleRate
	}
	if fs.Changed("encoder") {
		s.Encoder = f.encoder
	}
	if fs.Changed("workers") {
		s.Workers = f.workers
	}
	if fs.Changed("cover-name") {
		s.CoverName = f.coverName
	}
	if fs.Changed("embed-cover") {
		s.EmbedCover = f.embedCover
	}
	if fs.Changed("playlist") {
		s.Playlist = f.playlist
	}
	return nil
}
