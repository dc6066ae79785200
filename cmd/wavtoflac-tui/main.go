package main

import (
	"fmt"
	"os"

	"github.com/handiism/wavtoflac/internal/config"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/handiism/wavtoflac/internal/tui"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		configFlag   = flag.String("config", "", "path to config file")
		formatFlag   = flag.StringP("format", "f", "", "output format: flac or alac")
		playlistFlag = flag.String("playlist", "", "playlist per album: none, m3u, pls, wpl, zpl")
		verboseFlag  = flag.BoolP("verbose", "v", false, "show every converted file")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wavtoflac-tui [options] [<source> [<destination>]]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Missing directories are asked for interactively.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}

	settings, _, err := config.LoadDiscovered(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *formatFlag != "" {
		if settings.Format, err = model.ParseFormat(*formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *playlistFlag != "" {
		settings.Playlist = *playlistFlag
	}
	if errs := settings.Validate(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", &config.ConfigError{Errors: errs})
		os.Exit(1)
	}

	opts := tui.Options{
		Settings:   settings,
		SourceRoot: flag.Arg(0),
		DestRoot:   flag.Arg(1),
		Verbose:    *verboseFlag,
	}
	if err := tui.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
