package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/wavtoflac/internal/check"
	"github.com/handiism/wavtoflac/internal/config"
	"github.com/handiism/wavtoflac/internal/convert"
	"github.com/handiism/wavtoflac/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errCancelled is returned when a signal stopped the conversion.
var errCancelled = errors.New("conversion cancelled")

// app holds the flag values shared by all commands.
type app struct {
	flags cliFlags
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wavtoflac [flags] <source> <destination>",
		Short: "Convert a tree of lossless audio files to FLAC or ALAC",
		Long: `wavtoflac - convert lossless audio to FLAC or ALAC

Walks <source>, finds WAV and AIFF files by content, and writes each one
below <destination> with the same relative path. Tags are derived from
the destination path (Artist/Album/NN Title) and the folder's cover image
is copied and embedded.

Files whose destination already exists are skipped, so running the
command again only converts what is missing.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args[0], args[1])
		},
	}
	root.Version = version
	root.SetVersionTemplate("wavtoflac {{.Version}}\n")

	a.flags.register(root.PersistentFlags())

	root.AddCommand(a.checkCmd(), a.configCmd(), tagsCmd())
	return root
}

// settings loads the discovered config file and applies flag overrides.
func (a *app) settings(cmd *cobra.Command) (*config.Settings, string, error) {
	settings, path, err := config.LoadDiscovered(a.flags.configPath)
	if err != nil {
		return nil, path, err
	}

	if err := a.flags.apply(settings, cmd.Flags()); err != nil {
		return nil, path, err
	}
	if errs := settings.Validate(); len(errs) > 0 {
		return nil, path, &config.ConfigError{Path: path, Errors: errs}
	}
	return settings, path, nil
}

func (a *app) logger(cmd *cobra.Command, settings *config.Settings) (*logrus.Logger, error) {
	return logging.New(logging.Options{
		Level:  settings.LogLevel,
		Quiet:  a.flags.quiet,
		Debug:  a.flags.debug,
		Output: cmd.ErrOrStderr(),
	})
}

func (a *app) runConvert(cmd *cobra.Command, source, dest string) error {
	settings, path, err := a.settings(cmd)
	if err != nil {
		return err
	}
	log, err := a.logger(cmd, settings)
	if err != nil {
		return err
	}

	if path != "" {
		log.WithField("path", path).Debug("Loaded config")
	}
	if settings.CompressionLevel != nil && !settings.Format.SupportsCompression() {
		log.WithFields(logrus.Fields{
			"format":            settings.Format,
			"compression_level": *settings.CompressionLevel,
		}).Debug("Compression level ignored for this format")
	}

	encCfg := settings.EncoderConfig(a.flags.debug, cmd.ErrOrStderr())
	if !a.flags.dryRun {
		if err := check.Deps(encCfg); err != nil {
			return err
		}
	}

	manager, err := convert.NewFromSettings(settings, convert.Setup{
		SourceRoot: source,
		DestRoot:   dest,
		DryRun:     a.flags.dryRun,
		Debug:      a.flags.debug,
		Stderr:     cmd.ErrOrStderr(),
		Reporter:   newCLIReporter(log, cmd.ErrOrStderr(), a.flags.quiet),
		Log:        log,
	})
	if err != nil {
		return err
	}

	if _, err := manager.Run(cmd.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Conversion cancelled")
			return errCancelled
		}
		return err
	}
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show which encoders are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, _, err := a.settings(cmd)
			if err != nil {
				return err
			}
			log, err := a.logger(cmd, settings)
			if err != nil {
				return err
			}

			if !check.Run(cmd.Context(), settings.EncoderConfig(a.flags.debug, cmd.ErrOrStderr()), log) {
				return fmt.Errorf("encoder %q is not usable", settings.Encoder)
			}
			return nil
		},
	}
}
