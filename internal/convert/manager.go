package convert

//go:generate mockgen -source=manager.go -destination=mocks/mock_tagger.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/wavtoflac/internal/audio"
	"github.com/handiism/wavtoflac/internal/discovery"
	"github.com/handiism/wavtoflac/internal/encoder"
	ioutils "github.com/handiism/wavtoflac/internal/io"
	"github.com/handiism/wavtoflac/internal/logging"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/sirupsen/logrus"
)

// ErrNotADirectory is returned by Run when a root is missing or is not a
// directory. It is the only error that stops a run before any work.
var ErrNotADirectory = errors.New("not a directory")

// Tagger writes derived tags into an encoded file. *audio.Tagger
// implements it.
type Tagger interface {
	Tag(ctx context.Context, path string, tags model.DerivedTags, cover string) error
}

// Options configures a conversion run.
type Options struct {
	SourceRoot string
	DestRoot   string

	Encoding  model.EncodingOptions
	CoverName string

	// Workers bounds concurrent encodes. Zero means one per logical CPU.
	Workers int

	// JobTimeout cancels a single conversion that runs longer. Zero
	// disables it.
	JobTimeout time.Duration

	// DryRun discovers and reports without writing anything.
	DryRun bool

	// Playlist writes one playlist per album directory that received new
	// files. audio.FormatNone disables playlists.
	Playlist         audio.PlaylistFormat
	PlaylistExtended bool
}

// Deps are the collaborators a Manager drives.
type Deps struct {
	Encoder encoder.Encoder
	Tagger  Tagger

	// Reporter defaults to NopReporter.
	Reporter Reporter

	// Log receives debug detail such as skipped files.
	Log logrus.FieldLogger
}

// Manager coordinates one conversion run.
//
// Example:
//
//	m := convert.NewManager(convert.Deps{
//	    Encoder:  enc,
//	    Tagger:   audio.NewTagger(model.FormatFLAC, nil),
//	    Reporter: reporter,
//	}, convert.Options{SourceRoot: "/wav", DestRoot: "/flac", CoverName: "cover.jpg"})
//
//	summary, err := m.Run(ctx)
type Manager struct {
	opts     Options
	encoder  encoder.Encoder
	tagger   Tagger
	playlist *audio.PlaylistCreator
	reporter Reporter
	log      logrus.FieldLogger
}

// NewManager creates a new conversion Manager.
func NewManager(deps Deps, opts Options) *Manager {
	reporter := deps.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}

	m := &Manager{
		opts:     opts,
		encoder:  deps.Encoder,
		tagger:   deps.Tagger,
		reporter: reporter,
		log:      log,
	}
	if opts.Playlist != audio.FormatNone {
		m.playlist = audio.NewPlaylistCreator(opts.Playlist, opts.PlaylistExtended)
	}
	return m
}

// Run discovers work under SourceRoot and converts it into DestRoot.
//
// Steps, in order: pre-flight checks, discovery, creation of destination
// directories, cover copies, concurrent audio conversion, playlists.
// Directories and covers are handled on the calling goroutine before any
// audio job is dispatched.
//
// Per-job problems are reported and counted but never returned. Run
// returns an error only when pre-flight or discovery fails, or when ctx is
// cancelled; in the latter case the partial Summary is returned as well.
func (m *Manager) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	if err := m.preflight(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := m.log.WithField("run", runID)

	res, err := discovery.Discover(ctx, discovery.Options{
		SourceRoot: m.opts.SourceRoot,
		DestRoot:   m.opts.DestRoot,
		Encoding:   m.opts.Encoding,
		CoverName:  m.opts.CoverName,
		Log:        log,
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", m.opts.SourceRoot, err)
	}

	summary := newSummary(runID, m.opts.DryRun, res)
	m.progress(LevelVerbose, "Found %d audio files, %d skipped, %d already converted",
		res.Stats.Audio, res.Stats.Skipped, res.Stats.Existing)
	for _, c := range res.Collisions {
		m.progress(LevelWarning, "Skipping %d sources for %s: %v", len(c.Sources), c.Target, discovery.ErrCollision)
	}

	if m.opts.DryRun {
		m.plan(res)
		summary.Elapsed = time.Since(start)
		m.reporter.Finish(summary)
		return summary, nil
	}

	m.prepareDirs(res.Dirs())
	m.copyCovers(ctx, res.CoverJobs, summary)

	m.reporter.Start(len(res.AudioJobs))
	converted := make(map[string]bool)
	m.dispatch(ctx, res.AudioJobs, func(o model.Outcome) {
		summary.record(o)
		if o.OK() {
			converted[o.Job.Dir()] = true
		}
		m.reporter.Outcome(o)
	})

	if ctx.Err() == nil {
		m.writePlaylists(ctx, converted, summary)
	}

	summary.Elapsed = time.Since(start)
	m.reporter.Finish(summary)

	return summary, ctx.Err()
}

func (m *Manager) workers() int {
	if m.opts.Workers > 0 {
		return m.opts.Workers
	}
	return runtime.NumCPU()
}

func (m *Manager) preflight() error {
	for _, root := range []string{m.opts.SourceRoot, m.opts.DestRoot} {
		if !ioutils.IsDir(root) {
			return fmt.Errorf("%s: %w", root, ErrNotADirectory)
		}
	}
	return nil
}

// plan reports what a real run would do.
func (m *Manager) plan(res *discovery.Result) {
	for _, job := range res.CoverJobs {
		m.progress(LevelInfo, "Would copy %s", job.Mapping.Target)
	}
	for _, job := range res.AudioJobs {
		m.progress(LevelInfo, "Would convert %s -> %s", job.Mapping.Source, job.Mapping.Target)
	}
}

// prepareDirs creates every destination directory. Failures are reported;
// the jobs in that directory then fail on their own.
func (m *Manager) prepareDirs(dirs []string) {
	for _, dir := range dirs {
		if err := ioutils.EnsureDir(dir); err != nil {
			m.progress(LevelError, "Error creating directory %s: %v", dir, err)
		}
	}
}

func (m *Manager) copyCovers(ctx context.Context, jobs []model.CoverJob, summary *Summary) {
	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		if _, err := ioutils.CopyFile(ctx, job.Mapping.Source, job.Mapping.Target); err != nil {
			summary.CoversFailed++
			m.progress(LevelWarning, "Error copying cover %s: %v", job.Mapping.Source, err)
			continue
		}
		summary.CoversCopied++
		m.progress(LevelVerbose, "Copied cover: %s", job.Mapping.Target)
	}
}

// writePlaylists regenerates the playlist of every album directory that
// received new files, listing everything now in that directory.
func (m *Manager) writePlaylists(ctx context.Context, dirs map[string]bool, summary *Summary) {
	if m.playlist == nil {
		return
	}

	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	ext := m.opts.Encoding.Format.Extension()
	for _, dir := range sorted {
		pl, err := audio.AlbumPlaylist(dir, ext)
		if err != nil {
			m.progress(LevelWarning, "Error reading %s for playlist: %v", dir, err)
			continue
		}
		if len(pl.Entries) == 0 {
			continue
		}

		path := filepath.Join(dir, m.playlist.FileName(pl))
		if err := ioutils.WriteFile(ctx, path, []byte(m.playlist.CreatePlaylist(pl))); err != nil {
			m.progress(LevelWarning, "Error creating playlist %s: %v", path, err)
			continue
		}
		summary.Playlists++
		m.progress(LevelSuccess, "Created playlist for %s", pl.Album)
	}
}

func (m *Manager) progress(level ProgressLevel, format string, args ...any) {
	m.reporter.Event(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
}
