package discovery

import (
	"context"
	"os"
	"path/filepath"

	"github.com/handiism/wavtoflac/internal/audio"
	ioutils "github.com/handiism/wavtoflac/internal/io"
	"github.com/handiism/wavtoflac/internal/logging"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/karrick/godirwalk"
	"github.com/sirupsen/logrus"
)

// Options configures a discovery pass.
type Options struct {
	SourceRoot string
	DestRoot   string

	// Encoding is attached to every audio job; its format decides the
	// destination extension.
	Encoding model.EncodingOptions

	// CoverName is the exact base name of cover files, e.g. "cover.jpg".
	CoverName string

	// Classifier defaults to audio.NewClassifier(CoverName).
	Classifier *audio.Classifier

	// Log receives skipped files and walk errors at debug level.
	Log logrus.FieldLogger
}

// Stats counts what a discovery pass saw.
type Stats struct {
	// Files is the number of regular files visited. A file reachable under
	// two paths counts twice.
	Files int

	Audio  int
	Covers int

	// Skipped files are neither audio nor covers, or could not be read.
	Skipped int

	// Existing sources already have their destination.
	Existing int

	// Collided sources share a destination with another source.
	Collided int

	// WalkErrors counts paths the walk could not enter or inspect.
	WalkErrors int
}

// Result holds the jobs produced by Discover.
//
// Jobs follow lexical walk order. AudioJobs and CoverJobs are disjoint and
// only name destinations that did not exist when the walk ran.
type Result struct {
	AudioJobs  []model.AudioJob
	CoverJobs  []model.CoverJob
	Collisions []Collision
	Stats      Stats
}

// Dirs returns every distinct destination directory referenced by the jobs.
func (r *Result) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(target string) {
		dir := filepath.Dir(target)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, job := range r.CoverJobs {
		add(job.Mapping.Target)
	}
	for _, job := range r.AudioJobs {
		add(job.Mapping.Target)
	}
	return dirs
}

type candidate struct {
	kind   audio.Kind
	source string
	target string
}

// walker carries the state of one Discover call.
type walker struct {
	opts       Options
	mapper     *Mapper
	transform  Transform
	log        logrus.FieldLogger
	realDest   string
	seenDirs   map[string]bool
	candidates []candidate
	covers     map[string]string // source dir -> cover path
	claims     *claims
	stats      Stats
}

// Discover walks SourceRoot once and returns audio and cover jobs.
//
// Symbolic links are followed and every walked path is mirrored, so a file
// linked into a second album yields a job for each album. Directories are
// entered once by real path, which cuts symlink loops. When DestRoot lies
// inside SourceRoot it is not walked.
//
// Unreadable files and directories are skipped and logged; only context
// cancellation stops the walk with an error.
//
// Sources that map to the same destination are all rejected and listed in
// Result.Collisions. Collisions are resolved before the existence check, so
// the outcome does not depend on which destination was written first.
func Discover(ctx context.Context, opts Options) (*Result, error) {
	if opts.Classifier == nil {
		opts.Classifier = audio.NewClassifier(opts.CoverName)
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	w := &walker{
		opts:      opts,
		mapper:    NewMapper(opts.SourceRoot, opts.DestRoot),
		transform: SwapExtension(opts.Encoding.Format.Extension()),
		log:       log,
		seenDirs:  make(map[string]bool),
		covers:    make(map[string]string),
		claims:    newClaims(),
	}
	if real, err := filepath.EvalSymlinks(opts.DestRoot); err == nil {
		w.realDest = real
	}

	err := godirwalk.Walk(w.mapper.SourceRoot, &godirwalk.Options{
		FollowSymbolicLinks: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return w.visit(path, de)
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			w.stats.WalkErrors++
			w.log.WithError(err).WithField("path", path).Debug("Skipping unreadable path")
			return godirwalk.SkipNode
		},
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	return w.result(), nil
}

func (w *walker) visit(path string, de *godirwalk.Dirent) error {
	isDir, err := de.IsDirOrSymlinkToDir()
	if err != nil {
		w.stats.WalkErrors++
		w.log.WithError(err).WithField("path", path).Debug("Skipping unresolvable entry")
		return godirwalk.SkipThis
	}
	if isDir {
		return w.enterDir(path)
	}

	w.visitFile(path)
	return nil
}

func (w *walker) enterDir(path string) error {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.stats.WalkErrors++
		w.log.WithError(err).WithField("path", path).Debug("Skipping unresolvable directory")
		return godirwalk.SkipThis
	}
	if w.realDest != "" && real == w.realDest {
		w.log.WithField("path", path).Debug("Skipping destination tree inside source")
		return godirwalk.SkipThis
	}
	if w.seenDirs[real] {
		w.log.WithFields(logrus.Fields{"path": path, "target": real}).Debug("Skipping directory already visited")
		return godirwalk.SkipThis
	}
	w.seenDirs[real] = true
	return nil
}

func (w *walker) visitFile(path string) {
	info, err := os.Stat(path)
	if err != nil {
		w.stats.WalkErrors++
		w.log.WithError(err).WithField("path", path).Debug("Skipping unreadable file")
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	w.stats.Files++

	kind, err := w.opts.Classifier.Classify(path)
	if kind == audio.KindSkip {
		w.stats.Skipped++
		entry := w.log.WithField("path", path)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Debug("Ignoring file")
		return
	}

	transform := w.transform
	if kind == audio.KindCover {
		transform = Identity
		w.covers[filepath.Dir(path)] = path
	}

	target, err := w.mapper.Target(path, transform)
	if err != nil {
		w.stats.Skipped++
		w.log.WithError(err).WithField("path", path).Debug("Ignoring file")
		return
	}

	w.claims.add(target, path)
	w.candidates = append(w.candidates, candidate{kind: kind, source: path, target: target})
}

func (w *walker) result() *Result {
	r := &Result{Collisions: w.claims.collisions()}

	for _, c := range w.candidates {
		if c.kind == audio.KindAudio {
			w.stats.Audio++
		} else {
			w.stats.Covers++
		}

		if w.claims.contested(c.target) {
			w.stats.Collided++
			continue
		}
		if ioutils.Exists(c.target) {
			w.stats.Existing++
			w.log.WithField("path", c.target).Debug("Destination exists")
			continue
		}

		mapping := model.FileMapping{Source: c.source, Target: c.target}
		if c.kind == audio.KindCover {
			r.CoverJobs = append(r.CoverJobs, model.CoverJob{Mapping: mapping})
			continue
		}
		r.AudioJobs = append(r.AudioJobs, model.AudioJob{
			Mapping: mapping,
			Options: w.opts.Encoding,
			Cover:   w.coverFor(filepath.Dir(c.source)),
		})
	}

	r.Stats = w.stats
	return r
}

// coverFor returns the cover of the source directory dir, or "" when there
// is none or its copy was rejected as a collision.
func (w *walker) coverFor(dir string) string {
	cover := w.covers[dir]
	if cover == "" {
		return ""
	}
	if target, err := w.mapper.Target(cover, Identity); err != nil || w.claims.contested(target) {
		return ""
	}
	return cover
}
