package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/handiism/wavtoflac/internal/model"
	"github.com/handiism/wavtoflac/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flacOptions(src, dst string) Options {
	return Options{
		SourceRoot: src,
		DestRoot:   dst,
		Encoding:   model.EncodingOptions{Format: model.FormatFLAC},
		CoverName:  "cover.jpg",
	}
}

func targets(res *Result) []string {
	var out []string
	for _, j := range res.AudioJobs {
		out = append(out, j.Mapping.Target)
	}
	sort.Strings(out)
	return out
}

func TestDiscover(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	testutil.WriteWAV(t, filepath.Join(src, "Artist", "Album", "01 One.wav"))
	testutil.WriteWAV(t, filepath.Join(src, "Artist", "Album", "02 Two"))
	testutil.WriteAIFF(t, filepath.Join(src, "Artist", "Other", "01 Three.aif"))
	testutil.WriteFile(t, filepath.Join(src, "Artist", "Album", "cover.jpg"), []byte("jpeg"))
	testutil.WriteFile(t, filepath.Join(src, "Artist", "Album", "notes.txt"), []byte("notes"))
	testutil.WriteFile(t, filepath.Join(src, "Artist", "Album", "03 Broken.wav"), []byte("not a wav"))

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dst, "Artist", "Album", "01 One.flac"),
		filepath.Join(dst, "Artist", "Album", "02 Two.flac"),
		filepath.Join(dst, "Artist", "Other", "01 Three.flac"),
	}, targets(res))

	require.Len(t, res.CoverJobs, 1)
	assert.Equal(t, filepath.Join(dst, "Artist", "Album", "cover.jpg"), res.CoverJobs[0].Mapping.Target)

	for _, job := range res.AudioJobs {
		assert.Equal(t, model.FormatFLAC, job.Options.Format)
		if filepath.Base(filepath.Dir(job.Mapping.Source)) == "Album" {
			assert.Equal(t, filepath.Join(src, "Artist", "Album", "cover.jpg"), job.Cover)
		} else {
			assert.Empty(t, job.Cover)
		}
	}

	assert.Equal(t, 6, res.Stats.Files)
	assert.Equal(t, 3, res.Stats.Audio)
	assert.Equal(t, 1, res.Stats.Covers)
	assert.Equal(t, 2, res.Stats.Skipped)
	assert.Empty(t, res.Collisions)

	assert.ElementsMatch(t, []string{
		filepath.Join(dst, "Artist", "Album"),
		filepath.Join(dst, "Artist", "Other"),
	}, res.Dirs())
}

func TestDiscover_IdempotentRerun(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "02 Two.wav"))
	testutil.WriteFile(t, filepath.Join(src, "A", "B", "cover.jpg"), []byte("jpeg"))

	first, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)
	require.Len(t, first.AudioJobs, 2)
	require.Len(t, first.CoverJobs, 1)

	// Simulate a completed run
	for _, job := range first.AudioJobs {
		testutil.WriteFile(t, job.Mapping.Target, []byte("converted"))
	}
	for _, job := range first.CoverJobs {
		testutil.WriteFile(t, job.Mapping.Target, []byte("jpeg"))
	}

	second, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)
	assert.Empty(t, second.AudioJobs)
	assert.Empty(t, second.CoverJobs)
	assert.Equal(t, 3, second.Stats.Existing)
}

func TestDiscover_PartialRerun(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "02 Two.wav"))
	testutil.WriteFile(t, filepath.Join(dst, "A", "B", "01 One.flac"), []byte("converted"))

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dst, "A", "B", "02 Two.flac")}, targets(res))
}

func TestDiscover_CollisionsAreRejected(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 Song.wav"))
	testutil.WriteAIFF(t, filepath.Join(src, "A", "B", "01 Song.aiff"))
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "02 Fine.wav"))

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dst, "A", "B", "02 Fine.flac")}, targets(res))
	require.Len(t, res.Collisions, 1)
	assert.Equal(t, filepath.Join(dst, "A", "B", "01 Song.flac"), res.Collisions[0].Target)
	assert.Equal(t, []string{
		filepath.Join(src, "A", "B", "01 Song.aiff"),
		filepath.Join(src, "A", "B", "01 Song.wav"),
	}, res.Collisions[0].Sources)
	assert.ErrorIs(t, res.Collisions[0], ErrCollision)
	assert.Equal(t, 2, res.Stats.Collided)

	// The decision does not change once the destination exists
	testutil.WriteFile(t, filepath.Join(dst, "A", "B", "01 Song.flac"), []byte("stale"))
	again, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)
	assert.Len(t, again.Collisions, 1)
	assert.Equal(t, []string{filepath.Join(dst, "A", "B", "02 Fine.flac")}, targets(again))
	assert.Equal(t, 0, again.Stats.Existing, "contested targets are never counted as existing")
}

func TestDiscover_ContestedCoverIsNotEmbedded(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	// "front.wav" converts to the cover's own name
	testutil.WriteFile(t, filepath.Join(src, "A", "B", "front.flac"), []byte("jpeg"))
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "front.wav"))
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	testutil.WriteFile(t, filepath.Join(src, "C", "D", "front.flac"), []byte("jpeg"))
	testutil.WriteWAV(t, filepath.Join(src, "C", "D", "01 Two.wav"))

	opts := flacOptions(src, dst)
	opts.CoverName = "front.flac"
	res, err := Discover(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, res.Collisions, 1)
	assert.Equal(t, filepath.Join(dst, "A", "B", "front.flac"), res.Collisions[0].Target)

	require.Len(t, res.CoverJobs, 1)
	assert.Equal(t, filepath.Join(dst, "C", "D", "front.flac"), res.CoverJobs[0].Mapping.Target)

	covers := make(map[string]string)
	for _, job := range res.AudioJobs {
		covers[filepath.Base(job.Mapping.Target)] = job.Cover
	}
	assert.Equal(t, map[string]string{
		"01 One.flac": "",
		"01 Two.flac": filepath.Join(src, "C", "D", "front.flac"),
	}, covers)
}

func TestDiscover_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	outside := filepath.Join(root, "elsewhere")
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(dst, 0755))

	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	testutil.WriteWAV(t, filepath.Join(outside, "02 Two.wav"))

	// Directory symlink into another tree
	require.NoError(t, os.Symlink(outside, filepath.Join(src, "A", "Linked")))
	// Loop back to an ancestor
	require.NoError(t, os.Symlink(src, filepath.Join(src, "A", "B", "loop")))
	// Second name for a file already visited
	require.NoError(t, os.Symlink(filepath.Join(src, "A", "B", "01 One.wav"), filepath.Join(src, "A", "B", "99 Alias.wav")))

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dst, "A", "B", "01 One.flac"),
		filepath.Join(dst, "A", "B", "99 Alias.flac"),
		filepath.Join(dst, "A", "Linked", "02 Two.flac"),
	}, targets(res))
	assert.Equal(t, 3, res.Stats.Files)
}

func TestDiscover_FileLinkedIntoSiblingAlbum(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	original := filepath.Join(src, "Art", "AlbumA", "01 Song.wav")
	testutil.WriteWAV(t, original)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Art", "AlbumB"), 0755))
	require.NoError(t, os.Symlink(original, filepath.Join(src, "Art", "AlbumB", "01 Song.wav")))

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dst, "Art", "AlbumA", "01 Song.flac"),
		filepath.Join(dst, "Art", "AlbumB", "01 Song.flac"),
	}, targets(res))
	assert.Empty(t, res.Collisions)
}

func TestDiscover_SkipsDestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(src, "converted")

	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	testutil.WriteFile(t, filepath.Join(dst, "A", "B", "cover.jpg"), []byte("copied earlier"))

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)

	assert.Len(t, res.AudioJobs, 1)
	assert.Empty(t, res.CoverJobs)
}

func TestDiscover_UnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	src := t.TempDir()
	dst := t.TempDir()

	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	locked := filepath.Join(src, "A", "Locked")
	testutil.WriteWAV(t, filepath.Join(locked, "01 Hidden.wav"))
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	res, err := Discover(context.Background(), flacOptions(src, dst))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dst, "A", "B", "01 One.flac")}, targets(res))
	assert.Positive(t, res.Stats.WalkErrors)
}

func TestDiscover_Cancelled(t *testing.T) {
	src := t.TempDir()
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, flacOptions(src, t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}
