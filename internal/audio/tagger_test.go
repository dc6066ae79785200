package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhowden/tag"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/go-flac"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/handiism/wavtoflac/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTags(t *testing.T, path string) tag.Metadata {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	m, err := tag.ReadFrom(f)
	require.NoError(t, err)
	return m
}

func countBlocks(t *testing.T, path string, typ flac.BlockType) int {
	t.Helper()

	f, err := flac.ParseFile(path)
	require.NoError(t, err)

	n := 0
	for _, b := range f.Meta {
		if b.Type == typ {
			n++
		}
	}
	return n
}

func TestTagger_FLAC(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Artist", "Album", "07 My Title.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "Artist", "Album", "cover.png")
	testutil.WritePNG(t, cover, 8, 8)

	tags := model.DerivedTags{Artist: "Artist", Album: "Album", TrackNumber: 7, Title: "My Title"}
	tagger := NewTagger(model.FormatFLAC, DefaultTagConfig())
	require.NoError(t, tagger.Tag(context.Background(), target, tags, cover))

	m := readTags(t, target)
	assert.Equal(t, "My Title", m.Title())
	assert.Equal(t, "Artist", m.Artist())
	assert.Equal(t, "Album", m.Album())
	track, _ := m.Track()
	assert.Equal(t, 7, track)

	pic := m.Picture()
	require.NotNil(t, pic)
	assert.Equal(t, "image/png", pic.MIMEType)
}

func TestTagger_FLACOverwritesExistingTags(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "01 First.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "A", "B", "cover.png")
	testutil.WritePNG(t, cover, 4, 4)

	tagger := NewTagger(model.FormatFLAC, DefaultTagConfig())
	ctx := context.Background()

	first := model.DerivedTags{Artist: "Old", Album: "Old", TrackNumber: 1, Title: "Old"}
	require.NoError(t, tagger.Tag(ctx, target, first, cover))

	second := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 2, Title: "New"}
	require.NoError(t, tagger.Tag(ctx, target, second, cover))

	m := readTags(t, target)
	assert.Equal(t, "New", m.Title())
	assert.Equal(t, "A", m.Artist())
	assert.Equal(t, 1, countBlocks(t, target, flac.VorbisComment))
	assert.Equal(t, 1, countBlocks(t, target, flac.Picture))
}

func TestTagger_UnsupportedCoverKeepsTextTags(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "03 Three.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "A", "B", "cover.webp")
	testutil.WriteFile(t, cover, []byte("RIFF....WEBP"))

	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 3, Title: "Three"}
	err := NewTagger(model.FormatFLAC, DefaultTagConfig()).Tag(context.Background(), target, tags, cover)

	require.Error(t, err)
	assert.True(t, IsCoverError(err))
	assert.ErrorIs(t, err, ErrUnsupportedCover)

	m := readTags(t, target)
	assert.Equal(t, "Three", m.Title())
	assert.Nil(t, m.Picture())
}

func TestTagger_CorruptCoverKeepsTextTags(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "04 Four.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "A", "B", "cover.jpg")
	testutil.WriteFile(t, cover, []byte("definitely not a jpeg"))

	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 4, Title: "Four"}
	err := NewTagger(model.FormatFLAC, DefaultTagConfig()).Tag(context.Background(), target, tags, cover)

	assert.True(t, IsCoverError(err))
	assert.Equal(t, "Four", readTags(t, target).Title())
}

func TestTagger_ResizesCover(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "01 One.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "A", "B", "cover.png")
	testutil.WritePNG(t, cover, 40, 20)

	cfg := DefaultTagConfig()
	cfg.CoverMaxSize = 10
	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 1, Title: "One"}
	require.NoError(t, NewTagger(model.FormatFLAC, cfg).Tag(context.Background(), target, tags, cover))

	f, err := flac.ParseFile(target)
	require.NoError(t, err)

	var pic *flacpicture.MetadataBlockPicture
	for _, b := range f.Meta {
		if b.Type == flac.Picture {
			pic, err = flacpicture.ParseFromMetaDataBlock(*b)
			require.NoError(t, err)
		}
	}
	require.NotNil(t, pic)
	assert.Equal(t, "image/jpeg", pic.MIME)
	assert.Equal(t, uint32(10), pic.Width)
	assert.Equal(t, uint32(5), pic.Height)
	assert.Equal(t, flacpicture.PictureTypeFrontCover, pic.PictureType)
}

func TestTagger_BMPCover(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "01 One.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "A", "B", "cover.bmp")
	testutil.WriteBMP(t, cover, 6, 3)

	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 1, Title: "One"}
	require.NoError(t, NewTagger(model.FormatFLAC, nil).Tag(context.Background(), target, tags, cover))

	pic := readTags(t, target).Picture()
	require.NotNil(t, pic)
	assert.Equal(t, "image/bmp", pic.MIMEType)
}

func TestTagger_EmbedDisabled(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "01 One.flac")
	testutil.WriteFLAC(t, target)
	cover := filepath.Join(dir, "A", "B", "cover.webp")
	testutil.WriteFile(t, cover, []byte("ignored"))

	cfg := &TagConfig{EmbedCover: false}
	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 1, Title: "One"}
	require.NoError(t, NewTagger(model.FormatFLAC, cfg).Tag(context.Background(), target, tags, cover))
	assert.Equal(t, 0, countBlocks(t, target, flac.Picture))
}

func TestTagger_NotAFLACFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A", "B", "01 One.flac")
	testutil.WriteFile(t, target, []byte("garbage"))

	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: 1, Title: "One"}
	err := NewTagger(model.FormatFLAC, nil).Tag(context.Background(), target, tags, "")
	require.Error(t, err)
	assert.False(t, IsCoverError(err))
}

func TestTagger_MP4TrackNumberRange(t *testing.T) {
	tags := model.DerivedTags{Artist: "A", Album: "B", TrackNumber: math.MaxInt16 + 1, Title: "Too Far"}
	err := NewTagger(model.FormatALAC, nil).Tag(context.Background(), "/nonexistent/A/B/x.m4a", tags, "")
	assert.ErrorIs(t, err, ErrTrackNumberRange)
}

func TestCoverMIME(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"cover.jpg", "image/jpeg"},
		{"cover.JPEG", "image/jpeg"},
		{"cover.bmp", "image/bmp"},
		{"cover.gif", "image/gif"},
		{"cover.png", "image/png"},
		{"cover.tif", "image/tiff"},
		{"cover.tiff", "image/tiff"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := CoverMIME(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CoverMIME("cover.webp")
	assert.ErrorIs(t, err, ErrUnsupportedCover)
}
