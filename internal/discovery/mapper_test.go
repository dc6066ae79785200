package discovery

import (
	"path/filepath"
	"testing"

	"github.com/handiism/wavtoflac/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Target(t *testing.T) {
	m := NewMapper("/src", "/dst")

	tests := []struct {
		name      string
		source    string
		transform Transform
		want      string
	}{
		{"audio mirrors path", "/src/A/B/01 Song.wav", SwapExtension("flac"), "/dst/A/B/01 Song.flac"},
		{"alac extension", "/src/A/B/01 Song.wav", SwapExtension("m4a"), "/dst/A/B/01 Song.m4a"},
		{"no extension", "/src/A/B/untitled", SwapExtension("flac"), "/dst/A/B/untitled.flac"},
		{"dots in stem", "/src/A/B/01 Mr. Song.aiff", SwapExtension("flac"), "/dst/A/B/01 Mr. Song.flac"},
		{"dot file", "/src/A/.hidden", SwapExtension("flac"), "/dst/A/.hidden.flac"},
		{"cover identity", "/src/A/B/cover.jpg", Identity, "/dst/A/B/cover.jpg"},
		{"unclean source", "/src/A/../A/B/01 Song.wav", SwapExtension("flac"), "/dst/A/B/01 Song.flac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Target(tt.source, tt.transform)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestMapper_TargetNotUnderRoot(t *testing.T) {
	m := NewMapper("/src", "/dst")

	for _, source := range []string{"/other/A/01 Song.wav", "/src", "/srcx/01 Song.wav", "relative/01 Song.wav"} {
		t.Run(source, func(t *testing.T) {
			_, err := m.Target(source, Identity)
			assert.ErrorIs(t, err, ErrNotUnderRoot)
		})
	}
}

func TestMapper_MapSkipsExisting(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	m := NewMapper(src, dst)

	source := filepath.Join(src, "A", "B", "01 Song.wav")

	target, ok := m.Map(source, SwapExtension("flac"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dst, "A", "B", "01 Song.flac"), target)

	testutil.WriteFile(t, target, []byte("done"))

	_, ok = m.Map(source, SwapExtension("flac"))
	assert.False(t, ok, "existing destination must not be mapped again")
}
