package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want logrus.Level
	}{
		{"default", Options{}, logrus.InfoLevel},
		{"debug flag", Options{Debug: true}, logrus.DebugLevel},
		{"quiet wins", Options{Quiet: true, Debug: true}, logrus.PanicLevel},
		{"configured", Options{Level: "warn"}, logrus.WarnLevel},
		{"debug overrides configured", Options{Level: "error", Debug: true}, logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLevel(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLevel_Invalid(t *testing.T) {
	_, err := ResolveLevel(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.WithField("file", "a.wav").Info("converted")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "converted")
	assert.Contains(t, buf.String(), "file=a.wav")
}

func TestNew_Quiet(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Quiet: true, Output: &buf})
	require.NoError(t, err)

	log.Error("nothing to see")
	assert.Empty(t, buf.String())
}
