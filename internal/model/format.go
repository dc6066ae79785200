package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat for names outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is a lossless output format.
//
// The set is closed: every Format knows its codec name, canonical file
// extension and container muxer, and whether it accepts a compression level.
type Format int

const (
	// FormatFLAC produces Free Lossless Audio Codec files (.flac).
	FormatFLAC Format = iota

	// FormatALAC produces Apple Lossless audio in an MP4 container (.m4a).
	FormatALAC
)

// DefaultFLACCompression is the compression level used for FLAC when none is configured.
const DefaultFLACCompression = 4

// MaxFLACCompression is the highest compression level FLAC encoders accept.
const MaxFLACCompression = 8

var formatNames = map[Format]string{
	FormatFLAC: "flac",
	FormatALAC: "alac",
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatFLAC, FormatALAC}
}

// ParseFormat resolves a case-insensitive format name such as "flac" or "ALAC".
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}

	supported := make([]string, 0, len(formatNames))
	for _, f := range Formats() {
		supported = append(supported, f.String())
	}
	return 0, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(supported, ", "))
}

// String returns the lower-case format name.
func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Codec returns the encoder codec name for the format.
func (f Format) Codec() string {
	switch f {
	case FormatALAC:
		return "alac"
	default:
		return "flac"
	}
}

// Extension returns the canonical file extension without the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatALAC:
		return "m4a"
	default:
		return "flac"
	}
}

// Muxer returns the container muxer name that wraps the codec.
func (f Format) Muxer() string {
	switch f {
	case FormatALAC:
		return "ipod"
	default:
		return "flac"
	}
}

// SupportsCompression reports whether the format takes a compression level.
func (f Format) SupportsCompression() bool {
	return f == FormatFLAC
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
