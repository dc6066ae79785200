// Package testutil builds small on-disk audio and image fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// WriteWAV writes a short mono 16-bit PCM WAV file at path, creating parents.
func WriteWAV(t testing.TB, path string) {
	t.Helper()
	mkdirParent(t, path)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, 44100, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 44100},
		Data:           make([]int, 4410),
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

// WriteHeaderOnlyWAV writes a mono 16-bit PCM WAV file whose data chunk
// is empty.
func WriteHeaderOnlyWAV(t testing.TB, path string) {
	t.Helper()
	mkdirParent(t, path)

	var fmtChunk bytes.Buffer
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(1))     // PCM
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(1))     // channels
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint32(44100)) // sample rate
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint32(88200)) // byte rate
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(2))     // block align
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(16))    // bits per sample

	var body bytes.Buffer
	body.WriteString("WAVE")
	body.WriteString("fmt ")
	_ = binary.Write(&body, binary.LittleEndian, uint32(fmtChunk.Len()))
	body.Write(fmtChunk.Bytes())
	body.WriteString("data")
	_ = binary.Write(&body, binary.LittleEndian, uint32(0))

	var file bytes.Buffer
	file.WriteString("RIFF")
	_ = binary.Write(&file, binary.LittleEndian, uint32(body.Len()))
	file.Write(body.Bytes())

	require.NoError(t, os.WriteFile(path, file.Bytes(), 0644))
}

// WriteAIFF writes a short mono 16-bit AIFF file at path, creating parents.
func WriteAIFF(t testing.TB, path string) {
	t.Helper()
	mkdirParent(t, path)

	const frames = 4410
	var comm bytes.Buffer
	_ = binary.Write(&comm, binary.BigEndian, int16(1))       // channels
	_ = binary.Write(&comm, binary.BigEndian, uint32(frames)) // sample frames
	_ = binary.Write(&comm, binary.BigEndian, int16(16))      // bits per sample
	// 44100 as an 80-bit IEEE extended float
	comm.Write([]byte{0x40, 0x0E, 0xAC, 0x44, 0, 0, 0, 0, 0, 0})

	var ssnd bytes.Buffer
	_ = binary.Write(&ssnd, binary.BigEndian, uint32(0)) // offset
	_ = binary.Write(&ssnd, binary.BigEndian, uint32(0)) // block size
	ssnd.Write(make([]byte, frames*2))

	var body bytes.Buffer
	body.WriteString("AIFF")
	writeChunk(&body, "COMM", comm.Bytes())
	writeChunk(&body, "SSND", ssnd.Bytes())

	var file bytes.Buffer
	file.WriteString("FORM")
	_ = binary.Write(&file, binary.BigEndian, uint32(body.Len()))
	file.Write(body.Bytes())

	require.NoError(t, os.WriteFile(path, file.Bytes(), 0644))
}

func writeChunk(w *bytes.Buffer, id string, data []byte) {
	w.WriteString(id)
	_ = binary.Write(w, binary.BigEndian, uint32(len(data)))
	w.Write(data)
	if len(data)%2 == 1 {
		w.WriteByte(0)
	}
}

// WriteFLAC writes a metadata-only FLAC file: the stream marker and a
// single STREAMINFO block. Tag libraries accept it like any FLAC file.
func WriteFLAC(t testing.TB, path string) {
	t.Helper()
	mkdirParent(t, path)

	require.NoError(t, os.WriteFile(path, FLACBytes(), 0644))
}

// FLACBytes returns the content written by WriteFLAC.
func FLACBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	// last-metadata-block flag set, type 0 (STREAMINFO), length 34
	buf.Write([]byte{0x80, 0x00, 0x00, 0x22})

	info := make([]byte, 34)
	binary.BigEndian.PutUint16(info[0:2], 4096) // min block size
	binary.BigEndian.PutUint16(info[2:4], 4096) // max block size
	// sample rate 44100 (20 bits), channels-1 = 0 (3 bits), bps-1 = 15 (5 bits)
	packed := uint64(44100)<<44 | uint64(0)<<41 | uint64(15)<<36
	binary.BigEndian.PutUint64(info[10:18], packed)
	buf.Write(info)
	return buf.Bytes()
}

// WritePNG writes a w x h PNG image at path, creating parents.
func WritePNG(t testing.TB, path string, w, h int) {
	t.Helper()
	mkdirParent(t, path)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// WriteBMP writes a w x h BMP image at path, creating parents.
func WriteBMP(t testing.TB, path string, w, h int) {
	t.Helper()
	mkdirParent(t, path)

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solid(w, h)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// PNGBytes returns a w x h PNG image.
func PNGBytes(t testing.TB, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

// WriteFile writes content at path, creating parents.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()
	mkdirParent(t, path)
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	return img
}

func mkdirParent(t testing.TB, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
}
