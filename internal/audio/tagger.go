package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	ioutils "github.com/handiism/wavtoflac/internal/io"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/zhaarey/go-mp4tag"
)

// ErrTrackNumberRange is returned when a track number does not fit the
// output container's track field.
var ErrTrackNumberRange = errors.New("track number out of range for container")

// TagConfig holds tagging configuration.
//
// Example:
//
//	cfg := &TagConfig{
//	    EmbedCover:   true, // Embed the album's cover file
//	    CoverMaxSize: 1000, // Downscale covers larger than 1000x1000
//	}
type TagConfig struct {
	// EmbedCover enables embedding the album cover as front cover art.
	EmbedCover bool

	// CoverMaxSize downscales embedded covers to fit this many pixels per
	// side. Zero embeds the cover file unchanged.
	CoverMaxSize int

	// CoverDescription is stored with the embedded picture.
	CoverDescription string
}

// DefaultTagConfig returns the default tag configuration.
//
// Covers are embedded as-is with the description "Front Cover".
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		EmbedCover:       true,
		CoverDescription: "Front Cover",
	}
}

// Tagger writes derived tags into freshly encoded files.
//
// Tagger overwrites every text field it manages and replaces any embedded
// picture, so the written tags are the only metadata the file carries:
//   - FLAC: Vorbis comments TITLE, ARTIST, ALBUM, TRACKNUMBER and a
//     PICTURE block (front cover)
//   - ALAC (MP4): ©nam, ©ART, ©alb, trkn and covr atoms. BMP, GIF and
//     TIFF covers are re-encoded as JPEG first.
//
// Cover problems never discard the text tags. When the cover cannot be
// read, decoded or carried by the container, the text tags are saved and
// a *CoverError is returned.
//
// Example:
//
//	tagger := NewTagger(model.FormatFLAC, DefaultTagConfig())
//
//	err := tagger.Tag(ctx, path, tags, "/music/Artist/Album/cover.jpg")
//	if IsCoverError(err) {
//	    log.Printf("tagged without cover: %v", err)
//	}
type Tagger struct {
	format model.Format
	config *TagConfig
	images *ioutils.ImageService
}

// NewTagger creates a Tagger for files of the given format.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(format model.Format, config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{
		format: format,
		config: config,
		images: ioutils.NewImageService(),
	}
}

// Tag writes tags into the file at path, embedding cover when it is non-empty.
//
// path is the encoded file to modify in place. It may differ from the path
// the tags were derived from, for example when tagging a staging file
// before it is renamed into place.
func (t *Tagger) Tag(ctx context.Context, path string, tags model.DerivedTags, cover string) error {
	var art *coverArt
	var coverErr error
	if cover != "" && t.config.EmbedCover {
		art, coverErr = t.loadCover(ctx, cover)
	}

	var err error
	switch t.format {
	case model.FormatALAC:
		art, coverErr = t.mp4Cover(ctx, cover, art, coverErr)
		err = t.tagMP4(path, tags, art)
	default:
		err = t.tagFLAC(path, tags, art)
	}
	if err != nil {
		return err
	}
	return coverErr
}

// coverArt is a cover image prepared for embedding.
type coverArt struct {
	data []byte
	mime string
	info ioutils.ImageInfo
}

// loadCover reads and inspects the cover file. Any error is a *CoverError.
func (t *Tagger) loadCover(ctx context.Context, path string) (*coverArt, error) {
	mime, err := CoverMIME(path)
	if err != nil {
		return nil, &CoverError{Cover: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CoverError{Cover: path, Err: err}
	}

	if t.config.CoverMaxSize > 0 {
		resized, err := t.images.ResizeImage(ctx, data, t.config.CoverMaxSize, t.config.CoverMaxSize)
		if err != nil {
			return nil, &CoverError{Cover: path, Err: err}
		}
		data, mime = resized, "image/jpeg"
	}

	info, err := t.images.Inspect(data)
	if err != nil {
		return nil, &CoverError{Cover: path, Err: err}
	}

	return &coverArt{data: data, mime: mime, info: info}, nil
}

// tagFLAC replaces the Vorbis comment and picture blocks of a FLAC file.
func (t *Tagger) tagFLAC(path string, tags model.DerivedTags, art *coverArt) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing flac: %w", err)
	}

	// Drop existing comments and pictures
	kept := make([]*flac.MetaDataBlock, 0, len(f.Meta)+2)
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	comment := flacvorbis.New()
	fields := []struct{ key, value string }{
		{flacvorbis.FIELD_TITLE, tags.Title},
		{flacvorbis.FIELD_ARTIST, tags.Artist},
		{flacvorbis.FIELD_ALBUM, tags.Album},
		{flacvorbis.FIELD_TRACKNUMBER, strconv.FormatUint(uint64(tags.TrackNumber), 10)},
	}
	for _, field := range fields {
		if err := comment.Add(field.key, field.value); err != nil {
			return fmt.Errorf("adding %s: %w", field.key, err)
		}
	}
	commentBlock := comment.Marshal()
	f.Meta = append(f.Meta, &commentBlock)

	if art != nil {
		picture := &flacpicture.MetadataBlockPicture{
			PictureType:       flacpicture.PictureTypeFrontCover,
			MIME:              art.mime,
			Description:       t.config.CoverDescription,
			Width:             uint32(art.info.Width),
			Height:            uint32(art.info.Height),
			ColorDepth:        uint32(art.info.Depth),
			IndexedColorCount: uint32(art.info.Colors),
			ImageData:         art.data,
		}
		pictureBlock := picture.Marshal()
		f.Meta = append(f.Meta, &pictureBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving flac: %w", err)
	}
	return nil
}

// mp4Cover re-encodes covers the covr atom cannot carry as JPEG.
// The atom only knows JPEG and PNG.
func (t *Tagger) mp4Cover(ctx context.Context, path string, art *coverArt, coverErr error) (*coverArt, error) {
	if art == nil || art.mime == "image/jpeg" || art.mime == "image/png" {
		return art, coverErr
	}

	data, err := t.images.ConvertToJPEG(ctx, art.data)
	if err != nil {
		return nil, &CoverError{Cover: path, Err: fmt.Errorf("%w: %s in mp4: %v", ErrUnsupportedCover, art.mime, err)}
	}
	return &coverArt{data: data, mime: "image/jpeg", info: art.info}, coverErr
}

// tagMP4 writes iTunes-style atoms into an MP4 file.
func (t *Tagger) tagMP4(path string, tags model.DerivedTags, art *coverArt) error {
	if tags.TrackNumber > math.MaxInt16 {
		return fmt.Errorf("%w: %d", ErrTrackNumberRange, tags.TrackNumber)
	}

	mp4Tags := &mp4tag.MP4Tags{
		Title:       tags.Title,
		Artist:      tags.Artist,
		Album:       tags.Album,
		TrackNumber: int16(tags.TrackNumber),
	}
	if art != nil {
		format := mp4tag.ImageTypeJPEG
		if art.mime == "image/png" {
			format = mp4tag.ImageTypePNG
		}
		mp4Tags.Pictures = []*mp4tag.MP4Picture{{Format: format, Data: art.data}}
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("opening mp4: %w", err)
	}
	defer mp4.Close()

	if err := mp4.Write(mp4Tags, []string{}); err != nil {
		return fmt.Errorf("writing mp4 tags: %w", err)
	}
	return nil
}
