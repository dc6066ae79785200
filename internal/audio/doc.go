// Package audio provides the audio-file services of the conversion
// pipeline: content-based classification, tag derivation from paths,
// tag writing and playlist generation.
//
// # Classification
//
// Classifier decides from file content whether a file is a WAV or AIFF
// source, and from the file name whether it is the album cover:
//
//	kind, err := audio.NewClassifier("cover.jpg").Classify(path)
//
// # Tag Derivation
//
// DeriveTags reads artist, album, track number and title from a
// destination path laid out as .../<artist>/<album>/<NN> <title>.<ext>:
//
//	tags, err := audio.DeriveTags("/music/Artist/Album/07 My Title.flac")
//
// Each malformed layout has its own error: ErrTooFewAncestors,
// ErrNoTrackSeparator and ErrInvalidTrackNumber.
//
// # Tagging
//
// Tagger writes the derived tags into FLAC (Vorbis comments) or ALAC
// (MP4 atoms) files and optionally embeds a front cover:
//
//	tagger := audio.NewTagger(model.FormatFLAC, audio.DefaultTagConfig())
//	err := tagger.Tag(ctx, path, tags, coverPath)
//
// Cover types are taken from the extension against an allow-list of
// JPEG, BMP, GIF, PNG and TIFF. A cover that cannot be embedded yields a
// *CoverError after the text tags were saved.
//
// # Playlist Generation
//
// Generate per-album playlists from a converted directory:
//
//	pl, _ := audio.AlbumPlaylist("/music/Artist/Album", "flac")
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist(pl)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
