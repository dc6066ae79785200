// Package discovery walks a source tree and turns it into conversion and
// cover-copy jobs for a destination tree.
//
// # Mapping
//
// Mapper mirrors a source path into the destination root. Audio files get
// the output extension, covers keep their name:
//
//	m := discovery.NewMapper("/src", "/dst")
//	target, _ := m.Target("/src/A/B/01 Song.wav", discovery.SwapExtension("flac"))
//	// target = "/dst/A/B/01 Song.flac"
//
// Map additionally refuses destinations that already exist, which makes
// repeated runs only pick up what is still missing.
//
// # Discovery
//
//	res, err := discovery.Discover(ctx, discovery.Options{
//	    SourceRoot: "/src",
//	    DestRoot:   "/dst",
//	    Encoding:   model.EncodingOptions{Format: model.FormatFLAC},
//	    CoverName:  "cover.jpg",
//	    Log:        log,
//	})
//
// # Collisions
//
// Two sources can map to one destination, e.g. "01 Song.wav" and
// "01 Song.aiff" in the same folder. Every source of such a destination is
// rejected and reported in Result.Collisions; none of them is converted.
package discovery
