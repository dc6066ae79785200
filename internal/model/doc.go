// Package model defines the core data structures shared by the
// wavtoflac conversion pipeline.
//
// # Formats
//
// Format is the closed set of lossless targets a run can produce:
//
//	f, err := model.ParseFormat("alac")
//	fmt.Println(f.Codec(), f.Extension()) // alac m4a
//
// # Jobs
//
// Discovery produces two kinds of jobs. An AudioJob carries a FileMapping
// plus the run's EncodingOptions; a CoverJob carries only a FileMapping
// because covers are copied byte for byte:
//
//	job := model.AudioJob{
//	    Mapping: model.FileMapping{Source: "/src/A/B/01 Song.wav", Target: "/dst/A/B/01 Song.flac"},
//	    Options: opts,
//	}
//
// # Outcomes
//
// Every executed AudioJob yields exactly one Outcome, either Success or
// Failure. A Failure records the Stage the job stopped at and the cause.
//
// # Derived tags
//
// DerivedTags is the metadata inferred from a target path's
// .../<artist>/<album>/<NN> <title>.<ext> layout. It is never persisted on
// its own; the tagger consumes it immediately.
package model
