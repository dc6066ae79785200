package model

import "fmt"

// DerivedTags is the metadata inferred from a destination path.
//
// For ".../Artist/Album/07 My Title.flac" the tags are
// {Artist: "Artist", Album: "Album", TrackNumber: 7, Title: "My Title"}.
type DerivedTags struct {
	Artist      string
	Album       string
	TrackNumber uint32
	Title       string
}

// String formats the tags as "Artist - Album - NN Title".
func (t DerivedTags) String() string {
	return fmt.Sprintf("%s - %s - %02d %s", t.Artist, t.Album, t.TrackNumber, t.Title)
}
