package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatNone disables playlist generation.
	FormatNone PlaylistFormat = iota

	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines carrying artist and title.
	FormatM3U

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParsePlaylistFormat maps a configuration value to a PlaylistFormat.
// Empty and "none" disable playlists.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return FormatNone, nil
	case "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	default:
		return FormatNone, fmt.Errorf("unknown playlist format %q", name)
	}
}

// Extension returns the playlist file extension without the leading dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return "pls"
	case FormatWPL:
		return "wpl"
	case FormatZPL:
		return "zpl"
	default:
		return "m3u"
	}
}

// PlaylistEntry is one track of an album playlist.
type PlaylistEntry struct {
	// Path is the track file; only its base name is written.
	Path string

	TrackNumber uint32
	Title       string
}

// Playlist is the ordered track list of one album directory.
type Playlist struct {
	Artist  string
	Album   string
	Entries []PlaylistEntry
}

// AlbumPlaylist builds a Playlist from every file with extension ext in
// dir whose path yields tags. Entries are ordered by track number, then
// file name. Files that do not follow the naming layout are left out.
func AlbumPlaylist(dir, ext string) (*Playlist, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	p := &Playlist{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !strings.EqualFold(filepath.Ext(e.Name()), "."+ext) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		tags, err := DeriveTags(path)
		if err != nil {
			continue
		}
		p.Artist, p.Album = tags.Artist, tags.Album
		p.Entries = append(p.Entries, PlaylistEntry{Path: path, TrackNumber: tags.TrackNumber, Title: tags.Title})
	}

	sort.SliceStable(p.Entries, func(i, j int) bool {
		a, b := p.Entries[i], p.Entries[j]
		if a.TrackNumber != b.TrackNumber {
			return a.TrackNumber < b.TrackNumber
		}
		return filepath.Base(a.Path) < filepath.Base(b.Path)
	})
	return p, nil
}

// PlaylistCreator generates playlist files in various formats.
//
// The output is a string that can be written to a file placed next to
// the tracks; track paths are written as bare file names.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(playlist)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Artist - Song Title
//	// 01 Song Title.flac
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only affects M3U output.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// FileName returns the playlist file name for an album.
func (p *PlaylistCreator) FileName(pl *Playlist) string {
	name := pl.Album
	if name == "" {
		name = "playlist"
	}
	return name + "." + p.format.Extension()
}

// CreatePlaylist generates playlist content.
func (p *PlaylistCreator) CreatePlaylist(pl *Playlist) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(pl)
	case FormatWPL:
		return p.createSMIL(pl, "wpl", "1.0", false)
	case FormatZPL:
		return p.createSMIL(pl, "zpl", "2.0", true)
	default:
		return p.createM3U(pl)
	}
}

// createM3U generates an M3U playlist. Durations are not known, so
// extended entries use -1.
func (p *PlaylistCreator) createM3U(pl *Playlist) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range pl.Entries {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s - %s\n", pl.Artist, e.Title)
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=01 Song.flac
//	Title1=Song
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(pl *Playlist) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range pl.Entries {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, filepath.Base(e.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, e.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(pl.Entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createSMIL generates the XML playlists used by Windows Media Player
// (WPL) and Zune (ZPL). ZPL adds per-track album and artist attributes.
func (p *PlaylistCreator) createSMIL(pl *Playlist, kind, version string, detailed bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<?%s version=\"%s\"?>\n", kind, version)
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(pl.Album))
	if detailed {
		sb.WriteString("    <meta name=\"Generator\" content=\"wavtoflac\"/>\n")
		fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(pl.Entries))
	}
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range pl.Entries {
		src := escapeXML(filepath.Base(e.Path))
		if detailed {
			fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"/>\n",
				src, escapeXML(pl.Album), escapeXML(pl.Artist), escapeXML(e.Title), escapeXML(pl.Artist))
			continue
		}
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", src)
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes & < > " ' in s.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
