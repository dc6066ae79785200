package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhowden/tag"
	"github.com/spf13/cobra"
)

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <file>...",
		Short: "Print the tags of converted files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if err := printTags(cmd.OutOrStdout(), path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("could not read tags of %d file(s)", failed)
			}
			return nil
		},
	}
}

func printTags(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return err
	}

	track, _ := m.Track()
	cover := "none"
	if pic := m.Picture(); pic != nil {
		cover = fmt.Sprintf("%s, %d bytes", pic.MIMEType, len(pic.Data))
	}

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  Format: %s (%s)\n", m.FileType(), m.Format())
	fmt.Fprintf(w, "  Artist: %s\n", m.Artist())
	fmt.Fprintf(w, "  Album:  %s\n", m.Album())
	fmt.Fprintf(w, "  Track:  %d\n", track)
	fmt.Fprintf(w, "  Title:  %s\n", m.Title())
	fmt.Fprintf(w, "  Cover:  %s\n", cover)
	return nil
}
