package plwriter

import (
	"bufio"
	"fmt"
	"io"
)

func writePLS(w io.Writer, pl Playlist, output string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[playlist]\n")
	if pl.Title != "" {
		fmt.Fprintf(bw, "X-GNOME-Title=%s\n", oneLine(pl.Title))
	}
	fmt.Fprintf(bw, "NumberOfEntries=%d\n", len(pl.Entries))
	for i, e := range pl.Entries {
		n := i + 1
		fmt.Fprintf(bw, "File%d=%s\n", n, location(e.URI, output))
		if e.Title != "" {
			fmt.Fprintf(bw, "Title%d=%s\n", n, oneLine(e.Title))
		}
		if e.Genre != "" {
			fmt.Fprintf(bw, "Genre%d=%s\n", n, oneLine(e.Genre))
		}
	}
	bw.WriteString("Version=2\n")
	return bw.Flush()
}
