package plwriter

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"plparse/internal/plparser"
)

func writeM3U(w io.Writer, pl Playlist, output string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#EXTM3U\n")
	if pl.Title != "" {
		fmt.Fprintf(bw, "#PLAYLIST:%s\n", oneLine(pl.Title))
	}
	for _, e := range pl.Entries {
		if e.Title != "" || e.Metadata[plparser.MetaDuration] != "" {
			fmt.Fprintf(bw, "#EXTINF:%s,%s\n", extinfDuration(e), oneLine(e.Title))
		}
		bw.WriteString(location(e.URI, output))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// extinfDuration renders whole seconds, or -1 when the length is unknown.
func extinfDuration(e plparser.Entry) string {
	secs, err := strconv.ParseFloat(e.Metadata[plparser.MetaDuration], 64)
	if err != nil || secs <= 0 {
		return "-1"
	}
	return strconv.FormatInt(int64(math.Round(secs)), 10)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
