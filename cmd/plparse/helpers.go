package main

import (
	"fmt"
	"strings"
	"time"

	"plparse/internal/plparser"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// shortID trims a UUID to the eight characters history lookups accept.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

// eventRows lays events out for the table view. Nested playlists are shown by
// indenting their entries.
func eventRows(events []plparser.Event) [][]string {
	rows := make([][]string, 0, len(events))
	depth := 0
	index := 0
	for _, ev := range events {
		switch ev.Kind {
		case plparser.EventPlaylistStart:
			rows = append(rows, []string{"", indent(depth) + "▸ " + displayTitle(ev.Bracket.Title, ev.Bracket.URI), ev.Bracket.URI})
			depth++
		case plparser.EventPlaylistEnd:
			if depth > 0 {
				depth--
			}
		case plparser.EventEntry:
			index++
			rows = append(rows, []string{fmt.Sprintf("%d", index), indent(depth) + ev.Entry.Title, ev.Entry.URI})
		}
	}
	return rows
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func displayTitle(title, fallback string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	return fallback
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
