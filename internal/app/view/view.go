// Package view renders playlists and play queues for display.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/osa030/19queue/internal/domain/track"
)

// Listing titles.
const (
	PlaylistTitle = "PLAYLIST"
	QueueTitle    = "PLAY QUEUE"
)

// Listing renders items as a titled, 0-indexed listing:
//
//	TITLE
//
//	0: first
//	1: second
func Listing[T any](title string, items []T) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d: %v\n", i, item)
	}
	return b.String()
}

// Playlist renders the playlist listing.
func Playlist[T any](items []T) string {
	return Listing(PlaylistTitle, items)
}

// Queue renders the play queue listing.
func Queue[T any](items []T) string {
	return Listing(QueueTitle, items)
}

// TrackTable renders tracks as a table with index, name, artists and duration.
// The footer holds the total duration.
func TrackTable(title string, tracks []track.Track) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Name", "Artists", "Duration"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	rows := lo.Map(tracks, func(tr track.Track, i int) table.Row {
		return table.Row{strconv.Itoa(i), tr.Name, strings.Join(tr.Artists, ", "), tr.DurationText()}
	})
	t.AppendRows(rows)

	total := track.Track{Duration: track.TotalDuration(tracks)}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(tracks)), "", total.DurationText()})

	return t.Render()
}
