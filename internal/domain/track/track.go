// Package track provides the Track domain entity.
package track

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a playable track.
type Track struct {
	ID       string        // Track ID (UUID when not given)
	Name     string        // Track name
	Artists  []string      // Artist names
	Duration time.Duration // Track duration (zero if unknown)
}

// String returns "Name - Artist1, Artist2", or just the name when there are no artists.
func (t Track) String() string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return t.Name + " - " + strings.Join(t.Artists, ", ")
}

// DurationText formats the duration as m:ss, or "-" when unknown.
func (t Track) DurationText() string {
	if t.Duration <= 0 {
		return "-"
	}
	total := int(t.Duration.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// TotalDuration returns the total duration of tracks.
func TotalDuration(tracks []Track) time.Duration {
	var total time.Duration
	for _, t := range tracks {
		total += t.Duration
	}
	return total
}
