package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrack_String(t *testing.T) {
	tests := []struct {
		name     string
		track    Track
		expected string
	}{
		{
			name:     "no artists",
			track:    Track{Name: "Song 1"},
			expected: "Song 1",
		},
		{
			name:     "single artist",
			track:    Track{Name: "Bohemian Rhapsody", Artists: []string{"Queen"}},
			expected: "Bohemian Rhapsody - Queen",
		},
		{
			name:     "multiple artists",
			track:    Track{Name: "Under Pressure", Artists: []string{"Queen", "David Bowie"}},
			expected: "Under Pressure - Queen, David Bowie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.track.String())
		})
	}
}

func TestTrack_DurationText(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "unknown", duration: 0, expected: "-"},
		{name: "seconds only", duration: 42 * time.Second, expected: "0:42"},
		{name: "minutes", duration: 3*time.Minute + 5*time.Second, expected: "3:05"},
		{name: "rounded", duration: 2*time.Minute + 59*time.Second + 600*time.Millisecond, expected: "3:00"},
		{name: "over an hour", duration: 61 * time.Minute, expected: "61:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := Track{Name: "x", Duration: tt.duration}
			assert.Equal(t, tt.expected, track.DurationText())
		})
	}
}

func TestTotalDuration(t *testing.T) {
	tracks := []Track{
		{ID: "track-1", Duration: 2 * time.Minute},
		{ID: "track-2", Duration: 3*time.Minute + 30*time.Second},
		{ID: "track-3"},
	}

	assert.Equal(t, 5*time.Minute+30*time.Second, TotalDuration(tracks))
	assert.Equal(t, time.Duration(0), TotalDuration(nil))
}
