package slots

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	day := time.Date(2025, time.June, 15, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name      string
		open      int
		close     int
		minutes   int
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{name: "demo club hourly", open: 8, close: 23, minutes: 60, wantCount: 15, wantFirst: "08:00", wantLast: "22:00"},
		{name: "ninety minutes", open: 8, close: 23, minutes: 90, wantCount: 10, wantFirst: "08:00", wantLast: "21:30"},
		{name: "single hour", open: 10, close: 11, minutes: 60, wantCount: 1, wantFirst: "10:00", wantLast: "10:00"},
		{name: "until midnight", open: 22, close: 24, minutes: 30, wantCount: 4, wantFirst: "22:00", wantLast: "23:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(day, tt.open, tt.close, tt.minutes)
			require.NoError(t, err)
			require.Len(t, res, tt.wantCount)

			assert.Equal(t, tt.wantFirst, res[0].Label)
			assert.Equal(t, tt.wantLast, res[len(res)-1].Label)
			assert.Equal(t, res[0].Label, res[0].ID)
			assert.Equal(t, 15, res[0].Start.Day())
		})
	}
}

func TestBuild_InvalidGrid(t *testing.T) {
	day := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		open    int
		close   int
		minutes int
	}{
		{name: "zero minutes", open: 8, close: 23, minutes: 0},
		{name: "negative minutes", open: 8, close: 23, minutes: -30},
		{name: "close before open", open: 20, close: 8, minutes: 60},
		{name: "equal hours", open: 8, close: 8, minutes: 60},
		{name: "close after midnight", open: 8, close: 25, minutes: 60},
		{name: "negative open", open: -1, close: 8, minutes: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(day, tt.open, tt.close, tt.minutes)
			assert.True(t, errors.Is(err, ErrInvalidGrid), "got %v", err)
		})
	}
}
