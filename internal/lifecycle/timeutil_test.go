package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsed(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"45 seconds ago", now.Add(-45 * time.Second), "Just now"},
		{"5 minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"125 minutes ago", now.Add(-125 * time.Minute), "2h ago"},
		{"23 hours ago", now.Add(-23 * time.Hour), "23h ago"},
		{"3 days ago", now.Add(-3*24*time.Hour - time.Hour), "3d ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Elapsed(tc.ts, now))
		})
	}
}

func TestRemainingMinutes(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	left, ok := RemainingMinutes(now.Add(-10*time.Minute), 30, now)
	assert.True(t, ok)
	assert.Equal(t, 20, left)

	_, ok = RemainingMinutes(now.Add(-40*time.Minute), 30, now)
	assert.False(t, ok)

	// Window boundary counts as elapsed.
	_, ok = RemainingMinutes(now.Add(-30*time.Minute), 30, now)
	assert.False(t, ok)
}
