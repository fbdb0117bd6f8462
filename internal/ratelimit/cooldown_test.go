package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record []string
		at     time.Duration
		check  []string
		want   bool
	}{
		{name: "fresh keys are ready", check: []string{"10.0.0.1", "Alice"}, want: true},
		{name: "same requester inside window", record: []string{"10.0.0.1", "Alice"}, at: 2 * time.Second, check: []string{"10.0.0.1", "Carol"}, want: false},
		{name: "same name from another requester", record: []string{"10.0.0.1", "Alice"}, at: 2 * time.Second, check: []string{"10.0.0.2", "Alice"}, want: false},
		{name: "unrelated keys", record: []string{"10.0.0.1", "Alice"}, at: time.Second, check: []string{"10.0.0.2", "Bob"}, want: true},
		{name: "after window", record: []string{"10.0.0.1", "Alice"}, at: 9 * time.Second, check: []string{"10.0.0.1", "Alice"}, want: true},
		{name: "empty keys ignored", record: []string{""}, at: time.Second, check: []string{"", "Bob"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCooldown(DefaultWindow)
			if tt.record != nil {
				c.Record(t0, tt.record...)
			}
			assert.Equal(t, tt.want, c.Ready(t0.Add(tt.at), tt.check...))
		})
	}
}

func TestCooldownReadyDoesNotConsume(t *testing.T) {
	c := NewCooldown(DefaultWindow)
	now := time.Now()

	assert.True(t, c.Ready(now, "Alice"))
	assert.True(t, c.Ready(now, "Alice"))
	c.Record(now, "Alice")
	assert.False(t, c.Ready(now.Add(time.Millisecond), "Alice"))
}

func TestCooldownDisabled(t *testing.T) {
	c := NewCooldown(0)
	now := time.Now()
	c.Record(now, "Alice")
	assert.True(t, c.Ready(now, "Alice"))
	assert.Equal(t, 0, c.Len())
}

func TestCooldownSweep(t *testing.T) {
	c := NewCooldown(time.Second)
	t0 := time.Now()
	c.Record(t0, "a")
	c.Record(t0.Add(1500*time.Millisecond), "b")

	assert.Equal(t, 1, c.Sweep(t0.Add(2*time.Second)))
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Ready(t0.Add(2*time.Second), "b"))
}
