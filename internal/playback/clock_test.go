package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestClockPlayer(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := newClockPlayer(10*time.Second, 0, clock.now)

	assert.Equal(t, 10*time.Second, p.Position())
	assert.False(t, p.Paused())

	clock.t = clock.t.Add(5 * time.Second)
	assert.Equal(t, 15*time.Second, p.Position())

	p.Pause()
	clock.t = clock.t.Add(time.Minute)
	assert.True(t, p.Paused())
	assert.Equal(t, 15*time.Second, p.Position())

	p.Toggle()
	clock.t = clock.t.Add(2 * time.Second)
	assert.False(t, p.Paused())
	assert.Equal(t, 17*time.Second, p.Position())
}

func TestClockPlayer_CapsAtDuration(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newClockPlayer(0, 3*time.Second, clock.now)

	clock.t = clock.t.Add(10 * time.Second)
	assert.Equal(t, 3*time.Second, p.Position())
}
