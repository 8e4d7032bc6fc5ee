package presence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func newTestTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewTracker(rdb), srv
}

func TestTrackerOnlineOffline(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	assert.Nil(t, tracker.SetOnline(ctx, "u1"))
	assert.Nil(t, tracker.SetOnline(ctx, "u2"))

	online, err := tracker.OnlineUsers(ctx)
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, online)

	ok, err := tracker.IsOnline(ctx, "u1")
	assert.Nil(t, err)
	assert.True(t, ok)

	assert.Nil(t, tracker.SetOffline(ctx, "u1"))

	ok, err = tracker.IsOnline(ctx, "u1")
	assert.Nil(t, err)
	assert.False(t, ok)

	online, err = tracker.OnlineUsers(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"u2"}, online)
}

func TestTrackerExpiresAbandonedUsers(t *testing.T) {
	tracker, srv := newTestTracker(t)
	ctx := context.Background()

	// u1 goes online, then its server dies before SetOffline ever runs
	assert.Nil(t, tracker.SetOnline(ctx, "u1"))
	srv.FastForward(onlineTTL + time.Second)

	assert.Nil(t, tracker.SetOnline(ctx, "u2"))

	ok, err := tracker.IsOnline(ctx, "u1")
	assert.Nil(t, err)
	assert.False(t, ok)

	online, err := tracker.OnlineUsers(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"u2"}, online)

	// the stale set entry was dropped, not just filtered
	member, err := tracker.rdb.SIsMember(ctx, onlineUsersKey, "u1").Result()
	assert.Nil(t, err)
	assert.False(t, member)
}

func TestTrackerRefreshKeepsUserAlive(t *testing.T) {
	tracker, srv := newTestTracker(t)
	ctx := context.Background()

	assert.Nil(t, tracker.SetOnline(ctx, "u1"))

	srv.FastForward(onlineTTL / 2)
	assert.Nil(t, tracker.Refresh(ctx, "u1"))
	srv.FastForward(onlineTTL/2 + time.Second)

	ok, err := tracker.IsOnline(ctx, "u1")
	assert.Nil(t, err)
	assert.True(t, ok)
}
