package presence

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	onlineUsersKey = "presence:online"
	userKeyPrefix  = "presence:user:"

	// onlineTTL bounds how long a user stays online after the server loses
	// track of them (crash, kill before the disconnect hook runs). The
	// websocket pong handler refreshes it while the connection lives.
	onlineTTL = 90 * time.Second
)

// Tracker keeps the set of currently-online users in redis: a membership
// set plus a per-user TTL key. Users are marked online while their
// signaling websocket is connected; the set feeds interview matchmaking.
// A set entry without a live TTL key is stale and is dropped on read.
type Tracker struct {
	rdb *redis.Client
}

func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb}
}

func (t *Tracker) SetOnline(ctx context.Context, userID string) error {
	pipe := t.rdb.TxPipeline()
	pipe.SAdd(ctx, onlineUsersKey, userID)
	pipe.Set(ctx, userKeyPrefix+userID, 1, onlineTTL)
	_, err := pipe.Exec(ctx)

	return err
}

// Refresh extends the user's TTL key; called on every websocket pong.
func (t *Tracker) Refresh(ctx context.Context, userID string) error {
	return t.rdb.Set(ctx, userKeyPrefix+userID, 1, onlineTTL).Err()
}

func (t *Tracker) SetOffline(ctx context.Context, userID string) error {
	pipe := t.rdb.TxPipeline()
	pipe.SRem(ctx, onlineUsersKey, userID)
	pipe.Del(ctx, userKeyPrefix+userID)
	_, err := pipe.Exec(ctx)

	return err
}

func (t *Tracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	alive, err := t.rdb.Exists(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		return false, err
	}

	return alive == 1, nil
}

// OnlineUsers returns the users whose TTL key is still alive. Set entries
// whose key expired are removed along the way.
func (t *Tracker) OnlineUsers(ctx context.Context) ([]string, error) {
	members, err := t.rdb.SMembers(ctx, onlineUsersKey).Result()
	if err != nil {
		return nil, err
	}

	online := make([]string, 0, len(members))
	for _, id := range members {
		alive, err := t.rdb.Exists(ctx, userKeyPrefix+id).Result()
		if err != nil {
			return nil, err
		}
		if alive == 0 {
			t.rdb.SRem(ctx, onlineUsersKey, id)
			continue
		}
		online = append(online, id)
	}

	return online, nil
}
