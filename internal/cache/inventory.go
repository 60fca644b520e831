package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	GymKeyPrefix     = "gym:%d"
	SessionKeyPrefix = "session:%d"
	FeedKeyPrefix    = "feed:user:%d"
)

const (
	UserTTL    = 5 * time.Minute
	GymTTL     = 30 * time.Minute
	SessionTTL = 2 * time.Minute
	FeedTTL    = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func GymKey(gymID uint) string {
	return fmt.Sprintf(GymKeyPrefix, gymID)
}

func SessionKey(sessionID uint) string {
	return fmt.Sprintf(SessionKeyPrefix, sessionID)
}

func FeedKey(userID uint) string {
	return fmt.Sprintf(FeedKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateGym(ctx context.Context, gymID uint) {
	Invalidate(ctx, GymKey(gymID))
}

func InvalidateSession(ctx context.Context, sessionID uint) {
	Invalidate(ctx, SessionKey(sessionID))
}
