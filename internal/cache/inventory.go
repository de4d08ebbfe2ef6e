package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PhotoKeyPrefix    = "photo:%d"
	FeedKeyPrefix     = "feed:%d"
	PhotoListKey      = "photos:all"
	JTIBlacklistKey   = "jti:blacklist:%s"
)

const (
	UserTTL      = 5 * time.Minute
	PhotoTTL     = 30 * time.Minute
	FeedTTL      = 2 * time.Minute
	PhotoListTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PhotoKey(photoID uint) string {
	return fmt.Sprintf(PhotoKeyPrefix, photoID)
}

func FeedKey(userID uint) string {
	return fmt.Sprintf(FeedKeyPrefix, userID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(JTIBlacklistKey, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateFeed(ctx context.Context, userID uint) {
	Invalidate(ctx, FeedKey(userID))
}

func InvalidatePhotoLists(ctx context.Context) {
	Invalidate(ctx, PhotoListKey)
}
