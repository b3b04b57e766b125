package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	PostKeyPrefix    = "post:%s"
	FeedFirstPageKey = "feed:first"
	MapFeedKey       = "feed:map"
	WeatherKeyPrefix = "weather:%.2f:%.2f"
	UserLikesPrefix  = "user:%d:likes"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	FeedTTL      = 30 * time.Second
	WeatherTTL   = 10 * time.Minute
	UserLikesTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// WeatherKey buckets coordinates to two decimals (~1km) so nearby requests
// share a cache entry.
func WeatherKey(lat, lon float64) string {
	return fmt.Sprintf(WeatherKeyPrefix, lat, lon)
}

func UserLikesKey(userID uint) string {
	return fmt.Sprintf(UserLikesPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserLikesKey(userID))
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, FeedFirstPageKey)
	Invalidate(ctx, MapFeedKey)
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPageKey)
	Invalidate(ctx, MapFeedKey)
}
