package cache

import (
	"fmt"
	"time"
)

const (
	PostKeyPrefix    = "post:%d"
	NewestPostsKey   = "posts:newest"
	NewestPostsLimit = 5
)

const (
	PostTTL        = 30 * time.Minute
	NewestPostsTTL = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostKeys returns the cache keys of every post in ids.
func PostKeys(ids []uint) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, PostKey(id))
	}
	return keys
}
