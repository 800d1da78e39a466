package cache

import (
	"fmt"
	"time"
)

const (
	CategoriesListKey     = "categories:all"
	RelatedPostsKeyPrefix = "posts:related:%d"
)

const (
	CategoriesTTL   = 10 * time.Minute
	RelatedPostsTTL = 2 * time.Minute
)

// RelatedPostsKey returns the cache key for the latest-n published posts
// shown alongside a post detail.
func RelatedPostsKey(n int) string {
	return fmt.Sprintf(RelatedPostsKeyPrefix, n)
}
