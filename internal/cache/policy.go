package cache

import (
	"fmt"
	"time"
)

// Tags attached to cached reads. Mutations invalidate the broad "posts"
// tag plus whichever narrower tags they affect.
const (
	TagPosts         = "posts"
	TagPost          = "post"
	TagCategories    = "categories"
	TagFeaturedPosts = "featured-posts"
	TagRecentPosts   = "recent-posts"
)

// TTLs per resource. Categories barely change; listings tolerate half an
// hour of staleness when invalidation cannot reach an instance.
const (
	PostListTTL     = 1800 * time.Second
	PostBySlugTTL   = 3600 * time.Second
	CategoryListTTL = 86400 * time.Second
	FeaturedTTL     = 1800 * time.Second
	RecentTTL       = 1800 * time.Second
)

// Key builders. Filter fields appear in a fixed order so the same filter
// input always lands on the same entry.

func PostListKey(category, search string, page, limit int) string {
	return fmt.Sprintf("posts:list:category=%s:search=%s:page=%d:limit=%d", category, search, page, limit)
}

func PostBySlugKey(slug string) string {
	return "posts:slug:" + slug
}

func CategoryListKey() string {
	return "categories:list"
}

func FeaturedPostsKey(limit int) string {
	return fmt.Sprintf("posts:featured:limit=%d", limit)
}

func RecentPostsKey(limit int) string {
	return fmt.Sprintf("posts:recent:limit=%d", limit)
}
