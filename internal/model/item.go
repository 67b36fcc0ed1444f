// Package model provides the data layer for skim.
//
// Item is the unified content type: syndicated articles and social posts
// flow through the same struct once the repository has tagged them with
// their source type. Within one fetch cycle the collection is read-only;
// per-user state (read, starred, read-later) lives in the triage record,
// keyed by Item.ID.
package model

import (
	"sort"
	"time"
)

// SourceType identifies the origin of a content item.
type SourceType string

const (
	SourceFeed   SourceType = "feed"
	SourceSocial SourceType = "social"
)

// SocialCategory is the fallback category for social items that arrive
// without one.
const SocialCategory = "Social"

// CategoryAll is the implicit category that matches every item.
const CategoryAll = "all"

// Item represents a single piece of content from either source.
//
// ID is stable across fetches for the same underlying content - it is the
// join key for triage state. If two sources emit the same ID, the
// last-merged item wins; there is no dedup logic.
type Item struct {
	ID          string
	Type        SourceType
	Title       string
	Summary     string // Article summary or post text
	Link        string // May be empty for some social items
	Attribution string // Feed name or @user handle
	Published   time.Time
	Category    string   // Single legacy category
	Tags        []string // Preferred over Category when present
	Recommended bool
}

// TagList returns the item's tags, falling back to the single legacy
// category when no tags are present.
func (i Item) TagList() []string {
	if len(i.Tags) > 0 {
		return i.Tags
	}
	return []string{i.Category}
}

// HasTag reports whether the item carries the given tag. CategoryAll
// matches every item.
func (i Item) HasTag(tag string) bool {
	if tag == CategoryAll {
		return true
	}
	for _, t := range i.TagList() {
		if t == tag {
			return true
		}
	}
	return false
}

// SortByPublished orders items newest first. The sort is stable so that
// items with identical timestamps keep their merge order.
func SortByPublished(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Published.After(items[b].Published)
	})
}

// TagIndex collects every tag across the items into a sorted list,
// prefixed with the implicit CategoryAll entry.
func TagIndex(items []Item) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		for _, tag := range item.TagList() {
			if tag != "" {
				seen[tag] = true
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return append([]string{CategoryAll}, tags...)
}
