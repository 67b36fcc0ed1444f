// Package view computes the ordered set of visible items.
//
// Project is a pure function: same items, triage state, filter, and
// category always yield the same output, in the same order. No side
// effects - the display layer renders whatever comes back.
package view

import (
	"github.com/kmunkitt/skim/internal/model"
)

// Filter selects the triage-based subset to show.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterUnread      Filter = "unread"
	FilterStarred     Filter = "starred"
	FilterReadLater   Filter = "readLater"
	FilterRecommended Filter = "recommended"
)

// Filters lists the selectable filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterUnread, FilterStarred, FilterReadLater, FilterRecommended}
}

// ParseFilter maps a config string onto a Filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterUnread, FilterStarred, FilterReadLater, FilterRecommended:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Triage is the read-only slice of the triage state the projector needs.
type Triage interface {
	IsRead(id string) bool
	IsStarred(id string) bool
	IsReadLater(id string) bool
}

// Project returns the items passing both the filter predicate and the
// category restriction, preserving input order. Items arrive already
// sorted by recency; the projector never reorders them.
func Project(items []model.Item, t Triage, f Filter, category string) []model.Item {
	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if !passes(item, t, f) {
			continue
		}
		if !item.HasTag(category) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func passes(item model.Item, t Triage, f Filter) bool {
	switch f {
	case FilterUnread:
		return !t.IsRead(item.ID)
	case FilterStarred:
		return t.IsStarred(item.ID)
	case FilterReadLater:
		return t.IsReadLater(item.ID)
	case FilterRecommended:
		return item.Recommended
	default:
		return true
	}
}

// EmptyMessage returns the human-readable empty state for a filter.
func EmptyMessage(f Filter) string {
	switch f {
	case FilterStarred:
		return "No starred items"
	case FilterUnread:
		return "All caught up!"
	case FilterReadLater:
		return "Nothing saved for later"
	case FilterRecommended:
		return "No recommendations yet"
	default:
		return "No items"
	}
}
