package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmunkitt/skim/internal/model"
	"github.com/kmunkitt/skim/internal/view"
)

func filterLabel(f view.Filter) string {
	switch f {
	case view.FilterUnread:
		return "Unread"
	case view.FilterStarred:
		return "Starred"
	case view.FilterReadLater:
		return "Read Later"
	case view.FilterRecommended:
		return "Recommended"
	default:
		return "All"
	}
}

func tagLabel(tag string) string {
	if tag == model.CategoryAll {
		return "All"
	}
	return tag
}

// renderTabs lays labels out in a row, highlighting the active one.
func renderTabs(labels []string, active int) string {
	var b strings.Builder
	for i, label := range labels {
		if i == active {
			b.WriteString(ActiveTab.Render(label))
		} else {
			b.WriteString(InactiveTab.Render(label))
		}
	}
	return b.String()
}

// tabIndexAtColumn maps a terminal column back to the tab rendered there.
// Both tab styles pad one cell each side, so the hit boxes match the
// rendered segments.
func tabIndexAtColumn(labels []string, x int) (int, bool) {
	col := 0
	for i, label := range labels {
		w := lipgloss.Width(InactiveTab.Render(label))
		if x >= col && x < col+w {
			return i, true
		}
		col += w
	}
	return 0, false
}

func filterAtColumn(x int) (view.Filter, bool) {
	filters := view.Filters()
	labels := make([]string, len(filters))
	for i, f := range filters {
		labels[i] = filterLabel(f)
	}
	if i, ok := tabIndexAtColumn(labels, x); ok {
		return filters[i], true
	}
	return view.FilterAll, false
}

func tagAtColumn(tags []string, x int) (string, bool) {
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = tagLabel(t)
	}
	if i, ok := tabIndexAtColumn(labels, x); ok {
		return tags[i], true
	}
	return "", false
}
