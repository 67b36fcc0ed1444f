package view

import (
	"testing"
	"time"

	"github.com/kmunkitt/skim/internal/model"
)

// fakeTriage implements Triage from fixed sets.
type fakeTriage struct {
	read, starred, later map[string]bool
}

func (f fakeTriage) IsRead(id string) bool      { return f.read[id] }
func (f fakeTriage) IsStarred(id string) bool   { return f.starred[id] }
func (f fakeTriage) IsReadLater(id string) bool { return f.later[id] }

func testItems() []model.Item {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []model.Item{
		{ID: "a", Published: t0.Add(3 * time.Hour), Category: "Tech", Recommended: true},
		{ID: "b", Published: t0.Add(2 * time.Hour), Tags: []string{"AI", "Tech"}},
		{ID: "c", Published: t0.Add(time.Hour), Category: model.SocialCategory},
		{ID: "d", Published: t0, Category: "Tech"},
	}
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProject(t *testing.T) {
	triage := fakeTriage{
		read:    map[string]bool{"a": true},
		starred: map[string]bool{"b": true, "d": true},
		later:   map[string]bool{"c": true},
	}

	tests := []struct {
		name     string
		filter   Filter
		category string
		want     []string
	}{
		{"all passes everything", FilterAll, model.CategoryAll, []string{"a", "b", "c", "d"}},
		{"unread excludes read", FilterUnread, model.CategoryAll, []string{"b", "c", "d"}},
		{"starred requires membership", FilterStarred, model.CategoryAll, []string{"b", "d"}},
		{"read later requires membership", FilterReadLater, model.CategoryAll, []string{"c"}},
		{"recommended requires flag", FilterRecommended, model.CategoryAll, []string{"a"}},
		{"category restricts by tag set", FilterAll, "Tech", []string{"a", "b", "d"}},
		{"filter and category compose", FilterStarred, "Tech", []string{"b", "d"}},
		{"category misses everything", FilterAll, "Sports", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Project(testItems(), triage, tt.filter, tt.category))
			if !equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProjectPreservesOrder(t *testing.T) {
	triage := fakeTriage{}
	got := Project(testItems(), triage, FilterAll, model.CategoryAll)
	for i := 1; i < len(got); i++ {
		if got[i].Published.After(got[i-1].Published) {
			t.Errorf("projection reordered items at %d", i)
		}
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	triage := fakeTriage{read: map[string]bool{"a": true}}
	first := ids(Project(testItems(), triage, FilterUnread, "Tech"))
	for i := 0; i < 5; i++ {
		again := ids(Project(testItems(), triage, FilterUnread, "Tech"))
		if !equal(first, again) {
			t.Fatalf("projection not deterministic: %v vs %v", first, again)
		}
	}
}

func TestCategoryAllIsNoOp(t *testing.T) {
	triage := fakeTriage{starred: map[string]bool{"b": true}}
	filtered := ids(Project(testItems(), triage, FilterStarred, model.CategoryAll))
	want := []string{"b"}
	if !equal(filtered, want) {
		t.Errorf("category all must equal the filter-only result: got %v", filtered)
	}
}

func TestRecommendedScenario(t *testing.T) {
	// Feed returns one recommended item, secondary source failed.
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Item{{ID: "a", Published: t0, Recommended: true}}

	got := ids(Project(items, fakeTriage{}, FilterRecommended, model.CategoryAll))
	if !equal(got, []string{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
}

func TestEmptyMessages(t *testing.T) {
	tests := []struct {
		filter Filter
		want   string
	}{
		{FilterStarred, "No starred items"},
		{FilterUnread, "All caught up!"},
		{FilterReadLater, "Nothing saved for later"},
		{FilterRecommended, "No recommendations yet"},
		{FilterAll, "No items"},
	}
	for _, tt := range tests {
		if got := EmptyMessage(tt.filter); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.filter, tt.want, got)
		}
	}
}

func TestParseFilter(t *testing.T) {
	if ParseFilter("starred") != FilterStarred {
		t.Error("expected starred")
	}
	if ParseFilter("bogus") != FilterAll {
		t.Error("unknown filter must default to all")
	}
}
