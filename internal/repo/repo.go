// Package repo fetches and merges the content sources into one collection.
//
// Two sources are fetched in parallel on every load: the primary feed
// endpoint and the secondary social resource, both JSON item lists. Either
// may fail independently - a failed source contributes zero items and the
// load carries on. Optional direct RSS subscriptions are merged the same
// way. The merged collection is sorted newest first and carries the
// derived tag index.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kmunkitt/skim/internal/config"
	"github.com/kmunkitt/skim/internal/logging"
	"github.com/kmunkitt/skim/internal/model"
)

// fetchTimeout bounds each individual source fetch.
const fetchTimeout = 30 * time.Second

// Collection is one fetch cycle's worth of content. Downstream consumers
// treat it as read-only.
type Collection struct {
	Items []model.Item
	Tags  []string
}

// Repository loads and merges the content sources.
type Repository struct {
	client    *http.Client
	feedURL   string
	socialURL string
	rss       []config.RSSSource
	limiter   *rate.Limiter
}

// New creates a Repository. The client should carry the offline cache
// proxy as its transport; a nil client falls back to a plain one. The
// revalidate interval drives the background refresh limiter.
func New(client *http.Client, sources config.SourceConfig, revalidate time.Duration) *Repository {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	if revalidate <= 0 {
		revalidate = 30 * time.Minute
	}
	return &Repository{
		client:    client,
		feedURL:   sources.FeedURL,
		socialURL: resolveSource(sources.FeedURL, sources.SocialURL),
		rss:       sources.RSS,
		limiter:   rate.NewLimiter(rate.Every(revalidate), 1),
	}
}

// resolveSource makes a relative source URL absolute against the primary
// feed endpoint's origin, so a config can name the secondary resource the
// way the served app does ("data/social.json"). Absolute URLs pass
// through untouched.
func resolveSource(base, raw string) string {
	if raw == "" {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return raw
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return raw
	}
	root := &url.URL{Scheme: b.Scheme, Host: b.Host, Path: "/"}
	return root.ResolveReference(ref).String()
}

// AllowRevalidate reports whether a background revalidation may run now.
// User-initiated refreshes bypass this; only the periodic check is rate
// limited.
func (r *Repository) AllowRevalidate() bool {
	return r.limiter.Allow()
}

// Load fetches all sources in parallel and returns the merged, sorted
// collection. Never fails: a total load failure yields an empty collection
// and a logged error.
func (r *Repository) Load(ctx context.Context) Collection {
	type sourceResult struct {
		items []model.Item
		err   error
		name  string
	}

	results := make([]sourceResult, 2+len(r.rss))

	var g errgroup.Group
	g.Go(func() error {
		items, err := r.fetchJSON(ctx, r.feedURL, model.SourceFeed)
		results[0] = sourceResult{items: items, err: err, name: "feed"}
		return nil // never fail the group - errors reported per-source
	})
	g.Go(func() error {
		items, err := r.fetchJSON(ctx, r.socialURL, model.SourceSocial)
		results[1] = sourceResult{items: items, err: err, name: "social"}
		return nil
	})
	for i, src := range r.rss {
		g.Go(func() error {
			items, err := r.fetchRSS(ctx, src)
			results[2+i] = sourceResult{items: items, err: err, name: src.Name}
			return nil
		})
	}
	_ = g.Wait()

	var items []model.Item
	failures := 0
	for _, res := range results {
		if res.err != nil {
			failures++
			logging.Warn("Source fetch failed", "source", res.name, "error", res.err)
			continue
		}
		items = append(items, res.items...)
	}
	if failures == len(results) {
		logging.Error("All sources failed, collection is empty")
	}

	model.SortByPublished(items)
	return Collection{Items: items, Tags: model.TagIndex(items)}
}

// itemList is the wire shape both JSON endpoints return.
type itemList struct {
	Items []wireItem `json:"items"`
}

// wireItem carries the union of the feed and social item fields.
type wireItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Text        string   `json:"text"`
	Link        string   `json:"link"`
	Source      string   `json:"source"`
	User        string   `json:"user"`
	Published   string   `json:"published"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Recommended bool     `json:"recommended"`
}

// fetchJSON retrieves one JSON endpoint, tagging items with the source
// type. Requests bypass any intermediate HTTP cache; the offline proxy's
// network-first policy keeps its own copy.
func (r *Repository) fetchJSON(ctx context.Context, url string, typ model.SourceType) ([]model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var list itemList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode item list: %w", err)
	}

	items := make([]model.Item, 0, len(list.Items))
	for _, w := range list.Items {
		items = append(items, convertWireItem(w, typ))
	}
	return items, nil
}

// convertWireItem maps a wire item onto the unified model.
func convertWireItem(w wireItem, typ model.SourceType) model.Item {
	item := model.Item{
		ID:          w.ID,
		Type:        typ,
		Title:       w.Title,
		Summary:     w.Summary,
		Link:        w.Link,
		Attribution: w.Source,
		Category:    w.Category,
		Tags:        w.Tags,
		Recommended: w.Recommended,
		Published:   parsePublished(w.Published),
	}
	if item.Summary == "" {
		item.Summary = w.Text
	}
	if typ == model.SourceSocial {
		if w.User != "" {
			item.Attribution = "@" + w.User
		}
		if item.Category == "" {
			item.Category = model.SocialCategory
		}
	}
	return item
}

// publishedFormats are tried in order when parsing item timestamps.
var publishedFormats = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublished(s string) time.Time {
	for _, layout := range publishedFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
