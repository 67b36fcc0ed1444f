package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kmunkitt/skim/internal/config"
	"github.com/kmunkitt/skim/internal/model"
)

// fetchRSS retrieves a direct RSS/Atom subscription and converts it to
// the unified item model.
func (r *Repository) fetchRSS(ctx context.Context, src config.RSSSource) ([]model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "skim/1.0 (+https://github.com/kmunkitt/skim)")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]model.Item, 0, len(feed.Items))
	for _, feedItem := range feed.Items {
		items = append(items, convertFeedItem(feedItem, src))
	}
	return items, nil
}

// convertFeedItem converts a gofeed.Item to a model.Item.
func convertFeedItem(feedItem *gofeed.Item, src config.RSSSource) model.Item {
	published := time.Time{}
	if feedItem.PublishedParsed != nil {
		published = *feedItem.PublishedParsed
	} else if feedItem.UpdatedParsed != nil {
		published = *feedItem.UpdatedParsed
	}

	category := src.Category
	if category == "" {
		category = src.Name
	}

	return model.Item{
		ID:          feedItemID(feedItem),
		Type:        model.SourceFeed,
		Title:       feedItem.Title,
		Summary:     feedItem.Description,
		Link:        feedItem.Link,
		Attribution: src.Name,
		Published:   published,
		Category:    category,
	}
}

// feedItemID creates a deterministic ID for a feed item, stable across
// fetches so triage state joins correctly. Prefers the GUID, falls back
// to the link, then title + published time.
func feedItemID(feedItem *gofeed.Item) string {
	if feedItem.GUID != "" {
		return hashString(feedItem.GUID)
	}
	if feedItem.Link != "" {
		return hashString(feedItem.Link)
	}
	key := feedItem.Title
	if feedItem.PublishedParsed != nil {
		key += feedItem.PublishedParsed.String()
	}
	return hashString(key)
}

// hashString creates a short hash of a string for use as an ID.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:8]) // 16 character hex string
}
