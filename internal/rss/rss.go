package rss

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/deusflow/newsnow/internal/logger"
	"github.com/deusflow/newsnow/internal/news"
	"github.com/deusflow/newsnow/internal/retry"
)

// Fetcher downloads and parses RSS/Atom feeds.
type Fetcher struct {
	client *resty.Client
	parser *gofeed.Parser
	retry  retry.RetryConfig
}

// NewFetcher creates a fetcher. attempts below 1 means a single attempt.
func NewFetcher(timeout time.Duration, userAgent string, attempts int, retryDelay time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &Fetcher{
		client: client,
		parser: gofeed.NewParser(),
		retry: retry.RetryConfig{
			MaxAttempts: attempts,
			Delay:       retryDelay,
			Backoff:     true,
		},
	}
}

// Fetch downloads the feed at url and returns its entries in feed order.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]news.RawEntry, error) {
	var body []byte
	err := retry.WithRetry(ctx, f.retry, func() error {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return fmt.Errorf("error loading feed: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("feed returned HTTP %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries, err := f.Parse(body)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded feed", "url", url, "entries", len(entries))
	return entries, nil
}

// Parse turns raw feed bytes into entries.
func (f *Fetcher) Parse(data []byte) ([]news.RawEntry, error) {
	feed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]news.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toRawEntry(item))
	}
	return entries, nil
}

func toRawEntry(item *gofeed.Item) news.RawEntry {
	entry := news.RawEntry{
		Title:          item.Title,
		Link:           item.Link,
		Summary:        cmp.Or(item.Description, item.Content),
		Published:      item.Published,
		MediaContent:   mediaRefs(item.Extensions, "content"),
		MediaThumbnail: mediaRefs(item.Extensions, "thumbnail"),
	}

	for _, href := range item.Links {
		if href != "" {
			entry.Links = append(entry.Links, news.Link{Href: href})
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			entry.Links = append(entry.Links, news.Link{Href: enc.URL, Type: enc.Type})
		}
	}

	return entry
}

// mediaRefs collects media:<name> urls, including those nested in media:group.
func mediaRefs(extensions ext.Extensions, name string) []news.MediaRef {
	media, ok := extensions["media"]
	if !ok {
		return nil
	}

	var refs []news.MediaRef
	add := func(list []ext.Extension) {
		for _, e := range list {
			if u := e.Attrs["url"]; u != "" {
				refs = append(refs, news.MediaRef{URL: u})
			}
		}
	}

	add(media[name])
	for _, group := range media["group"] {
		add(group.Children[name])
	}
	return refs
}
