package news

import (
	"strings"
	"unicode/utf8"
)

// ResolveImageURL picks the card image for an entry. The first hit wins:
// media:content, media:thumbnail, the first image/* link, the source
// default image and finally PlaceholderImageURL. Never returns "".
func ResolveImageURL(entry RawEntry, source FeedSource) string {
	if len(entry.MediaContent) > 0 && entry.MediaContent[0].URL != "" {
		return entry.MediaContent[0].URL
	}

	if len(entry.MediaThumbnail) > 0 && entry.MediaThumbnail[0].URL != "" {
		return entry.MediaThumbnail[0].URL
	}

	for _, link := range entry.Links {
		if strings.HasPrefix(link.Type, "image/") && link.Href != "" {
			return link.Href
		}
	}

	if source.DefaultImageURL != "" {
		return source.DefaultImageURL
	}
	return PlaceholderImageURL
}

// Normalizer turns raw entries into display items.
// The zero value uses DefaultSnippetLength.
type Normalizer struct {
	SnippetLength int
}

// BuildDisplayItem maps an entry with the default snippet length.
func BuildDisplayItem(entry RawEntry, source FeedSource) DisplayItem {
	return Normalizer{}.BuildDisplayItem(entry, source)
}

func (n Normalizer) BuildDisplayItem(entry RawEntry, source FeedSource) DisplayItem {
	summary := entry.Summary
	if strings.TrimSpace(summary) == "" {
		summary = NoDescription
	}

	return DisplayItem{
		Source:           source.Name,
		Title:            entry.Title,
		Link:             entry.Link,
		PublishedSnippet: n.snippet(entry.Published),
		ImageURL:         ResolveImageURL(entry, source),
		SummaryText:      summary,
	}
}

// BuildDisplayItems keeps the first limit entries and maps each of them.
func (n Normalizer) BuildDisplayItems(entries []RawEntry, source FeedSource, limit int) []DisplayItem {
	entries = Take(entries, limit)
	items := make([]DisplayItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, n.BuildDisplayItem(e, source))
	}
	return items
}

func (n Normalizer) snippet(published string) string {
	if published == "" {
		return NoDateMarker
	}

	size := n.SnippetLength
	if size <= 0 {
		size = DefaultSnippetLength
	}
	if utf8.RuneCountInString(published) <= size {
		return published
	}
	return string([]rune(published)[:size])
}

// Take returns the first k entries in fetcher order. k <= 0 means no limit.
func Take(entries []RawEntry, k int) []RawEntry {
	if k <= 0 || k >= len(entries) {
		return entries
	}
	return entries[:k]
}
