package news

import (
	"fmt"
	"strings"
)

const (
	// PlaceholderImageURL is the last resort of the image fallback chain.
	PlaceholderImageURL = "https://via.placeholder.com/150"
	// NoDateMarker replaces the published snippet of entries without a date.
	NoDateMarker = "no date"
	// NoDescription replaces an empty entry summary.
	NoDescription = "No description"
	// DefaultSnippetLength is how many characters of the published string are shown.
	DefaultSnippetLength = 16
)

// FeedSource is one configured news source.
type FeedSource struct {
	Name            string `json:"name" yaml:"name"`
	FeedURL         string `json:"feed_url" yaml:"feed_url"`
	DefaultImageURL string `json:"default_image_url" yaml:"default_image_url"`
}

// MediaRef is a media:content or media:thumbnail reference.
type MediaRef struct {
	URL string
}

// Link is an entry link with its optional MIME type.
type Link struct {
	Href string
	Type string
}

// RawEntry is a parsed feed entry as handed over by the feed fetcher.
// Empty strings and nil slices mean the field was absent in the feed.
type RawEntry struct {
	Title          string
	Link           string
	Summary        string
	Published      string
	MediaContent   []MediaRef
	MediaThumbnail []MediaRef
	Links          []Link
}

// DisplayItem is a render-ready article card.
type DisplayItem struct {
	Source           string `json:"source"`
	Title            string `json:"title"`
	Link             string `json:"link"`
	PublishedSnippet string `json:"published"`
	ImageURL         string `json:"image_url"`
	SummaryText      string `json:"summary"`
}

// Sources is the immutable, ordered set of configured feed sources.
type Sources struct {
	list   []FeedSource
	byName map[string]int
}

// NewSources validates and freezes the given sources. Order is kept.
func NewSources(list []FeedSource) (Sources, error) {
	s := Sources{
		list:   make([]FeedSource, 0, len(list)),
		byName: make(map[string]int, len(list)),
	}
	for i, src := range list {
		src.Name = strings.TrimSpace(src.Name)
		src.FeedURL = strings.TrimSpace(src.FeedURL)
		src.DefaultImageURL = strings.TrimSpace(src.DefaultImageURL)

		if src.Name == "" {
			return Sources{}, fmt.Errorf("source #%d: name is required", i+1)
		}
		if src.FeedURL == "" {
			return Sources{}, fmt.Errorf("source %q: feed_url is required", src.Name)
		}
		if _, dup := s.byName[src.Name]; dup {
			return Sources{}, fmt.Errorf("source %q: duplicate name", src.Name)
		}
		s.byName[src.Name] = len(s.list)
		s.list = append(s.list, src)
	}
	return s, nil
}

// All returns a copy of the sources in configured order.
func (s Sources) All() []FeedSource {
	out := make([]FeedSource, len(s.list))
	copy(out, s.list)
	return out
}

// Names returns source names in configured order.
func (s Sources) Names() []string {
	names := make([]string, len(s.list))
	for i, src := range s.list {
		names[i] = src.Name
	}
	return names
}

// Lookup finds a source by its exact name.
func (s Sources) Lookup(name string) (FeedSource, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FeedSource{}, false
	}
	return s.list[i], true
}

// Len reports the number of sources.
func (s Sources) Len() int {
	return len(s.list)
}
