package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deusflow/newsnow/internal/news"
)

const mediaFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>BBC News - World</title>
    <link>https://www.bbc.co.uk/news/world</link>
    <description>BBC News - World</description>
    <item>
      <title>Story with media content</title>
      <link>https://www.bbc.co.uk/news/world-1</link>
      <description>First summary</description>
      <pubDate>Wed, 01 May 2024 10:00:00 GMT</pubDate>
      <media:content url="https://ichef.bbci.co.uk/1.jpg" medium="image"/>
      <media:thumbnail url="https://ichef.bbci.co.uk/1-thumb.jpg" width="240" height="135"/>
    </item>
    <item>
      <title>Story with thumbnail</title>
      <link>https://www.bbc.co.uk/news/world-2</link>
      <description>Second summary</description>
      <pubDate>Wed, 01 May 2024 09:00:00 GMT</pubDate>
      <media:thumbnail url="https://ichef.bbci.co.uk/2-thumb.jpg"/>
    </item>
    <item>
      <title>Story with enclosure</title>
      <link>https://www.bbc.co.uk/news/world-3</link>
      <enclosure url="https://ichef.bbci.co.uk/3.jpg" length="1234" type="image/jpeg"/>
    </item>
    <item>
      <title>Story with media group</title>
      <link>https://www.bbc.co.uk/news/world-4</link>
      <media:group>
        <media:content url="https://ichef.bbci.co.uk/4.jpg"/>
      </media:group>
    </item>
  </channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Variety</title>
  <link href="https://variety.com"/>
  <updated>2024-05-01T12:00:00Z</updated>
  <id>urn:uuid:variety</id>
  <entry>
    <title>Atom entry</title>
    <link href="https://variety.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <published>2024-05-01T10:00:00Z</published>
    <updated>2024-05-01T11:00:00Z</updated>
    <content type="html">Full content only</content>
  </entry>
</feed>`

func TestParse_MediaExtensions(t *testing.T) {
	entries, err := NewFetcher(time.Second, "", 1, 0).Parse([]byte(mediaFeed))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got: %d", len(entries))
	}

	first := entries[0]
	if first.Title != "Story with media content" || first.Summary != "First summary" {
		t.Errorf("Unexpected first entry: %+v", first)
	}
	if first.Published != "Wed, 01 May 2024 10:00:00 GMT" {
		t.Errorf("Expected raw published string, got: %q", first.Published)
	}
	if len(first.MediaContent) != 1 || first.MediaContent[0].URL != "https://ichef.bbci.co.uk/1.jpg" {
		t.Errorf("Expected media content, got: %+v", first.MediaContent)
	}
	if len(first.MediaThumbnail) != 1 {
		t.Errorf("Expected media thumbnail, got: %+v", first.MediaThumbnail)
	}

	if len(entries[1].MediaContent) != 0 || entries[1].MediaThumbnail[0].URL != "https://ichef.bbci.co.uk/2-thumb.jpg" {
		t.Errorf("Expected thumbnail only, got: %+v", entries[1])
	}

	var imageLink news.Link
	for _, l := range entries[2].Links {
		if strings.HasPrefix(l.Type, "image/") {
			imageLink = l
		}
	}
	if imageLink.Href != "https://ichef.bbci.co.uk/3.jpg" {
		t.Errorf("Expected enclosure as typed link, got: %+v", entries[2].Links)
	}
	if last := entries[2].Links[len(entries[2].Links)-1]; last.Type != "image/jpeg" {
		t.Errorf("Expected enclosures after item links, got: %+v", entries[2].Links)
	}

	if len(entries[3].MediaContent) != 1 || entries[3].MediaContent[0].URL != "https://ichef.bbci.co.uk/4.jpg" {
		t.Errorf("Expected media:group content, got: %+v", entries[3].MediaContent)
	}
}

func TestParse_ResolvedImages(t *testing.T) {
	entries, err := NewFetcher(time.Second, "", 1, 0).Parse([]byte(mediaFeed))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	source := news.FeedSource{Name: "BBC World", FeedURL: "http://bbc", DefaultImageURL: "https://logo"}

	want := []string{
		"https://ichef.bbci.co.uk/1.jpg",
		"https://ichef.bbci.co.uk/2-thumb.jpg",
		"https://ichef.bbci.co.uk/3.jpg",
		"https://ichef.bbci.co.uk/4.jpg",
	}
	for i, e := range entries {
		if got := news.ResolveImageURL(e, source); got != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestParse_Atom(t *testing.T) {
	entries, err := NewFetcher(time.Second, "", 1, 0).Parse([]byte(atomFeed))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	e := entries[0]
	if e.Link != "https://variety.com/entry1" {
		t.Errorf("Expected link, got: %q", e.Link)
	}
	if e.Summary != "Full content only" {
		t.Errorf("Expected content fallback for summary, got: %q", e.Summary)
	}
	if e.Published != "2024-05-01T10:00:00Z" {
		t.Errorf("Expected published string, got: %q", e.Published)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := NewFetcher(time.Second, "", 1, 0).Parse([]byte("not a feed")); err == nil {
		t.Error("Expected parse error")
	}
}

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(mediaFeed))
	}))
	defer srv.Close()

	entries, err := NewFetcher(5*time.Second, "NewsNow/test", 1, 0).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("Expected 4 entries, got %d", len(entries))
	}
	if gotUA != "NewsNow/test" {
		t.Errorf("Expected user agent header, got %q", gotUA)
	}
}

func TestFetch_HTTPErrorNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewFetcher(5*time.Second, "", 1, 0).Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("Expected HTTP 503 error, got: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected a single request, got %d", calls)
	}
}

func TestFetch_RetriesWhenConfigured(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(mediaFeed))
	}))
	defer srv.Close()

	entries, err := NewFetcher(5*time.Second, "", 2, time.Millisecond).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Expected success on second attempt, got: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("Expected 4 entries, got %d", len(entries))
	}
}
