package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"

	"github.com/deusflow/newsnow/internal/logger"
)

const (
	// minContentLength is the shortest extraction accepted as an article.
	minContentLength = 200
	// maxContentLength caps the text handed to the summarizer.
	maxContentLength = 6000
)

// Extractor gets full article text from a page URL.
type Extractor struct {
	client *resty.Client
}

func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	client := resty.New().SetTimeout(timeout)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &Extractor{client: client}
}

// Extract downloads pageURL and returns its main text.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid article URL %q", pageURL)
	}

	resp, err := e.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode())
	}

	content, err := ExtractFromHTML(resp.Body(), u)
	if err != nil {
		return "", err
	}
	logger.Debug("Extracted article", "url", pageURL, "chars", len(content))
	return content, nil
}

// ExtractFromHTML runs readability first and falls back to paragraph
// selectors when it yields too little text.
func ExtractFromHTML(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	if pageURL == nil {
		pageURL = &url.URL{Scheme: "http", Host: "localhost"}
	}
	if article, err := readability.FromReader(bytes.NewReader(data), pageURL); err == nil {
		if text := cleanContent(article.TextContent); len(text) >= minContentLength {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	content := cleanContent(extractGenericContent(doc))
	if content == "" {
		return "", fmt.Errorf("can't get content")
	}
	return content, nil
}

// PlainText returns the visible text of an HTML fragment such as a feed summary.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// extractGenericContent is universal parser for any site
func extractGenericContent(doc *goquery.Document) string {
	var paragraphs []string

	selectors := []string{
		"article p",
		".article-body p",
		".article p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		"p",
	}

	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// cleanContent normalizes whitespace, drops boilerplate lines and keeps
// whole paragraphs up to maxContentLength.
func cleanContent(content string) string {
	junkIndicators := []string{
		"cookie", "gdpr", "subscribe to our newsletter", "sign up for",
		"read more:", "advertisement", "share this article",
	}

	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if len(line) < 8 {
			continue
		}

		lower := strings.ToLower(line)
		isJunk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if !isJunk {
			kept = append(kept, line)
		}
	}

	var b strings.Builder
	for _, paragraph := range kept {
		sep := ""
		if b.Len() > 0 {
			sep = "\n\n"
		}
		if b.Len()+len(sep)+len(paragraph) > maxContentLength {
			break
		}
		b.WriteString(sep)
		b.WriteString(paragraph)
	}

	if b.Len() == 0 && len(kept) > 0 {
		return truncateRunes(kept[0], maxContentLength-3)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
