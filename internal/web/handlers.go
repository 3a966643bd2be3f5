package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsnow/internal/ai"
	"github.com/deusflow/newsnow/internal/logger"
	"github.com/deusflow/newsnow/internal/metrics"
	"github.com/deusflow/newsnow/internal/news"
	"github.com/deusflow/newsnow/internal/scraper"
)

// Summaries shorter than this are replaced by the scraped article text
// when scraping is enabled.
const shortSummaryRunes = 300

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]news.RawEntry, error)
}

type TextTransformer interface {
	TransformText(ctx context.Context, text string, mode ai.Mode, credential string) ai.Result
}

type ArticleExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// Options configures a Handler.
type Options struct {
	ItemLimit     int
	SnippetLength int
	Credential    string
	Language      string
	// AIStats is merged into /metrics under "ai" when set.
	AIStats func() map[string]interface{}
}

// Handler handles HTTP requests for the news page and API.
type Handler struct {
	sources     news.Sources
	fetcher     FeedFetcher
	transformer TextTransformer
	extractor   ArticleExtractor
	normalizer  news.Normalizer
	opts        Options
	metrics     *metrics.Metrics
}

// NewHandler creates a handler. extractor may be nil to disable article scraping.
func NewHandler(sources news.Sources, fetcher FeedFetcher, transformer TextTransformer, extractor ArticleExtractor, opts Options) *Handler {
	return &Handler{
		sources:     sources,
		fetcher:     fetcher,
		transformer: transformer,
		extractor:   extractor,
		normalizer:  news.Normalizer{SnippetLength: opts.SnippetLength},
		opts:        opts,
		metrics:     metrics.Global,
	}
}

// SourceSection is one source block of the page.
type SourceSection struct {
	Name  string
	Items []news.DisplayItem
	Error string
}

type sourceOption struct {
	Name     string
	Selected bool
}

type pageData struct {
	Sources   []sourceOption
	Sections  []SourceSection
	AIEnabled bool
	DemoMode  bool
	Language  string
}

// Index renders the page for the selected sources. A failing source shows
// its error in its own section and does not affect the others.
func (h *Handler) Index(c *gin.Context) {
	start := time.Now()
	selected := h.selectedSources(c.QueryArray("source"))

	chosen := make(map[string]bool, len(selected))
	sections := make([]SourceSection, 0, len(selected))
	failed := 0
	for _, source := range selected {
		chosen[source.Name] = true
		section := h.renderSource(c.Request.Context(), source)
		if section.Error != "" {
			failed++
		}
		sections = append(sections, section)
	}

	options := make([]sourceOption, 0, h.sources.Len())
	for _, name := range h.sources.Names() {
		options = append(options, sourceOption{Name: name, Selected: chosen[name]})
	}

	h.metrics.RecordRenderTime(time.Since(start))
	if failed > 0 && failed == len(sections) {
		h.metrics.SetError("all selected sources failed to load", true)
	} else {
		h.metrics.SetLastRun()
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Sources:   options,
		Sections:  sections,
		AIEnabled: c.Query("ai") == "1",
		DemoMode:  strings.TrimSpace(h.opts.Credential) == "",
		Language:  h.opts.Language,
	})
}

// ListSources returns the configured source names.
func (h *Handler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": h.sources.Names(),
	})
}

// GetItems returns the display items of one source.
func (h *Handler) GetItems(c *gin.Context) {
	name := c.Query("source")
	source, ok := h.sources.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown source %q", name)})
		return
	}

	items, err := h.loadItems(c.Request.Context(), source)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source": source.Name,
		"items":  items,
	})
}

type transformRequest struct {
	Text string `json:"text" binding:"required"`
	Mode string `json:"mode" binding:"required"`
	Link string `json:"link"`
}

// Transform translates or summarizes the posted text. The response is
// always an ai.Result unless the request itself is invalid.
func (h *Handler) Transform(c *gin.Context) {
	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	mode, err := ai.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := scraper.PlainText(req.Text)
	if mode == ai.ModeSummarize {
		text = h.articleText(c.Request.Context(), text, req.Link)
	}

	c.JSON(http.StatusOK, h.transformer.TransformText(c.Request.Context(), text, mode, h.opts.Credential))
}

// HealthCheck reports unhealthy after a render in which every source failed.
func (h *Handler) HealthCheck(c *gin.Context) {
	stats := h.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if !h.metrics.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	stats := h.metrics.GetStats()
	if h.opts.AIStats != nil {
		stats["ai"] = h.opts.AIStats()
	}
	c.JSON(http.StatusOK, stats)
}

// selectedSources maps requested names to sources, keeping configuration
// order. Unknown names are ignored; nothing valid selects everything.
func (h *Handler) selectedSources(names []string) []news.FeedSource {
	if len(names) == 0 {
		return h.sources.All()
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := h.sources.Lookup(name); !ok {
			logger.Debug("Ignoring unknown source", "source", name)
			continue
		}
		wanted[name] = true
	}
	if len(wanted) == 0 {
		return h.sources.All()
	}

	var out []news.FeedSource
	for _, source := range h.sources.All() {
		if wanted[source.Name] {
			out = append(out, source)
		}
	}
	return out
}

func (h *Handler) renderSource(ctx context.Context, source news.FeedSource) SourceSection {
	items, err := h.loadItems(ctx, source)
	if err != nil {
		return SourceSection{Name: source.Name, Error: fmt.Sprintf("Error loading %s: %v", source.Name, err)}
	}
	return SourceSection{Name: source.Name, Items: items}
}

func (h *Handler) loadItems(ctx context.Context, source news.FeedSource) ([]news.DisplayItem, error) {
	entries, err := h.fetcher.Fetch(ctx, source.FeedURL)
	if err != nil {
		logger.Error("Failed to fetch feed", "source", source.Name, "url", source.FeedURL, "error", err)
		h.metrics.IncrementFeedFetchFailures()
		h.metrics.SetError(fmt.Sprintf("%s: %v", source.Name, err), false)
		return nil, err
	}
	h.metrics.IncrementFeedsFetched()

	items := h.normalizer.BuildDisplayItems(entries, source, h.opts.ItemLimit)
	h.metrics.AddItemsRendered(len(items))
	logger.Debug("Built display items", "source", source.Name, "entries", len(entries), "items", len(items))
	return items, nil
}

// articleText returns the scraped article for short summaries. The
// summary itself is kept when scraping is off or fails.
func (h *Handler) articleText(ctx context.Context, summary, link string) string {
	if h.extractor == nil || link == "" || utf8.RuneCountInString(summary) >= shortSummaryRunes {
		return summary
	}

	article, err := h.extractor.Extract(ctx, link)
	if err != nil {
		logger.Warn("Article extraction failed, summarizing feed text", "link", link, "error", err)
		return summary
	}
	if utf8.RuneCountInString(article) <= utf8.RuneCountInString(summary) {
		return summary
	}
	return article
}
