package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched      int64
	FeedFetchFailures int64
	ItemsRendered     int64
	AITransforms      int64
	DemoTransforms    int64
	FailedTransforms  int64
	AICacheHits       int64

	// Timings
	LastRenderTime    time.Duration
	AverageRenderTime time.Duration
	TotalRenderTime   time.Duration
	RenderCount       int64

	// Status
	StartedAt     time.Time
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true, StartedAt: time.Now()}
}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
}

func (m *Metrics) IncrementFeedFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFetchFailures++
}

func (m *Metrics) AddItemsRendered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsRendered += int64(n)
}

func (m *Metrics) IncrementAITransforms() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AITransforms++
}

func (m *Metrics) IncrementDemoTransforms() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DemoTransforms++
}

func (m *Metrics) IncrementFailedTransforms() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedTransforms++
}

func (m *Metrics) IncrementAICacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AICacheHits++
}

func (m *Metrics) RecordRenderTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRenderTime = duration
	m.TotalRenderTime += duration
	m.RenderCount++
	m.AverageRenderTime = m.TotalRenderTime / time.Duration(m.RenderCount)
}

// SetLastRun marks a successful render and clears the unhealthy flag.
func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

// SetError records a failure. Source-level failures do not make the
// process unhealthy, only the last error is kept for inspection.
func (m *Metrics) SetError(err string, unhealthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	if unhealthy {
		m.IsHealthy = false
	}
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":          m.FeedsFetched,
		"feed_fetch_failures":    m.FeedFetchFailures,
		"items_rendered":         m.ItemsRendered,
		"ai_transforms":          m.AITransforms,
		"demo_transforms":        m.DemoTransforms,
		"failed_transforms":      m.FailedTransforms,
		"ai_cache_hits":          m.AICacheHits,
		"last_render_time_ms":    m.LastRenderTime.Milliseconds(),
		"average_render_time_ms": m.AverageRenderTime.Milliseconds(),
		"uptime_seconds":         int64(time.Since(m.StartedAt).Seconds()),
		"last_run_time":          formatTime(m.LastRunTime),
		"last_error_time":        formatTime(m.LastErrorTime),
		"last_error":             m.LastError,
		"is_healthy":             m.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
