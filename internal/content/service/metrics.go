package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks content API and cache activity
type Metrics struct {
	upstreamCalls   int64
	upstreamErrors  int64
	upstreamLatency int64 // Total latency in nanoseconds
	cacheHits       int64
	cacheMisses     int64
	submissions     int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		upstreamCalls:   atomic.LoadInt64(&globalMetrics.upstreamCalls),
		upstreamErrors:  atomic.LoadInt64(&globalMetrics.upstreamErrors),
		upstreamLatency: atomic.LoadInt64(&globalMetrics.upstreamLatency),
		cacheHits:       atomic.LoadInt64(&globalMetrics.cacheHits),
		cacheMisses:     atomic.LoadInt64(&globalMetrics.cacheMisses),
		submissions:     atomic.LoadInt64(&globalMetrics.submissions),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.upstreamCalls, 0)
	atomic.StoreInt64(&globalMetrics.upstreamErrors, 0)
	atomic.StoreInt64(&globalMetrics.upstreamLatency, 0)
	atomic.StoreInt64(&globalMetrics.cacheHits, 0)
	atomic.StoreInt64(&globalMetrics.cacheMisses, 0)
	atomic.StoreInt64(&globalMetrics.submissions, 0)
}

func recordUpstreamCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.upstreamCalls, 1)
	atomic.AddInt64(&globalMetrics.upstreamLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.upstreamErrors, 1)
	}
}

func recordCacheHit()   { atomic.AddInt64(&globalMetrics.cacheHits, 1) }
func recordCacheMiss()  { atomic.AddInt64(&globalMetrics.cacheMisses, 1) }
func recordSubmission() { atomic.AddInt64(&globalMetrics.submissions, 1) }

func (m Metrics) UpstreamCalls() int64  { return m.upstreamCalls }
func (m Metrics) UpstreamErrors() int64 { return m.upstreamErrors }
func (m Metrics) CacheHits() int64      { return m.cacheHits }
func (m Metrics) CacheMisses() int64    { return m.cacheMisses }
func (m Metrics) Submissions() int64    { return m.submissions }

// AverageUpstreamLatency returns the average latency in milliseconds
func (m Metrics) AverageUpstreamLatency() float64 {
	if m.upstreamCalls == 0 {
		return 0
	}
	avgNs := float64(m.upstreamLatency) / float64(m.upstreamCalls)
	return avgNs / 1e6
}

// UpstreamErrorRate returns the error rate as a percentage
func (m Metrics) UpstreamErrorRate() float64 {
	if m.upstreamCalls == 0 {
		return 0
	}
	return float64(m.upstreamErrors) / float64(m.upstreamCalls) * 100
}
