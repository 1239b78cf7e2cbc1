// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snmp

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the shared Prometheus registry every Client, Pool and
// TrapListener in this process registers its metrics on. A dedicated
// registry (rather than the global default) keeps this package usable
// from an embedding binary that runs its own collectors too.
var Registry = prometheus.NewRegistry()

// instanceLabel distinguishes series from different Client/Pool/
// TrapListener instances living in the same process.
const instanceLabel = "instance"

var (
	counterSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "requests_sent_total",
		Help: "Requests sent, by PDU type.",
	}, []string{instanceLabel, "pdu_type"})

	counterResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "responses_received_total",
		Help: "Responses received.",
	}, []string{instanceLabel})

	counterTimeouts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "timeouts_total",
		Help: "Requests that timed out.",
	}, []string{instanceLabel})

	counterRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "retries_total",
		Help: "Request retries issued.",
	}, []string{instanceLabel})

	counterErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "errors_total",
		Help: "Errors encountered sending or receiving.",
	}, []string{instanceLabel})

	counterTraps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "traps_received_total",
		Help: "Traps and informs received.",
	}, []string{instanceLabel})

	counterVarbindsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "varbinds_sent_total",
		Help: "Variable bindings sent across all requests.",
	}, []string{instanceLabel})

	counterVarbindsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "varbinds_received_total",
		Help: "Variable bindings received across all responses.",
	}, []string{instanceLabel})

	counterConnAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "connection_attempts_total",
		Help: "Connection attempts made.",
	}, []string{instanceLabel})

	counterReconnects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Name: "reconnect_attempts_total",
		Help: "Reconnection attempts made.",
	}, []string{instanceLabel})

	gaugeActiveConnections = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edgeo_snmp", Name: "active_connections",
		Help: "Currently open client connections.",
	}, []string{instanceLabel})

	histogramLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "edgeo_snmp", Name: "request_latency_seconds",
		Help:    "Round-trip latency of SNMP requests.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{instanceLabel})

	gaugePoolClients = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edgeo_snmp", Subsystem: "pool", Name: "clients",
		Help: "Clients currently held by the pool.",
	}, []string{instanceLabel})

	gaugePoolHealthy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edgeo_snmp", Subsystem: "pool", Name: "healthy_clients",
		Help: "Pool clients that passed their last health check.",
	}, []string{instanceLabel})

	counterPoolRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Subsystem: "pool", Name: "requests_total",
		Help: "Requests dispatched through the pool.",
	}, []string{instanceLabel})

	counterPoolFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeo_snmp", Subsystem: "pool", Name: "failed_requests_total",
		Help: "Requests dispatched through the pool that failed.",
	}, []string{instanceLabel})

	registerOnce sync.Once
)

func registerCollectors() {
	registerOnce.Do(func() {
		Registry.MustRegister(
			counterSent, counterResponses, counterTimeouts, counterRetries, counterErrors,
			counterTraps, counterVarbindsSent, counterVarbindsReceived, counterConnAttempts,
			counterReconnects, gaugeActiveConnections, histogramLatency,
			gaugePoolClients, gaugePoolHealthy, counterPoolRequests, counterPoolFailures,
		)
	})
}

// Counter is an atomic counter mirrored into a Prometheus series.
type Counter struct {
	value int64
	promC prometheus.Counter
}

// Add adds a value to the counter.
func (c *Counter) Add(delta int64) {
	atomic.AddInt64(&c.value, delta)
	if c.promC != nil && delta > 0 {
		c.promC.Add(float64(delta))
	}
}

// Value returns the current counter value.
func (c *Counter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// Reset resets the in-process counter to zero. The Prometheus series is
// left untouched; scraped counters stay monotonic between resets.
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}

// Gauge is a simple atomic gauge mirrored into a Prometheus series.
type Gauge struct {
	value int64
	promG prometheus.Gauge
}

// Set sets the gauge value.
func (g *Gauge) Set(value int64) {
	atomic.StoreInt64(&g.value, value)
	if g.promG != nil {
		g.promG.Set(float64(value))
	}
}

// Add adds a value to the gauge.
func (g *Gauge) Add(delta int64) {
	v := atomic.AddInt64(&g.value, delta)
	if g.promG != nil {
		g.promG.Set(float64(v))
	}
}

// Value returns the current gauge value.
func (g *Gauge) Value() int64 {
	return atomic.LoadInt64(&g.value)
}

// LatencyHistogram tracks latency distribution for in-process Stats()
// reporting while also feeding a Prometheus histogram for scraping.
type LatencyHistogram struct {
	mu      sync.RWMutex
	count   int64
	sum     int64
	min     int64
	max     int64
	buckets []int64
	bounds  []int64
	promH   prometheus.Observer
}

// NewLatencyHistogram creates a new latency histogram.
func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{
		min:     -1,
		bounds:  []int64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		buckets: make([]int64, 13), // 12 buckets + overflow
	}
}

// Observe records a latency observation in milliseconds.
func (h *LatencyHistogram) Observe(latencyMs int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.count++
	h.sum += latencyMs

	if h.min < 0 || latencyMs < h.min {
		h.min = latencyMs
	}
	if latencyMs > h.max {
		h.max = latencyMs
	}

	if h.promH != nil {
		h.promH.Observe(float64(latencyMs) / 1000)
	}

	// Find bucket
	for i, bound := range h.bounds {
		if latencyMs <= bound {
			h.buckets[i]++
			return
		}
	}
	h.buckets[len(h.buckets)-1]++ // overflow
}

// ObserveDuration records a duration.
func (h *LatencyHistogram) ObserveDuration(d time.Duration) {
	h.Observe(d.Milliseconds())
}

// Stats returns histogram statistics.
func (h *LatencyHistogram) Stats() LatencyStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := LatencyStats{
		Count: h.count,
		Sum:   h.sum,
		Min:   h.min,
		Max:   h.max,
	}

	if h.count > 0 {
		stats.Avg = float64(h.sum) / float64(h.count)
	}

	return stats
}

// LatencyStats contains latency statistics.
type LatencyStats struct {
	Count int64
	Sum   int64
	Min   int64
	Max   int64
	Avg   float64
}

// Metrics contains all client metrics. Each Counter/Gauge is bound to a
// Prometheus series labeled by InstanceID, so scraping Registry exposes
// every live client's numbers distinctly.
type Metrics struct {
	InstanceID string

	// Request metrics
	RequestsSent      Counter
	ResponsesReceived Counter
	Timeouts          Counter
	Retries           Counter
	Errors            Counter

	// PDU type metrics
	GetRequests     Counter
	GetNextRequests Counter
	GetBulkRequests Counter
	SetRequests     Counter
	WalkRequests    Counter

	// Trap metrics
	TrapsReceived Counter

	// Variable binding metrics
	VarbindsSent     Counter
	VarbindsReceived Counter

	// Latency metrics
	RequestLatency *LatencyHistogram

	// Connection metrics
	ConnectionAttempts Counter
	ActiveConnections  Gauge
	ReconnectAttempts  Counter

	// Start time
	StartTime time.Time
}

// NewMetrics creates a new Metrics instance under a fresh instance ID so
// multiple clients in one process don't share Prometheus series.
func NewMetrics() *Metrics {
	registerCollectors()
	id := uuid.NewString()

	return &Metrics{
		InstanceID:        id,
		RequestsSent:      Counter{promC: counterSent.WithLabelValues(id, "unspecified")},
		ResponsesReceived: Counter{promC: counterResponses.WithLabelValues(id)},
		Timeouts:          Counter{promC: counterTimeouts.WithLabelValues(id)},
		Retries:           Counter{promC: counterRetries.WithLabelValues(id)},
		Errors:            Counter{promC: counterErrors.WithLabelValues(id)},

		GetRequests:     Counter{promC: counterSent.WithLabelValues(id, "get")},
		GetNextRequests: Counter{promC: counterSent.WithLabelValues(id, "get-next")},
		GetBulkRequests: Counter{promC: counterSent.WithLabelValues(id, "get-bulk")},
		SetRequests:     Counter{promC: counterSent.WithLabelValues(id, "set")},
		WalkRequests:    Counter{promC: counterSent.WithLabelValues(id, "walk")},

		TrapsReceived: Counter{promC: counterTraps.WithLabelValues(id)},

		VarbindsSent:     Counter{promC: counterVarbindsSent.WithLabelValues(id)},
		VarbindsReceived: Counter{promC: counterVarbindsReceived.WithLabelValues(id)},

		RequestLatency: &LatencyHistogram{
			min:     -1,
			bounds:  []int64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			buckets: make([]int64, 13),
			promH:   histogramLatency.WithLabelValues(id),
		},

		ConnectionAttempts: Counter{promC: counterConnAttempts.WithLabelValues(id)},
		ActiveConnections:  Gauge{promG: gaugeActiveConnections.WithLabelValues(id)},
		ReconnectAttempts:  Counter{promC: counterReconnects.WithLabelValues(id)},

		StartTime: time.Now(),
	}
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsSent:       m.RequestsSent.Value(),
		ResponsesReceived:  m.ResponsesReceived.Value(),
		Timeouts:           m.Timeouts.Value(),
		Retries:            m.Retries.Value(),
		Errors:             m.Errors.Value(),
		GetRequests:        m.GetRequests.Value(),
		GetNextRequests:    m.GetNextRequests.Value(),
		GetBulkRequests:    m.GetBulkRequests.Value(),
		SetRequests:        m.SetRequests.Value(),
		WalkRequests:       m.WalkRequests.Value(),
		TrapsReceived:      m.TrapsReceived.Value(),
		VarbindsSent:       m.VarbindsSent.Value(),
		VarbindsReceived:   m.VarbindsReceived.Value(),
		RequestLatency:     m.RequestLatency.Stats(),
		ConnectionAttempts: m.ConnectionAttempts.Value(),
		ActiveConnections:  m.ActiveConnections.Value(),
		ReconnectAttempts:  m.ReconnectAttempts.Value(),
		Uptime:             time.Since(m.StartTime),
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestsSent       int64
	ResponsesReceived  int64
	Timeouts           int64
	Retries            int64
	Errors             int64
	GetRequests        int64
	GetNextRequests    int64
	GetBulkRequests    int64
	SetRequests        int64
	WalkRequests       int64
	TrapsReceived      int64
	VarbindsSent       int64
	VarbindsReceived   int64
	RequestLatency     LatencyStats
	ConnectionAttempts int64
	ActiveConnections  int64
	ReconnectAttempts  int64
	Uptime             time.Duration
}

// Reset resets all in-process counters. Prometheus counter and histogram
// series are left alone; the ActiveConnections gauge mirrors its value, so
// its series is set to 0 as well.
func (m *Metrics) Reset() {
	m.RequestsSent.Reset()
	m.ResponsesReceived.Reset()
	m.Timeouts.Reset()
	m.Retries.Reset()
	m.Errors.Reset()
	m.GetRequests.Reset()
	m.GetNextRequests.Reset()
	m.GetBulkRequests.Reset()
	m.SetRequests.Reset()
	m.WalkRequests.Reset()
	m.TrapsReceived.Reset()
	m.VarbindsSent.Reset()
	m.VarbindsReceived.Reset()
	promH := m.RequestLatency.promH
	m.RequestLatency = NewLatencyHistogram()
	m.RequestLatency.promH = promH
	m.ConnectionAttempts.Reset()
	m.ActiveConnections.Set(0)
	m.ReconnectAttempts.Reset()
	m.StartTime = time.Now()
}

// PoolMetrics contains pool-specific metrics.
type PoolMetrics struct {
	InstanceID     string
	TotalClients   Gauge
	HealthyClients Gauge
	TotalRequests  Counter
	FailedRequests Counter
}

// NewPoolMetrics creates a new PoolMetrics instance under a fresh
// instance ID.
func NewPoolMetrics() *PoolMetrics {
	registerCollectors()
	id := uuid.NewString()

	return &PoolMetrics{
		InstanceID:     id,
		TotalClients:   Gauge{promG: gaugePoolClients.WithLabelValues(id)},
		HealthyClients: Gauge{promG: gaugePoolHealthy.WithLabelValues(id)},
		TotalRequests:  Counter{promC: counterPoolRequests.WithLabelValues(id)},
		FailedRequests: Counter{promC: counterPoolFailures.WithLabelValues(id)},
	}
}
