package monitoring

import (
	"fmt"
	"sync"
	"time"

	"channel-insights/shared/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomePartial  = "partial_failure"
	outcomeCritical = "critical_failure"
)

// Monitor tracks the outcome of the latest agent run. Partial failures are
// counted but leave the health status unchanged.
type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	lastSummary    string

	registry    *prometheus.Registry
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	lastSuccess prometheus.Gauge
}

func NewMonitor() *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_runs_total",
				Help: "Total number of agent runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agent_run_duration_seconds",
			Help:    "Duration of agent runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agent_last_success_timestamp_seconds",
			Help: "Unix time of the last successful agent run",
		}),
	}
}

// Registry exposes the monitor's metrics for the /metrics endpoint.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	now := time.Now()

	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = now
	m.lastSummary = summary
	m.mu.Unlock()

	m.runsTotal.WithLabelValues(outcomeSuccess).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.lastSuccess.Set(float64(now.Unix()))

	logging.Info().Str("summary", summary).Dur("duration", duration).Msg("Run completed successfully")
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	m.runsTotal.WithLabelValues(outcomePartial).Inc()
	logging.Warn().Err(err).Dur("duration", duration).Msg("Partial failure")
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.lastSummary = err.Error()
	m.mu.Unlock()

	m.runsTotal.WithLabelValues(outcomeCritical).Inc()
	m.runDuration.Observe(duration.Seconds())

	logging.Error().Err(err).Dur("duration", duration).Msg("Critical failure")
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}
	if m.lastRunSuccess {
		return fmt.Sprintf("Last run: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
	}
	return fmt.Sprintf("Last run failed: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
}
