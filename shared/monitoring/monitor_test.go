package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMonitorStatus(t *testing.T) {
	m := NewMonitor()

	if !m.IsHealthy() {
		t.Error("a monitor without runs should be healthy")
	}
	if got := m.GetStatusSummary(); got != "No runs yet" {
		t.Errorf("summary = %q", got)
	}

	m.RecordSuccess("12 videos analysed", time.Second)
	if !m.IsHealthy() || !strings.Contains(m.GetStatusSummary(), "12 videos analysed") {
		t.Errorf("after success: healthy=%v summary=%q", m.IsHealthy(), m.GetStatusSummary())
	}

	m.RecordPartialFailure(errors.New("email failed"), time.Second)
	if !m.IsHealthy() {
		t.Error("a partial failure should not change health")
	}

	m.RecordCriticalFailure(errors.New("quota exceeded"), time.Second)
	if m.IsHealthy() {
		t.Error("a critical failure should make the monitor unhealthy")
	}
	if !strings.HasPrefix(m.GetStatusSummary(), "Last run failed") {
		t.Errorf("summary = %q", m.GetStatusSummary())
	}

	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues(outcomeSuccess)); got != 1 {
		t.Errorf("success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues(outcomePartial)); got != 1 {
		t.Errorf("partial count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues(outcomeCritical)); got != 1 {
		t.Errorf("critical count = %v, want 1", got)
	}
}

func TestMonitorConcurrentRecords(t *testing.T) {
	m := NewMonitor()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				m.RecordSuccess("ok", time.Millisecond)
			} else {
				m.RecordCriticalFailure(errors.New("boom"), time.Millisecond)
			}
			_ = m.IsHealthy()
			_ = m.GetStatusSummary()
		}(i)
	}
	wg.Wait()

	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues(outcomeSuccess)); got != 10 {
		t.Errorf("success count = %v, want 10", got)
	}
}

func TestHealthRouter(t *testing.T) {
	m := NewMonitor()
	srv := httptest.NewServer(NewHealthServer(m, 0).Router())
	defer srv.Close()

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if code, body := get("/health"); code != http.StatusOK || !strings.HasPrefix(body, "OK") {
		t.Errorf("/health = %d %q", code, body)
	}

	m.RecordCriticalFailure(errors.New("quota exceeded"), time.Second)

	if code, body := get("/health"); code != http.StatusServiceUnavailable || !strings.Contains(body, "quota exceeded") {
		t.Errorf("/health after failure = %d %q", code, body)
	}
	if code, body := get("/status"); code != http.StatusOK || !strings.Contains(body, "Last run failed") {
		t.Errorf("/status = %d %q", code, body)
	}
	if code, body := get("/metrics"); code != http.StatusOK || !strings.Contains(body, `agent_runs_total{outcome="critical_failure"} 1`) {
		t.Errorf("/metrics = %d, body missing run counter:\n%s", code, body)
	}
	if code, _ := get("/unknown"); code != http.StatusNotFound {
		t.Errorf("/unknown = %d, want 404", code)
	}
}
