package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.IncInflight()
	metrics.ObserveRequest("GET", "/api/v1/presentations", 200, 120*time.Millisecond)
	metrics.DecInflight()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	counter := findMetricFamily(mfs, "http_requests_total")
	if counter == nil {
		t.Fatal("http_requests_total not exported")
	}
	got, err := counterValue(counter, map[string]string{
		"method": "GET",
		"route":  "/api/v1/presentations",
		"status": "200",
	})
	if err != nil {
		t.Fatalf("fetch counter: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected counter=1, got %f", got)
	}

	hist := findMetricFamily(mfs, "http_request_duration_seconds")
	if hist == nil {
		t.Fatal("http_request_duration_seconds not exported")
	}
	if sum := hist.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestHTTPMetricsNilReceiverIsNoop(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.ObserveRequest("GET", "/", 200, time.Millisecond)
	metrics.IncInflight()
	metrics.DecInflight()

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/", 200, time.Millisecond)
}

func TestHTTPMetricsNormalizesEmptyLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.ObserveRequest("", "", 500, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	counter := findMetricFamily(mfs, "http_requests_total")
	if counter == nil {
		t.Fatal("http_requests_total not exported")
	}
	if _, err := counterValue(counter, map[string]string{
		"method": "unknown",
		"route":  "unknown",
		"status": "500",
	}); err != nil {
		t.Fatalf("expected normalized labels: %v", err)
	}
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterValue(mf *dto.MetricFamily, labels map[string]string) (float64, error) {
	for _, metric := range mf.GetMetric() {
		matched := 0
		for _, pair := range metric.GetLabel() {
			if want, ok := labels[pair.GetName()]; ok && pair.GetValue() == want {
				matched++
			}
		}
		if matched == len(labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("no metric matching %v", labels)
}
