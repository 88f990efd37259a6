package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/artpar/docgate/adapters/metrics"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	if m == nil {
		t.Fatal("NewWithRegistry returned nil")
	}
	if m.DocGenerations == nil {
		t.Error("DocGenerations is nil")
	}
	if m.DocGenerationDuration == nil {
		t.Error("DocGenerationDuration is nil")
	}
	if m.DocCacheHits == nil {
		t.Error("DocCacheHits is nil")
	}
	if m.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if m.ClientRequests == nil {
		t.Error("ClientRequests is nil")
	}
	if m.ConfigReloads == nil {
		t.Error("ConfigReloads is nil")
	}
}

func TestDocGenerations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.DocGenerations.WithLabelValues("", "true").Inc()
	m.DocGenerations.WithLabelValues("file", "false").Add(2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "docgate_doc_generations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 label combinations, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("docgate_doc_generations_total not gathered")
	}
}
