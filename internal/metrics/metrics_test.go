package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// counter reads a counter from the registry, matching the first label value
// when label is non-empty
func counter(t *testing.T, m *Metrics, name, label string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := metric.GetLabel()
			if label == "" || (len(labels) > 0 && labels[0].GetValue() == label) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRecordScan(t *testing.T) {
	m := New()
	m.RecordScan(time.Millisecond, 100, nil)
	m.RecordScan(time.Millisecond, 100, nil)
	m.RecordScan(time.Millisecond, 0, errors.New("boom"))

	if got := counter(t, m, "milestones_documents_scanned_total", "ok"); got != 2 {
		t.Errorf("expected 2 ok scans, got %v", got)
	}
	if got := counter(t, m, "milestones_documents_scanned_total", "error"); got != 1 {
		t.Errorf("expected 1 failed scan, got %v", got)
	}
}

func TestRecordMilestonesAndCache(t *testing.T) {
	m := New()
	m.RecordMilestones(map[string]int{"inline": 3, "tag": 1})
	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(false)

	if got := counter(t, m, "milestones_extracted_total", "inline"); got != 3 {
		t.Errorf("expected 3 inline milestones, got %v", got)
	}
	if got := counter(t, m, "milestones_cache_lookups_total", "miss"); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.YearRefsFound.Add(5)
	if got := counter(t, b, "milestones_year_refs_total", ""); got != 0 {
		t.Errorf("expected independent registries, got %v", got)
	}
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.RecordScan(time.Millisecond, 10, nil)

	path := filepath.Join(t.TempDir(), "milestones.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "milestones_documents_scanned_total") {
		t.Errorf("expected scan counter in output, got:\n%s", data)
	}
}
