package storage

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/robolab-io/sotg/internal/control"
	"github.com/robolab-io/sotg/internal/graph"
)

func sampleResult() *control.Result {
	return &control.Result{
		Times: []float64{0.01, 0.02},
		States: []graph.Vector{
			{0.2, 0.0},
			{0.18, -0.01},
		},
		Errors: map[string][]float64{
			"com":        {0.05, 0.04},
			"left-wrist": {0.3, 0.25},
		},
		Steps: 2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	metrics := map[string]float64{"tracking_error": 0.275}
	runID, err := st.Save("hrp", 0.01, metrics, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Robot != "hrp" {
		t.Errorf("expected robot 'hrp', got '%s'", meta.Robot)
	}
	if meta.Metrics["tracking_error"] != 0.275 {
		t.Errorf("expected tracking_error 0.275, got %f", meta.Metrics["tracking_error"])
	}
	if len(meta.Tasks) != 2 || meta.Tasks[0] != "com" {
		t.Errorf("expected sorted task names, got %v", meta.Tasks)
	}

	errors, times, err := st.LoadErrors(runID)
	if err != nil {
		t.Fatalf("load errors failed: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(times))
	}
	if math.Abs(errors["left-wrist"][1]-0.25) > 1e-9 {
		t.Errorf("expected left-wrist error 0.25, got %f", errors["left-wrist"][1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save("a", 0.01, nil, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Robot != "a" {
		t.Errorf("expected robot 'a', got '%s'", runs[0].Robot)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	err := ExportJSON(path, "hrp", 0.01, map[string]float64{"control_effort": 0.1}, sampleResult())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Robot != "hrp" || got.Steps != 2 {
		t.Errorf("unexpected export: %+v", got)
	}
	if len(got.Errors["com"]) != 2 {
		t.Errorf("expected com error trajectory, got %v", got.Errors)
	}
}
