package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/robolab-io/sotg/internal/control"
)

// Store persists tracking runs under a base directory, one subdirectory
// per run holding metadata.json, states.csv and errors.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Robot     string             `json:"robot"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Tasks     []string           `json:"tasks"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(robot string, dt float64, metrics map[string]float64, result *control.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", robot, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	tasks := make([]string, 0, len(result.Errors))
	for name := range result.Errors {
		tasks = append(tasks, name)
	}
	sort.Strings(tasks)

	meta := RunMetadata{
		ID:        runID,
		Robot:     robot,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  float64(result.Steps) * dt,
		Tasks:     tasks,
		Metrics:   metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeStates(runDir, result); err != nil {
		return "", err
	}
	if err := s.writeErrors(runDir, tasks, result); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeStates(runDir string, result *control.Result) error {
	file, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(result.States) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("q%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeErrors(runDir string, tasks []string, result *control.Result) error {
	file, err := os.Create(filepath.Join(runDir, "errors.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := append([]string{"time"}, tasks...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, name := range tasks {
			row = append(row, strconv.FormatFloat(result.Errors[name][i], 'e', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadErrors reads back the per-task error-norm trajectories of a run.
func (s *Store) LoadErrors(runID string) (map[string][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "errors.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, []float64{}, nil
	}

	tasks := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	errors := make(map[string][]float64, len(tasks))

	for _, record := range records[1:] {
		if len(record) != len(tasks)+1 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j, name := range tasks {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				val = 0
			}
			errors[name] = append(errors[name], val)
		}
	}

	return errors, times, nil
}
