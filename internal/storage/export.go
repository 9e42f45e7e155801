package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/robolab-io/sotg/internal/control"
)

type ExportData struct {
	Robot   string               `json:"robot"`
	Dt      float64              `json:"dt"`
	Steps   int                  `json:"steps"`
	Times   []float64            `json:"times"`
	States  [][]float64          `json:"states"`
	Errors  map[string][]float64 `json:"errors"`
	Metrics map[string]float64   `json:"metrics"`
}

// ExportJSON writes a full run as indented JSON to path, or to stdout when
// path is "-".
func ExportJSON(path, robot string, dt float64, metrics map[string]float64, result *control.Result) error {
	var out io.Writer = os.Stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	data := ExportData{
		Robot:   robot,
		Dt:      dt,
		Steps:   result.Steps,
		Times:   result.Times,
		States:  make([][]float64, len(result.States)),
		Errors:  result.Errors,
		Metrics: metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
