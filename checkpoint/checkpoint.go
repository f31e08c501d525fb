package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// entry is the on-disk form of a single weight matrix: row-major
// data with explicit dimensions.
type entry struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Save writes a network's weight map to path as JSON.
func Save(path string, weights map[string]*mat.Dense) error {
	out := make(map[string]entry, len(weights))
	for name, w := range weights {
		r, c := w.Dims()
		data := make([]float64, 0, r*c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				data = append(data, w.At(i, j))
			}
		}
		out[name] = entry{Rows: r, Cols: c, Data: data}
	}
	bs, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}

// Load reads a weight map previously written by Save. Dimension
// checks against a particular network happen in its SetWeights.
func Load(path string) (map[string]*mat.Dense, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in map[string]entry
	if err := json.Unmarshal(bs, &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint %s: %s", path, err)
	}
	weights := make(map[string]*mat.Dense, len(in))
	for name, e := range in {
		if e.Rows < 1 || e.Cols < 1 || e.Rows*e.Cols != len(e.Data) {
			return nil, fmt.Errorf("checkpoint entry %q: %dx%d does not match %d values", name, e.Rows, e.Cols, len(e.Data))
		}
		weights[name] = mat.NewDense(e.Rows, e.Cols, e.Data)
	}
	return weights, nil
}
