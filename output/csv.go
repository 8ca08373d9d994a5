// Package output serializes solution snapshots for the external consumers of
// the run: a CSV file of the final solution and an optional profile plot.
package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/joshuahansel/sem-go/state"
)

// CSVWriter retains the most recent snapshot and writes it out on demand,
// one row per cell.
type CSVWriter struct {
	path   string
	latest *state.Snapshot
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Observe is registered with the executioner and called per committed step.
func (w *CSVWriter) Observe(s state.Snapshot) {
	w.latest = &s
}

// Write serializes the retained snapshot. Calling Write without any observed
// snapshot is a no-op.
func (w *CSVWriter) Write() error {
	if w.latest == nil {
		return nil
	}
	f, err := os.Create(w.path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"x", "vf1", "rho1", "u1", "p1", "rho2", "u2", "p2"}); err != nil {
		return err
	}
	s := w.latest
	for i := range s.X {
		row := []string{
			fv(s.X[i]), fv(s.VF1[i]),
			fv(s.Rho1[i]), fv(s.U1[i]), fv(s.P1[i]),
			fv(s.Rho2[i]), fv(s.U2[i]), fv(s.P2[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fv(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
