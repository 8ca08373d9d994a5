package output

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/joshuahansel/sem-go/state"
)

// SavePlot renders the volume fraction profile of a snapshot to an image
// file (format chosen by the file extension).
func SavePlot(s state.Snapshot, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("volume fraction at t = %g", s.Time)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "vf1"
	p.Y.Min, p.Y.Max = 0, 1

	xys := make(plotter.XYs, len(s.X))
	for i := range s.X {
		xys[i].X = s.X[i]
		xys[i].Y = s.VF1[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add("vf1", line)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
