package mesh

import (
	"github.com/joshuahansel/sem-go/InputParameters"
)

// Boundary tags the two extreme faces of the 1-D domain.
type Boundary string

const (
	Left  Boundary = "left"
	Right Boundary = "right"
)

// Mesh1D is a uniform 1-D finite volume grid over [XMin, XMin+Length].
// Interior face i sits between cells i and i+1. Pure data, immutable after
// construction.
type Mesh1D struct {
	XMin, Length float64
	NCell        int
	Dx           float64
	widths       []float64
	centroids    []float64
}

func NewMesh1D(p InputParameters.MeshParameters) (m *Mesh1D, err error) {
	if p.NCell <= 0 {
		return nil, InputParameters.ConfigErrorf("Mesh", "n_cell must be positive, got %d", p.NCell)
	}
	if p.Length <= 0 {
		return nil, InputParameters.ConfigErrorf("Mesh", "length must be positive, got %g", p.Length)
	}
	m = &Mesh1D{
		XMin:      p.XMin,
		Length:    p.Length,
		NCell:     p.NCell,
		Dx:        p.Length / float64(p.NCell),
		widths:    make([]float64, p.NCell),
		centroids: make([]float64, p.NCell),
	}
	for i := 0; i < p.NCell; i++ {
		m.widths[i] = m.Dx
		m.centroids[i] = p.XMin + (float64(i)+0.5)*m.Dx
	}
	return m, nil
}

func (m *Mesh1D) Width(i int) float64 {
	return m.widths[i]
}

func (m *Mesh1D) Centroid(i int) float64 {
	return m.centroids[i]
}

// Centroids returns a copy of the cell centroid coordinates.
func (m *Mesh1D) Centroids() []float64 {
	x := make([]float64, m.NCell)
	copy(x, m.centroids)
	return x
}

// NumInteriorFaces is NCell-1; face i connects InteriorFace(i) = (i, i+1).
func (m *Mesh1D) NumInteriorFaces() int {
	return m.NCell - 1
}

func (m *Mesh1D) InteriorFace(i int) (left, right int) {
	return i, i + 1
}

// BoundaryCell returns the interior cell adjacent to a boundary face.
func (m *Mesh1D) BoundaryCell(b Boundary) int {
	if b == Left {
		return 0
	}
	return m.NCell - 1
}
