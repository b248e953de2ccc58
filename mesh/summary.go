package mesh

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// String returns a summary of the mesh entities, labels and cell geometry
func (m *Mesh) String() string {
	var sb strings.Builder

	sb.WriteString("=== Mesh Summary ===\n")
	sb.WriteString(fmt.Sprintf("  ID: %s\n", m.id))
	if m.IsRoot() {
		sb.WriteString("  Root mesh\n")
	} else {
		sb.WriteString(fmt.Sprintf("  Extracted from root %s\n", m.Root().ID()))
	}

	sb.WriteString("\n--- Topology ---\n")
	for dim, name := range []string{"Vertices", "Edges", "Faces", "Cells"} {
		n, _ := m.Size(dim)
		sb.WriteString(fmt.Sprintf("  %s (dim %d): %d\n", name, dim, n))
	}
	sb.WriteString(fmt.Sprintf("  Boundary faces: %d\n", m.numBoundaryFaces))

	if len(m.geometry) > 0 {
		vols := make([]float64, len(m.geometry))
		for k := range m.geometry {
			vols[k] = m.geometry[k].volume
		}
		lo, hi := m.Bounds()
		sb.WriteString("\n--- Geometry ---\n")
		sb.WriteString(fmt.Sprintf("  Bounds: [%.4f, %.4f] x [%.4f, %.4f] x [%.4f, %.4f]\n",
			lo[0], hi[0], lo[1], hi[1], lo[2], hi[2]))
		sb.WriteString(fmt.Sprintf("  Cell volume range: [%.4e, %.4e]\n", floats.Min(vols), floats.Max(vols)))
		sb.WriteString(fmt.Sprintf("  Total volume: %.6f\n", floats.Sum(vols)))
	}

	counts := m.LabelCounts()
	sb.WriteString("\n--- Cell Labels ---\n")
	if len(counts) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, l := range m.Labels() {
		sb.WriteString(fmt.Sprintf("  %6d: %d cells\n", l, counts[l]))
	}

	sb.WriteString("\n====================\n")
	return sb.String()
}
