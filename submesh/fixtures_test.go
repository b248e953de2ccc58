package submesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notargets/wrapmesh/mesh"
)

// wrappedMesh is the box [-2,2]^3 with the inner cube [-1,1]^3 labelled 1
// and the surrounding cells labelled 1000 to 1003 by quadrant
func wrappedMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewBoxMesh(mesh.BoxConfig{
		Min:   [3]float64{-2, -2, -2},
		Max:   [3]float64{2, 2, 2},
		Cells: [3]int{8, 8, 8},
		Label: func(c [3]float64) []int {
			if c[0] > -1 && c[0] < 1 && c[1] > -1 && c[1] < 1 && c[2] > -1 && c[2] < 1 {
				return []int{1}
			}
			q := 1000
			if c[0] >= 0 {
				q++
			}
			if c[1] >= 0 {
				q += 2
			}
			return []int{q}
		},
	})
	require.NoError(t, err)
	return m
}

// slabMesh is [-2,2]^3 labelled 1 for x < -1, 3 for x > 1 and 2 in between
func slabMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewBoxMesh(mesh.BoxConfig{
		Min:   [3]float64{-2, -2, -2},
		Max:   [3]float64{2, 2, 2},
		Cells: [3]int{4, 4, 4},
		Label: func(c [3]float64) []int {
			switch {
			case c[0] < -1:
				return []int{1}
			case c[0] > 1:
				return []int{3}
			}
			return []int{2}
		},
	})
	require.NoError(t, err)
	return m
}

var (
	insidePoints  = [][3]float64{{0.1, 0.2, 0.3}, {0.3, 0.5, 0.8}, {-0.1, -0.2, 0.3}}
	outsidePoints = [][3]float64{{1.6, 1.6, 1.6}, {-1.6, -1.6, -1.6}}
	shellLabels   = []int{1000, 1001, 1002, 1003}
)
