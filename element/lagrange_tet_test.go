package element

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLagrangeTetKroneckerProperty(t *testing.T) {
	for N := 0; N <= 4; N++ {
		t.Run(fmt.Sprintf("N=%d", N), func(t *testing.T) {
			lt, err := NewLagrangeTet(N)
			require.NoError(t, err)
			for i := 0; i < lt.Np; i++ {
				phi := lt.Basis(lt.R[i], lt.S[i], lt.T[i])
				require.Len(t, phi, lt.Np)
				for j := range phi {
					want := 0.0
					if i == j {
						want = 1.0
					}
					assert.InDelta(t, want, phi[j], 1e-9, "phi_%d at node %d", j, i)
				}
			}
		})
	}
}

func TestLagrangeTetPartitionOfUnity(t *testing.T) {
	lt, err := NewLagrangeTet(3)
	require.NoError(t, err)
	points := [][3]float64{{-0.9, -0.9, -0.9}, {-0.2, -0.5, -0.4}, {0.1, -0.6, -0.7}}
	for _, p := range points {
		sum := 0.0
		for _, v := range lt.Basis(p[0], p[1], p[2]) {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-10)
	}
}

func TestLagrangeTetReferenceGeometry(t *testing.T) {
	lt, err := NewLagrangeTet(4)
	require.NoError(t, err)
	props := lt.GetProperties()
	assert.Equal(t, 35, props.Np)
	assert.Equal(t, 4, props.NVp)
	assert.Equal(t, 3, props.NEp) // strictly inside each edge
	assert.Equal(t, 3, props.NFp) // strictly inside each face
	assert.Equal(t, 1, props.NIp)
	assert.Equal(t, "Tet4", props.ShortName)

	rg := lt.GetReferenceGeometry()
	total := len(rg.VertexPoints) + len(rg.InteriorPoints)
	for _, e := range rg.EdgePoints {
		total += len(e)
	}
	for _, f := range rg.FacePoints {
		total += len(f)
	}
	assert.Equal(t, lt.Np, total, "every node is classified exactly once")

	// Face 0 is T = -1
	for _, n := range rg.FacePoints[0] {
		assert.InDelta(t, -1.0, rg.T[n], 1e-12)
	}
}

func TestLagrangeTetVertexPointsInVertexOrder(t *testing.T) {
	lt, err := NewLagrangeTet(3)
	require.NoError(t, err)
	rg := lt.GetReferenceGeometry()
	require.Len(t, rg.VertexPoints, 4)
	for v, n := range rg.VertexPoints {
		var want [4]float64
		want[v] = 1
		b := ReferenceToBarycentric(rg.R[n], rg.S[n], rg.T[n])
		assert.InDeltaSlice(t, want[:], b[:], 1e-12, "vertex %d", v)
	}

	p0, err := NewLagrangeTet(0)
	require.NoError(t, err)
	rg = p0.GetReferenceGeometry()
	assert.Empty(t, rg.VertexPoints)
	assert.Equal(t, []int{0}, rg.InteriorPoints)
	assert.Equal(t, 0, p0.GetProperties().NVp)
}

func TestReferenceToBarycentric(t *testing.T) {
	b := ReferenceToBarycentric(-1, -1, -1)
	assert.Equal(t, [4]float64{1, 0, 0, 0}, b)
	b = ReferenceToBarycentric(-0.5, -0.5, -0.5)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, b[:], 1e-15)
}

func TestNewLagrangeTetRejectsNegativeOrder(t *testing.T) {
	_, err := NewLagrangeTet(-1)
	assert.Error(t, err)
}
