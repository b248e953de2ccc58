package gonudg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vandermonde3D initializes the 3D Vandermonde Matrix V_{ij} = phi_j(r_i, s_i, t_i)
// for the orthonormal PKD basis of order N
func Vandermonde3D(N int, r, s, t []float64) *mat.Dense {
	Np := len(r)
	Ncol := (N + 1) * (N + 2) * (N + 3) / 6

	V3D := mat.NewDense(Np, Ncol, nil)

	// Transfer to (a,b,c) coordinates
	a, b, c := RSTtoABC(r, s, t)

	sk := 0
	for i := 0; i <= N; i++ {
		for j := 0; j <= N-i; j++ {
			for k := 0; k <= N-i-j; k++ {
				V3D.SetCol(sk, Simplex3DP(a, b, c, i, j, k))
				sk++
			}
		}
	}

	return V3D
}

// RSTtoABC transfers from (r,s,t) on the reference tetrahedron to the
// collapsed (a,b,c) coordinates on the cube
func RSTtoABC(r, s, t []float64) (a, b, c []float64) {
	const tol = 1e-12
	n := len(r)
	a, b, c = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		if math.Abs(s[i]+t[i]) > tol {
			a[i] = 2*(1+r[i])/(-s[i]-t[i]) - 1
		} else {
			a[i] = -1
		}
		if math.Abs(t[i]-1) > tol {
			b[i] = 2*(1+s[i])/(1-t[i]) - 1
		} else {
			b[i] = -1
		}
		c[i] = t[i]
	}
	return
}

// Simplex3DP evaluates the orthonormal polynomial of order (i,j,k) on the
// simplex at collapsed coordinates (a,b,c)
func Simplex3DP(a, b, c []float64, i, j, k int) []float64 {
	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)
	h3 := JacobiP(c, float64(2*(i+j)+2), 0, k)

	P := make([]float64, len(a))
	for n := range P {
		P[n] = 2 * math.Sqrt2 * h1[n] * h2[n] * pow(1-b[n], i) * h3[n] * pow(1-c[n], i+j)
	}
	return P
}

func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
