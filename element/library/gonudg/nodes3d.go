package gonudg

// EquispacedNodes3D returns the equispaced lattice of order N on the reference
// tetrahedron together with the integer lattice coordinates of every node.
// Node (i,j,k) sits at r = 2i/N-1, s = 2j/N-1, t = 2k/N-1, so its barycentric
// weights with respect to the vertices (-1,-1,-1), (1,-1,-1), (-1,1,-1),
// (-1,-1,1) are (N-i-j-k, i, j, k)/N.
// Order 0 is a single node at the centroid.
func EquispacedNodes3D(N int) (r, s, t []float64, lattice [][3]int) {
	if N == 0 {
		return []float64{-0.5}, []float64{-0.5}, []float64{-0.5}, [][3]int{{0, 0, 0}}
	}
	Np := (N + 1) * (N + 2) * (N + 3) / 6
	r, s, t = make([]float64, 0, Np), make([]float64, 0, Np), make([]float64, 0, Np)
	lattice = make([][3]int, 0, Np)
	fN := float64(N)
	for k := 0; k <= N; k++ {
		for j := 0; j <= N-k; j++ {
			for i := 0; i <= N-j-k; i++ {
				r = append(r, 2*float64(i)/fN-1)
				s = append(s, 2*float64(j)/fN-1)
				t = append(t, 2*float64(k)/fN-1)
				lattice = append(lattice, [3]int{i, j, k})
			}
		}
	}
	return
}
