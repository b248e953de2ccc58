package element

// ElementProperties describes a reference element and how its nodes are
// distributed over the topological entities
type ElementProperties struct {
	Name      string // e.g. "Lagrange Tetrahedron Order 3"
	ShortName string // e.g. "Tet3"
	Order     int
	Np        int // Nodes per element
	NVp       int // Vertex nodes
	NEp       int // Nodes strictly inside each edge
	NFp       int // Nodes strictly inside each face
	NIp       int // Nodes strictly inside the element
}

// ReferenceGeometry places the nodes in reference space and classifies each
// one by the lowest dimensional entity whose closure contains it
type ReferenceGeometry struct {
	R, S, T []float64 // Length Np each

	VertexPoints   []int   // Node on each local vertex, in vertex order
	EdgePoints     [][]int // [edge][nodes] strictly inside the edge, edges as TetEdges
	FacePoints     [][]int // [face][nodes] strictly inside the face, faces as TetFaces
	InteriorPoints []int
}

// ReferenceElement is a nodal element on the reference tetrahedron
type ReferenceElement interface {
	GetProperties() ElementProperties
	GetReferenceGeometry() ReferenceGeometry

	// Basis evaluates every nodal basis function at a reference point
	Basis(r, s, t float64) []float64
}
