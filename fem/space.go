// Package fem provides nodal Lagrange function spaces over tetrahedral
// meshes. Degrees of freedom are keyed by mesh topology in root numbering, so
// spaces built on meshes extracted from the same root agree on shared nodes.
package fem

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/wrapmesh/element"
	"github.com/notargets/wrapmesh/mesh"
)

var (
	ErrInvalidSpace     = errors.New("invalid function space")
	ErrPointOutsideMesh = errors.New("point outside mesh")
	ErrValueShape       = errors.New("value shape mismatch")
)

// NodeKey identifies a node independently of local numbering. Support holds
// the (root vertex, lattice weight) pairs of the node's barycentric position,
// sorted, with unused slots set to {-1, 0}. Cell is the root cell for
// discontinuous nodes and -1 for continuous ones.
type NodeKey struct {
	Cell    int
	Support [4][2]int
}

// FunctionSpace is a scalar or vector valued Lagrange space on a mesh
type FunctionSpace struct {
	mesh     *mesh.Mesh
	family   Family
	degree   int
	valueDim int
	elem     element.ReferenceElement

	keys      []NodeKey
	index     map[NodeKey]int
	cellNodes [][]int // Cell to node index, per local element node
}

// NewFunctionSpace builds a scalar space
func NewFunctionSpace(m *mesh.Mesh, family Family, degree int) (*FunctionSpace, error) {
	return NewVectorFunctionSpace(m, family, degree, 1)
}

// NewVectorFunctionSpace builds a space with dim components per node
func NewVectorFunctionSpace(m *mesh.Mesh, family Family, degree, dim int) (*FunctionSpace, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mesh", ErrInvalidSpace)
	}
	if family != Lagrange && family != DiscontinuousLagrange {
		return nil, fmt.Errorf("%w: unknown family %d", ErrInvalidSpace, family)
	}
	if degree < family.MinDegree() {
		return nil, fmt.Errorf("%w: %s requires degree >= %d, got %d",
			ErrInvalidSpace, family, family.MinDegree(), degree)
	}
	if dim < 1 {
		return nil, fmt.Errorf("%w: value dimension %d", ErrInvalidSpace, dim)
	}
	elem, err := element.NewLagrangeTet(degree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpace, err)
	}
	weights, err := latticeWeights(elem)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpace, err)
	}

	V := &FunctionSpace{
		mesh:      m,
		family:    family,
		degree:    degree,
		valueDim:  dim,
		elem:      elem,
		index:     make(map[NodeKey]int),
		cellNodes: make([][]int, m.NumCells()),
	}
	for k, verts := range m.EToV {
		V.cellNodes[k] = make([]int, len(weights))
		for n, w := range weights {
			key := nodeKey(m, k, verts, w, family.Continuous())
			node, found := V.index[key]
			if !found {
				node = len(V.keys)
				V.index[key] = node
				V.keys = append(V.keys, key)
			}
			V.cellNodes[k][n] = node
		}
	}
	return V, nil
}

// latticeWeights recovers the integer barycentric weights of every reference
// node. The node classification fixes which local vertices support a node and
// the reference coordinates give the weight of each one. Order 0 has the
// single centroid node, weighted (1,1,1,1).
func latticeWeights(elem element.ReferenceElement) ([][4]int, error) {
	props := elem.GetProperties()
	rg := elem.GetReferenceGeometry()
	weights := make([][4]int, props.Np)
	if props.Order == 0 {
		for n := range weights {
			weights[n] = [4]int{1, 1, 1, 1}
		}
		return weights, nil
	}

	seen := make([]bool, props.Np)
	assign := func(n int, support []int) {
		lam := element.ReferenceToBarycentric(rg.R[n], rg.S[n], rg.T[n])
		for _, v := range support {
			weights[n][v] = int(math.Round(lam[v] * float64(props.Order)))
		}
		seen[n] = true
	}
	for v, n := range rg.VertexPoints {
		assign(n, []int{v})
	}
	for e, nodes := range rg.EdgePoints {
		for _, n := range nodes {
			assign(n, element.TetEdges[e][:])
		}
	}
	for f, nodes := range rg.FacePoints {
		for _, n := range nodes {
			assign(n, element.TetFaces[f][:])
		}
	}
	for _, n := range rg.InteriorPoints {
		assign(n, []int{0, 1, 2, 3})
	}

	for n, w := range weights {
		if !seen[n] {
			return nil, fmt.Errorf("%s node %d is not classified", props.ShortName, n)
		}
		if w[0]+w[1]+w[2]+w[3] != props.Order {
			return nil, fmt.Errorf("%s node %d has lattice weights %v, want sum %d",
				props.ShortName, n, w, props.Order)
		}
	}
	return weights, nil
}

func nodeKey(m *mesh.Mesh, k int, verts []int, w [4]int, continuous bool) NodeKey {
	key := NodeKey{Cell: -1}
	if !continuous {
		key.Cell = m.RootCell(k)
	}
	for i, v := range verts {
		if w[i] > 0 {
			key.Support[i] = [2]int{m.RootVertex(v), w[i]}
		} else {
			key.Support[i] = [2]int{-1, 0}
		}
	}
	// Insertion sort, four entries
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && less(key.Support[j], key.Support[j-1]); j-- {
			key.Support[j], key.Support[j-1] = key.Support[j-1], key.Support[j]
		}
	}
	return key
}

func less(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

func (V *FunctionSpace) Mesh() *mesh.Mesh { return V.mesh }

func (V *FunctionSpace) Family() Family { return V.family }

func (V *FunctionSpace) Degree() int { return V.degree }

// ValueDim is the number of components per node
func (V *FunctionSpace) ValueDim() int { return V.valueDim }

func (V *FunctionSpace) Element() element.ReferenceElement { return V.elem }

func (V *FunctionSpace) NumNodes() int { return len(V.keys) }

// NumDOFs is NumNodes() * ValueDim()
func (V *FunctionSpace) NumDOFs() int { return len(V.keys) * V.valueDim }

// CellNodes returns the node indices of cell k in local element node order
func (V *FunctionSpace) CellNodes(k int) []int { return V.cellNodes[k] }

// DOF returns the degree of freedom index of component c at node n
func (V *FunctionSpace) DOF(node, c int) int { return node*V.valueDim + c }

func (V *FunctionSpace) NodeKey(node int) NodeKey { return V.keys[node] }

// NodeIndex finds the node with the given key
func (V *FunctionSpace) NodeIndex(key NodeKey) (int, bool) {
	node, ok := V.index[key]
	return node, ok
}

// NodeCoordinates returns the physical position of a node
func (V *FunctionSpace) NodeCoordinates(node int) [3]float64 {
	key := V.keys[node]
	var total int
	for _, s := range key.Support {
		total += s[1]
	}
	var x [3]float64
	root := V.mesh.Root()
	for _, s := range key.Support {
		if s[1] == 0 {
			continue
		}
		p := root.Vertex(s[0])
		lam := float64(s[1]) / float64(total)
		for d := range x {
			x[d] += lam * p[d]
		}
	}
	return x
}

func (V *FunctionSpace) String() string {
	return fmt.Sprintf("%s P%d (dim %d) on mesh %s: %d nodes, %d dofs",
		V.family, V.degree, V.valueDim, V.mesh.ID(), V.NumNodes(), V.NumDOFs())
}

// Compatible reports whether a and b have the same element and value shape
// and live on meshes derived from the same root
func Compatible(a, b *FunctionSpace) bool {
	if a == nil || b == nil {
		return false
	}
	return a.family == b.family && a.degree == b.degree && a.valueDim == b.valueDim &&
		a.mesh.SharesRoot(b.mesh)
}
