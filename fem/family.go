package fem

import (
	"fmt"
	"strings"
)

// Family is the finite element family of a function space
type Family uint8

const (
	Lagrange              Family = iota // Continuous Lagrange, CG
	DiscontinuousLagrange               // Discontinuous Lagrange, DG
)

func (f Family) String() string {
	switch f {
	case Lagrange:
		return "Lagrange"
	case DiscontinuousLagrange:
		return "Discontinuous Lagrange"
	}
	return "Unknown"
}

// Continuous reports whether nodes on shared entities are shared between cells
func (f Family) Continuous() bool { return f == Lagrange }

// MinDegree is the lowest polynomial degree the family supports
func (f Family) MinDegree() int {
	if f == DiscontinuousLagrange {
		return 0
	}
	return 1
}

// ParseFamily accepts the usual names and abbreviations of the supported families
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lagrange", "cg", "p":
		return Lagrange, nil
	case "discontinuous lagrange", "discontinuouslagrange", "dg", "dp":
		return DiscontinuousLagrange, nil
	}
	return 0, fmt.Errorf("%w: unknown family %q", ErrInvalidSpace, name)
}
