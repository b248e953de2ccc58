package submesh

import (
	"fmt"
	"strings"

	"github.com/notargets/wrapmesh/mesh"
)

// Selection picks cells of a parent mesh by label. Without Invert a cell is
// selected when it carries any of Labels; with Invert when it carries none.
type Selection struct {
	Labels []int
	Invert bool
}

// Label selects the cells carrying l
func Label(l int) Selection { return Selection{Labels: []int{l}} }

// Labels selects the union of cells carrying any of labels
func Labels(labels ...int) Selection {
	return Selection{Labels: append([]int(nil), labels...)}
}

// Inverted returns the complementary selection
func (s Selection) Inverted() Selection {
	return Selection{Labels: append([]int(nil), s.Labels...), Invert: !s.Invert}
}

func (s Selection) String() string {
	parts := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		parts[i] = fmt.Sprint(l)
	}
	str := "{" + strings.Join(parts, ",") + "}"
	if s.Invert {
		return "not " + str
	}
	return str
}

func (s Selection) set() map[int]bool {
	set := make(map[int]bool, len(s.Labels))
	for _, l := range s.Labels {
		set[l] = true
	}
	return set
}

// Cells returns the sorted indices of the cells of m matched by s
func (s Selection) Cells(m *mesh.Mesh) []int {
	set := s.set()
	var cells []int
	for k := 0; k < m.NumCells(); k++ {
		if m.CellHasAnyLabel(k, set) != s.Invert {
			cells = append(cells, k)
		}
	}
	return cells
}
