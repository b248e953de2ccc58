package mesh

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Labels returns the sorted distinct labels present on any cell
func (m *Mesh) Labels() []int {
	counts := m.LabelCounts()
	out := make([]int, 0, len(counts))
	for l := range counts {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// LabelCounts returns the number of cells carrying each label
func (m *Mesh) LabelCounts() map[int]int {
	counts := make(map[int]int)
	for _, labels := range m.CellLabels {
		for _, l := range labels {
			counts[l]++
		}
	}
	return counts
}

// HasLabel reports whether any cell carries label l
func (m *Mesh) HasLabel(l int) bool {
	for _, labels := range m.CellLabels {
		for _, cl := range labels {
			if cl == l {
				return true
			}
		}
	}
	return false
}

// CellHasAnyLabel reports whether cell k carries at least one label in set
func (m *Mesh) CellHasAnyLabel(k int, set map[int]bool) bool {
	for _, l := range m.CellLabels[k] {
		if set[l] {
			return true
		}
	}
	return false
}

// labelFromName parses the trailing integer of an element group name, so
// "subdomain1" is 1 and "Material group 1000" is 1000
func labelFromName(name string) (int, bool) {
	name = strings.TrimSpace(name)
	end := len(name)
	start := strings.LastIndexFunc(name, func(r rune) bool { return !unicode.IsDigit(r) }) + 1
	if start >= end {
		return 0, false
	}
	l, err := strconv.Atoi(name[start:end])
	if err != nil {
		return 0, false
	}
	return l, true
}
