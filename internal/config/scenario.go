package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/notargets/wrapmesh/fem"
	"github.com/notargets/wrapmesh/mesh"
	"github.com/notargets/wrapmesh/submesh"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario describes one transfer run: a mesh, a selection, a function space
// and an expression to cut and expand
type Scenario struct {
	Mesh       MeshSource `yaml:"mesh"`
	Selection  Selection  `yaml:"selection"`
	Shell      Shell      `yaml:"shell"`
	Space      Space      `yaml:"space"`
	Expression []string   `yaml:"expression"`
	// Background is the constant used outside the sub-mesh on expand, one
	// value per component. Empty means zero.
	Background []float64    `yaml:"background"`
	Probes     [][3]float64 `yaml:"probes"`
}

type MeshSource struct {
	File string `yaml:"file"`
	Box  *Box   `yaml:"box"`
}

type Box struct {
	Min     [3]float64 `yaml:"min"`
	Max     [3]float64 `yaml:"max"`
	Cells   [3]int     `yaml:"cells"`
	Regions []Region   `yaml:"regions"`
}

// Region labels the cells whose centroid lies strictly inside [Min, Max].
// Regions are tried in order and the first match wins.
type Region struct {
	Label int        `yaml:"label"`
	Min   [3]float64 `yaml:"min"`
	Max   [3]float64 `yaml:"max"`
}

type Selection struct {
	Labels []int `yaml:"labels"`
	Invert bool  `yaml:"invert"`
	// AllowEmpty returns an empty sub-mesh instead of failing
	AllowEmpty bool `yaml:"allow_empty"`
}

type Shell struct {
	Layers *int `yaml:"layers"`
	// Labels replaces the default wrapping shell labels, an empty list turns
	// them off
	Labels    *[]int `yaml:"labels"`
	Full      bool   `yaml:"full"`
	Adjacency string `yaml:"adjacency"`
}

type Space struct {
	Family string `yaml:"family"`
	Degree int    `yaml:"degree"`
}

// LoadScenario reads and validates a YAML scenario. A relative mesh file is
// resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Mesh.File != "" && !filepath.IsAbs(sc.Mesh.File) {
		sc.Mesh.File = filepath.Join(filepath.Dir(path), sc.Mesh.File)
	}
	return sc, nil
}

// ParseScenario decodes a YAML scenario, rejecting unknown fields
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if sc.Space.Family == "" {
		sc.Space.Family = "Lagrange"
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if (sc.Mesh.File == "") == (sc.Mesh.Box == nil) {
		return fmt.Errorf("%w: exactly one of mesh.file and mesh.box is required", ErrInvalidScenario)
	}
	if len(sc.Selection.Labels) == 0 {
		return fmt.Errorf("%w: selection.labels is empty", ErrInvalidScenario)
	}
	family, err := fem.ParseFamily(sc.Space.Family)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if sc.Space.Degree < family.MinDegree() {
		return fmt.Errorf("%w: %s needs degree >= %d", ErrInvalidScenario, family, family.MinDegree())
	}
	if _, err = ParseAdjacency(sc.Shell.Adjacency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if len(sc.Expression) == 0 {
		return fmt.Errorf("%w: expression is empty", ErrInvalidScenario)
	}
	if len(sc.Background) > 0 && len(sc.Background) != len(sc.Expression) {
		return fmt.Errorf("%w: background has %d components, expression has %d",
			ErrInvalidScenario, len(sc.Background), len(sc.Expression))
	}
	return nil
}

// Family returns the parsed function space family
func (sc *Scenario) Family() fem.Family {
	f, _ := fem.ParseFamily(sc.Space.Family)
	return f
}

// LoadMesh reads the mesh file or generates the box
func (sc *Scenario) LoadMesh() (*mesh.Mesh, error) {
	if sc.Mesh.File != "" {
		return mesh.ReadMeshFile(sc.Mesh.File)
	}
	return mesh.NewBoxMesh(sc.Mesh.Box.BoxConfig())
}

func (b *Box) BoxConfig() mesh.BoxConfig {
	cfg := mesh.BoxConfig{Min: b.Min, Max: b.Max, Cells: b.Cells}
	if len(b.Regions) > 0 {
		regions := b.Regions
		cfg.Label = func(c [3]float64) []int {
			for _, r := range regions {
				if r.contains(c) {
					return []int{r.Label}
				}
			}
			return nil
		}
	}
	return cfg
}

func (r Region) contains(c [3]float64) bool {
	for d := 0; d < 3; d++ {
		if c[d] <= r.Min[d] || c[d] >= r.Max[d] {
			return false
		}
	}
	return true
}

// SubmeshOptions converts the shell settings. defaultLayers applies when
// the scenario does not set shell.layers.
func (sc *Scenario) SubmeshOptions(defaultLayers int) []submesh.Option {
	layers := defaultLayers
	if sc.Shell.Layers != nil {
		layers = *sc.Shell.Layers
	}
	adj, _ := ParseAdjacency(sc.Shell.Adjacency)
	opts := []submesh.Option{
		submesh.WithShellLayers(layers),
		submesh.WithShellAdjacency(adj),
		submesh.WithEmptySelection(sc.Selection.AllowEmpty),
	}
	if sc.Shell.Labels != nil {
		opts = append(opts, submesh.WithShellLabels(*sc.Shell.Labels...))
	}
	if sc.Shell.Full {
		opts = append(opts, submesh.WithFullShell())
	}
	return opts
}

func (sc *Scenario) SubmeshSelection() submesh.Selection {
	return submesh.Selection{Labels: sc.Selection.Labels, Invert: sc.Selection.Invert}
}

// ParseAdjacency accepts "vertex" (or empty) and "face"
func ParseAdjacency(s string) (mesh.Adjacency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertex":
		return mesh.VertexAdjacency, nil
	case "face":
		return mesh.FaceAdjacency, nil
	}
	return mesh.VertexAdjacency, fmt.Errorf("unknown adjacency %q", s)
}
