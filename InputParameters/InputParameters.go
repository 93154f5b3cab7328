package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/types"
)

// MeshParameters describes a structured mesh run, read from a YAML file like:
//
//	Title: "Unit cube"
//	Shape: Tetrahedron
//	Divisions: [4, 4, 4]
//	Min: [0, 0, 0]
//	Max: [1, 1, 1]
//	Layouts:
//	  2: full
//	Compression: zstd
//	Regions:
//	  inlet: [0, 1, 2]
type MeshParameters struct {
	Title       string           `yaml:"Title"`
	Shape       string           `yaml:"Shape"`
	Divisions   []int            `yaml:"Divisions"`
	Min         []float64        `yaml:"Min"`
	Max         []float64        `yaml:"Max"`
	Layouts     map[int]string   `yaml:"Layouts"`     // Element dimension to "full" or "sparse"
	Compression string           `yaml:"Compression"` // none, lz4 or zstd
	Regions     map[string][]int `yaml:"Regions"`     // Region name to cell ids
	Voronoi     bool             `yaml:"Voronoi"`     // Attach dual grid attributes before writing
}

func (ip *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// StructuredSpec converts the parameters to a generator description. Missing
// extents default to the unit interval in each direction.
func (ip *MeshParameters) StructuredSpec() (spec mesh.StructuredSpec, err error) {
	if spec.Shape, err = types.ParseShape(ip.Shape); err != nil {
		return
	}
	dim := spec.Shape.Dimension()
	if len(ip.Divisions) < dim {
		err = fmt.Errorf("%s grid needs %d divisions, have %v", spec.Shape, dim, ip.Divisions)
		return
	}
	for d := 0; d < dim; d++ {
		spec.Divisions[d] = ip.Divisions[d]
		spec.Max[d] = 1
		if d < len(ip.Min) {
			spec.Min[d] = ip.Min[d]
		}
		if d < len(ip.Max) {
			spec.Max[d] = ip.Max[d]
		}
	}
	return
}

// Options returns mesh options with the configured boundary layouts.
func (ip *MeshParameters) Options() (opts mesh.Options, err error) {
	opts = mesh.DefaultOptions()
	for dim, name := range ip.Layouts {
		if opts.Layouts[dim], err = mesh.ParseLayout(name); err != nil {
			return
		}
	}
	return
}

// ApplyRegions creates each named region and adds its cells with their closures.
func (ip *MeshParameters) ApplyRegions(m *mesh.Mesh) (err error) {
	var (
		r   *mesh.Region
		dim = m.CellDimension()
	)
	for _, name := range ip.regionNames() {
		if r, err = m.CreateRegion(name); err != nil {
			return
		}
		for _, id := range ip.Regions[name] {
			if err = r.AddRecursive(dim, id); err != nil {
				return fmt.Errorf("region %s: %w", name, err)
			}
		}
	}
	return
}

func (ip *MeshParameters) regionNames() (keys []string) {
	keys = make([]string, 0, len(ip.Regions))
	for k := range ip.Regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

func (ip *MeshParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Shape\n", ip.Shape)
	fmt.Printf("%v\t\t= Divisions\n", ip.Divisions)
	fmt.Printf("%v\t\t= Min\n", ip.Min)
	fmt.Printf("%v\t\t= Max\n", ip.Max)
	fmt.Printf("[%s]\t\t\t= Compression\n", ip.Compression)
	fmt.Printf("%t\t\t\t= Voronoi\n", ip.Voronoi)
	dims := make([]int, 0, len(ip.Layouts))
	for d := range ip.Layouts {
		dims = append(dims, d)
	}
	sort.Ints(dims)
	for _, d := range dims {
		fmt.Printf("Layouts[%d] = %s\n", d, ip.Layouts[d])
	}
	for _, key := range ip.regionNames() {
		fmt.Printf("Regions[%s] = %v\n", key, ip.Regions[key])
	}
}
