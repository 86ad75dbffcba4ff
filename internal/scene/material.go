package scene

// MaterialTag identifies materials the showroom mutates. Tags are assigned
// once at load time from the material name so later lookups never walk the
// graph comparing strings.
type MaterialTag int

const (
	TagNone MaterialTag = iota
	TagFloor
	TagCarPaint
	TagLabel
)

// TagForName maps an authored material name to its tag.
func TagForName(name string) MaterialTag {
	switch name {
	case "M_Floor":
		return TagFloor
	case "carpaint":
		return TagCarPaint
	default:
		return TagNone
	}
}

// Material is a physically based material. Physical enables the clearcoat,
// sheen and specular extensions.
type Material struct {
	Name string
	Tag  MaterialTag

	Color           Color
	Roughness       float32
	Metalness       float32
	EnvMap          *Texture
	EnvMapIntensity float32
	Opacity         float32
	Transparent     bool

	Physical           bool
	Clearcoat          float32
	ClearcoatRoughness float32
	SpecularIntensity  float32
	Sheen              float32
	SheenRoughness     float32

	version uint64
}

// NewMaterial returns an opaque white material with the given name, tagged
// from its name.
func NewMaterial(name string) *Material {
	return &Material{
		Name:            name,
		Tag:             TagForName(name),
		Color:           Color{R: 1, G: 1, B: 1},
		Roughness:       1,
		EnvMapIntensity: 1,
		Opacity:         1,
	}
}

// Clone returns an independent copy. The env map is shared.
func (m *Material) Clone() *Material {
	c := *m
	c.version = 0
	return &c
}

// Touch marks the material as changed so the renderer refreshes uniforms.
func (m *Material) Touch() {
	m.version++
}

// Version increases every time the material is touched.
func (m *Material) Version() uint64 {
	return m.version
}
