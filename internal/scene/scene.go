// Package scene loads and saves engine setups described in YAML.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/jakecoffman/rigid"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	ErrUnknownShape      = errors.New("unknown shape")
	ErrInvalidShape      = errors.New("invalid shape size")
	ErrUnknownBody       = errors.New("unknown body label")
	ErrUnknownBroadphase = errors.New("unknown broadphase")
)

// Scene is the root of a scene file.
type Scene struct {
	Engine      EngineConfig `yaml:"engine"`
	Defaults    Material     `yaml:"defaults"`
	Bodies      []Body       `yaml:"bodies"`
	Constraints []Constraint `yaml:"constraints"`
}

// EngineConfig holds the engine tunables.
type EngineConfig struct {
	PositionIterations   int              `yaml:"position_iterations"`
	VelocityIterations   int              `yaml:"velocity_iterations"`
	ConstraintIterations int              `yaml:"constraint_iterations"`
	Sleeping             bool             `yaml:"sleeping"`
	TimeScale            float64          `yaml:"time_scale"`
	Gravity              Gravity          `yaml:"gravity"`
	Bounds               *Bounds          `yaml:"bounds,omitempty"`
	Broadphase           BroadphaseConfig `yaml:"broadphase"`
}

type Gravity struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
}

type Bounds struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

// BroadphaseConfig selects the broadphase. Kind is "grid", "tree" or "brute".
// Margin only applies to the tree.
type BroadphaseConfig struct {
	Kind       string  `yaml:"kind"`
	BucketSize float64 `yaml:"bucket_size"`
	Adaptive   bool    `yaml:"adaptive"`
	Margin     float64 `yaml:"margin,omitempty"`
}

// Material holds the body defaults applied where a body leaves a field unset.
type Material struct {
	Density        float64 `yaml:"density"`
	Friction       float64 `yaml:"friction"`
	FrictionStatic float64 `yaml:"friction_static"`
	FrictionAir    float64 `yaml:"friction_air"`
	Restitution    float64 `yaml:"restitution"`
	Slop           float64 `yaml:"slop"`
	SleepThreshold int     `yaml:"sleep_threshold"`
}

// Point is an x, y pair written as a two element sequence.
type Point [2]float64

func (p Point) Vector() rigid.Vector {
	return rigid.Vector{X: p[0], Y: p[1]}
}

// Body describes one body, or a block of copies when Repeat is set.
type Body struct {
	Label string `yaml:"label"`
	// Shape is one of rectangle, polygon, circle, trapezoid, vertices or compound.
	Shape    string  `yaml:"shape"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	Sides    int     `yaml:"sides,omitempty"`
	Slope    float64 `yaml:"slope,omitempty"`
	Vertices []Point `yaml:"vertices,omitempty"`
	Parts    []Body  `yaml:"parts,omitempty"`

	Position        Point   `yaml:"position"`
	Angle           float64 `yaml:"angle,omitempty"`
	Velocity        Point   `yaml:"velocity,omitempty"`
	AngularVelocity float64 `yaml:"angular_velocity,omitempty"`

	Static bool `yaml:"static,omitempty"`
	Sensor bool `yaml:"sensor,omitempty"`

	Density        *float64  `yaml:"density,omitempty"`
	Mass           *float64  `yaml:"mass,omitempty"`
	Friction       *float64  `yaml:"friction,omitempty"`
	FrictionStatic *float64  `yaml:"friction_static,omitempty"`
	FrictionAir    *float64  `yaml:"friction_air,omitempty"`
	Restitution    *float64  `yaml:"restitution,omitempty"`
	Slop           *float64  `yaml:"slop,omitempty"`
	SleepThreshold *int      `yaml:"sleep_threshold,omitempty"`
	Chamfer        []float64 `yaml:"chamfer,omitempty"`
	Filter         *Filter   `yaml:"filter,omitempty"`

	Repeat *Repeat `yaml:"repeat,omitempty"`
}

type Filter struct {
	Group    int    `yaml:"group"`
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

// Repeat lays out Columns x Rows copies of a body, Spacing apart, starting at the body
// position and stacking upwards. With Pyramid every row is one column shorter than the
// row below and centred over it.
type Repeat struct {
	Columns int   `yaml:"columns"`
	Rows    int   `yaml:"rows"`
	Spacing Point `yaml:"spacing"`
	Pyramid bool  `yaml:"pyramid,omitempty"`
}

// Constraint links two bodies by label. An empty label pins that end to the world.
type Constraint struct {
	Label            string   `yaml:"label"`
	BodyA            string   `yaml:"body_a,omitempty"`
	BodyB            string   `yaml:"body_b,omitempty"`
	PointA           Point    `yaml:"point_a"`
	PointB           Point    `yaml:"point_b"`
	Length           *float64 `yaml:"length,omitempty"`
	Stiffness        float64  `yaml:"stiffness,omitempty"`
	Damping          float64  `yaml:"damping,omitempty"`
	AngularStiffness float64  `yaml:"angular_stiffness,omitempty"`
}

// Default returns the embedded defaults with no bodies.
func Default() (*Scene, error) {
	s := &Scene{}
	if err := yaml.Unmarshal(defaultsYAML, s); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return s, nil
}

// Parse reads a scene from YAML. Fields missing from data keep their defaults.
func Parse(data []byte) (*Scene, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return s, nil
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteYAML writes the scene to a YAML file.
func (s *Scene) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing scene file: %w", err)
	}
	return nil
}
