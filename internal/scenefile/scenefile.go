// Package scenefile reads scene descriptions from JSON or YAML and builds them into any engine.Scene.
package scenefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"physics3d/internal/engine"
	"physics3d/internal/physics"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// Vec3 is written as [x, y, z] in both formats
type Vec3 [3]float32

func (v Vec3) Vector3() rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func FromVector3(v rl.Vector3) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

const (
	ShapePlane  = "plane"
	ShapeSphere = "sphere"
	ShapeAABB   = "aabb"
)

type File struct {
	Name        string      `json:"name" yaml:"name"`
	Gravity     *Vec3       `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	Offset      Vec3        `json:"offset,omitempty" yaml:"offset,omitempty"`
	Damping     *float32    `json:"damping,omitempty" yaml:"damping,omitempty"`
	Restitution *float32    `json:"restitution,omitempty" yaml:"restitution,omitempty"`
	Objects     []ObjectDef `json:"objects" yaml:"objects"`
}

type ObjectDef struct {
	Name     string  `json:"name" yaml:"name"`
	Shape    string  `json:"shape" yaml:"shape"`
	Position Vec3    `json:"position,omitempty" yaml:"position,omitempty"`
	Normal   Vec3    `json:"normal,omitempty" yaml:"normal,omitempty"`
	Distance float32 `json:"distance,omitempty" yaml:"distance,omitempty"`
	Radius   float32 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Extents  Vec3    `json:"extents,omitempty" yaml:"extents,omitempty"`
	Mass     float32 `json:"mass,omitempty" yaml:"mass,omitempty"`
	Velocity *Vec3   `json:"velocity,omitempty" yaml:"velocity,omitempty"`
}

func (o ObjectDef) Dynamic() bool {
	return o.Mass > 0
}

var ErrUnknownFormat = errors.New("unknown scene format")

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads, parses and validates a scene file. The format follows the extension.
func Load(path string) (*File, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	sf, err := parse(data, f)
	if err != nil {
		return nil, err
	}
	log.Printf("Scene: loaded %q from %s (%d objects)", sf.Name, path, len(sf.Objects))
	return sf, nil
}

// ParseJSON parses and validates a JSON scene
func ParseJSON(data []byte) (*File, error) {
	return parse(data, formatJSON)
}

// ParseYAML parses and validates a YAML scene
func ParseYAML(data []byte) (*File, error) {
	return parse(data, formatYAML)
}

func parse(data []byte, f format) (*File, error) {
	var sf File
	var err error
	if f == formatYAML {
		err = yaml.Unmarshal(data, &sf)
	} else {
		err = json.Unmarshal(data, &sf)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, err
	}
	sf.normalize()
	return &sf, nil
}

// Save writes the scene in the format given by the extension
func Save(path string, sf *File) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	if f == formatYAML {
		data, err = yaml.Marshal(sf)
	} else {
		data, err = json.MarshalIndent(sf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// Validation errors, wrapped with the offending object's name
var (
	ErrUnknownShape   = errors.New("unknown shape")
	ErrBadRadius      = errors.New("radius must be positive")
	ErrBadExtents     = errors.New("extents must be positive")
	ErrZeroNormal     = errors.New("plane normal is zero")
	ErrNegativeMass   = errors.New("mass is negative")
	ErrStaticVelocity = errors.New("static object has a velocity")
	ErrBadDamping     = errors.New("damping is negative")
	ErrBadRestitution = errors.New("restitution is negative")
)

// Validate checks every object and returns all problems joined together
func (sf *File) Validate() error {
	var errs []error

	if sf.Damping != nil && *sf.Damping < 0 {
		errs = append(errs, ErrBadDamping)
	}
	if sf.Restitution != nil && *sf.Restitution < 0 {
		errs = append(errs, ErrBadRestitution)
	}

	for i, obj := range sf.Objects {
		if err := obj.validate(); err != nil {
			name := obj.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			errs = append(errs, fmt.Errorf("object %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (o ObjectDef) validate() error {
	switch o.Shape {
	case ShapePlane:
		if o.Normal == (Vec3{}) {
			return ErrZeroNormal
		}
	case ShapeSphere:
		if o.Radius <= 0 {
			return ErrBadRadius
		}
	case ShapeAABB:
		if o.Extents[0] <= 0 || o.Extents[1] <= 0 || o.Extents[2] <= 0 {
			return ErrBadExtents
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownShape, o.Shape)
	}

	if o.Mass < 0 {
		return ErrNegativeMass
	}
	if !o.Dynamic() && o.Velocity != nil {
		return ErrStaticVelocity
	}
	return nil
}

func (sf *File) normalize() {
	for i := range sf.Objects {
		obj := &sf.Objects[i]
		if obj.Shape == ShapePlane {
			obj.Normal = FromVector3(rl.Vector3Normalize(obj.Normal.Vector3()))
		}
	}
}

// Config builds the physics configuration, filling gaps from physics.DefaultConfig
func (sf *File) Config() physics.Config {
	cfg := physics.DefaultConfig()
	if sf.Gravity != nil {
		cfg.Gravity = sf.Gravity.Vector3()
	}
	cfg.Offset = sf.Offset.Vector3()
	if sf.Damping != nil {
		cfg.Damping = *sf.Damping
	}
	if sf.Restitution != nil {
		cfg.Restitution = *sf.Restitution
	}
	return cfg
}

// Populate adds every object to scene in file order
func (sf *File) Populate(scene engine.Scene) {
	for _, obj := range sf.Objects {
		var velocity rl.Vector3
		if obj.Velocity != nil {
			velocity = obj.Velocity.Vector3()
		}

		switch obj.Shape {
		case ShapePlane:
			if obj.Dynamic() {
				scene.AddPlaneDynamic(obj.Normal.Vector3(), obj.Distance, obj.Mass, velocity)
			} else {
				scene.AddPlaneStatic(obj.Normal.Vector3(), obj.Distance)
			}
		case ShapeSphere:
			if obj.Dynamic() {
				scene.AddSphereDynamic(obj.Position.Vector3(), obj.Radius, obj.Mass, velocity)
			} else {
				scene.AddSphereStatic(obj.Position.Vector3(), obj.Radius)
			}
		case ShapeAABB:
			if obj.Dynamic() {
				scene.AddAABBDynamic(obj.Position.Vector3(), obj.Extents.Vector3(), obj.Mass, velocity)
			} else {
				scene.AddAABBStatic(obj.Position.Vector3(), obj.Extents.Vector3())
			}
		}
	}
}

// NewScene builds a physics.Scene configured and populated from the file
func (sf *File) NewScene() *physics.Scene {
	scene := physics.NewScene(sf.Config())
	sf.Populate(scene)
	return scene
}
