package physics

import (
	"github.com/oliverbestmann/kindstore/gm"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/rotisserie/eris"
)

var ErrUnknownProperty = eris.New("unknown property")

type Velocity struct {
	Linear  gm.Vec3
	Angular gm.Vec3
}

func (v Velocity) Add(other Velocity) Velocity {
	return Velocity{
		Linear:  v.Linear.Add(other.Linear),
		Angular: v.Angular.Add(other.Angular),
	}
}

// VelocityMax limits the absolute velocity per axis.
type VelocityMax struct {
	Linear  gm.Vec3
	Angular gm.Vec3
}

// Clamp limits v to the maximum velocity.
func (m VelocityMax) Clamp(v Velocity) Velocity {
	return Velocity{
		Linear:  v.Linear.Clamp(m.Linear),
		Angular: v.Angular.Clamp(m.Angular),
	}
}

// ParseVelocityMax reads a VelocityMax from its construction properties.
// max_horizontal limits the x and z axis, max_vertical the y axis and max_angular
// all axis of the angular velocity. Axis without a limit are limited to zero.
// Any unknown property is an error.
func ParseVelocityMax(props property.List) (VelocityMax, error) {
	var result VelocityMax

	for p := range props.All() {
		switch p.Name {
		case "max_horizontal":
			value, err := p.Float64()
			if err != nil {
				return VelocityMax{}, err
			}

			result.Linear.X = value
			result.Linear.Z = value

		case "max_vertical":
			value, err := p.Float64()
			if err != nil {
				return VelocityMax{}, err
			}

			result.Linear.Y = value

		case "max_angular":
			value, err := p.Float64()
			if err != nil {
				return VelocityMax{}, err
			}

			result.Angular = gm.Splat(value)

		case property.EntityId:
			if _, err := p.EntityId(); err != nil {
				return VelocityMax{}, err
			}

		default:
			return VelocityMax{}, eris.Wrapf(ErrUnknownProperty, "velocity-max: %q", p.Name)
		}
	}

	return result, nil
}

// ParseVelocity reads the initial velocity from the properties linear_x, linear_y,
// linear_z and angular_x, angular_y, angular_z. Missing components are zero.
func ParseVelocity(props property.List) (Velocity, error) {
	var result Velocity

	targets := map[string]*float64{
		"linear_x":  &result.Linear.X,
		"linear_y":  &result.Linear.Y,
		"linear_z":  &result.Linear.Z,
		"angular_x": &result.Angular.X,
		"angular_y": &result.Angular.Y,
		"angular_z": &result.Angular.Z,
	}

	for p := range props.All() {
		target, ok := targets[p.Name]
		if !ok {
			continue
		}

		value, err := p.Float64()
		if err != nil {
			return Velocity{}, err
		}

		*target = value
	}

	return result, nil
}
