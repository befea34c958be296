package physics

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/kindstore/gm"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/rotisserie/eris"
)

// Collidable is a circular collider simulated in the xy plane.
type Collidable struct {
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool

	body  *cp.Body
	shape *cp.Shape
}

// NewCollidable creates the collider and its body. A static collidable never moves.
func NewCollidable(radius, mass, friction, elasticity float64, static bool) (Collidable, error) {
	if radius <= 0 {
		return Collidable{}, eris.Errorf("collidable: radius must be positive, got %v", radius)
	}

	if !static && mass <= 0 {
		return Collidable{}, eris.Errorf("collidable: mass must be positive, got %v", mass)
	}

	var body *cp.Body
	if static {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	}

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(friction)
	shape.SetElasticity(elasticity)

	return Collidable{
		Radius:     radius,
		Mass:       mass,
		Friction:   friction,
		Elasticity: elasticity,
		Static:     static,
		body:       body,
		shape:      shape,
	}, nil
}

// ParseCollidable reads a Collidable from its construction properties.
func ParseCollidable(props property.List) (Collidable, error) {
	radius, mass := 1.0, 1.0
	friction, elasticity := 0.5, 0.0
	static := false

	floats := map[string]*float64{
		"radius":     &radius,
		"mass":       &mass,
		"friction":   &friction,
		"elasticity": &elasticity,
	}

	for p := range props.All() {
		if target, ok := floats[p.Name]; ok {
			value, err := p.Float64()
			if err != nil {
				return Collidable{}, err
			}

			*target = value
			continue
		}

		switch p.Name {
		case "static":
			value, err := p.Bool()
			if err != nil {
				return Collidable{}, err
			}

			static = value

		case property.EntityId:

		default:
			return Collidable{}, eris.Wrapf(ErrUnknownProperty, "collidable: %q", p.Name)
		}
	}

	return NewCollidable(radius, mass, friction, elasticity, static)
}

// Body returns the simulated body, or nil for a zero Collidable.
func (c Collidable) Body() *cp.Body {
	return c.body
}

// Position returns the position of the body in the xy plane.
func (c Collidable) Position() gm.Vec3 {
	if c.body == nil {
		return gm.Vec3{}
	}

	pos := c.body.Position()
	return gm.Vec3{X: pos.X, Y: pos.Y}
}

func vectorOf(v gm.Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}
