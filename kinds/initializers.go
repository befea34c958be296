package kinds

import (
	"log/slog"

	"github.com/oliverbestmann/kindstore"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/gm"
	"github.com/oliverbestmann/kindstore/physics"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/rotisserie/eris"
)

var (
	ErrOwnerMismatch = eris.New("entity_id does not match the entity")
	ErrNoVelocity    = eris.New("reference entity has no velocity")
)

type handler func(p property.Property) error

// parse calls the handler registered for each property. Unknown properties are
// logged and skipped. The entity_id property is required and must name e.
func parse(w *kindstore.World, kind string, e entity.Id, props property.List, handlers map[string]handler) error {
	owner, err := props.Owner()
	if err != nil {
		return err
	}

	if owner != e {
		return eris.Wrapf(ErrOwnerMismatch, "%s: entity_id is %s, entity is %s", kind, owner, e)
	}

	for p := range props.All() {
		if p.Name == property.EntityId {
			continue
		}

		handle, ok := handlers[p.Name]
		if !ok {
			w.Logger().Error("Unknown property",
				slog.String("kind", kind),
				slog.String("property", p.Name),
				slog.Any("entity", e))

			continue
		}

		if err := handle(p); err != nil {
			return err
		}
	}

	return nil
}

func initVelocity(w *kindstore.World, e entity.Id, props property.List) (physics.Velocity, error) {
	return physics.ParseVelocity(props)
}

func initVelocityMax(w *kindstore.World, e entity.Id, props property.List) (physics.VelocityMax, error) {
	return physics.ParseVelocityMax(props)
}

func initCollidable(w *kindstore.World, e entity.Id, props property.List) (physics.Collidable, error) {
	return physics.ParseCollidable(props)
}

// initReferenceFrame links e to the reference entity named by the entity property.
// The reference entity is marked as reference frame and e receives the combined
// velocity, starting with the velocity of the reference.
func initReferenceFrame(w *kindstore.World, e entity.Id, props property.List) (entity.Id, error) {
	var reference entity.Id
	var found bool

	for p := range props.All() {
		switch p.Name {
		case "entity":
			id, err := p.EntityId()
			if err != nil {
				return entity.None, err
			}

			if !kindstore.Has(w, Velocity, id) {
				return entity.None, eris.Wrapf(ErrNoVelocity, "reference-frame: entity %s", id)
			}

			reference, found = id, true

		case property.EntityId:
			owner, err := p.EntityId()
			if err != nil {
				return entity.None, err
			}

			if owner != e {
				return entity.None, eris.Wrapf(ErrOwnerMismatch, "reference-frame: entity_id is %s, entity is %s", owner, e)
			}

		default:
			w.Logger().Error("Unknown property",
				slog.String("kind", "reference-frame"),
				slog.String("property", p.Name),
				slog.Any("entity", e))
		}
	}

	if !found {
		return entity.None, eris.Wrap(property.ErrMissing, "reference-frame: property \"entity\"")
	}

	kindstore.Insert(w, IsReferenceFrame, reference, true)
	kindstore.Insert(w, CombinedVelocity, e, kindstore.Get(w, Velocity, reference))

	return reference, nil
}

func initOxygenRate(w *kindstore.World, e entity.Id, props property.List) (float32, error) {
	rate := float32(20)

	err := parse(w, "oxygen-rate", e, props, map[string]handler{
		"rate": func(p property.Property) (err error) {
			rate, err = p.Float32()
			return err
		},
	})

	return rate, err
}

func initHealth(w *kindstore.World, e entity.Id, props property.List) (uint32, error) {
	health := uint32(100)

	err := parse(w, "health", e, props, map[string]handler{
		"health": func(p property.Property) (err error) {
			health, err = p.Uint32()
			return err
		},
	})

	return health, err
}

func initMovable(w *kindstore.World, e entity.Id, props property.List) (bool, error) {
	var movable bool

	err := parse(w, "movable", e, props, map[string]handler{
		"movable": func(p property.Property) (err error) {
			movable, err = p.Bool()
			return err
		},
	})

	return movable, err
}

// initImmune makes the entity immune unless the immune property says otherwise.
func initImmune(w *kindstore.World, e entity.Id, props property.List) (bool, error) {
	immune := true

	err := parse(w, "immune", e, props, map[string]handler{
		"immune": func(p property.Property) (err error) {
			immune, err = p.Bool()
			return err
		},
	})

	return immune, err
}

// initTransform reads the translation (x, y, z) and a uniform scale.
func initTransform(w *kindstore.World, e entity.Id, props property.List) (gm.Transform, error) {
	tr := gm.IdentityTransform()

	float := func(target *float64) handler {
		return func(p property.Property) (err error) {
			*target, err = p.Float64()
			return err
		}
	}

	var scale float64

	err := parse(w, "transform", e, props, map[string]handler{
		"x":     float(&tr.Translation.X),
		"y":     float(&tr.Translation.Y),
		"z":     float(&tr.Translation.Z),
		"scale": float(&scale),
	})

	if scale != 0 {
		tr.Scale = gm.Splat(scale)
	}

	return tr, err
}
