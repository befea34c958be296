package physics

import (
	"context"
	"log/slog"
	"time"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/kindstore"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/gm"
	"github.com/oliverbestmann/kindstore/rewind"
)

// Kinds are the component kinds the physics system reads and writes.
type Kinds struct {
	Velocity         kindstore.Kind[Velocity]
	VelocityMax      kindstore.Kind[VelocityMax]
	CombinedVelocity kindstore.Kind[Velocity]
	ReferenceFrame   kindstore.Kind[entity.Id]
	Collidable       kindstore.Kind[Collidable]
	Transform        kindstore.Kind[gm.Transform]

	// Graphic is optional. Entities whose graphic transform shares the handle of
	// their transform keep sharing it after every integration step.
	Graphic kindstore.Kind[gm.Transform]
}

func (k Kinds) hasGraphic() bool {
	return k.Graphic.Id() != 0
}

// System integrates the velocity of all entities into their transform. Entities
// that are collidable are simulated in a chipmunk space, all other entities move
// freely.
type System struct {
	world *kindstore.World
	kinds Kinds
	step  time.Duration

	space  *cp.Space
	bodies map[entity.Id]Collidable
}

func NewSystem(w *kindstore.World, kinds Kinds, step time.Duration) *System {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	return &System{
		world:  w,
		kinds:  kinds,
		step:   step,
		space:  space,
		bodies: map[entity.Id]Collidable{},
	}
}

// Definition returns the system to add to a kindstore.Runner.
func (s *System) Definition() kindstore.System {
	writes := []kindstore.AnyKind{
		s.kinds.Velocity,
		s.kinds.CombinedVelocity,
		s.kinds.Transform,
	}

	if s.kinds.hasGraphic() {
		writes = append(writes, s.kinds.Graphic)
	}

	return kindstore.System{
		Name:   "physics",
		Writes: writes,
		Event:  s.event,
	}
}

func (s *System) event(ctx context.Context, frame rewind.Frame) error {
	dt := s.step.Seconds()

	s.syncBodies()
	s.pushVelocities()

	s.space.Step(dt)

	s.integrate(dt)
	s.combineVelocities()

	return nil
}

// syncBodies adds new collidables to the space and removes the ones that are gone.
func (s *System) syncBodies() {
	w := s.world

	collidables := kindstore.Bitmap(w, s.kinds.Collidable)

	for e, collidable := range s.bodies {
		if collidables.Get(e) {
			continue
		}

		s.space.RemoveShape(collidable.shape)
		s.space.RemoveBody(collidable.body)
		delete(s.bodies, e)

		w.Logger().Debug("Collidable removed from space", slog.Any("entity", e))
	}

	for e := range collidables.All(w.EntityCeiling()) {
		if _, ok := s.bodies[e]; ok {
			continue
		}

		collidable := kindstore.Get(w, s.kinds.Collidable, e)
		if collidable.body == nil {
			continue
		}

		if tr, ok := kindstore.Lookup(w, s.kinds.Transform, e); ok {
			collidable.body.SetPosition(vectorOf(tr.Translation))
		}

		s.space.AddBody(collidable.body)
		s.space.AddShape(collidable.shape)
		s.bodies[e] = collidable

		w.Logger().Debug("Collidable added to space", slog.Any("entity", e))
	}
}

func (s *System) velocityOf(e entity.Id) Velocity {
	velocity := kindstore.Get(s.world, s.kinds.Velocity, e)

	if limit, ok := kindstore.Lookup(s.world, s.kinds.VelocityMax, e); ok {
		velocity = limit.Clamp(velocity)
	}

	return velocity
}

func (s *System) pushVelocities() {
	w := s.world

	velocities := kindstore.Bitmap(w, s.kinds.Velocity)

	for e, collidable := range s.bodies {
		if collidable.Static || !velocities.Get(e) {
			continue
		}

		velocity := s.velocityOf(e)
		collidable.body.SetVelocityVector(vectorOf(velocity.Linear))
		collidable.body.SetAngularVelocity(velocity.Angular.Z)
	}
}

func (s *System) integrate(dt float64) {
	w := s.world

	moving := kindstore.Bitmap(w, s.kinds.Velocity).And(kindstore.Bitmap(w, s.kinds.Transform))

	for e := range moving.All(w.EntityCeiling()) {
		velocity := s.velocityOf(e)
		tr := kindstore.Get(w, s.kinds.Transform, e)

		if collidable, ok := s.bodies[e]; ok {
			if collidable.Static {
				continue
			}

			// the space simulates the xy plane, collisions might have changed the velocity
			pos := collidable.body.Position()
			vel := collidable.body.Velocity()

			tr.Translation = gm.Vec3{X: pos.X, Y: pos.Y, Z: tr.Translation.Z + velocity.Linear.Z*dt}

			velocity.Linear.X = vel.X
			velocity.Linear.Y = vel.Y
			kindstore.Update(w, s.kinds.Velocity, e, velocity)
		} else {
			tr.Translation = tr.Translation.Add(velocity.Linear.Mul(dt))
		}

		if speed := velocity.Angular.Length(); speed > 0 {
			tr = tr.Rotated(gm.QuatFromAxisAngle(velocity.Angular, gm.Rad(speed*dt)))
		}

		s.storeTransform(e, tr)
	}
}

// storeTransform writes a fresh handle holding tr. If the graphic transform of e
// aliases the transform, it receives the same new handle.
func (s *System) storeTransform(e entity.Id, tr gm.Transform) {
	w := s.world

	aliased := s.kinds.hasGraphic() &&
		kindstore.Has(w, s.kinds.Graphic, e) &&
		kindstore.GetConstHandle(w, s.kinds.Graphic, e) == kindstore.GetConstHandle(w, s.kinds.Transform, e)

	handle := &tr
	kindstore.InsertHandle(w, s.kinds.Transform, e, handle)

	if aliased {
		kindstore.InsertHandle(w, s.kinds.Graphic, e, handle)
	}
}

// combineVelocities adds the velocity of the reference frame to the velocity of each entity.
func (s *System) combineVelocities() {
	w := s.world

	targets := kindstore.Bitmap(w, s.kinds.ReferenceFrame).And(kindstore.Bitmap(w, s.kinds.CombinedVelocity))

	for e := range targets.All(w.EntityCeiling()) {
		reference := kindstore.Get(w, s.kinds.ReferenceFrame, e)

		own, _ := kindstore.Lookup(w, s.kinds.Velocity, e)
		frame, _ := kindstore.Lookup(w, s.kinds.Velocity, reference)

		kindstore.Update(w, s.kinds.CombinedVelocity, e, own.Add(frame))
	}
}
