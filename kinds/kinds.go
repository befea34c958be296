// Package kinds declares the stock component kinds of the simulation and the
// initializers parsing their construction properties.
package kinds

import (
	"github.com/oliverbestmann/kindstore"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/gm"
	"github.com/oliverbestmann/kindstore/physics"
)

const (
	VelocityId kindstore.KindId = iota + 1
	VelocityMaxId
	ReferenceFrameId
	IsReferenceFrameId
	CombinedVelocityId
	CollidableId
	OxygenRateId
	HealthId
	ImmuneId
	GraphicTransformId
	GameTransformId
	MovableId
)

var (
	Velocity = kindstore.SharedKind[physics.Velocity](VelocityId, "velocity").WithInitializer(initVelocity)

	VelocityMax = kindstore.SharedKind[physics.VelocityMax](VelocityMaxId, "velocity-max").WithInitializer(initVelocityMax)

	ReferenceFrame = kindstore.ValueKind[entity.Id](ReferenceFrameId, "reference-frame").WithInitializer(initReferenceFrame)

	IsReferenceFrame = kindstore.ValueKind[bool](IsReferenceFrameId, "is-reference-frame")

	CombinedVelocity = kindstore.ExclusiveKind[physics.Velocity](CombinedVelocityId, "combined-velocity")

	Collidable = kindstore.ExclusiveKind[physics.Collidable](CollidableId, "collidable").WithInitializer(initCollidable)

	OxygenRate = kindstore.ValueKind[float32](OxygenRateId, "oxygen-rate").WithInitializer(initOxygenRate)

	Health = kindstore.ValueKind[uint32](HealthId, "health").WithInitializer(initHealth)

	Immune = kindstore.ValueKind[bool](ImmuneId, "immune").WithInitializer(initImmune)

	GraphicTransform = kindstore.SharedKind[gm.Transform](GraphicTransformId, "graphic-transform").WithInitializer(initTransform)

	GameTransform = kindstore.SharedKind[gm.Transform](GameTransformId, "game-transform").WithInitializer(initTransform)

	Movable = kindstore.ValueKind[bool](MovableId, "movable").WithInitializer(initMovable)
)

// All returns every stock kind ordered by id.
func All() []kindstore.AnyKind {
	return []kindstore.AnyKind{
		Velocity,
		VelocityMax,
		ReferenceFrame,
		IsReferenceFrame,
		CombinedVelocity,
		Collidable,
		OxygenRate,
		Health,
		Immune,
		GraphicTransform,
		GameTransform,
		Movable,
	}
}

// NewWorld creates a world holding all stock kinds.
func NewWorld(options kindstore.Options) *kindstore.World {
	return kindstore.NewWorld(options, All()...)
}

// Physics returns the kinds used by the physics system.
func Physics() physics.Kinds {
	return physics.Kinds{
		Velocity:         Velocity,
		VelocityMax:      VelocityMax,
		CombinedVelocity: CombinedVelocity,
		ReferenceFrame:   ReferenceFrame,
		Collidable:       Collidable,
		Transform:        GameTransform,
		Graphic:          GraphicTransform,
	}
}

// InsertTransform stores one transform value for both the graphic and the game view
// of entity e.
func InsertTransform(w *kindstore.World, e entity.Id, transform gm.Transform) {
	handle := &transform
	kindstore.InsertHandle(w, GameTransform, e, handle)
	kindstore.InsertHandle(w, GraphicTransform, e, handle)
}
