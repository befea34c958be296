package gm

type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: QuatIdentity,
		Scale:    VecOne,
	}
}

// Apply transforms a point: scale first, then rotation, then translation.
func (t Transform) Apply(point Vec3) Vec3 {
	return t.Rotation.Rotate(point.MulEach(t.Scale)).Add(t.Translation)
}

func (t Transform) Translated(offset Vec3) Transform {
	t.Translation = t.Translation.Add(offset)
	return t
}

func (t Transform) Rotated(rotation Quat) Transform {
	t.Rotation = rotation.Mul(t.Rotation)
	return t
}
