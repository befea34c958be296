package gm

import "fmt"

// Quat is a rotation quaternion. The zero value is not a valid rotation, use QuatIdentity.
type Quat struct {
	X, Y, Z, W float64
}

var QuatIdentity = Quat{W: 1}

// QuatFromAxisAngle returns the rotation by angle around axis.
func QuatFromAxisAngle(axis Vec3, angle Rad) Quat {
	sin, cos := angle.Half()
	axis = axis.Normalized().Mul(sin)
	return Quat{X: axis.X, Y: axis.Y, Z: axis.Z, W: cos}
}

// Mul returns the rotation first applying other, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(u.Cross(t))
}

func (q Quat) String() string {
	return fmt.Sprintf("quat(x=%v, y=%v, z=%v, w=%v)", q.X, q.Y, q.Z, q.W)
}
