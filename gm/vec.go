package gm

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

var (
	VecZero = Vec3{}
	VecOne  = Vec3{X: 1, Y: 1, Z: 1}
)

func VecOf(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Splat returns a vector with all components set to value.
func Splat(value float64) Vec3 {
	return Vec3{X: value, Y: value, Z: value}
}

func (v Vec3) Add(other Vec3) Vec3 {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
	return v
}

func (v Vec3) Sub(other Vec3) Vec3 {
	v.X -= other.X
	v.Y -= other.Y
	v.Z -= other.Z
	return v
}

func (v Vec3) Mul(scalar float64) Vec3 {
	v.X *= scalar
	v.Y *= scalar
	v.Z *= scalar
	return v
}

func (v Vec3) MulEach(other Vec3) Vec3 {
	v.X *= other.X
	v.Y *= other.Y
	v.Z *= other.Z
	return v
}

func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Clamp limits each component to the range [-limit, limit] of the
// corresponding component of limit.
func (v Vec3) Clamp(limit Vec3) Vec3 {
	v.X = max(-limit.X, min(limit.X, v.X))
	v.Y = max(-limit.Y, min(limit.Y, v.Y))
	v.Z = max(-limit.Z, min(limit.Z, v.Z))
	return v
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns the vector scaled to length one. The zero vector stays zero.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}

	return v.Mul(1 / length)
}

func (v Vec3) String() string {
	return fmt.Sprintf("vec(x=%v, y=%v, z=%v)", v.X, v.Y, v.Z)
}
