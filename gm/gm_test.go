package gm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireVecInDelta(t *testing.T, expected, actual Vec3) {
	t.Helper()
	require.InDelta(t, expected.X, actual.X, 1e-9)
	require.InDelta(t, expected.Y, actual.Y, 1e-9)
	require.InDelta(t, expected.Z, actual.Z, 1e-9)
}

func TestVec3_Cross(t *testing.T) {
	x := VecOf(1, 0, 0)
	y := VecOf(0, 1, 0)
	require.Equal(t, VecOf(0, 0, 1), x.Cross(y))
}

func TestVec3_Clamp(t *testing.T) {
	v := VecOf(5, -5, 0.5).Clamp(VecOf(1, 2, 3))
	require.Equal(t, VecOf(1, -2, 0.5), v)
}

func TestVec3_Normalized(t *testing.T) {
	require.InDelta(t, 1.0, VecOf(3, 4, 12).Normalized().Length(), 1e-12)
	require.Equal(t, VecZero, VecZero.Normalized())
}

func TestQuat_Rotate(t *testing.T) {
	q := QuatFromAxisAngle(VecOf(0, 0, 1), DegToRad(90))
	requireVecInDelta(t, VecOf(0, 1, 0), q.Rotate(VecOf(1, 0, 0)))

	// rotating back yields the original vector
	requireVecInDelta(t, VecOf(1, 0, 0), q.Conjugate().Rotate(q.Rotate(VecOf(1, 0, 0))))
}

func TestQuat_Mul(t *testing.T) {
	quarter := QuatFromAxisAngle(VecOf(0, 1, 0), math.Pi/2)
	half := quarter.Mul(quarter)
	requireVecInDelta(t, VecOf(-1, 0, 0), half.Rotate(VecOf(1, 0, 0)))
}

func TestTransform_Apply(t *testing.T) {
	tr := IdentityTransform()
	require.Equal(t, VecOf(1, 2, 3), tr.Apply(VecOf(1, 2, 3)))

	tr.Scale = Splat(2)
	tr = tr.Translated(VecOf(0, 0, 1))
	tr = tr.Rotated(QuatFromAxisAngle(VecOf(0, 0, 1), DegToRad(90)))

	requireVecInDelta(t, VecOf(0, 2, 1), tr.Apply(VecOf(1, 0, 0)))
}
