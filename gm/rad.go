package gm

import "math"

type Rad float64

func DegToRad(deg float64) Rad {
	return Rad(math.Pi / 180 * deg)
}

func (r Rad) Degrees() float64 {
	return float64(r) * (180 / math.Pi)
}

// Radians returns the value of the angle in radians as float64.
func (r Rad) Radians() float64 {
	return float64(r)
}

// Half returns the sine and cosine of half the angle, as needed to build a quaternion.
func (r Rad) Half() (sin, cos float64) {
	return math.Sincos(float64(r) / 2)
}
