// Package gm (stands for geometry math) provides the geometry primitives used
// by the value types of the stock component kinds.
//
// It includes a 3d vector type called Vec3, a rotation quaternion Quat and a
// Transform combining translation, rotation and scale.
//
// There is also a type named Rad to represent angle values in radian.
package gm
