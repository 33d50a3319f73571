package core

import (
	"terrain-sample/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorGray  = Color{0.5, 0.5, 0.5, 1}
)

// NewGray returns an opaque gray. Values above 1 are allowed and produce
// overbright light colours.
func NewGray(v float32) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Scale multiplies RGB and keeps alpha.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// Vertex is the interleaved layout shared by every mesh the renderer uploads.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Color    Color
}

// Transform is a node's local position, rotation and scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

func (t Transform) GetMatrix() math.Mat4 {
	return math.Mat4TRS(t.Position, t.Rotation, t.Scale)
}

func (t Transform) GetForward() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Forward)
}

func (t Transform) GetRight() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Right)
}

func (t Transform) GetUp() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Up)
}

// IntRect is a pixel rectangle. The zero value means "whole target".
type IntRect struct {
	X, Y, Width, Height int
}

func (r IntRect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
