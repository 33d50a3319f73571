package scene

import "terrain-sample/math"

// Camera is a perspective viewpoint attached to a node. It looks along the
// node's +Z axis.
type Camera struct {
	ComponentBase

	FOV             float32 // vertical, degrees
	NearClip        float32
	FarClip         float32
	AspectRatio     float32
	AutoAspectRatio bool
}

func NewCamera() *Camera {
	return &Camera{
		FOV:             45,
		NearClip:        0.1,
		FarClip:         1000,
		AspectRatio:     1,
		AutoAspectRatio: true,
	}
}

// SetAspectFromSize updates the aspect ratio when AutoAspectRatio is on.
func (c *Camera) SetAspectFromSize(width, height int) {
	if c.AutoAspectRatio && width > 0 && height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

func (c *Camera) position() math.Vec3 {
	if c.node == nil {
		return math.Vec3Zero
	}
	return c.node.WorldPosition()
}

func (c *Camera) rotation() math.Quaternion {
	if c.node == nil {
		return math.QuaternionIdentity()
	}
	return c.node.WorldRotation()
}

// View ignores node scale.
func (c *Camera) View() math.Mat4 {
	return math.Mat4View(c.position(), c.rotation())
}

func (c *Camera) Projection() math.Mat4 {
	return math.Mat4Perspective(math.Radians(c.FOV), c.AspectRatio, c.NearClip, c.FarClip)
}

func (c *Camera) ViewProjection() math.Mat4 {
	return c.View().Mul(c.Projection())
}

func (c *Camera) Frustum() Frustum {
	return FrustumFromVP(c.ViewProjection())
}

// FrustumCorners returns the world-space corners of the frustum slice between
// view depths near and far: the four near corners first.
func (c *Camera) FrustumCorners(near, far float32) [8]math.Vec3 {
	pos, rot := c.position(), c.rotation()
	tanHalf := math.Tan(math.Radians(c.FOV) / 2)
	var out [8]math.Vec3
	for i, d := range [2]float32{near, far} {
		h := d * tanHalf
		w := h * c.AspectRatio
		local := [4]math.Vec3{
			{X: -w, Y: -h, Z: d},
			{X: w, Y: -h, Z: d},
			{X: w, Y: h, Z: d},
			{X: -w, Y: h, Z: d},
		}
		for j, p := range local {
			out[i*4+j] = rot.RotateVector(p).Add(pos)
		}
	}
	return out
}

// Depth is the view-space distance of p along the viewing direction.
func (c *Camera) Depth(p math.Vec3) float32 {
	forward := c.rotation().RotateVector(math.Vec3Forward)
	return p.Sub(c.position()).Dot(forward)
}
