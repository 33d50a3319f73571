package scene

import "terrain-sample/math"

// Plane is the half-space n·p + d >= 0. The normal points inside.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from pt to the plane.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view volume.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts normalized planes from a view-projection matrix.
//
// Points are row vectors (p' = p*M), so the clip-space x, y, z and w
// coefficients are the columns of vp.
func FrustumFromVP(vp math.Mat4) Frustum {
	col := func(i int) math.Vec4 {
		return math.Vec4{X: vp[0][i], Y: vp[1][i], Z: vp[2][i], W: vp[3][i]}
	}
	cx, cy, cz, cw := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = planeFrom(cw.X+cx.X, cw.Y+cx.Y, cw.Z+cx.Z, cw.W+cx.W)
	f.Planes[1] = planeFrom(cw.X-cx.X, cw.Y-cx.Y, cw.Z-cx.Z, cw.W-cx.W)
	f.Planes[2] = planeFrom(cw.X+cy.X, cw.Y+cy.Y, cw.Z+cy.Z, cw.W+cy.W)
	f.Planes[3] = planeFrom(cw.X-cy.X, cw.Y-cy.Y, cw.Z-cy.Z, cw.W-cy.W)
	f.Planes[4] = planeFrom(cw.X+cz.X, cw.Y+cz.Y, cw.Z+cz.Z, cw.W+cz.W)
	f.Planes[5] = planeFrom(cw.X-cz.X, cw.Y-cz.Y, cw.Z-cz.Z, cw.W-cz.W)
	return f
}

func planeFrom(a, b, c, d float32) Plane {
	l := math.Vec3{X: a, Y: b, Z: c}.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: math.Vec3{X: a / l, Y: b / l, Z: c / l}, D: d / l}
}

// ContainsPoint reports whether pt is inside or on every plane.
func (f *Frustum) ContainsPoint(pt math.Vec3) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(pt) < 0 {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// EmptyAABB returns an inverted box that Merge can grow from.
func EmptyAABB() AABB {
	const big = 1e30
	return AABB{
		Min: math.Vec3{X: big, Y: big, Z: big},
		Max: math.Vec3{X: -big, Y: -big, Z: -big},
	}
}

func NewAABB(min, max math.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Defined reports whether the box has been grown at least once.
func (box AABB) Defined() bool {
	return box.Min.X <= box.Max.X && box.Min.Y <= box.Max.Y && box.Min.Z <= box.Max.Z
}

func (box AABB) Center() math.Vec3 {
	return box.Min.Add(box.Max).Mul(0.5)
}

func (box AABB) Size() math.Vec3 {
	return box.Max.Sub(box.Min)
}

func (box AABB) HalfSize() math.Vec3 {
	return box.Size().Mul(0.5)
}

func (box AABB) MergePoint(p math.Vec3) AABB {
	return AABB{Min: box.Min.Min(p), Max: box.Max.Max(p)}
}

func (box AABB) Merge(other AABB) AABB {
	return AABB{Min: box.Min.Min(other.Min), Max: box.Max.Max(other.Max)}
}

func (box AABB) ContainsPoint(p math.Vec3) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}

// ContainsBox reports whether other lies completely inside box.
func (box AABB) ContainsBox(other AABB) bool {
	return other.Min.X >= box.Min.X && other.Max.X <= box.Max.X &&
		other.Min.Y >= box.Min.Y && other.Max.Y <= box.Max.Y &&
		other.Min.Z >= box.Min.Z && other.Max.Z <= box.Max.Z
}

func (box AABB) Intersects(other AABB) bool {
	return box.Min.X <= other.Max.X && box.Max.X >= other.Min.X &&
		box.Min.Y <= other.Max.Y && box.Max.Y >= other.Min.Y &&
		box.Min.Z <= other.Max.Z && box.Max.Z >= other.Min.Z
}

// Corners returns the eight box corners.
func (box AABB) Corners() [8]math.Vec3 {
	mn, mx := box.Min, box.Max
	return [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
}

// Transformed returns the box enclosing box after transformation by m.
func (box AABB) Transformed(m math.Mat4) AABB {
	out := EmptyAABB()
	for _, c := range box.Corners() {
		out = out.MergePoint(m.MulVec3(c))
	}
	return out
}

// IntersectsFrustum returns false if the box is completely outside f. For each
// plane only the corner furthest along the normal is tested.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		pv := box.Max
		if p.Normal.X < 0 {
			pv.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			pv.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			pv.Z = box.Min.Z
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// BoundsOf returns the box around a set of points.
func BoundsOf(points []math.Vec3) AABB {
	out := EmptyAABB()
	for _, p := range points {
		out = out.MergePoint(p)
	}
	return out
}
