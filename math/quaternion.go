package math

import "math"

type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

// QuaternionFromAxisAngle builds a rotation of angle radians about axis.
func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	c := float32(math.Cos(float64(halfAngle)))

	axis = axis.Normalize()
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuaternionFromEuler builds a rotation from pitch (about X), yaw (about Y)
// and roll (about Z), all in degrees. Roll is applied first, then pitch, then
// yaw. Positive yaw turns +Z towards +X and positive pitch turns +Z towards -Y.
func QuaternionFromEuler(pitch, yaw, roll float32) Quaternion {
	qx := QuaternionFromAxisAngle(Vec3Right, Radians(pitch))
	qy := QuaternionFromAxisAngle(Vec3Up, Radians(yaw))
	qz := QuaternionFromAxisAngle(Vec3Forward, Radians(roll))
	return qy.Mul(qx).Mul(qz)
}

// QuaternionFromRotationTo returns the shortest rotation taking from onto to.
func QuaternionFromRotationTo(from, to Vec3) Quaternion {
	a := from.Normalize()
	b := to.Normalize()
	d := a.Dot(b)

	if d > 1-Epsilon {
		return QuaternionIdentity()
	}
	if d < -1+Epsilon {
		axis := Vec3Right.Cross(a)
		if axis.LengthSqr() < Epsilon {
			axis = Vec3Up.Cross(a)
		}
		return QuaternionFromAxisAngle(axis, math.Pi)
	}

	c := a.Cross(b)
	s := float32(math.Sqrt(float64((1 + d) * 2)))
	inv := 1 / s
	return Quaternion{X: c.X * inv, Y: c.Y * inv, Z: c.Z * inv, W: s * 0.5}.Normalize()
}

// Mul returns the Hamilton product; other is applied first.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Normalize() Quaternion {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length > 0 {
		inv := 1 / length
		return Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
	}
	return q
}

// Conjugate is the inverse for unit quaternions.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qVec := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qVec.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qVec.Cross(t))
}

// ApproxEqual treats q and -q as the same rotation.
func (q Quaternion) ApproxEqual(other Quaternion) bool {
	d := q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
	return ApproxEqual(float32(math.Abs(float64(d))), 1)
}

// ToMat4 returns the rotation matrix for row vectors.
func (q Quaternion) ToMat4() Mat4 {
	xx := q.X * q.X
	yy := q.Y * q.Y
	zz := q.Z * q.Z
	xy := q.X * q.Y
	xz := q.X * q.Z
	yz := q.Y * q.Z
	wx := q.W * q.X
	wy := q.W * q.Y
	wz := q.W * q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}
