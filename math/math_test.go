package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func assertVec3(t *testing.T, expected, actual Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tolerance, "X")
	assert.InDelta(t, expected.Y, actual.Y, tolerance, "Y")
	assert.InDelta(t, expected.Z, actual.Z, tolerance, "Z")
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))
	assert.Equal(t, NewVec3(1, 2, 3), v1.Min(v2.Mul(10)))
	assert.Equal(t, NewVec3(4, 5, 6), v1.Max(v2))

	// left-handed: right x up = forward
	assert.Equal(t, Vec3Forward, Vec3Right.Cross(Vec3Up))
}

func TestVec3Normalize(t *testing.T) {
	n := NewVec3(3, 0, 0).Normalize()
	assert.Equal(t, NewVec3(1, 0, 0), n)
	assert.InDelta(t, 1, n.Length(), tolerance)

	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize(), "zero vector stays zero")
}

func TestScalarHelpers(t *testing.T) {
	assert.Equal(t, float32(-90), Clamp(-120, -90, 90))
	assert.Equal(t, float32(90), Clamp(91, -90, 90))
	assert.Equal(t, float32(12.5), Clamp(12.5, -90, 90))

	assert.InDelta(t, 10, WrapDegrees(370), tolerance)
	assert.InDelta(t, 350, WrapDegrees(-10), tolerance)
	assert.InDelta(t, 0, WrapDegrees(720), tolerance)
	w := WrapDegrees(-1e-9)
	assert.True(t, w >= 0 && w < 360)

	assert.InDelta(t, 0.25, Fract(3.25), tolerance)
	assert.InDelta(t, 0.75, Fract(-0.25), tolerance)
	assert.InDelta(t, 180, Degrees(Radians(180)), tolerance)
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	assert.Equal(t, translation, m.Translation())
	assert.Equal(t, translation, m.MulVec3(Vec3Zero))
	assert.Equal(t, Vec3Up, m.MulDir(Vec3Up), "directions ignore translation")
}

func TestMat4TRSOrder(t *testing.T) {
	rot := QuaternionFromEuler(0, 90, 0)
	m := Mat4TRS(NewVec3(10, 0, 0), rot, NewVec3(2, 2, 2))

	// scale, then rotate +Z onto +X, then translate
	assertVec3(t, NewVec3(12, 0, 0), m.MulVec3(Vec3Forward))
}

func TestMat4Inverse(t *testing.T) {
	m := Mat4TRS(NewVec3(3, -4, 5), QuaternionFromEuler(30, 45, 10), NewVec3(1, 2, 3))
	inv := m.Inverse()
	product := m.Mul(inv)

	identity := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, identity[i][j], product[i][j], tolerance, "[%d][%d]", i, j)
		}
	}

	var singular Mat4
	assert.Equal(t, Mat4Identity(), singular.Inverse())
}

func TestMat4PerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(750)
	proj := Mat4Perspective(Radians(45), 800.0/600.0, near, far)

	nearClip := NewVec3(0, 0, near).ToVec4(1).MulMat(proj).ToVec3DivW()
	farClip := NewVec3(0, 0, far).ToVec4(1).MulMat(proj).ToVec3DivW()

	assert.InDelta(t, -1, nearClip.Z, tolerance)
	assert.InDelta(t, 1, farClip.Z, 1e-3)
}

func TestMat4OrthographicDepthRange(t *testing.T) {
	proj := Mat4Orthographic(-10, 10, -5, 5, 0, 100)

	assertVec3(t, NewVec3(-1, -1, -1), proj.MulVec3(NewVec3(-10, -5, 0)))
	assertVec3(t, NewVec3(1, 1, 1), proj.MulVec3(NewVec3(10, 5, 100)))
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, -5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	assertVec3(t, Vec3Zero, m.MulVec3(eye))
	// target ends up straight ahead on +Z
	assertVec3(t, NewVec3(0, 0, 5), m.MulVec3(Vec3Zero))
}

func TestMat4ViewMatchesLookAt(t *testing.T) {
	eye := NewVec3(1, 2, 3)
	view := Mat4View(eye, QuaternionIdentity())
	lookAt := Mat4LookAt(eye, eye.Add(Vec3Forward), Vec3Up)

	p := NewVec3(4, -1, 7)
	assertVec3(t, lookAt.MulVec3(p), view.MulVec3(p))
}

func TestQuaternionIdentity(t *testing.T) {
	q := QuaternionIdentity()
	assert.Equal(t, Quaternion{0, 0, 0, 1}, q)
	assert.Equal(t, Vec3Forward, q.RotateVector(Vec3Forward))
}

func TestQuaternionAxisAngle(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, Radians(90))
	assertVec3(t, Vec3Back, q.RotateVector(Vec3Right))
	assertVec3(t, Vec3Right, q.RotateVector(Vec3Forward))
}

func TestQuaternionFromEuler(t *testing.T) {
	tests := []struct {
		name             string
		pitch, yaw, roll float32
		expected         Vec3
	}{
		{"identity", 0, 0, 0, Vec3Forward},
		{"yaw right", 0, 90, 0, Vec3Right},
		{"yaw left", 0, -90, 0, Vec3Left},
		{"pitch down", 90, 0, 0, Vec3Down},
		{"pitch up", -90, 0, 0, Vec3Up},
		{"roll keeps forward", 0, 0, 45, Vec3Forward},
		{"yaw after pitch", 45, 90, 0, NewVec3(0.70710677, -0.70710677, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuaternionFromEuler(tt.pitch, tt.yaw, tt.roll)
			assertVec3(t, tt.expected, q.RotateVector(Vec3Forward))
		})
	}
}

func TestQuaternionMatrixAgreesWithRotateVector(t *testing.T) {
	q := QuaternionFromEuler(-20, 135, 5)
	v := NewVec3(0.3, -1.2, 2)
	assertVec3(t, q.RotateVector(v), q.ToMat4().MulVec3(v))
}

func TestQuaternionFromRotationTo(t *testing.T) {
	dirs := []Vec3{
		NewVec3(0.6, -1, 0.8),
		Vec3Right,
		Vec3Back,
		Vec3Down,
		Vec3Forward,
	}
	for _, d := range dirs {
		q := QuaternionFromRotationTo(Vec3Forward, d)
		assertVec3(t, d.Normalize(), q.RotateVector(Vec3Forward))
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4TRS(NewVec3(1, 2, 3), QuaternionFromEuler(10, 20, 30), Vec3One)
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
