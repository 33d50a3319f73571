package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/scene"
)

type fakeInput struct {
	dx, dy int
	keys   map[int]bool
}

func (f *fakeInput) MouseMove() (int, int)  { return f.dx, f.dy }
func (f *fakeInput) KeyDown(key int) bool  { return f.keys[key] }

func held(keys ...int) *fakeInput {
	in := &fakeInput{keys: make(map[int]bool)}
	for _, k := range keys {
		in.keys[k] = true
	}
	return in
}

type flatGround float32

func (g flatGround) Height(math.Vec3) float32 { return float32(g) }

func assertVec3(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-4, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-4, msgAndArgs...)
}

func TestPitchStaysClamped(t *testing.T) {
	c := NewCameraController()
	node := scene.NewNode("cam")

	deltas := []int{500, 2000, -7, -3000, 12345, -99999, 1, 0, 901, -1801}
	for _, dy := range deltas {
		c.Update(&fakeInput{dy: dy}, node, 0.016)
		assert.GreaterOrEqual(t, c.Pitch, float32(-90))
		assert.LessOrEqual(t, c.Pitch, float32(90))
	}

	c.Pitch = 0
	c.Look(0, 2000)
	assert.Equal(t, float32(90), c.Pitch)
	c.Look(0, -5000)
	assert.Equal(t, float32(-90), c.Pitch)
}

func TestYawWraps(t *testing.T) {
	c := NewCameraController()
	c.Look(1000, 0)
	assert.InDelta(t, 100, c.Yaw, 1e-4)
	c.Look(3000, 0)
	assert.InDelta(t, 40, c.Yaw, 1e-3, "400 degrees wraps to 40")
	c.Look(-1000, 0)
	assert.InDelta(t, 300, c.Yaw, 1e-3)
	for i := 0; i < 100; i++ {
		c.Look(-777, 0)
		assert.GreaterOrEqual(t, c.Yaw, float32(0))
		assert.Less(t, c.Yaw, float32(360))
	}
}

func TestZeroInputChangesNothing(t *testing.T) {
	c := NewCameraController()
	c.Yaw, c.Pitch = 33, -12
	node := scene.NewNode("cam")
	node.SetPosition(math.NewVec3(4, 7, -20))
	node.SetRotation(c.Orientation())
	pos, rot := node.Position(), node.Rotation()

	for i := 0; i < 600; i++ {
		c.Update(held(), node, 1.0/60)
	}
	assert.Equal(t, pos, node.Position())
	assert.True(t, rot.ApproxEqual(node.Rotation()))
	assert.Equal(t, float32(33), c.Yaw)
	assert.Equal(t, float32(-12), c.Pitch)
}

func TestOppositeKeysCancel(t *testing.T) {
	c := NewCameraController()
	node := scene.NewNode("cam")
	node.SetPosition(math.NewVec3(1, 2, 3))

	c.Update(held(core.KeyW, core.KeyS), node, 0.5)
	assert.Equal(t, math.NewVec3(1, 2, 3), node.Position())

	c.Update(held(core.KeyA, core.KeyD), node, 0.5)
	assert.Equal(t, math.NewVec3(1, 2, 3), node.Position())

	c.Update(held(core.KeyW, core.KeyS, core.KeyD), node, 0.5)
	assertVec3(t, math.NewVec3(11, 2, 3), node.Position(), "only the unopposed key moves")
}

func TestMovementFollowsOrientation(t *testing.T) {
	c := NewCameraController()
	node := scene.NewNode("cam")

	c.Update(held(core.KeyW), node, 0.25)
	assertVec3(t, math.NewVec3(0, 0, 5), node.Position(), "speed 20 for a quarter second")

	node.SetPosition(math.Vec3Zero)
	c.Look(900, 0) // yaw 90: forward is +X
	c.Update(held(core.KeyW), node, 1)
	assertVec3(t, math.NewVec3(20, 0, 0), node.Position())

	node.SetPosition(math.Vec3Zero)
	c.Yaw, c.Pitch = 0, 0
	c.Look(0, 900) // pitch 90: forward is straight down
	c.Update(held(core.KeyW), node, 1)
	assertVec3(t, math.NewVec3(0, -20, 0), node.Position())

	node.SetPosition(math.Vec3Zero)
	c.Yaw, c.Pitch = 0, 0
	c.Update(held(core.KeyA), node, 1)
	assertVec3(t, math.NewVec3(-20, 0, 0), node.Position())
}

func TestCustomKeyBindings(t *testing.T) {
	c := NewCameraController()
	c.Keys = KeyBindings{Forward: core.KeyUp, Back: core.KeyDown, Left: core.KeyLeft, Right: core.KeyRight}
	node := scene.NewNode("cam")

	c.Update(held(core.KeyW), node, 1)
	assert.Equal(t, math.Vec3Zero, node.Position())
	c.Update(held(core.KeyUp), node, 1)
	assertVec3(t, math.NewVec3(0, 0, 20), node.Position())
}

func TestGroundClearance(t *testing.T) {
	c := NewCameraController()
	node := scene.NewNode("cam")
	node.SetPosition(math.NewVec3(0, 3, 0))

	c.Update(held(), node, 0.1)
	assert.Equal(t, float32(3), node.Position().Y, "free flight ignores the ground")

	c.Ground = flatGround(5)
	c.GroundClearance = 2
	c.Update(held(), node, 0.1)
	assert.Equal(t, float32(7), node.Position().Y)

	node.SetPosition(math.NewVec3(0, 50, 0))
	c.Update(held(), node, 0.1)
	assert.Equal(t, float32(50), node.Position().Y)
}

func TestCameraFollowsNodeRotation(t *testing.T) {
	c := NewCameraController()
	node, cam := CreateCamera()
	require.NotNil(t, cam)
	assert.Equal(t, float32(750), cam.FarClip)
	assert.Equal(t, math.NewVec3(0, 7, -20), node.Position())
	assert.Nil(t, node.Parent, "the camera node lives outside the scene graph")

	c.Look(900, 0)
	c.Update(held(), node, 0.016)
	assertVec3(t, math.Vec3Right, node.WorldDirection())
}
