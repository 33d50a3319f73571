package sample

import (
	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/scene"
)

const (
	DefaultMoveSpeed   = 20  // world units per second
	DefaultSensitivity = 0.1 // degrees per pixel of mouse motion

	maxPitch = 90
)

// InputState is the per-frame input the controller reads. *core.Input
// implements it.
type InputState interface {
	MouseMove() (dx, dy int)
	KeyDown(key int) bool
}

// Transformable is the node the controller moves. *scene.Node implements it.
type Transformable interface {
	Position() math.Vec3
	SetPosition(pos math.Vec3)
	SetRotation(rot math.Quaternion)
	Translate(delta math.Vec3, space scene.Space)
}

// HeightField reports the ground height under a world position.
// *scene.Terrain implements it.
type HeightField interface {
	Height(worldPos math.Vec3) float32
}

type KeyBindings struct {
	Forward, Back, Left, Right int
}

func DefaultKeyBindings() KeyBindings {
	return KeyBindings{Forward: core.KeyW, Back: core.KeyS, Left: core.KeyA, Right: core.KeyD}
}

// CameraController is a free-fly mouse-look camera. Yaw and Pitch are in
// degrees: yaw is kept in [0, 360) and pitch in [-90, 90]. Positive pitch
// looks down, matching screen-space mouse motion.
type CameraController struct {
	MoveSpeed   float32
	Sensitivity float32
	Keys        KeyBindings

	Yaw   float32
	Pitch float32

	// With GroundClearance > 0 and a Ground set, the camera never drops below
	// that height above the ground.
	GroundClearance float32
	Ground          HeightField
}

func NewCameraController() *CameraController {
	return &CameraController{
		MoveSpeed:   DefaultMoveSpeed,
		Sensitivity: DefaultSensitivity,
		Keys:        DefaultKeyBindings(),
	}
}

// Orientation is the rotation built from the current pitch and yaw, with no
// roll.
func (c *CameraController) Orientation() math.Quaternion {
	return math.QuaternionFromEuler(c.Pitch, c.Yaw, 0)
}

// Look applies one frame of mouse motion.
func (c *CameraController) Look(dx, dy int) {
	c.Yaw = math.WrapDegrees(c.Yaw + float32(dx)*c.Sensitivity)
	c.Pitch = math.Clamp(c.Pitch+float32(dy)*c.Sensitivity, -maxPitch, maxPitch)
}

// Update turns node from the mouse motion and moves it along its local axes
// for every held movement key. Opposite keys held together cancel out.
func (c *CameraController) Update(in InputState, node Transformable, timeStep float32) {
	c.Look(in.MouseMove())
	node.SetRotation(c.Orientation())

	var dir math.Vec3
	if in.KeyDown(c.Keys.Forward) {
		dir = dir.Add(math.Vec3Forward)
	}
	if in.KeyDown(c.Keys.Back) {
		dir = dir.Add(math.Vec3Back)
	}
	if in.KeyDown(c.Keys.Left) {
		dir = dir.Add(math.Vec3Left)
	}
	if in.KeyDown(c.Keys.Right) {
		dir = dir.Add(math.Vec3Right)
	}
	if dir != math.Vec3Zero && timeStep > 0 {
		node.Translate(dir.Mul(c.MoveSpeed*timeStep), scene.SpaceLocal)
	}

	if c.GroundClearance > 0 && c.Ground != nil {
		pos := node.Position()
		if floor := c.Ground.Height(pos) + c.GroundClearance; pos.Y < floor {
			pos.Y = floor
			node.SetPosition(pos)
		}
	}
}
