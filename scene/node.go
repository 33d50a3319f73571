package scene

import (
	"terrain-sample/core"
	"terrain-sample/math"
)

// Space selects the frame a translation is expressed in.
type Space int

const (
	SpaceLocal Space = iota // rotated by the node's own orientation
	SpaceParent
	SpaceWorld
)

// Node is an object in the scene graph. It owns a local transform, child
// nodes and components.
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Enabled   bool
	ID        uint32

	components []Component

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      math.Mat4
}

var nodeIDCounter uint32

func NewNode(name string) *Node {
	nodeIDCounter++
	return &Node{
		Name:             name,
		Transform:        core.NewTransform(),
		Enabled:          true,
		ID:               nodeIDCounter,
		worldMatrixDirty: true,
	}
}

// CreateChild creates a named node parented to n.
func (n *Node) CreateChild(name string) *Node {
	child := NewNode(name)
	n.AddChild(child)
	return child
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

// RemoveAllChildren detaches every child and its components from n.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.Children {
		c.Parent = nil
		c.MarkWorldMatrixDirty()
	}
	n.Children = nil
}

// AddComponent attaches c to n. A component belongs to at most one node.
func (n *Node) AddComponent(c Component) {
	if prev := c.Node(); prev != nil && prev != n {
		prev.RemoveComponent(c)
	}
	c.SetNode(n)
	n.components = append(n.components, c)
}

func (n *Node) RemoveComponent(c Component) {
	for i, existing := range n.components {
		if existing == c {
			n.components = append(n.components[:i], n.components[i+1:]...)
			c.SetNode(nil)
			return
		}
	}
}

func (n *Node) Components() []Component {
	return n.components
}

// GetComponent returns the first component of type T attached to n.
func GetComponent[T Component](n *Node) (T, bool) {
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func (n *Node) GetWorldMatrix() math.Mat4 {
	if n.worldMatrixDirty {
		local := n.Transform.GetMatrix()
		if n.Parent != nil {
			n.worldMatrix = local.Mul(n.Parent.GetWorldMatrix())
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot math.Quaternion) {
	n.Transform.Rotation = rot.Normalize()
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale math.Vec3) {
	n.Transform.Scale = scale
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetUniformScale(s float32) {
	n.SetScale(math.Vec3{X: s, Y: s, Z: s})
}

// SetDirection orients the node so its local +Z axis points along dir.
func (n *Node) SetDirection(dir math.Vec3) {
	n.SetRotation(math.QuaternionFromRotationTo(math.Vec3Forward, dir))
}

func (n *Node) Position() math.Vec3 {
	return n.Transform.Position
}

func (n *Node) Rotation() math.Quaternion {
	return n.Transform.Rotation
}

// Translate moves the node by delta expressed in the given space.
func (n *Node) Translate(delta math.Vec3, space Space) {
	switch space {
	case SpaceLocal:
		delta = n.Transform.Rotation.RotateVector(delta)
	case SpaceWorld:
		if n.Parent != nil {
			delta = n.Parent.GetWorldMatrix().Inverse().MulDir(delta)
		}
	}
	n.Transform.Position = n.Transform.Position.Add(delta)
	n.MarkWorldMatrixDirty()
}

func (n *Node) WorldPosition() math.Vec3 {
	return n.GetWorldMatrix().Translation()
}

func (n *Node) WorldRotation() math.Quaternion {
	rot := n.Transform.Rotation
	for p := n.Parent; p != nil; p = p.Parent {
		rot = p.Transform.Rotation.Mul(rot)
	}
	return rot
}

// WorldDirection is the node's +Z axis in world space.
func (n *Node) WorldDirection() math.Vec3 {
	return n.WorldRotation().RotateVector(math.Vec3Forward)
}

func (n *Node) WorldScale() math.Vec3 {
	s := n.Transform.Scale
	for p := n.Parent; p != nil; p = p.Parent {
		s = s.MulVec(p.Transform.Scale)
	}
	return s
}

func (n *Node) GetForward() math.Vec3 {
	return n.Transform.GetForward()
}

func (n *Node) GetRight() math.Vec3 {
	return n.Transform.GetRight()
}

func (n *Node) GetUp() math.Vec3 {
	return n.Transform.GetUp()
}

// Traverse visits enabled nodes depth-first, parents before children.
func (n *Node) Traverse(callback func(*Node)) {
	if !n.Enabled {
		return
	}
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
