package scene

import "terrain-sample/math"

// Component is behaviour or data attached to a Node.
type Component interface {
	Node() *Node
	SetNode(*Node)
}

// ComponentBase implements the node back-reference for embedding.
type ComponentBase struct {
	node *Node
}

func (c *ComponentBase) Node() *Node { return c.node }

func (c *ComponentBase) SetNode(n *Node) { c.node = n }

// worldMatrix is the owning node's world transform, or identity when detached.
func (c *ComponentBase) worldMatrix() math.Mat4 {
	if c.node == nil {
		return math.Mat4Identity()
	}
	return c.node.GetWorldMatrix()
}

// Batch is one draw call: geometry, surface and world transform.
type Batch struct {
	Mesh     *Mesh
	Material *Material
	World    math.Mat4
}

// Drawable is anything the octree can store and the renderer can draw.
type Drawable interface {
	WorldBoundingBox() AABB
	Batches() []Batch
	CastShadows() bool
	IsOccluder() bool
}

// DrawableSource is a component that contributes several drawables, such as
// the patches of a terrain.
type DrawableSource interface {
	Drawables() []Drawable
}
