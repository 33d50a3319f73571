package scene

import (
	"terrain-sample/core"
	"terrain-sample/math"
)

// Updatable components are stepped once per Scene.Update.
type Updatable interface {
	Update(timeStep float32)
}

// Scene owns the node hierarchy. The Octree must be added to Root before
// drawables can be queried.
type Scene struct {
	Root *Node

	defaultZone *Zone
	drawables   map[Drawable]struct{}
}

func NewScene() *Scene {
	dz := NewZone()
	dz.AmbientColor = core.NewGray(0.1)
	dz.FogColor = core.ColorBlack
	dz.FogStart, dz.FogEnd = 250, 1000
	return &Scene{
		Root:        NewNode("Scene"),
		defaultZone: dz,
		drawables:   make(map[Drawable]struct{}),
	}
}

func (s *Scene) CreateChild(name string) *Node {
	return s.Root.CreateChild(name)
}

func (s *Scene) Find(name string) *Node {
	return s.Root.Find(name)
}

// Octree returns the octree on the root node, or nil.
func (s *Scene) Octree() *Octree {
	o, _ := GetComponent[*Octree](s.Root)
	return o
}

// Update steps updatable components and keeps the octree in sync with the
// drawables currently in the hierarchy.
func (s *Scene) Update(timeStep float32) {
	seen := make(map[Drawable]struct{}, len(s.drawables))
	octree := s.Octree()

	s.Root.Traverse(func(n *Node) {
		for _, c := range n.Components() {
			if u, ok := c.(Updatable); ok {
				u.Update(timeStep)
			}
		}
	})

	for _, d := range s.Drawables() {
		seen[d] = struct{}{}
		if octree != nil {
			octree.Update(d)
		}
	}
	for d := range s.drawables {
		if _, ok := seen[d]; !ok && octree != nil {
			octree.Remove(d)
		}
	}
	s.drawables = seen
}

// Drawables lists every drawable on enabled nodes.
func (s *Scene) Drawables() []Drawable {
	var out []Drawable
	s.Root.Traverse(func(n *Node) {
		for _, c := range n.Components() {
			switch v := c.(type) {
			case Drawable:
				out = append(out, v)
			case DrawableSource:
				out = append(out, v.Drawables()...)
			}
		}
	})
	return out
}

func (s *Scene) Lights() []*Light {
	return collect[*Light](s.Root)
}

func (s *Scene) Zones() []*Zone {
	return collect[*Zone](s.Root)
}

func (s *Scene) Terrains() []*Terrain {
	return collect[*Terrain](s.Root)
}

// Skybox returns the first skybox in the scene, or nil.
func (s *Scene) Skybox() *Skybox {
	boxes := collect[*Skybox](s.Root)
	if len(boxes) == 0 {
		return nil
	}
	return boxes[0]
}

func collect[T Component](root *Node) []T {
	var out []T
	root.Traverse(func(n *Node) {
		for _, c := range n.Components() {
			if t, ok := c.(T); ok {
				out = append(out, t)
			}
		}
	})
	return out
}

// DefaultZone is used where no zone contains the camera.
func (s *Scene) DefaultZone() *Zone {
	return s.defaultZone
}

// ZoneAt returns the highest-priority zone containing p. Ties go to the zone
// found first.
func (s *Scene) ZoneAt(p math.Vec3) *Zone {
	var best *Zone
	for _, z := range s.Zones() {
		if !z.Contains(p) {
			continue
		}
		if best == nil || z.Priority > best.Priority {
			best = z
		}
	}
	if best == nil {
		return s.defaultZone
	}
	return best
}
