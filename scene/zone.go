package scene

import (
	"terrain-sample/core"
	"terrain-sample/math"
)

// Zone defines ambient light and linear distance fog for the region inside
// its bounding box.
type Zone struct {
	ComponentBase

	// BoundingBox is in the node's local space.
	BoundingBox  AABB
	AmbientColor core.Color
	FogColor     core.Color
	FogStart     float32
	FogEnd       float32
	Priority     int
}

func NewZone() *Zone {
	return &Zone{
		BoundingBox:  AABB{Min: math.Vec3{X: -10, Y: -10, Z: -10}, Max: math.Vec3{X: 10, Y: 10, Z: 10}},
		AmbientColor: core.NewGray(0.1),
		FogColor:     core.ColorBlack,
		FogStart:     250,
		FogEnd:       1000,
	}
}

func (z *Zone) WorldBoundingBox() AABB {
	return z.BoundingBox.Transformed(z.worldMatrix())
}

// Contains reports whether a world-space point lies inside the zone.
func (z *Zone) Contains(p math.Vec3) bool {
	return z.WorldBoundingBox().ContainsPoint(p)
}

// FogFactor returns how much fog colour replaces a surface at view depth
// depth: 0 before FogStart, 1 past FogEnd, linear between.
func (z *Zone) FogFactor(depth float32) float32 {
	if z.FogEnd <= z.FogStart {
		if depth >= z.FogEnd {
			return 1
		}
		return 0
	}
	return math.Clamp((depth-z.FogStart)/(z.FogEnd-z.FogStart), 0, 1)
}
