package scene

import (
	stdmath "math"

	"terrain-sample/math"
)

// shadowCasterMargin pushes the light camera back so casters outside the
// view slice still land in the map.
const shadowCasterMargin = 500

// ShadowCascade is the light-space camera for one directional split.
type ShadowCascade struct {
	Split          SplitRange
	View           math.Mat4
	Projection     math.Mat4
	ViewProjection math.Mat4
	Frustum        Frustum
}

// FitCascades builds one orthographic light camera per cascade split of
// light, each enclosing the matching slice of cam's frustum. Projections are
// snapped to whole shadow-map texels so the map does not shimmer as the camera
// moves.
func FitCascades(cam *Camera, light *Light, mapSize int) []ShadowCascade {
	if light == nil || !light.CastShadows || light.Type != LightDirectional || mapSize <= 4 {
		return nil
	}
	ranges := light.ShadowCascade.SplitRanges(cam.NearClip, cam.FarClip)
	if len(ranges) == 0 {
		return nil
	}

	dir := light.Direction()
	rot := math.QuaternionFromRotationTo(math.Vec3Forward, dir)
	size := float32(mapSize)

	out := make([]ShadowCascade, 0, len(ranges))
	for _, r := range ranges {
		corners := cam.FrustumCorners(r.Near, r.Far)
		center := math.Vec3Zero
		for _, c := range corners {
			center = center.Add(c)
		}
		center = center.Mul(1.0 / 8)

		var radius float32
		for _, c := range corners {
			if d := c.Distance(center); d > radius {
				radius = d
			}
		}
		// Quantize so the box size only changes in coarse steps.
		radius = float32(stdmath.Ceil(float64(radius)*16) / 16)
		// Leave a border for the filter kernel.
		radius *= size / (size - 4)

		eye := center.Sub(dir.Mul(radius + shadowCasterMargin))
		view := math.Mat4View(eye, rot)
		proj := math.Mat4Orthographic(-radius, radius, -radius, radius, 0, 2*radius+shadowCasterMargin)

		origin := view.Mul(proj).MulVec3(math.Vec3Zero)
		texel := 2 / size
		proj[3][0] += snap(origin.X, texel) - origin.X
		proj[3][1] += snap(origin.Y, texel) - origin.Y

		vp := view.Mul(proj)
		out = append(out, ShadowCascade{
			Split:          r,
			View:           view,
			Projection:     proj,
			ViewProjection: vp,
			Frustum:        FrustumFromVP(vp),
		})
	}
	return out
}

func snap(v, step float32) float32 {
	return float32(stdmath.Round(float64(v/step))) * step
}
