package scene

import (
	"terrain-sample/core"
	"terrain-sample/math"
)

type LightType int

// LightDirectional is the only type the renderer draws.
const LightDirectional LightType = 0

// MaxCascadeSplits is the number of shadow cascades a directional light can use.
const MaxCascadeSplits = 4

// BiasParameters offsets shadow map depth comparisons to avoid acne.
type BiasParameters struct {
	ConstantBias    float32
	SlopeScaledBias float32
}

// CascadeParameters describes directional shadow cascades. Splits are far
// distances from the camera; FadeStart is the fraction of the last split
// where shadows start fading out.
type CascadeParameters struct {
	Splits    [MaxCascadeSplits]float32
	FadeStart float32
}

// NewCascadeParameters takes split distances and the fade start fraction.
func NewCascadeParameters(split1, split2, split3, split4, fadeStart float32) CascadeParameters {
	return CascadeParameters{
		Splits:    [MaxCascadeSplits]float32{split1, split2, split3, split4},
		FadeStart: fadeStart,
	}
}

// NumSplits counts leading splits that are positive and increasing.
func (c CascadeParameters) NumSplits() int {
	n := 0
	prev := float32(0)
	for _, s := range c.Splits {
		if s <= prev {
			break
		}
		prev = s
		n++
	}
	return n
}

// SplitRange is the [Near, Far] view-depth interval covered by one cascade.
type SplitRange struct {
	Near, Far float32
}

// SplitRanges clips the cascades to the camera's depth range. A cascade that
// starts at or beyond far is dropped together with all following ones.
func (c CascadeParameters) SplitRanges(near, far float32) []SplitRange {
	var out []SplitRange
	start := near
	for i := 0; i < c.NumSplits(); i++ {
		if start >= far {
			break
		}
		end := c.Splits[i]
		if end > far {
			end = far
		}
		if end <= start {
			continue
		}
		out = append(out, SplitRange{Near: start, Far: end})
		start = end
	}
	return out
}

// ShadowRange is the distance beyond which no shadows are drawn.
func (c CascadeParameters) ShadowRange(far float32) float32 {
	n := c.NumSplits()
	if n == 0 {
		return 0
	}
	r := c.Splits[n-1]
	if r > far {
		r = far
	}
	return r
}

// ShadowFade returns the start and end of the shadow fade-out band.
func (c CascadeParameters) ShadowFade(far float32) (start, end float32) {
	end = c.ShadowRange(far)
	return c.FadeStart * end, end
}

// Light is a light source attached to a node. Directional lights shine along
// the node's +Z axis.
type Light struct {
	ComponentBase

	Type              LightType
	Color             core.Color
	SpecularIntensity float32
	Brightness        float32

	CastShadows     bool
	ShadowBias      BiasParameters
	ShadowCascade   CascadeParameters
	ShadowIntensity float32 // 0 = fully dark shadows, 1 = no shadowing
}

func NewLight(t LightType) *Light {
	return &Light{
		Type:              t,
		Color:             core.ColorWhite,
		SpecularIntensity: 1,
		Brightness:        1,
		ShadowBias:        BiasParameters{ConstantBias: 0.0002, SlopeScaledBias: 0.5},
		ShadowCascade:     NewCascadeParameters(10, 50, 200, 0, 0.8),
	}
}

// Direction is the world-space direction the light travels.
func (l *Light) Direction() math.Vec3 {
	if l.node == nil {
		return math.Vec3Forward
	}
	return l.node.WorldDirection().Normalize()
}

// EffectiveColor is Color scaled by Brightness.
func (l *Light) EffectiveColor() core.Color {
	return l.Color.Scale(l.Brightness)
}
