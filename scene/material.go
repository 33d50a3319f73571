package scene

import (
	"terrain-sample/core"
	"terrain-sample/math"
)

// Technique selects the shader program a material is drawn with.
type Technique int

const (
	TechniqueDiffuse Technique = iota
	// TechniqueTerrainBlend blends three detail textures by the RGB weights
	// of the texture in the diffuse unit.
	TechniqueTerrainBlend
	TechniqueSkyboxCube
	TechniqueSkyboxGradient
)

var techniqueNames = map[string]Technique{
	"diffuse":         TechniqueDiffuse,
	"terrainblend":    TechniqueTerrainBlend,
	"skybox-cube":     TechniqueSkyboxCube,
	"skybox-gradient": TechniqueSkyboxGradient,
}

// ParseTechnique maps a technique name from a material file.
func ParseTechnique(name string) (Technique, bool) {
	t, ok := techniqueNames[name]
	return t, ok
}

func (t Technique) String() string {
	for name, v := range techniqueNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}

func (t Technique) IsSkybox() bool {
	return t == TechniqueSkyboxCube || t == TechniqueSkyboxGradient
}

// TextureUnit indexes Material.Textures.
type TextureUnit int

const (
	UnitDiffuse TextureUnit = iota // weight map for TechniqueTerrainBlend
	UnitDetail1
	UnitDetail2
	UnitDetail3
	MaxMaterialUnits
)

// Material describes how a surface is shaded.
type Material struct {
	Name      string
	Technique Technique

	DiffuseColor core.Color
	// SpecularIntensity scales the light's specular contribution.
	SpecularIntensity float32
	SpecularPower     float32

	Textures [MaxMaterialUnits]*Texture
	// DetailRepeat is how many times detail textures tile across UV 0..1.
	DetailRepeat math.Vec2

	CubeMap *CubeMap

	// Gradient sky colours for TechniqueSkyboxGradient.
	Zenith  core.Color
	Horizon core.Color
	Ground  core.Color
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:              "Default",
		Technique:         TechniqueDiffuse,
		DiffuseColor:      core.ColorWhite,
		SpecularIntensity: 0,
		SpecularPower:     16,
		DetailRepeat:      math.Vec2{X: 1, Y: 1},
	}
}

// GradientSkyMaterial is the procedural sky drawn when no cube map is
// available.
func GradientSkyMaterial() *Material {
	return &Material{
		Name:         "GradientSky",
		Technique:    TechniqueSkyboxGradient,
		DiffuseColor: core.ColorWhite,
		DetailRepeat: math.Vec2{X: 1, Y: 1},
		Zenith:       core.Color{R: 0.18, G: 0.35, B: 0.75, A: 1},
		Horizon:      core.Color{R: 0.75, G: 0.85, B: 0.95, A: 1},
		Ground:       core.Color{R: 0.35, G: 0.33, B: 0.30, A: 1},
	}
}

// Texture returns the texture bound to unit, or nil.
func (m *Material) Texture(unit TextureUnit) *Texture {
	if unit < 0 || unit >= MaxMaterialUnits {
		return nil
	}
	return m.Textures[unit]
}

func (m *Material) SetTexture(unit TextureUnit, tex *Texture) {
	if unit >= 0 && unit < MaxMaterialUnits {
		m.Textures[unit] = tex
	}
}
