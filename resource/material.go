package resource

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/scene"
)

// materialFile is the YAML layout of a material definition:
//
//	technique: terrainblend
//	diffuse_color: [1, 1, 1]
//	specular_intensity: 0.5
//	textures:
//	  weight: Textures/TerrainWeights.png
//	  detail1: Textures/TerrainDetail1.png
//	detail_repeat: [32, 32]
type materialFile struct {
	Technique         string            `yaml:"technique"`
	DiffuseColor      []float32         `yaml:"diffuse_color"`
	SpecularIntensity *float32          `yaml:"specular_intensity"`
	SpecularPower     *float32          `yaml:"specular_power"`
	Textures          map[string]string `yaml:"textures"`
	DetailRepeat      []float32         `yaml:"detail_repeat"`
	Zenith            []float32         `yaml:"zenith"`
	Horizon           []float32         `yaml:"horizon"`
	Ground            []float32         `yaml:"ground"`
}

var unitNames = map[string]scene.TextureUnit{
	"diffuse": scene.UnitDiffuse,
	"weight":  scene.UnitDiffuse,
	"detail1": scene.UnitDetail1,
	"detail2": scene.UnitDetail2,
	"detail3": scene.UnitDetail3,
}

var faceNames = map[string]int{
	"posx": scene.FacePositiveX,
	"negx": scene.FaceNegativeX,
	"posy": scene.FacePositiveY,
	"negy": scene.FaceNegativeY,
	"posz": scene.FacePositiveZ,
	"negz": scene.FaceNegativeZ,
}

// GetMaterial loads a YAML material definition and the textures it names.
// A texture that cannot be loaded leaves its unit empty and is logged; a
// cube sky with missing faces falls back to the gradient sky.
func (c *Cache) GetMaterial(name string) (*scene.Material, error) {
	key := core.NewPathHash(name)
	if m, ok := c.materials.Get(key); ok {
		return m, nil
	}
	path, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	m, err := c.parseMaterial(name, data)
	if err != nil {
		return nil, err
	}
	c.materials.Put(key, m)
	c.log.WithFields(logrus.Fields{"material": name, "technique": m.Technique}).Debug("loaded material")
	return m, nil
}

func (c *Cache) parseMaterial(name string, data []byte) (*scene.Material, error) {
	var def materialFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrapf(err, "decode material %s", name)
	}

	m := scene.DefaultMaterial()
	m.Name = name
	if def.Technique != "" {
		t, ok := scene.ParseTechnique(def.Technique)
		if !ok {
			return nil, errors.Errorf("material %s: unknown technique %q", name, def.Technique)
		}
		m.Technique = t
	}
	if m.Technique == scene.TechniqueSkyboxGradient {
		sky := scene.GradientSkyMaterial()
		m.Zenith, m.Horizon, m.Ground = sky.Zenith, sky.Horizon, sky.Ground
	}

	var err error
	if m.DiffuseColor, err = parseColor(def.DiffuseColor, m.DiffuseColor); err != nil {
		return nil, errors.Wrapf(err, "material %s: diffuse_color", name)
	}
	if m.Zenith, err = parseColor(def.Zenith, m.Zenith); err != nil {
		return nil, errors.Wrapf(err, "material %s: zenith", name)
	}
	if m.Horizon, err = parseColor(def.Horizon, m.Horizon); err != nil {
		return nil, errors.Wrapf(err, "material %s: horizon", name)
	}
	if m.Ground, err = parseColor(def.Ground, m.Ground); err != nil {
		return nil, errors.Wrapf(err, "material %s: ground", name)
	}
	if def.SpecularIntensity != nil {
		m.SpecularIntensity = *def.SpecularIntensity
	}
	if def.SpecularPower != nil {
		m.SpecularPower = *def.SpecularPower
	}
	switch len(def.DetailRepeat) {
	case 0:
	case 1:
		m.DetailRepeat = math.Vec2{X: def.DetailRepeat[0], Y: def.DetailRepeat[0]}
	case 2:
		m.DetailRepeat = math.Vec2{X: def.DetailRepeat[0], Y: def.DetailRepeat[1]}
	default:
		return nil, errors.Errorf("material %s: detail_repeat wants 1 or 2 values", name)
	}

	cube := &scene.CubeMap{Name: name}
	for unit, file := range def.Textures {
		log := c.log.WithFields(logrus.Fields{"material": name, "unit": unit, "texture": file})
		if face, ok := faceNames[unit]; ok {
			img, err := c.GetImage(file)
			if err != nil {
				log.WithError(err).Warn("cube face not loaded")
				continue
			}
			cube.Faces[face] = img
			continue
		}
		u, ok := unitNames[unit]
		if !ok {
			log.Warn("unknown texture unit")
			continue
		}
		tex, err := c.GetTexture(file)
		if err != nil {
			log.WithError(err).Warn("texture not loaded")
			continue
		}
		m.SetTexture(u, tex)
	}

	if m.Technique == scene.TechniqueSkyboxCube {
		if err := cube.Validate(); err != nil {
			c.log.WithError(err).Warn("using gradient sky")
			sky := scene.GradientSkyMaterial()
			sky.Name = name
			return sky, nil
		}
		m.CubeMap = cube
	}
	return m, nil
}

func parseColor(v []float32, fallback core.Color) (core.Color, error) {
	switch len(v) {
	case 0:
		return fallback, nil
	case 3:
		return core.Color{R: v[0], G: v[1], B: v[2], A: 1}, nil
	case 4:
		return core.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
	}
	return fallback, errors.Errorf("colour wants 3 or 4 values, got %d", len(v))
}
