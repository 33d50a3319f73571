// Package resource finds asset files under the configured resource
// directories and keeps one decoded copy of each.
package resource

import (
	"os"
	"path/filepath"

	"github.com/kamstrup/intmap"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"terrain-sample/core"
	"terrain-sample/scene"
)

// ErrNotFound is the cause of every lookup that matches no file.
var ErrNotFound = errors.New("resource not found")

// Cache loads models, materials and images by relative name. Loaded
// resources are shared: asking twice for a name returns the same pointer.
// Names are case-sensitive. Failed loads are not remembered. A Cache is used from the main loop only.
type Cache struct {
	dirs []string
	log  *logrus.Entry

	models    *intmap.Map[core.StringHash, *scene.Model]
	materials *intmap.Map[core.StringHash, *scene.Material]
	images    *intmap.Map[core.StringHash, *scene.Image]
	textures  *intmap.Map[core.StringHash, *scene.Texture]
}

// NewCache searches prefix/resource for every pair, prefix-major. Pairs that
// are not existing directories are skipped.
func NewCache(prefixPaths, resourcePaths []string, log *logrus.Entry) *Cache {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &Cache{log: log.WithField("subsystem", "resource")}
	c.ReleaseAll()

	if len(prefixPaths) == 0 {
		prefixPaths = []string{"."}
	}
	for _, prefix := range prefixPaths {
		for _, res := range resourcePaths {
			c.AddResourceDir(filepath.Join(prefix, res))
		}
	}
	if len(c.dirs) == 0 {
		c.log.WithFields(logrus.Fields{
			"prefixes":  prefixPaths,
			"resources": resourcePaths,
		}).Warn("no resource directories found")
	}
	return c
}

// AddResourceDir appends dir to the search list if it is a directory not
// already listed.
func (c *Cache) AddResourceDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	clean := filepath.Clean(dir)
	for _, d := range c.dirs {
		if d == clean {
			return false
		}
	}
	c.dirs = append(c.dirs, clean)
	c.log.WithField("dir", clean).Debug("added resource directory")
	return true
}

// Dirs returns the search list in lookup order.
func (c *Cache) Dirs() []string {
	return append([]string(nil), c.dirs...)
}

// Resolve returns the path of the first file called name in the search list.
// Names use forward slashes.
func (c *Cache) Resolve(name string) (string, error) {
	if name == "" {
		return "", errors.Wrap(ErrNotFound, "empty name")
	}
	if filepath.IsAbs(name) {
		if isFile(name) {
			return name, nil
		}
		return "", errors.Wrap(ErrNotFound, name)
	}
	rel := filepath.FromSlash(name)
	for _, dir := range c.dirs {
		p := filepath.Join(dir, rel)
		if isFile(p) {
			return p, nil
		}
	}
	return "", errors.Wrap(ErrNotFound, name)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// IsNotFound reports whether err was caused by a missing resource.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// GetModel loads a glTF model.
func (c *Cache) GetModel(name string) (*scene.Model, error) {
	key := core.NewPathHash(name)
	if m, ok := c.models.Get(key); ok {
		return m, nil
	}
	path, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	m, err := scene.LoadModel(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load model %s", name)
	}
	m.Name = name
	c.models.Put(key, m)
	c.log.WithFields(logrus.Fields{"model": name, "meshes": len(m.Meshes)}).Debug("loaded model")
	return m, nil
}

// GetImage loads and decodes a PNG or JPEG image.
func (c *Cache) GetImage(name string) (*scene.Image, error) {
	key := core.NewPathHash(name)
	if img, ok := c.images.Get(key); ok {
		return img, nil
	}
	path, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()

	img, err := scene.DecodeImage(name, f)
	if err != nil {
		return nil, err
	}
	c.images.Put(key, img)
	c.log.WithFields(logrus.Fields{
		"image":      name,
		"size":       [2]int{img.Width, img.Height},
		"components": img.Components,
	}).Debug("loaded image")
	return img, nil
}

// GetTexture wraps the image called name in a shared Texture.
func (c *Cache) GetTexture(name string) (*scene.Texture, error) {
	key := core.NewPathHash(name)
	if t, ok := c.textures.Get(key); ok {
		return t, nil
	}
	img, err := c.GetImage(name)
	if err != nil {
		return nil, err
	}
	t := scene.NewTexture(img)
	c.textures.Put(key, t)
	return t, nil
}

// NumResources counts cached entries of every kind.
func (c *Cache) NumResources() int {
	return c.models.Len() + c.materials.Len() + c.images.Len() + c.textures.Len()
}

// ReleaseAll drops every cached resource. GPU objects owned by the renderer
// are not freed here.
func (c *Cache) ReleaseAll() {
	c.models = intmap.New[core.StringHash, *scene.Model](8)
	c.materials = intmap.New[core.StringHash, *scene.Material](8)
	c.images = intmap.New[core.StringHash, *scene.Image](8)
	c.textures = intmap.New[core.StringHash, *scene.Texture](8)
}
