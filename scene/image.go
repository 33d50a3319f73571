package scene

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pkg/errors"
)

// Image holds decoded pixels in RGBA8, row-major, top row first.
//
// Components records how many channels the source carried: 1 for 8-bit
// gray, 2 for 16-bit gray (high byte in R, low byte in G) and 4 otherwise.
type Image struct {
	Name       string
	Width      int
	Height     int
	Components int
	Pixels     []byte
}

// DecodeImage reads a PNG or JPEG stream.
func DecodeImage(name string, r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decode image %q", name)
	}
	return FromImage(name, src), nil
}

// FromImage converts any image.Image to RGBA8.
func FromImage(name string, src image.Image) *Image {
	b := src.Bounds()
	out := &Image{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]byte, b.Dx()*b.Dy()*4),
	}

	switch img := src.(type) {
	case *image.Gray:
		out.Components = 1
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				v := img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
				out.setPixel(x, y, v, v, v, 255)
			}
		}
	case *image.Gray16:
		out.Components = 2
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				v := img.Gray16At(b.Min.X+x, b.Min.Y+y).Y
				out.setPixel(x, y, uint8(v>>8), uint8(v), 0, 255)
			}
		}
	default:
		out.Components = 4
		rgba := image.NewRGBA(image.Rect(0, 0, out.Width, out.Height))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
		copy(out.Pixels, rgba.Pix)
	}
	return out
}

// NewSolidImage returns a 1x1 RGBA image.
func NewSolidImage(name string, c color.RGBA) *Image {
	return &Image{
		Name:       name,
		Width:      1,
		Height:     1,
		Components: 4,
		Pixels:     []byte{c.R, c.G, c.B, c.A},
	}
}

// NewGrayImage returns a flat single-channel image filled with v.
func NewGrayImage(name string, width, height int, v uint8) *Image {
	img := &Image{Name: name, Width: width, Height: height, Components: 1,
		Pixels: make([]byte, width*height*4)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.setPixel(x, y, v, v, v, 255)
		}
	}
	return img
}

func (img *Image) setPixel(x, y int, r, g, b, a uint8) {
	i := (y*img.Width + x) * 4
	img.Pixels[i] = r
	img.Pixels[i+1] = g
	img.Pixels[i+2] = b
	img.Pixels[i+3] = a
}

// At returns the RGBA bytes at (x, y), clamping coordinates to the edges.
func (img *Image) At(x, y int) (r, g, b, a uint8) {
	x = clampInt(x, 0, img.Width-1)
	y = clampInt(y, 0, img.Height-1)
	i := (y*img.Width + x) * 4
	return img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], img.Pixels[i+3]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Texture is a 2D image as sampled by a material. GLID is set by the OpenGL
// backend after upload.
type Texture struct {
	Name  string
	Image *Image
	GLID  uint32
}

func NewTexture(img *Image) *Texture {
	return &Texture{Name: img.Name, Image: img}
}

// Cube map face order: +X, -X, +Y, -Y, +Z, -Z.
const (
	FacePositiveX = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
	CubeFaceCount
)

// CubeMap holds six square face images.
type CubeMap struct {
	Name  string
	Faces [CubeFaceCount]*Image
	GLID  uint32
}

// Validate checks that every face is present and all faces share one size.
func (c *CubeMap) Validate() error {
	for i, f := range c.Faces {
		if f == nil {
			return errors.Errorf("cube map %q: face %d missing", c.Name, i)
		}
		if f.Width != f.Height || f.Width != c.Faces[0].Width {
			return errors.Errorf("cube map %q: face %d is %dx%d, want square %d", c.Name, i, f.Width, f.Height, c.Faces[0].Width)
		}
	}
	return nil
}
