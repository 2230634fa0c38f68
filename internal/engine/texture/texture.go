// Package texture decodes image files into GPU-ready pixel data and tracks
// the resulting 2D textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/Faultbox/notanengine/internal/engine/gpu"
)

// Texture is a 2D texture living on the GPU. A zero ID is the placeholder
// returned when loading failed; binding it samples black.
type Texture struct {
	ID     uint32
	Unit   uint32
	Width  int
	Height int
	Format gpu.PixelFormat
	Path   string
}

// Valid reports whether the texture has GPU storage.
func (t *Texture) Valid() bool { return t != nil && t.ID != 0 }

// SetUnit selects the texture unit Bind activates.
func (t *Texture) SetUnit(unit uint32) { t.Unit = unit }

// Bind makes the texture current on its unit.
func (t *Texture) Bind(api gpu.API) {
	api.ActiveTexture(t.Unit)
	api.BindTexture2D(t.ID)
}

// Pixels is decoded image data in a tightly packed GPU layout.
type Pixels struct {
	Width, Height int
	Format        gpu.PixelFormat
	Data          []byte
}

// Decode reads an image and packs it as RED, RGB or RGBA depending on the
// source's channels. name selects the TGA decoder by extension; everything
// else goes through image.Decode. When flip is set rows are reversed so the
// first row is the bottom of the image, as OpenGL expects.
func Decode(r io.Reader, name string, flip bool) (*Pixels, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(r)
	} else {
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return Pack(img, flip), nil
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(data []byte, name string, flip bool) (*Pixels, error) {
	return Decode(bytes.NewReader(data), name, flip)
}

// Pack converts img to packed pixels.
func Pack(img image.Image, flip bool) *Pixels {
	format := formatOf(img)

	var rgba *image.RGBA
	if flip {
		rgba = transform.FlipV(img)
	} else {
		rgba = toRGBA(img)
	}

	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()
	n := format.Channels()
	out := &Pixels{Width: w, Height: h, Format: format, Data: make([]byte, 0, w*h*n)}

	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			out.Data = append(out.Data, px[:n]...)
		}
	}
	return out
}

func formatOf(img image.Image) gpu.PixelFormat {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return gpu.FormatRed
	case *image.YCbCr, *image.CMYK:
		return gpu.FormatRGB
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return gpu.FormatRGB
	}
	return gpu.FormatRGBA
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return rgba
}

// Upload creates a GPU texture from decoded pixels. The returned texture
// always carries path, even when px is nil or empty and the ID is zero.
func Upload(api gpu.API, path string, px *Pixels) *Texture {
	t := &Texture{Path: path}
	if px == nil || len(px.Data) == 0 {
		return t
	}
	t.ID = api.CreateTexture2D(int32(px.Width), int32(px.Height), px.Format, px.Data)
	t.Width, t.Height, t.Format = px.Width, px.Height, px.Format
	return t
}
