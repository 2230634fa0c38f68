package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image types handled by DecodeTGA.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

// ErrTGAFormat reports a TGA file the decoder cannot read.
var ErrTGAFormat = errors.New("tga: unsupported format")

// DecodeTGA decodes uncompressed or RLE true-color (24/32 bit) and
// grayscale (8 bit) Truevision TGA images.
func DecodeTGA(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)

	var hdr [18]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("tga header: %w", err)
	}
	idLen := int(hdr[0])
	if hdr[1] != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAFormat)
	}
	kind := hdr[2]
	width := int(hdr[12]) | int(hdr[13])<<8
	height := int(hdr[14]) | int(hdr[15])<<8
	bpp := int(hdr[16])
	topDown := hdr[17]&0x20 != 0

	gray := kind == tgaGray || kind == tgaGrayRLE
	rle := kind == tgaTrueColorRLE || kind == tgaGrayRLE
	switch {
	case kind != tgaTrueColor && kind != tgaTrueColorRLE && !gray:
		return nil, fmt.Errorf("%w: image type %d", ErrTGAFormat, kind)
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: %d-bit grayscale", ErrTGAFormat, bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: %d-bit color", ErrTGAFormat, bpp)
	case width == 0 || height == 0:
		return nil, fmt.Errorf("%w: empty image", ErrTGAFormat)
	}

	if _, err := br.Discard(idLen); err != nil {
		return nil, fmt.Errorf("tga id field: %w", err)
	}

	px := &tgaPixels{r: br, size: bpp / 8, rle: rle}
	var buf [4]byte

	rowOf := func(y int) int {
		if topDown {
			return y
		}
		return height - 1 - y
	}

	if gray {
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			row := rowOf(y)
			for x := 0; x < width; x++ {
				if err := px.next(buf[:1]); err != nil {
					return nil, err
				}
				img.SetGray(x, row, color.Gray{Y: buf[0]})
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := rowOf(y)
		for x := 0; x < width; x++ {
			if err := px.next(buf[:px.size]); err != nil {
				return nil, err
			}
			a := uint8(0xFF)
			if px.size == 4 {
				a = buf[3]
			}
			// TGA stores BGR(A).
			img.SetNRGBA(x, row, color.NRGBA{R: buf[2], G: buf[1], B: buf[0], A: a})
		}
	}
	return img, nil
}

// tgaPixels yields pixels one at a time from raw or run-length packets.
type tgaPixels struct {
	r    *bufio.Reader
	size int
	rle  bool

	remaining int
	repeat    bool
	last      [4]byte
}

func (p *tgaPixels) next(dst []byte) error {
	if !p.rle {
		if _, err := io.ReadFull(p.r, dst); err != nil {
			return fmt.Errorf("tga pixels: %w", err)
		}
		return nil
	}

	if p.remaining == 0 {
		hdr, err := p.r.ReadByte()
		if err != nil {
			return fmt.Errorf("tga packet: %w", err)
		}
		p.remaining = int(hdr&0x7F) + 1
		p.repeat = hdr&0x80 != 0
		if p.repeat {
			if _, err := io.ReadFull(p.r, p.last[:p.size]); err != nil {
				return fmt.Errorf("tga run: %w", err)
			}
		}
	}
	p.remaining--

	if p.repeat {
		copy(dst, p.last[:p.size])
		return nil
	}
	if _, err := io.ReadFull(p.r, dst); err != nil {
		return fmt.Errorf("tga raw packet: %w", err)
	}
	return nil
}
