package dicing

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Texture holds one generated atlas page. Data is the zlib-compressed
// row-major RGBA8 pixel payload.
type Texture struct {
	Id         int32     `json:"id"`
	Name       string    `json:"name"`
	Size       [2]uint64 `json:"size"`
	Format     uint16    `json:"format"`
	Type       uint16    `json:"type"`
	Compressed uint16    `json:"compressed"`
	Data       []byte    `json:"-"`
}

func CompressImage(buf []byte) []byte {
	var bt []byte
	bf := bytes.NewBuffer(bt)
	w := zlib.NewWriter(bf)
	w.Write(buf)
	w.Close()
	return bf.Bytes()
}

func DecompressImage(src []byte) ([]byte, error) {
	bf := bytes.NewBuffer(src)
	r, er := zlib.NewReader(bf)
	if er != nil {
		return nil, er
	}
	defer r.Close()
	return io.ReadAll(r)
}

func createAtlasTexture(index, width, height int, pixels []byte) *Texture {
	return &Texture{
		Id:         int32(index),
		Name:       fmt.Sprintf("atlas_%d", index),
		Size:       [2]uint64{uint64(width), uint64(height)},
		Format:     TEXTURE_FORMAT_RGBA,
		Type:       TEXTURE_PIXEL_TYPE_UBYTE,
		Compressed: TEXTURE_COMPRESSED_ZLIB,
		Data:       CompressImage(pixels),
	}
}

// Pixels returns the decompressed RGBA payload of the texture.
func (tex *Texture) Pixels() ([]byte, error) {
	if tex.Compressed == TEXTURE_COMPRESSED_ZLIB {
		return DecompressImage(tex.Data)
	}
	return tex.Data, nil
}

// LoadTexture decodes an atlas texture back into an image.
func LoadTexture(tex *Texture, flipY bool) (image.Image, error) {
	w := int(tex.Size[0])
	h := int(tex.Size[1])
	data, err := tex.Pixels()
	if err != nil {
		return nil, err
	}
	var sz int
	switch tex.Format {
	case TEXTURE_FORMAT_RGBA:
		sz = 4
	case TEXTURE_FORMAT_RGB:
		sz = 3
	case TEXTURE_FORMAT_R:
		sz = 1
	default:
		return nil, errors.New("unknown texture format")
	}
	if len(data) < w*h*sz {
		return nil, errors.New("texture payload too short")
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			p := i*w*sz + j*sz
			var c color.NRGBA
			switch sz {
			case 4:
				c = color.NRGBA{R: data[p], G: data[p+1], B: data[p+2], A: data[p+3]}
			case 3:
				c = color.NRGBA{R: data[p], G: data[p+1], B: data[p+2], A: 255}
			case 1:
				c = color.NRGBA{R: data[p], G: data[p], B: data[p], A: 255}
			}
			y := i
			if flipY {
				y = h - i - 1
			}
			img.Set(j, y, c)
		}
	}
	return img, nil
}

// AtlasToPNG encodes an atlas texture as PNG.
func AtlasToPNG(tex *Texture, wt io.Writer) error {
	img, err := LoadTexture(tex, false)
	if err != nil {
		return err
	}
	return png.Encode(wt, img)
}

// CreateSourceSprite decodes an image file into a source sprite named
// after the file. Supported formats: png, jpeg, gif, bmp, tiff.
func CreateSourceSprite(name string) (*SourceSprite, error) {
	reader, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	_, format, err := image.DecodeConfig(reader)
	if err != nil {
		return nil, err
	}
	reader.Seek(0, io.SeekStart)
	var img image.Image
	switch format {
	case "jpeg", "jpg":
		img, err = jpeg.Decode(reader)
	case "png":
		img, err = png.Decode(reader)
	case "gif":
		img, err = gif.Decode(reader)
	case "bmp":
		img, err = bmp.Decode(reader)
	case "tif", "tiff":
		img, err = tiff.Decode(reader)
	default:
		return nil, errors.New("unknown format")
	}
	if err != nil {
		return nil, err
	}
	_, fn := filepath.Split(name)
	id := strings.TrimSuffix(fn, filepath.Ext(fn))
	return CreateSourceSpriteFromImage(img, id), nil
}

// CreateSourceSpriteFromImage normalizes an image into the RGBA8
// buffer of a source sprite. Alpha stays non-premultiplied.
func CreateSourceSpriteFromImage(img image.Image, id string) *SourceSprite {
	bd := img.Bounds()
	w := bd.Dx()
	h := bd.Dy()
	buf := make([]byte, 0, w*h*4)
	for y := bd.Min.Y; y < bd.Max.Y; y++ {
		for x := bd.Min.X; x < bd.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}
	return &SourceSprite{Id: id, Width: w, Height: h, Pixels: buf}
}
