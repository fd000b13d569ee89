package dicing

import (
	"bytes"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	GLTFVersion = "2.0"

	// PaddingChar pads the binary chunk to the requested alignment.
	PaddingChar = 0x20
)

// CreateDoc creates an empty glTF document with one scene and one
// buffer, ready for artifact export.
func CreateDoc() *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version: GLTFVersion,
		},
		Scenes:  []*gltf.Scene{{}},
		Buffers: []*gltf.Buffer{{}},
	}
	doc.Scene = gltf.Index(0)
	return doc
}

// ArtifactsToGltf exports dicing artifacts as a glTF document: one
// mesh node per diced sprite and one material per atlas page, with the
// page embedded as a PNG image. Mesh positions are lifted into the XY
// plane with Y up, so the sprite-local Y axis is negated.
func ArtifactsToGltf(arts *Artifacts) (*gltf.Document, error) {
	doc := CreateDoc()

	materials := make([]uint32, len(arts.Atlases))
	for i, tex := range arts.Atlases {
		var buf bytes.Buffer
		if err := AtlasToPNG(tex, &buf); err != nil {
			return nil, err
		}
		imgIdx, err := modeler.WriteImage(doc, tex.Name, "image/png", &buf)
		if err != nil {
			return nil, err
		}
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{
			MagFilter: gltf.MagLinear,
			MinFilter: gltf.MinLinear,
			WrapS:     gltf.WrapClampToEdge,
			WrapT:     gltf.WrapClampToEdge,
		})
		doc.Textures = append(doc.Textures, &gltf.Texture{
			Sampler: gltf.Index(uint32(len(doc.Samplers) - 1)),
			Source:  gltf.Index(imgIdx),
		})
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: tex.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorTexture: &gltf.TextureInfo{Index: uint32(len(doc.Textures) - 1)},
				MetallicFactor:   gltf.Float(0),
				RoughnessFactor:  gltf.Float(1),
			},
			AlphaMode:   gltf.AlphaBlend,
			DoubleSided: true,
		})
		materials[i] = uint32(len(doc.Materials) - 1)
	}

	for _, sp := range arts.Sprites {
		if len(sp.Indices) == 0 || sp.AtlasIndex < 0 {
			continue
		}
		positions := make([][3]float32, len(sp.Vertices))
		texCoords := make([][2]float32, len(sp.UVs))
		for i, v := range sp.Vertices {
			positions[i] = [3]float32{v[0], -v[1], 0}
		}
		for i, uv := range sp.UVs {
			texCoords[i] = [2]float32{uv[0], uv[1]}
		}

		prim := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, sp.Indices)),
			Attributes: gltf.Attribute{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, texCoords),
			},
			Material: gltf.Index(materials[sp.AtlasIndex]),
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       sp.Id,
			Primitives: []*gltf.Primitive{prim},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: sp.Id,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}

	return doc, nil
}

type bufferWriter struct {
	writer io.Writer
	size   int
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.writer.Write(p)
	w.size += n
	return n, nil
}

func (w *bufferWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newBufferWriter() *bufferWriter {
	return &bufferWriter{
		writer: bytes.NewBuffer(nil),
	}
}

func calcPadding(offset, unit int) int {
	padding := offset % unit
	if padding != 0 {
		padding = unit - padding
	}
	return padding
}

// GetGltfBinary encodes the document as GLB, padded to paddingUnit.
func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	writer := newBufferWriter()

	encoder := gltf.NewEncoder(writer.writer)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}

	padding := calcPadding(writer.size, paddingUnit)
	if padding == 0 {
		return writer.Bytes(), nil
	}

	pad := bytes.Repeat([]byte{PaddingChar}, padding)
	writer.Write(pad)

	return writer.Bytes(), nil
}
