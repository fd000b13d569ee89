package dicing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/flywave/go3d/vec2"
)

func toLittleByteOrder(v interface{}) []byte {
	var buf []byte
	b := bytes.NewBuffer(buf)
	e := binary.Write(b, binary.LittleEndian, v)
	if e != nil {
		return nil
	}
	return b.Bytes()
}

func writeLittleByte(wt io.Writer, v interface{}) {
	buf := toLittleByteOrder(v)
	if buf != nil {
		wt.Write(buf)
	}
}

func readLittleByte(rd io.Reader, v interface{}) error {
	return binary.Read(rd, binary.LittleEndian, v)
}

func writeString(wt io.Writer, s string) {
	writeLittleByte(wt, uint32(len(s)))
	wt.Write([]byte(s))
}

func readString(rd io.Reader) (string, error) {
	var size uint32
	if err := readLittleByte(rd, &size); err != nil {
		return "", err
	}
	nm := make([]byte, size)
	if _, err := io.ReadFull(rd, nm); err != nil {
		return "", err
	}
	return string(nm), nil
}

func TextureMarshal(wt io.Writer, tex *Texture) {
	writeLittleByte(wt, tex.Id)
	writeString(wt, tex.Name)
	writeLittleByte(wt, &tex.Size)
	writeLittleByte(wt, tex.Format)
	writeLittleByte(wt, tex.Type)
	writeLittleByte(wt, tex.Compressed)
	writeLittleByte(wt, uint32(len(tex.Data)))
	wt.Write(tex.Data)
}

func TextureUnMarshal(rd io.Reader) (*Texture, error) {
	tex := &Texture{}
	if err := readLittleByte(rd, &tex.Id); err != nil {
		return nil, err
	}
	name, err := readString(rd)
	if err != nil {
		return nil, err
	}
	tex.Name = name
	readLittleByte(rd, &tex.Size)
	readLittleByte(rd, &tex.Format)
	readLittleByte(rd, &tex.Type)
	readLittleByte(rd, &tex.Compressed)
	var size uint32
	if err := readLittleByte(rd, &size); err != nil {
		return nil, err
	}
	tex.Data = make([]byte, size)
	if _, err := io.ReadFull(rd, tex.Data); err != nil {
		return nil, err
	}
	return tex, nil
}

func DicedSpriteMarshal(wt io.Writer, sp *DicedSprite) {
	writeString(wt, sp.Id)
	writeLittleByte(wt, int32(sp.AtlasIndex))
	writeLittleByte(wt, uint32(len(sp.Vertices)))
	writeLittleByte(wt, sp.Vertices)
	writeLittleByte(wt, sp.UVs)
	writeLittleByte(wt, uint32(len(sp.Indices)))
	writeLittleByte(wt, sp.Indices)
	writeLittleByte(wt, &sp.Pivot)
	writeLittleByte(wt, [2]int32{int32(sp.Size[0]), int32(sp.Size[1])})
	writeLittleByte(wt, &sp.Rect)
	writeLittleByte(wt, sp.PPU)
}

func DicedSpriteUnMarshal(rd io.Reader) (*DicedSprite, error) {
	sp := &DicedSprite{}
	id, err := readString(rd)
	if err != nil {
		return nil, err
	}
	sp.Id = id
	var atlas int32
	readLittleByte(rd, &atlas)
	sp.AtlasIndex = int(atlas)
	var vertCount uint32
	if err := readLittleByte(rd, &vertCount); err != nil {
		return nil, err
	}
	sp.Vertices = make([]vec2.T, vertCount)
	sp.UVs = make([]vec2.T, vertCount)
	if err := readLittleByte(rd, sp.Vertices); err != nil {
		return nil, err
	}
	if err := readLittleByte(rd, sp.UVs); err != nil {
		return nil, err
	}
	var idxCount uint32
	if err := readLittleByte(rd, &idxCount); err != nil {
		return nil, err
	}
	sp.Indices = make([]uint32, idxCount)
	if err := readLittleByte(rd, sp.Indices); err != nil {
		return nil, err
	}
	readLittleByte(rd, &sp.Pivot)
	var size [2]int32
	readLittleByte(rd, &size)
	sp.Size = [2]int{int(size[0]), int(size[1])}
	readLittleByte(rd, &sp.Rect)
	if err := readLittleByte(rd, &sp.PPU); err != nil {
		return nil, err
	}
	return sp, nil
}

func ArtifactsMarshal(wt io.Writer, arts *Artifacts) {
	wt.Write([]byte(DICE_SIGNATURE))
	writeLittleByte(wt, V1)
	writeLittleByte(wt, uint32(len(arts.Atlases)))
	for _, tex := range arts.Atlases {
		TextureMarshal(wt, tex)
	}
	writeLittleByte(wt, uint32(len(arts.Sprites)))
	for _, sp := range arts.Sprites {
		DicedSpriteMarshal(wt, sp)
	}
}

func ArtifactsUnMarshal(rd io.Reader) (*Artifacts, error) {
	sig := make([]byte, 4)
	if _, err := io.ReadFull(rd, sig); err != nil {
		return nil, err
	}
	if string(sig) != DICE_SIGNATURE {
		return nil, errors.New("invalid dice artifact signature")
	}
	var version uint32
	if err := readLittleByte(rd, &version); err != nil {
		return nil, err
	}
	if version != V1 {
		return nil, errors.New("unsupported dice artifact version")
	}

	arts := &Artifacts{}
	var atlasCount uint32
	if err := readLittleByte(rd, &atlasCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < atlasCount; i++ {
		tex, err := TextureUnMarshal(rd)
		if err != nil {
			return nil, err
		}
		arts.Atlases = append(arts.Atlases, tex)
	}
	var spriteCount uint32
	if err := readLittleByte(rd, &spriteCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < spriteCount; i++ {
		sp, err := DicedSpriteUnMarshal(rd)
		if err != nil {
			return nil, err
		}
		arts.Sprites = append(arts.Sprites, sp)
	}
	return arts, nil
}

func ArtifactsWriteTo(path string, arts *Artifacts) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ArtifactsMarshal(f, arts)
	return nil
}

func ArtifactsReadFrom(path string) (*Artifacts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ArtifactsUnMarshal(f)
}
