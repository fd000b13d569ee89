package dicing

const DICE_SIGNATURE string = "fwds"
const DICEEXT string = ".dice"
const V1 uint32 = 1

// Border sampling policy for units overlapping the sprite edge.
const (
	BORDER_PAD_REPLICATE   = 0
	BORDER_PAD_TRANSPARENT = 1
)

const (
	TEXTURE_PIXEL_TYPE_UBYTE = 0
)

const (
	TEXTURE_FORMAT_R    = 0
	TEXTURE_FORMAT_RGB  = 4
	TEXTURE_FORMAT_RGBA = 6
)

const (
	TEXTURE_COMPRESSED_ZLIB = 1
)
