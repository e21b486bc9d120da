package world

// BlockType is the coarse material the generator assigns from the final
// density.
type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeStone
	BlockTypeWater
)

var blockNames = [...]string{
	BlockTypeAir:   "air",
	BlockTypeStone: "stone",
	BlockTypeWater: "water",
}

func (b BlockType) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return "unknown"
}

// blockFor classifies one sample: positive density is solid, anything else
// below the sea level is water.
func blockFor(d float64, y, seaLevel int) BlockType {
	switch {
	case d > 0:
		return BlockTypeStone
	case y < seaLevel:
		return BlockTypeWater
	}
	return BlockTypeAir
}
