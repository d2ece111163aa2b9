package rtph264

// naluType is the 5-bit NAL unit type carried in the low bits of the
// first payload byte.
type naluType uint8

const (
	naluTypeFirstSingle naluType = 1
	naluTypeSPS         naluType = 7
	naluTypePPS         naluType = 8
	naluTypeLastSingle  naluType = 23
	naluTypeStapA       naluType = 24
	naluTypeStapB       naluType = 25
	naluTypeMtap16      naluType = 26
	naluTypeMtap24      naluType = 27
	naluTypeFUA         naluType = 28
	naluTypeFUB         naluType = 29
)
