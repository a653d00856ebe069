package schema

// Primitive describes one scalar kind: its binary footprint and the
// canonical OpenCL C scalar name it maps to.
type Primitive struct {
	ID    string
	CName string
	Size  uint32
	Align uint32
}

// Built-in primitive kind identifiers.
const (
	KindU8  = "u8"
	KindS8  = "s8"
	KindU16 = "u16"
	KindS16 = "s16"
	KindU32 = "u32"
	KindS32 = "s32"
	KindU64 = "u64"
	KindS64 = "s64"
	KindF32 = "f32"
	KindF64 = "f64"
)

// builtinPrimitives returns the default scalar set. Sizes and alignments
// follow the OpenCL C scalar types, where size equals alignment.
func builtinPrimitives() []Primitive {
	return []Primitive{
		{ID: KindU8, CName: "uchar", Size: 1, Align: 1},
		{ID: KindS8, CName: "char", Size: 1, Align: 1},
		{ID: KindU16, CName: "ushort", Size: 2, Align: 2},
		{ID: KindS16, CName: "short", Size: 2, Align: 2},
		{ID: KindU32, CName: "uint", Size: 4, Align: 4},
		{ID: KindS32, CName: "int", Size: 4, Align: 4},
		{ID: KindU64, CName: "ulong", Size: 8, Align: 8},
		{ID: KindS64, CName: "long", Size: 8, Align: 8},
		{ID: KindF32, CName: "float", Size: 4, Align: 4},
		{ID: KindF64, CName: "double", Size: 8, Align: 8},
	}
}
