package codegen

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/blobforge/blobforge/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	mustDefine := func(name string, fields []schema.Field) {
		if _, err := reg.Define(name, fields); err != nil {
			t.Fatalf("Define %s: %v", name, err)
		}
	}
	mustDefine("Vector3", []schema.Field{
		{Name: "x", Ref: schema.Prim("f32")},
		{Name: "y", Ref: schema.Prim("f32")},
		{Name: "z", Ref: schema.Prim("f32")},
	})
	mustDefine("Matrix3x3", []schema.Field{
		{Name: "x", Ref: schema.Named("Vector3")},
		{Name: "y", Ref: schema.Named("Vector3")},
		{Name: "z", Ref: schema.Named("Vector3")},
	})
	mustDefine("Samples", []schema.Field{
		{Name: "count", Ref: schema.Prim("s32")},
		{Name: "data", Ref: schema.Prim("f32"), Len: 3},
	})
	if _, err := reg.DefineEnum("Phase", []schema.EnumMember{
		{Name: "Solid", Value: 0},
		{Name: "Liquid", Value: 1},
		{Name: "Gas", Value: 2},
	}); err != nil {
		t.Fatalf("DefineEnum Phase: %v", err)
	}
	mustDefine("Cell", []schema.Field{
		{Name: "phase", Ref: schema.Named("Phase")},
		{Name: "density", Ref: schema.Prim("f32")},
	})
	reg.Close()
	return reg
}

func mustGenerate(t *testing.T, reg *schema.Registry, name string, space Space) *TypeCode {
	t.Helper()
	typ, err := reg.Type(name)
	if err != nil {
		t.Fatalf("Type %s: %v", name, err)
	}
	code, err := NewGenerator(reg).Generate(typ, space)
	if err != nil {
		t.Fatalf("Generate %s: %v", name, err)
	}
	return code
}

func expectNoDiff(t *testing.T, want, got string) {
	t.Helper()
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:       difflib.SplitLines(want),
		B:       difflib.SplitLines(got),
		Context: 3,
	})
	if diff != "" {
		t.Error(diff)
	}
}

func TestGenerateStruct(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Vector3", SpaceGlobal)

	want := `/* composite type vector3_gt (12 bytes, align 4) */

typedef struct _vector3_gt
{
	float x;
	float y;
	float z;
} vector3_gt;`
	expectNoDiff(t, want, code.Struct)

	if code.Sizeof != "#define sizeof_vector3_gt 12" {
		t.Errorf("Sizeof = %q", code.Sizeof)
	}
}

func TestGenerateNestedStruct(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Matrix3x3", SpaceGlobal)

	want := `/* composite type matrix3x3_gt (36 bytes, align 4) */

typedef struct _matrix3x3_gt
{
	vector3_gt x;
	vector3_gt y;
	vector3_gt z;
} matrix3x3_gt;`
	expectNoDiff(t, want, code.Struct)
}

func TestGenerateArrayStruct(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Samples", SpaceGlobal)

	want := `/* composite type samples_gt (16 bytes, align 4) */

typedef struct _samples_gt
{
	int count;
	float data[3];
} samples_gt;`
	expectNoDiff(t, want, code.Struct)
}

func TestGenerateInit(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Vector3", SpaceGlobal)

	if code.Init.Decl != "void init_vector3_gt(__global char* blob);" {
		t.Errorf("Decl = %q", code.Init.Decl)
	}
	want := `void init_vector3_gt(__global char* blob)
{
	for (unsigned long i = 0; i < sizeof_vector3_gt; i++)
	{
		blob[i] = 0;
	}
}`
	expectNoDiff(t, want, code.Init.Def)
}

func TestGenerateSerialize(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Vector3", SpaceGlobal)

	if code.Serialize.Decl != "void serialize_vector3_gt(vector3_gt* self, __global char* blob);" {
		t.Errorf("Decl = %q", code.Serialize.Decl)
	}
	want := `void serialize_vector3_gt(vector3_gt* self, __global char* blob)
{
	/* x @ 0 */
	*((__global float*)(blob + 0)) = self->x;

	/* y @ 4 */
	*((__global float*)(blob + 4)) = self->y;

	/* z @ 8 */
	*((__global float*)(blob + 8)) = self->z;
}`
	expectNoDiff(t, want, code.Serialize.Def)
}

func TestGenerateDeserializeNested(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Matrix3x3", SpaceGlobal)

	if code.Deserialize.Decl != "void deserialize_matrix3x3_gt(__global char* blob, matrix3x3_gt* self);" {
		t.Errorf("Decl = %q", code.Deserialize.Decl)
	}
	want := `void deserialize_matrix3x3_gt(__global char* blob, matrix3x3_gt* self)
{
	/* x @ 0 */
	deserialize_vector3_gt(blob + 0, &self->x);

	/* y @ 12 */
	deserialize_vector3_gt(blob + 12, &self->y);

	/* z @ 24 */
	deserialize_vector3_gt(blob + 24, &self->z);
}`
	expectNoDiff(t, want, code.Deserialize.Def)
}

func TestGenerateArrayLoop(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Samples", SpaceGlobal)

	want := `void serialize_samples_gt(samples_gt* self, __global char* blob)
{
	/* count @ 0 */
	*((__global int*)(blob + 0)) = self->count;

	/* data @ 4 */
	for (int i = 0; i < 3; i++)
	{
		*((__global float*)(blob + 4 + i * 4)) = self->data[i];
	}
}`
	expectNoDiff(t, want, code.Serialize.Def)
}

func TestGenerateEnum(t *testing.T) {
	reg := testRegistry(t)
	en, err := reg.Enum("Phase")
	if err != nil {
		t.Fatalf("Enum: %v", err)
	}
	def, err := NewGenerator(reg).GenerateEnum(en, SpaceGlobal)
	if err != nil {
		t.Fatalf("GenerateEnum: %v", err)
	}

	want := `/* enum type phase_gt */

#define PHASE_GT_SOLID 0
#define PHASE_GT_LIQUID 1
#define PHASE_GT_GAS 2

typedef enum _phase_gt
{
	solid = PHASE_GT_SOLID,
	liquid = PHASE_GT_LIQUID,
	gas = PHASE_GT_GAS
} phase_gt;`
	expectNoDiff(t, want, def)

	if _, err := NewGenerator(reg).GenerateEnum(en, Space("__generic")); err == nil {
		t.Error("expected error for invalid space")
	}
}

// Enum fields declare the typedef in the struct but move through the blob as
// their int storage slot.
func TestGenerateEnumField(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Cell", SpaceGlobal)

	wantStruct := `/* composite type cell_gt (8 bytes, align 4) */

typedef struct _cell_gt
{
	phase_gt phase;
	float density;
} cell_gt;`
	expectNoDiff(t, wantStruct, code.Struct)

	wantSerialize := `void serialize_cell_gt(cell_gt* self, __global char* blob)
{
	/* phase @ 0 */
	*((__global int*)(blob + 0)) = (int)self->phase;

	/* density @ 4 */
	*((__global float*)(blob + 4)) = self->density;
}`
	expectNoDiff(t, wantSerialize, code.Serialize.Def)

	wantDeserialize := `void deserialize_cell_gt(__global char* blob, cell_gt* self)
{
	/* phase @ 0 */
	self->phase = (phase_gt)*((__global int*)(blob + 0));

	/* density @ 4 */
	self->density = *((__global float*)(blob + 4));
}`
	expectNoDiff(t, wantDeserialize, code.Deserialize.Def)
}

// __constant memory cannot be written on the device, so writer functions
// drop the qualifier while the reader keeps it.
func TestGenerateConstantSpace(t *testing.T) {
	reg := testRegistry(t)
	code := mustGenerate(t, reg, "Vector3", SpaceConstant)

	if code.Init.Decl != "void init_vector3_ct(char* blob);" {
		t.Errorf("Init.Decl = %q", code.Init.Decl)
	}
	if code.Serialize.Decl != "void serialize_vector3_ct(vector3_ct* self, char* blob);" {
		t.Errorf("Serialize.Decl = %q", code.Serialize.Decl)
	}
	if code.Deserialize.Decl != "void deserialize_vector3_ct(__constant char* blob, vector3_ct* self);" {
		t.Errorf("Deserialize.Decl = %q", code.Deserialize.Decl)
	}
}

func TestGenerateInvalidSpace(t *testing.T) {
	reg := testRegistry(t)
	typ, err := reg.Type("Vector3")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if _, err := NewGenerator(reg).Generate(typ, Space("__generic")); err == nil {
		t.Error("expected error for invalid space")
	}
}
