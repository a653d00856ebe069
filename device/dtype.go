package device

import (
	"fmt"

	"github.com/blobforge/blobforge/codegen"
	"github.com/blobforge/blobforge/layout"
	"github.com/blobforge/blobforge/schema"
)

// Field is one scalar slot in a flattened type: its absolute byte offset
// from the start of the composite and the primitive kind stored there.
type Field struct {
	Name   string
	Offset uint32
	Kind   string
	CName  string
	Size   uint32
	Align  uint32
}

// DType is the flat view of a composite type. A compute runtime can register
// it as a structured numeric type whose packed representation matches the
// generated C struct bit for bit.
type DType struct {
	Name   string
	Size   uint32
	Align  uint32
	Fields []Field
}

// DTypeFor flattens a registered type: nested composite fields contribute
// underscore-joined names (basis_x), array elements are indexed (data_0),
// and offsets are absolute within the root type.
func DTypeFor(reg *schema.Registry, name string) (*DType, error) {
	return DTypeForWithCalculator(reg, layout.NewCalculator(reg), name)
}

// DTypeForWithCalculator is DTypeFor sharing an existing layout calculator.
func DTypeForWithCalculator(reg *schema.Registry, calc *layout.Calculator, name string) (*DType, error) {
	t, err := reg.Type(name)
	if err != nil {
		return nil, err
	}
	desc, err := calc.Resolve(t)
	if err != nil {
		return nil, err
	}

	dt := &DType{
		Name:  codegen.CamelToSnake(name) + "_t",
		Size:  desc.Size,
		Align: desc.Align,
	}
	if err := flatten(reg, calc, t, "", 0, &dt.Fields); err != nil {
		return nil, err
	}
	return dt, nil
}

func flatten(reg *schema.Registry, calc *layout.Calculator, t *schema.Type, prefix string, base uint32, out *[]Field) error {
	desc, err := calc.Resolve(t)
	if err != nil {
		return err
	}

	for _, f := range t.Fields() {
		name := f.Name
		if prefix != "" {
			name = prefix + "_" + f.Name
		}
		off := base + desc.FieldOffs[f.Name]

		if f.IsArray() {
			stride, _, err := calc.RefLayout(f.Ref)
			if err != nil {
				return err
			}
			for i := 0; i < f.Len; i++ {
				elem := fmt.Sprintf("%s_%d", name, i)
				if err := flattenRef(reg, calc, f.Ref, elem, off+uint32(i)*stride, out); err != nil {
					return err
				}
			}
			continue
		}

		if err := flattenRef(reg, calc, f.Ref, name, off, out); err != nil {
			return err
		}
	}
	return nil
}

func flattenRef(reg *schema.Registry, calc *layout.Calculator, r schema.Ref, name string, off uint32, out *[]Field) error {
	if r.IsPrimitive() {
		p, err := reg.Primitive(r.PrimID())
		if err != nil {
			return err
		}
		*out = append(*out, Field{
			Name:   name,
			Offset: off,
			Kind:   p.ID,
			CName:  p.CName,
			Size:   p.Size,
			Align:  p.Align,
		})
		return nil
	}

	// Enum fields occupy one storage slot.
	if _, err := reg.Enum(r.TypeName()); err == nil {
		p, err := reg.Primitive(schema.EnumStorageKind)
		if err != nil {
			return err
		}
		*out = append(*out, Field{
			Name:   name,
			Offset: off,
			Kind:   p.ID,
			CName:  p.CName,
			Size:   p.Size,
			Align:  p.Align,
		})
		return nil
	}

	sub, err := reg.Type(r.TypeName())
	if err != nil {
		return err
	}
	return flatten(reg, calc, sub, name, off, out)
}
