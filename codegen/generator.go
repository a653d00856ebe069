package codegen

import (
	"fmt"
	"strings"

	"github.com/blobforge/blobforge/errors"
	"github.com/blobforge/blobforge/layout"
	"github.com/blobforge/blobforge/schema"
)

// Fragment pairs a header declaration with its source definition.
type Fragment struct {
	Decl string
	Def  string
}

// TypeCode holds every fragment generated for one type in one address space.
// Struct and Sizeof are header-only; the function fragments split into
// declaration and definition.
type TypeCode struct {
	Name        string
	Struct      string
	Sizeof      string
	Init        Fragment
	Serialize   Fragment
	Deserialize Fragment
}

// Generator emits C fragments for registered types using their resolved
// layouts, so the device-side structs and the host-side codec agree on every
// offset.
type Generator struct {
	reg  *schema.Registry
	calc *layout.Calculator
}

// NewGenerator returns a generator with its own layout calculator.
func NewGenerator(reg *schema.Registry) *Generator {
	return &Generator{reg: reg, calc: layout.NewCalculator(reg)}
}

// NewGeneratorWithCalculator returns a generator sharing an existing
// calculator.
func NewGeneratorWithCalculator(reg *schema.Registry, calc *layout.Calculator) *Generator {
	return &Generator{reg: reg, calc: calc}
}

// Generate emits all fragments for one type in one address space.
func (g *Generator) Generate(t *schema.Type, space Space) (*TypeCode, error) {
	if !space.Valid() {
		return nil, errors.InvalidInput(errors.PhaseGenerate, fmt.Sprintf("unknown address space %q", string(space)))
	}

	desc, err := g.calc.Resolve(t)
	if err != nil {
		return nil, err
	}

	structDef, err := g.structDef(t, desc, space)
	if err != nil {
		return nil, err
	}

	code := &TypeCode{
		Name:   TypeName(t.Name(), space),
		Struct: structDef,
		Sizeof: fmt.Sprintf("#define %s %d", SizeofMacro(t.Name(), space), desc.Size),
		Init:   g.initFunc(t, space),
	}

	if code.Serialize, err = g.serializeFunc(t, desc, space); err != nil {
		return nil, err
	}
	if code.Deserialize, err = g.deserializeFunc(t, desc, space); err != nil {
		return nil, err
	}
	return code, nil
}

// GenerateEnum emits the header block for one enum in one address space:
// a #define per member and a typedef binding the member names to them. Enums
// have no functions; fields store them as plain int slots.
func (g *Generator) GenerateEnum(e *schema.Enum, space Space) (string, error) {
	if !space.Valid() {
		return "", errors.InvalidInput(errors.PhaseGenerate, fmt.Sprintf("unknown address space %q", string(space)))
	}

	name := TypeName(e.Name(), space)

	var b strings.Builder
	fmt.Fprintf(&b, "/* enum type %s */\n\n", name)
	for _, m := range e.Members() {
		fmt.Fprintf(&b, "#define %s %d\n", EnumConstantName(e.Name(), m.Name, space), m.Value)
	}
	fmt.Fprintf(&b, "\ntypedef enum _%s\n{\n", name)
	for i, m := range e.Members() {
		sep := ","
		if i == len(e.Members())-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t%s = %s%s\n", CamelToSnake(m.Name), EnumConstantName(e.Name(), m.Name, space), sep)
	}
	fmt.Fprintf(&b, "} %s;", name)
	return b.String(), nil
}

// cFieldType returns the C type name a field's element uses inside the
// generated struct.
func (g *Generator) cFieldType(r schema.Ref, space Space) (string, error) {
	if r.IsPrimitive() {
		p, err := g.reg.Primitive(r.PrimID())
		if err != nil {
			return "", err
		}
		return p.CName, nil
	}
	return TypeName(r.TypeName(), space), nil
}

func (g *Generator) structDef(t *schema.Type, desc layout.Descriptor, space Space) (string, error) {
	name := TypeName(t.Name(), space)

	var b strings.Builder
	fmt.Fprintf(&b, "/* composite type %s (%d bytes, align %d) */\n\n", name, desc.Size, desc.Align)
	fmt.Fprintf(&b, "typedef struct _%s\n{\n", name)
	for _, f := range t.Fields() {
		cname, err := g.cFieldType(f.Ref, space)
		if err != nil {
			return "", err
		}
		if f.IsArray() {
			fmt.Fprintf(&b, "\t%s %s[%d];\n", cname, f.Name, f.Len)
		} else {
			fmt.Fprintf(&b, "\t%s %s;\n", cname, f.Name)
		}
	}
	fmt.Fprintf(&b, "} %s;", name)
	return b.String(), nil
}

// initFunc zero-fills a blob of the type's size. Padding bytes must be
// defined for reproducible serialization, so every byte is written.
func (g *Generator) initFunc(t *schema.Type, space Space) Fragment {
	name := t.Name()
	definition := fmt.Sprintf("void %s(%schar* blob)",
		InitName(name, space), space.writePrefix())

	var b strings.Builder
	b.WriteString(definition)
	b.WriteString("\n{\n")
	fmt.Fprintf(&b, "\tfor (unsigned long i = 0; i < %s; i++)\n", SizeofMacro(name, space))
	b.WriteString("\t{\n\t\tblob[i] = 0;\n\t}\n}")

	return Fragment{Decl: definition + ";", Def: b.String()}
}

// serializeFunc writes each struct field into the blob at its resolved
// offset, recursing for composites and looping for arrays.
func (g *Generator) serializeFunc(t *schema.Type, desc layout.Descriptor, space Space) (Fragment, error) {
	definition := fmt.Sprintf("void %s(%s* self, %schar* blob)",
		SerializeName(t.Name(), space), TypeName(t.Name(), space), space.writePrefix())

	var b strings.Builder
	b.WriteString(definition)
	b.WriteString("\n{")

	for _, f := range t.Fields() {
		off := desc.FieldOffs[f.Name]
		fmt.Fprintf(&b, "\n\t/* %s @ %d */\n", f.Name, off)
		if err := g.fieldLines(&b, f, off, space, true); err != nil {
			return Fragment{}, err
		}
	}
	b.WriteString("}")

	return Fragment{Decl: definition + ";", Def: b.String()}, nil
}

// deserializeFunc is the exact inverse of serializeFunc.
func (g *Generator) deserializeFunc(t *schema.Type, desc layout.Descriptor, space Space) (Fragment, error) {
	definition := fmt.Sprintf("void %s(%schar* blob, %s* self)",
		DeserializeName(t.Name(), space), space.readPrefix(), TypeName(t.Name(), space))

	var b strings.Builder
	b.WriteString(definition)
	b.WriteString("\n{")

	for _, f := range t.Fields() {
		off := desc.FieldOffs[f.Name]
		fmt.Fprintf(&b, "\n\t/* %s @ %d */\n", f.Name, off)
		if err := g.fieldLines(&b, f, off, space, false); err != nil {
			return Fragment{}, err
		}
	}
	b.WriteString("}")

	return Fragment{Decl: definition + ";", Def: b.String()}, nil
}

// fieldLines emits the per-field copy statements for one direction.
func (g *Generator) fieldLines(b *strings.Builder, f schema.Field, off uint32, space Space, toBlob bool) error {
	if !f.IsArray() {
		line, err := g.copyLine(f.Ref, "self->"+f.Name, fmt.Sprintf("blob + %d", off), space, toBlob)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "\t%s\n", line)
		return nil
	}

	stride, _, err := g.calc.RefLayout(f.Ref)
	if err != nil {
		return err
	}
	elem := fmt.Sprintf("self->%s[i]", f.Name)
	ref := fmt.Sprintf("blob + %d + i * %d", off, stride)
	line, err := g.copyLine(f.Ref, elem, ref, space, toBlob)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "\tfor (int i = 0; i < %d; i++)\n\t{\n\t\t%s\n\t}\n", f.Len, line)
	return nil
}

// copyLine emits one statement moving a single element between the struct
// field lvalue and its blob location.
func (g *Generator) copyLine(r schema.Ref, field, blobRef string, space Space, toBlob bool) (string, error) {
	prefix := space.readPrefix()
	if toBlob {
		prefix = space.writePrefix()
	}

	if r.IsPrimitive() {
		p, err := g.reg.Primitive(r.PrimID())
		if err != nil {
			return "", err
		}
		cast := fmt.Sprintf("*((%s%s*)(%s))", prefix, p.CName, blobRef)
		if toBlob {
			return fmt.Sprintf("%s = %s;", cast, field), nil
		}
		return fmt.Sprintf("%s = %s;", field, cast), nil
	}

	// Enum fields move as their int storage slot, cast back to the typedef
	// on the way out.
	if _, err := g.reg.Enum(r.TypeName()); err == nil {
		p, err := g.reg.Primitive(schema.EnumStorageKind)
		if err != nil {
			return "", err
		}
		cast := fmt.Sprintf("*((%s%s*)(%s))", prefix, p.CName, blobRef)
		if toBlob {
			return fmt.Sprintf("%s = (%s)%s;", cast, p.CName, field), nil
		}
		return fmt.Sprintf("%s = (%s)%s;", field, TypeName(r.TypeName(), space), cast), nil
	}

	sub := r.TypeName()
	if toBlob {
		return fmt.Sprintf("%s(&%s, %s);", SerializeName(sub, space), field, blobRef), nil
	}
	return fmt.Sprintf("%s(%s, &%s);", DeserializeName(sub, space), blobRef, field), nil
}
