package schema

// Ref references either a primitive kind or a composite type. The variant is
// fixed at construction; there is no runtime type hierarchy to inspect.
type Ref struct {
	prim string
	typ  string
}

// Prim returns a Ref to the primitive kind with the given identifier.
func Prim(id string) Ref {
	return Ref{prim: id}
}

// Named returns a Ref to the composite type with the given identifier.
func Named(name string) Ref {
	return Ref{typ: name}
}

// IsPrimitive reports whether the Ref names a primitive kind.
func (r Ref) IsPrimitive() bool {
	return r.prim != ""
}

// PrimID returns the referenced primitive kind identifier, or "" for
// composite refs.
func (r Ref) PrimID() string {
	return r.prim
}

// TypeName returns the referenced composite identifier, or "" for
// primitive refs.
func (r Ref) TypeName() string {
	return r.typ
}

func (r Ref) String() string {
	if r.prim != "" {
		return r.prim
	}
	return r.typ
}

// Field is one named, typed member of a composite type. Len > 0 declares a
// fixed-length array of the referenced element type.
type Field struct {
	Name string
	Ref  Ref
	Len  int
}

// IsArray reports whether the field is a fixed-length array.
func (f Field) IsArray() bool {
	return f.Len > 0
}

// Count returns the number of elements the field stores: Len for arrays,
// 1 for scalars.
func (f Field) Count() int {
	if f.Len > 0 {
		return f.Len
	}
	return 1
}

// Type is an immutable composite type definition. Instances are created by
// Registry.Define and never mutated afterwards.
type Type struct {
	name   string
	fields []Field
}

// Name returns the type's identifier.
func (t *Type) Name() string {
	return t.name
}

// Fields returns the ordered field list. The returned slice is shared; callers
// must not modify it.
func (t *Type) Fields() []Field {
	return t.fields
}

// NumFields returns the number of declared fields.
func (t *Type) NumFields() int {
	return len(t.fields)
}
