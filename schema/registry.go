package schema

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/blobforge/blobforge/errors"
)

// Registry owns the process-wide primitive and composite type definitions.
//
// A Registry starts open: RegisterPrimitive and Define are allowed from a
// single writer at a time. Close ends the registration phase; afterwards the
// registry is read-only and safe for any number of concurrent readers.
type Registry struct {
	mu     sync.RWMutex
	prims  map[string]Primitive
	types  map[string]*Type
	enums  map[string]*Enum
	closed bool
}

// NewRegistry returns an open registry preloaded with the built-in
// primitive kinds.
func NewRegistry() *Registry {
	r := &Registry{
		prims: make(map[string]Primitive),
		types: make(map[string]*Type),
		enums: make(map[string]*Enum),
	}
	for _, p := range builtinPrimitives() {
		r.prims[p.ID] = p
	}
	return r
}

// RegisterPrimitive adds a scalar kind to the registry.
func (r *Registry) RegisterPrimitive(id string, size, align uint32, cname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.Closed("registry closed for registration")
	}
	if !isIdentifier(id) {
		return errors.InvalidInput(errors.PhaseDefine, "primitive kind id must be a valid identifier: "+id)
	}
	if size == 0 || align == 0 || size%align != 0 {
		return errors.New(errors.PhaseDefine, errors.KindInvalidInput).
			Detail("primitive %q needs positive size and alignment with align dividing size (got size=%d align=%d)", id, size, align).
			Build()
	}
	if _, ok := r.prims[id]; ok {
		return errors.DuplicateKind(id)
	}

	r.prims[id] = Primitive{ID: id, CName: cname, Size: size, Align: align}
	Logger().Debug("registered primitive",
		zap.String("id", id),
		zap.Uint32("size", size),
		zap.Uint32("align", align),
		zap.String("cname", cname))
	return nil
}

// Primitive looks up a scalar kind by identifier.
func (r *Registry) Primitive(id string) (Primitive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prims[id]
	if !ok {
		return Primitive{}, errors.UnknownKind(errors.PhaseDefine, id)
	}
	return p, nil
}

// Define registers a composite type with the given ordered fields. Every
// field reference must resolve against already-registered primitives or
// types, which keeps the type graph acyclic by construction; direct or
// transitive self-reference is rejected explicitly.
func (r *Registry) Define(name string, fields []Field) (*Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.Closed("registry closed for registration")
	}
	if !isIdentifier(name) {
		return nil, errors.InvalidInput(errors.PhaseDefine, "type identifier must be a valid identifier: "+name)
	}
	if _, ok := r.types[name]; ok {
		return nil, errors.DuplicateType(name)
	}
	if _, ok := r.prims[name]; ok {
		return nil, errors.DuplicateType(name)
	}
	if _, ok := r.enums[name]; ok {
		return nil, errors.DuplicateType(name)
	}
	if len(fields) == 0 {
		return nil, errors.New(errors.PhaseDefine, errors.KindInvalidField).
			Path(name).
			Detail("type must declare at least one field").
			Build()
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if !isIdentifier(f.Name) {
			return nil, errors.InvalidField(name, f.Name, "field name must be a valid identifier")
		}
		if _, dup := seen[f.Name]; dup {
			return nil, errors.InvalidField(name, f.Name, "duplicate field name")
		}
		seen[f.Name] = struct{}{}

		if f.Len < 0 {
			return nil, errors.InvalidField(name, f.Name, "array length must be a positive integer")
		}
		// Layout arithmetic is 32-bit; a longer declaration would silently
		// truncate when resolved.
		if uint64(f.Len) > math.MaxUint32 {
			return nil, errors.InvalidField(name, f.Name,
				fmt.Sprintf("array length %d exceeds the addressable layout range", f.Len))
		}

		switch {
		case f.Ref.IsPrimitive():
			if _, ok := r.prims[f.Ref.PrimID()]; !ok {
				return nil, errors.InvalidField(name, f.Name, "unresolved primitive kind "+f.Ref.PrimID())
			}
		case f.Ref.TypeName() != "":
			if f.Ref.TypeName() == name {
				return nil, errors.CyclicType(errors.PhaseDefine, []string{name, name})
			}
			if _, ok := r.types[f.Ref.TypeName()]; !ok {
				if _, ok := r.enums[f.Ref.TypeName()]; !ok {
					return nil, errors.InvalidField(name, f.Name, "unresolved type reference "+f.Ref.TypeName())
				}
			}
		default:
			return nil, errors.InvalidField(name, f.Name, "empty type reference")
		}
	}

	// Registered refs are acyclic by induction, but verify anyway so a
	// corrupted registry cannot hang resolution later.
	if chain := r.findCycleLocked(name, fields); chain != nil {
		return nil, errors.CyclicType(errors.PhaseDefine, chain)
	}

	t := &Type{name: name, fields: append([]Field(nil), fields...)}
	r.types[name] = t
	Logger().Debug("defined type",
		zap.String("name", name),
		zap.Int("fields", len(fields)))
	return t, nil
}

// DefineEnum registers a named set of integer constants. Members need unique
// names and unique values; fields reference the enum like a composite type
// and store its value as EnumStorageKind.
func (r *Registry) DefineEnum(name string, members []EnumMember) (*Enum, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.Closed("registry closed for registration")
	}
	if !isIdentifier(name) {
		return nil, errors.InvalidInput(errors.PhaseDefine, "enum identifier must be a valid identifier: "+name)
	}
	if _, ok := r.types[name]; ok {
		return nil, errors.DuplicateType(name)
	}
	if _, ok := r.prims[name]; ok {
		return nil, errors.DuplicateType(name)
	}
	if _, ok := r.enums[name]; ok {
		return nil, errors.DuplicateType(name)
	}
	if len(members) == 0 {
		return nil, errors.New(errors.PhaseDefine, errors.KindInvalidField).
			Path(name).
			Detail("enum must declare at least one member").
			Build()
	}

	seenNames := make(map[string]struct{}, len(members))
	seenValues := make(map[int32]struct{}, len(members))
	for _, m := range members {
		if !isIdentifier(m.Name) {
			return nil, errors.InvalidField(name, m.Name, "member name must be a valid identifier")
		}
		if _, dup := seenNames[m.Name]; dup {
			return nil, errors.InvalidField(name, m.Name, "duplicate member name")
		}
		if _, dup := seenValues[m.Value]; dup {
			return nil, errors.InvalidField(name, m.Name, fmt.Sprintf("duplicate member value %d", m.Value))
		}
		seenNames[m.Name] = struct{}{}
		seenValues[m.Value] = struct{}{}
	}

	e := &Enum{name: name, members: append([]EnumMember(nil), members...)}
	r.enums[name] = e
	Logger().Debug("defined enum",
		zap.String("name", name),
		zap.Int("members", len(members)))
	return e, nil
}

// Enum looks up an enum type by identifier.
func (r *Registry) Enum(name string) (*Enum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enums[name]
	if !ok {
		return nil, errors.UnknownType(errors.PhaseDefine, name)
	}
	return e, nil
}

// EnumNames returns the identifiers of all registered enums, sorted for
// stable output.
func (r *Registry) EnumNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findCycleLocked runs a depth-first search from the candidate type's fields,
// marking in-progress nodes, and returns the reference chain that closes a
// cycle, or nil.
func (r *Registry) findCycleLocked(name string, fields []Field) []string {
	inPath := map[string]bool{name: true}
	chain := []string{name}

	var visit func(fields []Field) []string
	visit = func(fields []Field) []string {
		for _, f := range fields {
			dep := f.Ref.TypeName()
			if dep == "" {
				continue
			}
			if inPath[dep] {
				return append(append([]string(nil), chain...), dep)
			}
			t, ok := r.types[dep]
			if !ok {
				continue
			}
			inPath[dep] = true
			chain = append(chain, dep)
			if c := visit(t.fields); c != nil {
				return c
			}
			chain = chain[:len(chain)-1]
			inPath[dep] = false
		}
		return nil
	}
	return visit(fields)
}

// Type looks up a composite type by identifier.
func (r *Registry) Type(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	if !ok {
		return nil, errors.UnknownType(errors.PhaseDefine, name)
	}
	return t, nil
}

// TypeNames returns the identifiers of all registered composite types,
// sorted for stable output.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close ends the registration phase. Subsequent RegisterPrimitive and Define
// calls fail; reads remain valid and become safe to share across goroutines.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Closed reports whether the registration phase has ended.
func (r *Registry) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
