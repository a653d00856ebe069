package layout

import (
	"math"
	"sync"

	"github.com/blobforge/blobforge/errors"
	"github.com/blobforge/blobforge/schema"
)

// Descriptor is the resolved binary layout of one composite type.
type Descriptor struct {
	Size      uint32
	Align     uint32
	FieldOffs map[string]uint32
}

// Calculator resolves and caches layout descriptors against one registry.
type Calculator struct {
	reg   *schema.Registry
	mu    sync.RWMutex
	cache map[string]Descriptor
}

// NewCalculator returns a calculator bound to the given registry.
func NewCalculator(reg *schema.Registry) *Calculator {
	return &Calculator{
		reg:   reg,
		cache: make(map[string]Descriptor),
	}
}

// Resolve computes the layout of a composite type: per-field offsets with
// padding for alignment, total size, and the composite's alignment.
func (c *Calculator) Resolve(t *schema.Type) (Descriptor, error) {
	c.mu.RLock()
	cached, ok := c.cache[t.Name()]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fieldOffs := make(map[string]uint32, t.NumFields())
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range t.Fields() {
		size, align, err := c.FieldLayout(field)
		if err != nil {
			return Descriptor{}, err
		}

		offset = AlignTo(offset, align)
		fieldOffs[field.Name] = offset

		if align > maxAlign {
			maxAlign = align
		}

		next, ok := safeAddU32(offset, size)
		if !ok {
			return Descriptor{}, errors.Overflow(errors.PhaseResolve, []string{t.Name(), field.Name}, offset, "layout size")
		}
		offset = next
	}

	desc := Descriptor{
		Size:      AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}

	c.mu.Lock()
	c.cache[t.Name()] = desc
	c.mu.Unlock()
	return desc, nil
}

// ResolveName resolves the layout of a registered type by identifier.
func (c *Calculator) ResolveName(name string) (Descriptor, error) {
	t, err := c.reg.Type(name)
	if err != nil {
		return Descriptor{}, err
	}
	return c.Resolve(t)
}

// FieldLayout returns the total size and alignment one field occupies,
// accounting for fixed-length arrays.
func (c *Calculator) FieldLayout(f schema.Field) (size, align uint32, err error) {
	size, align, err = c.RefLayout(f.Ref)
	if err != nil {
		return 0, 0, err
	}
	if f.IsArray() {
		if uint64(f.Len) > math.MaxUint32 {
			return 0, 0, errors.Overflow(errors.PhaseResolve, []string{f.Name}, f.Len, "array size")
		}
		total, ok := safeMulU32(size, uint32(f.Len))
		if !ok {
			return 0, 0, errors.Overflow(errors.PhaseResolve, []string{f.Name}, f.Len, "array size")
		}
		size = total
	}
	return size, align, nil
}

// RefLayout returns the size and alignment of a single element of the
// referenced type.
func (c *Calculator) RefLayout(r schema.Ref) (size, align uint32, err error) {
	if r.IsPrimitive() {
		p, err := c.reg.Primitive(r.PrimID())
		if err != nil {
			return 0, 0, err
		}
		return p.Size, p.Align, nil
	}

	if _, err := c.reg.Enum(r.TypeName()); err == nil {
		p, err := c.reg.Primitive(schema.EnumStorageKind)
		if err != nil {
			return 0, 0, err
		}
		return p.Size, p.Align, nil
	}

	t, err := c.reg.Type(r.TypeName())
	if err != nil {
		return 0, 0, err
	}
	desc, err := c.Resolve(t)
	if err != nil {
		return 0, 0, err
	}
	return desc.Size, desc.Align, nil
}

// AlignTo rounds offset up to the next multiple of align.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func safeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func safeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}
