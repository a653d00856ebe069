package codec

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/blobforge/blobforge/codec/internal/abi"
	"github.com/blobforge/blobforge/errors"
	"github.com/blobforge/blobforge/layout"
	"github.com/blobforge/blobforge/schema"
)

// Encoder writes host values into device byte buffers.
type Encoder struct {
	reg  *schema.Registry
	calc *layout.Calculator
}

// NewEncoder returns an encoder with its own layout calculator.
func NewEncoder(reg *schema.Registry) *Encoder {
	return &Encoder{reg: reg, calc: layout.NewCalculator(reg)}
}

// NewEncoderWithCalculator returns an encoder sharing an existing calculator,
// so layout descriptors are resolved once across encoder, decoder, and
// generator.
func NewEncoderWithCalculator(reg *schema.Registry, calc *layout.Calculator) *Encoder {
	return &Encoder{reg: reg, calc: calc}
}

// Encode converts a nested host value into a freshly allocated buffer of the
// type's layout size. Padding bytes are zero.
func (e *Encoder) Encode(t *schema.Type, value map[string]any) ([]byte, error) {
	desc, err := e.calc.Resolve(t)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, desc.Size)
	if err := e.encodeComposite(t, value, buf, nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto writes a nested host value into buf, which must be exactly the
// type's layout size. The buffer is zeroed first so padding is defined.
func (e *Encoder) EncodeInto(t *schema.Type, value map[string]any, buf []byte) error {
	desc, err := e.calc.Resolve(t)
	if err != nil {
		return err
	}
	if len(buf) != int(desc.Size) {
		return errors.BufferSize(errors.PhaseEncode, len(buf), int(desc.Size))
	}
	for i := range buf {
		buf[i] = 0
	}
	return e.encodeComposite(t, value, buf, nil)
}

func (e *Encoder) encodeComposite(t *schema.Type, value any, buf []byte, path []string) error {
	m, ok := value.(map[string]any)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), t.Name())
	}

	desc, err := e.calc.Resolve(t)
	if err != nil {
		return err
	}

	fields := t.Fields()
	if len(m) > len(fields) {
		known := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			known[f.Name] = struct{}{}
		}
		for key := range m {
			if _, ok := known[key]; !ok {
				return errors.FieldUnknown(errors.PhaseEncode, path, key)
			}
		}
	} else {
		for key := range m {
			found := false
			for _, f := range fields {
				if f.Name == key {
					found = true
					break
				}
			}
			if !found {
				return errors.FieldUnknown(errors.PhaseEncode, path, key)
			}
		}
	}

	for _, f := range fields {
		v, ok := m[f.Name]
		if !ok {
			return errors.FieldMissing(errors.PhaseEncode, path, f.Name)
		}

		fieldPath := append(path[:len(path):len(path)], f.Name)
		off := desc.FieldOffs[f.Name]
		size, _, err := e.calc.FieldLayout(f)
		if err != nil {
			return err
		}
		fieldBuf := buf[off : off+size]

		if f.IsArray() {
			if err := e.encodeArray(f, v, fieldBuf, fieldPath); err != nil {
				return err
			}
			continue
		}
		if err := e.encodeRef(f.Ref, v, fieldBuf, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeArray(f schema.Field, value any, buf []byte, path []string) error {
	stride, _, err := e.calc.RefLayout(f.Ref)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), "array of "+f.Ref.String())
	}
	if rv.Len() != f.Len {
		return errors.ArrayLength(errors.PhaseEncode, path, rv.Len(), f.Len)
	}

	for i := 0; i < rv.Len(); i++ {
		elemBuf := buf[uint32(i)*stride : uint32(i+1)*stride]
		if err := e.encodeRef(f.Ref, rv.Index(i).Interface(), elemBuf, path); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeRef(r schema.Ref, value any, buf []byte, path []string) error {
	if r.IsPrimitive() {
		p, err := e.reg.Primitive(r.PrimID())
		if err != nil {
			return err
		}
		return encodePrimitive(p, value, buf, path)
	}

	if en, err := e.reg.Enum(r.TypeName()); err == nil {
		return encodeEnum(en, value, buf, path)
	}

	t, err := e.reg.Type(r.TypeName())
	if err != nil {
		return err
	}
	return e.encodeComposite(t, value, buf, path)
}

// encodeEnum accepts either a member name or a member value; anything outside
// the declared member set is rejected.
func encodeEnum(en *schema.Enum, value any, buf []byte, path []string) error {
	if name, ok := value.(string); ok {
		m, ok := en.MemberByName(name)
		if !ok {
			return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				Path(path...).
				HostType("string").
				CType(en.Name()).
				Value(name).
				Detail("enum %s has no member named %q", en.Name(), name).
				Build()
		}
		putUint(buf, 4, uint64(uint32(m.Value)))
		return nil
	}

	i, ok := abi.CoerceToInt64(value)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), en.Name())
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return errors.Overflow(errors.PhaseEncode, path, value, en.Name())
	}
	m, ok := en.MemberByValue(int32(i))
	if !ok {
		return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			Path(path...).
			HostType(abi.TypeName(value)).
			CType(en.Name()).
			Value(value).
			Detail("enum %s has no member with value %d", en.Name(), i).
			Build()
	}
	putUint(buf, 4, uint64(uint32(m.Value)))
	return nil
}

func encodePrimitive(p schema.Primitive, value any, buf []byte, path []string) error {
	switch p.ID {
	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
		u, ok := abi.CoerceToUint64(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), p.CName)
		}
		max := uint64(1)<<(p.Size*8) - 1
		if p.Size == 8 {
			max = math.MaxUint64
		}
		if u > max {
			return errors.Overflow(errors.PhaseEncode, path, value, p.CName)
		}
		putUint(buf, p.Size, u)
		return nil

	case schema.KindS8, schema.KindS16, schema.KindS32, schema.KindS64:
		i, ok := abi.CoerceToInt64(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), p.CName)
		}
		if p.Size < 8 {
			bound := int64(1) << (p.Size*8 - 1)
			if i < -bound || i >= bound {
				return errors.Overflow(errors.PhaseEncode, path, value, p.CName)
			}
		}
		putUint(buf, p.Size, uint64(i))
		return nil

	case schema.KindF32:
		f, ok := abi.CoerceToFloat32(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), p.CName)
		}
		binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
		return nil

	case schema.KindF64:
		f, ok := abi.CoerceToFloat64(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(value), p.CName)
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return nil
	}

	return errors.New(errors.PhaseEncode, errors.KindUnknownKind).
		Path(path...).
		Detail("no codec for primitive kind %q", p.ID).
		Build()
}

func putUint(buf []byte, size uint32, u uint64) {
	switch size {
	case 1:
		buf[0] = byte(u)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(u))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(u))
	case 8:
		binary.LittleEndian.PutUint64(buf, u)
	}
}
