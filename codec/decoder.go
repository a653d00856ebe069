package codec

import (
	"encoding/binary"
	"math"

	"github.com/blobforge/blobforge/errors"
	"github.com/blobforge/blobforge/layout"
	"github.com/blobforge/blobforge/schema"
)

// Decoder reconstructs host values from device byte buffers.
type Decoder struct {
	reg  *schema.Registry
	calc *layout.Calculator
}

// NewDecoder returns a decoder with its own layout calculator.
func NewDecoder(reg *schema.Registry) *Decoder {
	return &Decoder{reg: reg, calc: layout.NewCalculator(reg)}
}

// NewDecoderWithCalculator returns a decoder sharing an existing calculator.
func NewDecoderWithCalculator(reg *schema.Registry, calc *layout.Calculator) *Decoder {
	return &Decoder{reg: reg, calc: calc}
}

// Decode reconstructs the nested host value stored in buf, which must be
// exactly the type's layout size.
func (d *Decoder) Decode(t *schema.Type, buf []byte) (map[string]any, error) {
	desc, err := d.calc.Resolve(t)
	if err != nil {
		return nil, err
	}
	if len(buf) != int(desc.Size) {
		return nil, errors.BufferSize(errors.PhaseDecode, len(buf), int(desc.Size))
	}
	return d.decodeComposite(t, buf)
}

func (d *Decoder) decodeComposite(t *schema.Type, buf []byte) (map[string]any, error) {
	desc, err := d.calc.Resolve(t)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, t.NumFields())
	for _, f := range t.Fields() {
		off := desc.FieldOffs[f.Name]
		size, _, err := d.calc.FieldLayout(f)
		if err != nil {
			return nil, err
		}
		fieldBuf := buf[off : off+size]

		if f.IsArray() {
			items, err := d.decodeArray(f, fieldBuf)
			if err != nil {
				return nil, err
			}
			out[f.Name] = items
			continue
		}

		v, err := d.decodeRef(f.Ref, fieldBuf)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (d *Decoder) decodeArray(f schema.Field, buf []byte) ([]any, error) {
	stride, _, err := d.calc.RefLayout(f.Ref)
	if err != nil {
		return nil, err
	}

	items := make([]any, f.Len)
	for i := 0; i < f.Len; i++ {
		elemBuf := buf[uint32(i)*stride : uint32(i+1)*stride]
		v, err := d.decodeRef(f.Ref, elemBuf)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func (d *Decoder) decodeRef(r schema.Ref, buf []byte) (any, error) {
	if r.IsPrimitive() {
		p, err := d.reg.Primitive(r.PrimID())
		if err != nil {
			return nil, err
		}
		return decodePrimitive(p, buf)
	}

	if en, err := d.reg.Enum(r.TypeName()); err == nil {
		return decodeEnum(en, buf)
	}

	t, err := d.reg.Type(r.TypeName())
	if err != nil {
		return nil, err
	}
	return d.decodeComposite(t, buf)
}

// decodeEnum surfaces the stored value as its member name, which the encoder
// accepts back, keeping round trips byte-exact.
func decodeEnum(en *schema.Enum, buf []byte) (any, error) {
	v := int32(binary.LittleEndian.Uint32(buf))
	m, ok := en.MemberByValue(v)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			CType(en.Name()).
			Value(v).
			Detail("stored value %d is not a member of enum %s", v, en.Name()).
			Build()
	}
	return m.Name, nil
}

// decodePrimitive surfaces each kind as its canonical Go type, so decoded
// values re-encode to identical bytes.
func decodePrimitive(p schema.Primitive, buf []byte) (any, error) {
	switch p.ID {
	case schema.KindU8:
		return buf[0], nil
	case schema.KindS8:
		return int8(buf[0]), nil
	case schema.KindU16:
		return binary.LittleEndian.Uint16(buf), nil
	case schema.KindS16:
		return int16(binary.LittleEndian.Uint16(buf)), nil
	case schema.KindU32:
		return binary.LittleEndian.Uint32(buf), nil
	case schema.KindS32:
		return int32(binary.LittleEndian.Uint32(buf)), nil
	case schema.KindU64:
		return binary.LittleEndian.Uint64(buf), nil
	case schema.KindS64:
		return int64(binary.LittleEndian.Uint64(buf)), nil
	case schema.KindF32:
		return math.Float32frombits(binary.LittleEndian.Uint32(buf)), nil
	case schema.KindF64:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
	}

	return nil, errors.New(errors.PhaseDecode, errors.KindUnknownKind).
		Detail("no codec for primitive kind %q", p.ID).
		Build()
}
