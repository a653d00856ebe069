package codec

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/blobforge/blobforge/errors"
)

func TestEncodeEnum(t *testing.T) {
	reg := vectorRegistry(t)
	enc := NewEncoder(reg)
	cell := mustType(t, reg, "Cell")

	t.Run("by member name", func(t *testing.T) {
		buf, err := enc.Encode(cell, map[string]any{"phase": "Gas", "density": 0.0})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		want := []byte{2, 0, 0, 0, 0, 0, 0, 0}
		if !bytes.Equal(buf, want) {
			t.Errorf("buffer:\n got %x\nwant %x", buf, want)
		}
	})

	t.Run("by member value", func(t *testing.T) {
		buf, err := enc.Encode(cell, map[string]any{"phase": 1, "density": 0.0})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if buf[0] != 1 {
			t.Errorf("stored value: got %d, want 1", buf[0])
		}
	})

	t.Run("unknown member name", func(t *testing.T) {
		_, err := enc.Encode(cell, map[string]any{"phase": "Plasma", "density": 0.0})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindTypeMismatch}) {
			t.Errorf("got %v, want type_mismatch", err)
		}
	})

	t.Run("value outside member set", func(t *testing.T) {
		_, err := enc.Encode(cell, map[string]any{"phase": 9, "density": 0.0})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindTypeMismatch}) {
			t.Errorf("got %v, want type_mismatch", err)
		}
	})

	t.Run("value beyond int range", func(t *testing.T) {
		_, err := enc.Encode(cell, map[string]any{"phase": int64(1) << 40, "density": 0.0})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOverflow}) {
			t.Errorf("got %v, want overflow", err)
		}
	})

	t.Run("non-numeric non-string", func(t *testing.T) {
		_, err := enc.Encode(cell, map[string]any{"phase": true, "density": 0.0})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindTypeMismatch}) {
			t.Errorf("got %v, want type_mismatch", err)
		}
	})
}

func TestDecodeEnum(t *testing.T) {
	reg := vectorRegistry(t)
	dec := NewDecoder(reg)
	cell := mustType(t, reg, "Cell")

	t.Run("member name surfaces", func(t *testing.T) {
		got, err := dec.Decode(cell, []byte{1, 0, 0, 0, 0, 0, 0, 0})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got["phase"] != "Liquid" {
			t.Errorf("phase: got %v, want Liquid", got["phase"])
		}
	})

	t.Run("stored value outside member set", func(t *testing.T) {
		_, err := dec.Decode(cell, []byte{9, 0, 0, 0, 0, 0, 0, 0})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTypeMismatch}) {
			t.Errorf("got %v, want type_mismatch", err)
		}
	})
}
