// Package codec converts host-side nested values to and from the binary
// layouts resolved by the layout package.
//
// The encoder accepts the shape a JSON parser produces: a map from field
// name to primitive value, nested map, or fixed-length sequence. The decoder
// reconstructs that shape from a byte buffer, with primitives surfaced as the
// kind's canonical Go type (uint8, int8, ... float32, float64). Enum fields
// encode from a member name or value and decode back to the member name.
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Host Value ←→ [Encoder/Decoder] ←→ Device Byte Buffer    │
//	└──────────────────────────────────────────────────────────┘
//
// No generated C code is involved: the codec works directly from the layout
// descriptor, which is the same source of truth the code generator uses, so
// host buffers and device structs agree byte for byte.
//
// # Round-Trip Guarantees
//
// For any value that satisfies a type's schema, Decode(Encode(v)) == v up to
// numeric canonicalization, and for any correctly sized zero-padded buffer b,
// Encode(Decode(b)) == b. Padding bytes are always written as zero.
//
// # Encoding Flow
//
//  1. enc := codec.NewEncoder(reg)
//  2. buf, err := enc.Encode(typ, value)
//
// # Decoding Flow
//
//  1. dec := codec.NewDecoder(reg)
//  2. value, err := dec.Decode(typ, buf)
//
// # Thread Safety
//
// Encoder and Decoder hold no per-call state and are safe for concurrent use
// once the registry is closed.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[encode] field_missing at scene.basis: required field "z" not found
//	[decode] buffer_size: buffer is 35 bytes, layout requires 36
package codec
