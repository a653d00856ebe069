// Package layout computes the binary layout of declared types.
//
// This package resolves size, alignment, and per-field byte offsets per
// standard C struct layout rules, so the byte arrangement computed on the
// host matches the struct layout the device compiler produces.
//
// # Layout Rules
//
//   - Primitives: size and alignment come from the primitive registry
//   - Composites: fields laid out in declaration order, each aligned to its
//     natural alignment, with the composite's alignment the maximum field
//     alignment and the total size rounded up to a multiple of it
//   - Arrays: element size times length, element alignment
//
// All multi-byte values in encoded buffers are little-endian.
//
// # Usage
//
//	calc := layout.NewCalculator(reg)
//	desc, err := calc.Resolve(typ)
//	// desc.Size, desc.Align, desc.FieldOffs available
//
// Descriptors are cached per type. Resolution is a pure function of the
// registry contents, so a Calculator is safe for concurrent use once the
// registry is closed.
package layout
