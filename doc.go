// Package blobforge derives C/OpenCL binary struct layouts and matching
// code from declarative type descriptions.
//
// Composite types (scalars, nested composites, fixed-length arrays) are
// declared once against a registry; the library then computes a padded,
// C-compiler-compatible byte layout for each type, plans a dependency-safe
// emission order, generates OpenCL C source for the device side, and
// encodes/decodes host values to and from raw bytes so host and device
// agree on the layout bit for bit.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	blobforge/          Root package with the Artifact type and sink interface
//	├── schema/         Primitive registry, type definitions, dependency planning
//	├── layout/         Byte layout resolution (offsets, padding, sizes)
//	├── codec/          Host-side encoding/decoding between values and bytes
//	├── codegen/        OpenCL C struct and function generation, library assembly
//	├── device/         Flat dtype descriptors for compute-runtime registration
//	└── errors/         Structured error types for debugging
//
// # Quick Start
//
// Declare types, resolve layouts, and generate device code:
//
//	reg := schema.NewRegistry()
//	vec, err := reg.Define("Vector3", []schema.Field{
//	    {Name: "x", Ref: schema.Prim("f32")},
//	    {Name: "y", Ref: schema.Prim("f32")},
//	    {Name: "z", Ref: schema.Prim("f32")},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg.Close()
//
//	art, err := codegen.Assemble(reg, []string{"Vector3"}, codegen.SpaceGlobal)
//	fmt.Println(art.Header) // typedef struct _vector3_gt { float x; ... }
//
// Move host values across the boundary without running any generated code:
//
//	enc := codec.NewEncoder(reg)
//	buf, err := enc.Encode(vec, map[string]any{"x": 1.0, "y": 0.0, "z": 0.0})
//
// # Layout Model
//
// Layouts follow standard C struct rules: each field is placed at the next
// offset aligned to its natural alignment, a composite's alignment is the
// maximum of its fields' alignments, and the total size is rounded up to a
// multiple of that alignment. All multi-byte values are little-endian.
//
// Because the generated structs use natural alignment, the C compiler
// reproduces exactly the layout the host computes; padding bytes are zeroed
// by encoders and generated initializers so buffers compare reproducibly.
//
// # Thread Safety
//
// A Registry is single-writer while open; after Close it is read-only and
// safe for any number of concurrent readers. Layout resolution, planning,
// generation, and the codec are pure functions over the closed registry and
// are safe to call from multiple goroutines.
package blobforge
