// Package codegen emits OpenCL C source for registered types: a struct
// typedef, a size macro, a zero-initializer, and paired serialize and
// deserialize functions per type, assembled into a header/source artifact.
//
//	┌───────────────────────────────────────────────────────────────┐
//	│ Registry → Plan → [Generator] → fragments → [Assemble] → .h/.cl│
//	└───────────────────────────────────────────────────────────────┘
//
// Types are emitted in dependency order, each exactly once, so the artifact
// compiles without forward references. Enums emit first as a block of member
// constants plus a typedef, with no functions. Every symbol carries an
// address-space suffix (Vector3 in __global space becomes vector3_gt),
// letting the same logical type live in several memory spaces in one
// translation unit.
//
// Generated offsets come from the layout package, the same source of truth
// the host-side codec uses, so a buffer written by codec.Encoder is readable
// by the generated deserialize function and vice versa.
//
// # Usage
//
//	artifact, err := codegen.Assemble(reg, []string{"Matrix3x3"}, codegen.SpaceGlobal)
//	// artifact.Header → matrix3x3.h, artifact.Source → matrix3x3.cl
//
// # Error Handling
//
// Assembly fails before producing any text: an empty root set, an unknown
// root, an unresolvable layout, or an invalid address space each return a
// structured error and no partial artifact.
package codegen
