// Package schema holds the declarative type system: primitive kinds,
// composite type definitions, and dependency planning.
//
// Types are declared against a Registry. While a Registry is open, types and
// primitive kinds can be registered; after Close it becomes read-only and is
// safe for concurrent readers. A composite type is an ordered list of named
// fields, where each field references either a primitive kind or a previously
// defined composite, optionally as a fixed-length array.
//
// # Key Types
//
//	Registry   - Process-wide primitive and type registry with open/closed lifecycle
//	Primitive  - A scalar kind: size, alignment, and canonical C name
//	Type       - An immutable composite type definition
//	Field      - One named, typed member of a composite
//	Ref        - Closed variant referencing a primitive kind or a composite
//	Enum       - A named set of integer constants, stored as a 4-byte int slot
//
// The type graph is acyclic by construction: a field may only reference
// already-registered types, and Define rejects self-reference. Plan walks the
// graph in depth-first post-order to produce a deduplicated emission order
// with dependencies before dependents.
package schema
