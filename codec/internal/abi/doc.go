// Package abi provides internal utilities for host-value coercion.
//
// This package contains the numeric coercion helpers used by the codec
// package when mapping loosely typed host values (JSON-style maps with
// float64 numbers, plain ints, or already-typed scalars) onto declared
// primitive kinds.
//
// Integer coercions require the value to be exactly representable in the
// target kind; float coercions accept any numeric value and convert.
//
// This package is internal to the codec.
package abi
