// Package errors provides structured error types for the blobforge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, host/C type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("body", "velocity").
//		HostType("string").
//		CType("float").
//		Detail("cannot convert string to float").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseEncode, path, "string", "float")
//	err := errors.FieldMissing(errors.PhaseEncode, path, "velocity")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
