package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDefine   Phase = "define"   // primitive/type registration
	PhaseResolve  Phase = "resolve"  // layout resolution
	PhasePlan     Phase = "plan"     // dependency planning
	PhaseGenerate Phase = "generate" // code generation and assembly
	PhaseEncode   Phase = "encode"   // host value to bytes
	PhaseDecode   Phase = "decode"   // bytes to host value
)

// Kind categorizes the error
type Kind string

const (
	KindDuplicateKind Kind = "duplicate_kind"
	KindDuplicateType Kind = "duplicate_type"
	KindUnknownKind   Kind = "unknown_kind"
	KindUnknownType   Kind = "unknown_type"
	KindInvalidField  Kind = "invalid_field"
	KindCyclicType    Kind = "cyclic_type"
	KindFieldMissing  Kind = "field_missing"
	KindFieldUnknown  Kind = "field_unknown"
	KindTypeMismatch  Kind = "type_mismatch"
	KindArrayLength   Kind = "array_length"
	KindBufferSize    Kind = "buffer_size"
	KindEmptyRootSet  Kind = "empty_root_set"
	KindOverflow      Kind = "overflow"
	KindClosed        Kind = "closed"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	HostType string
	CType    string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.HostType != "" || e.CType != "" {
		b.WriteString(": ")
		if e.HostType != "" && e.CType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
			b.WriteString(", C type ")
			b.WriteString(e.CType)
		} else if e.HostType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		} else {
			b.WriteString("C type ")
			b.WriteString(e.CType)
		}
	}

	if e.Detail != "" {
		if e.HostType != "" || e.CType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// HostType sets the host-side type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// CType sets the C type name
func (b *Builder) CType(t string) *Builder {
	b.err.CType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// DuplicateKind creates a duplicate primitive registration error
func DuplicateKind(id string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindDuplicateKind,
		Detail: fmt.Sprintf("primitive kind %q already registered", id),
	}
}

// DuplicateType creates a duplicate type registration error
func DuplicateType(name string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindDuplicateType,
		Detail: fmt.Sprintf("type %q already registered", name),
	}
}

// UnknownKind creates an unknown primitive kind error
func UnknownKind(phase Phase, id string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownKind,
		Detail: fmt.Sprintf("primitive kind %q not registered", id),
	}
}

// UnknownType creates an unknown type error
func UnknownType(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Detail: fmt.Sprintf("type %q not registered", name),
	}
}

// InvalidField creates a malformed field error
func InvalidField(typeName, fieldName, detail string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindInvalidField,
		Path:   []string{typeName, fieldName},
		Detail: detail,
	}
}

// CyclicType creates a cycle detection error; chain is the reference path
// that closed the cycle.
func CyclicType(phase Phase, chain []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCyclicType,
		Path:   chain,
		Detail: "type graph contains a cycle",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, hostType, cType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		HostType: hostType,
		CType:    cType,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// ArrayLength creates an array length mismatch error
func ArrayLength(phase Phase, path []string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArrayLength,
		Path:   path,
		Detail: fmt.Sprintf("array length %d does not match declared length %d", got, want),
		Value:  got,
	}
}

// BufferSize creates a buffer size mismatch error
func BufferSize(phase Phase, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferSize,
		Detail: fmt.Sprintf("buffer is %d bytes, layout requires %d", got, want),
		Value:  got,
	}
}

// EmptyRootSet creates an empty root set error
func EmptyRootSet() *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindEmptyRootSet,
		Detail: "no root types requested",
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		CType:  targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Closed creates a registry-closed error
func Closed(detail string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindClosed,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
