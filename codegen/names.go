package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

// Space is an OpenCL address-space qualifier. The qualifier is threaded
// through every generated type and function symbol, so the same logical type
// can coexist in several memory spaces without colliding.
type Space string

const (
	SpaceGlobal   Space = "__global"
	SpaceConstant Space = "__constant"
	SpaceLocal    Space = "__local"
	SpacePrivate  Space = "__private"
)

// Spaces lists all supported address-space qualifiers.
func Spaces() []Space {
	return []Space{SpaceGlobal, SpaceConstant, SpaceLocal, SpacePrivate}
}

// ParseSpace accepts a qualifier with or without the leading underscores.
func ParseSpace(s string) (Space, bool) {
	tag := strings.TrimPrefix(strings.ToLower(s), "__")
	for _, space := range Spaces() {
		if space.Tag() == tag {
			return space, true
		}
	}
	return "", false
}

// Valid reports whether the space is one of the supported qualifiers.
func (s Space) Valid() bool {
	switch s {
	case SpaceGlobal, SpaceConstant, SpaceLocal, SpacePrivate:
		return true
	}
	return false
}

// Tag returns the qualifier without the leading underscores ("global").
func (s Space) Tag() string {
	return strings.TrimPrefix(string(s), "__")
}

// Suffix is the short per-space type name suffix: the qualifier's first
// letter plus "t", so __global Vector3 becomes vector3_gt.
func (s Space) Suffix() string {
	return s.Tag()[:1] + "t"
}

// readPrefix qualifies a pointer the generated code only reads through.
func (s Space) readPrefix() string {
	return string(s) + " "
}

// writePrefix qualifies a pointer the generated code writes through.
// __constant memory is read-only on the device, so writers fall back to an
// unqualified (private) pointer and the buffer is filled before upload.
func (s Space) writePrefix() string {
	if s == SpaceConstant {
		return ""
	}
	return string(s) + " "
}

// CamelToSnake converts a CamelCase identifier to snake_case.
// Digits pass through unchanged: Matrix3x3 becomes matrix3x3.
func CamelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TypeName returns the generated C struct name for a type in a space.
func TypeName(name string, space Space) string {
	return fmt.Sprintf("%s_%s", CamelToSnake(name), space.Suffix())
}

// InitName returns the name of the generated zero-initializer function.
func InitName(name string, space Space) string {
	return "init_" + TypeName(name, space)
}

// SerializeName returns the name of the generated struct-to-blob encoder.
func SerializeName(name string, space Space) string {
	return "serialize_" + TypeName(name, space)
}

// DeserializeName returns the name of the generated blob-to-struct decoder.
func DeserializeName(name string, space Space) string {
	return "deserialize_" + TypeName(name, space)
}

// EnumConstantName returns the #define backing one enum member: the spaced
// type name and the member, both upper snake case.
func EnumConstantName(enumName, member string, space Space) string {
	return strings.ToUpper(TypeName(enumName, space)) + "_" + strings.ToUpper(CamelToSnake(member))
}

// SizeofMacro returns the name of the generated size macro.
func SizeofMacro(name string, space Space) string {
	return "sizeof_" + TypeName(name, space)
}
