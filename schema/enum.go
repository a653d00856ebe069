package schema

// EnumStorageKind is the primitive kind an enum value occupies in binary
// layouts. C compiles an enum to int, so the slot is a 4-byte signed integer.
const EnumStorageKind = KindS32

// EnumMember is one named constant of an enum type.
type EnumMember struct {
	Name  string
	Value int32
}

// Enum is an immutable named set of integer constants. Fields may reference
// an enum the same way they reference a composite type; the stored
// representation is always EnumStorageKind.
type Enum struct {
	name    string
	members []EnumMember
}

// Name returns the enum's identifier.
func (e *Enum) Name() string {
	return e.name
}

// Members returns the ordered member list. The returned slice is shared;
// callers must not modify it.
func (e *Enum) Members() []EnumMember {
	return e.members
}

// MemberByName looks up a member by its identifier.
func (e *Enum) MemberByName(name string) (EnumMember, bool) {
	for _, m := range e.members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// MemberByValue looks up a member by its constant value.
func (e *Enum) MemberByValue(v int32) (EnumMember, bool) {
	for _, m := range e.members {
		if m.Value == v {
			return m, true
		}
	}
	return EnumMember{}, false
}
