// Package device exposes resolved layouts as flat field tables, the shape a
// compute runtime's type system expects when registering a structured
// numeric type. The flat table and the generated C struct describe the same
// bytes, so host arrays built from the table line up with device structs
// without conversion.
//
// The package is pure data: it never touches a device.
package device
