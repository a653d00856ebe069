package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSchema(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

const vectorSchema = `{"types": [
	{"name": "Vector3", "fields": [
		{"name": "x", "type": "f32"},
		{"name": "y", "type": "f32"},
		{"name": "z", "type": "f32"}]},
	{"name": "Path", "fields": [
		{"name": "length", "type": "u32"},
		{"name": "points", "type": "Vector3", "len": 4}]}
]}`

func TestLoadSchema(t *testing.T) {
	path := writeSchema(t, vectorSchema)

	reg, names, err := loadSchema(path)
	if err != nil {
		t.Fatalf("loadSchema: %v", err)
	}
	if len(names) != 2 || names[0] != "Vector3" || names[1] != "Path" {
		t.Errorf("names = %v", names)
	}
	if !reg.Closed() {
		t.Error("registry should be closed after loading")
	}

	pathType, err := reg.Type("Path")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	fields := pathType.Fields()
	if fields[0].Ref.IsPrimitive() != true || fields[0].Ref.PrimID() != "u32" {
		t.Errorf("length field: %+v", fields[0])
	}
	if fields[1].Ref.IsPrimitive() || fields[1].Ref.TypeName() != "Vector3" || fields[1].Len != 4 {
		t.Errorf("points field: %+v", fields[1])
	}
}

func TestLoadSchemaEnums(t *testing.T) {
	path := writeSchema(t, `{
		"enums": [{"name": "Phase", "members": ["Solid", "Liquid", "Gas"]}],
		"types": [{"name": "Cell", "fields": [
			{"name": "phase", "type": "Phase"},
			{"name": "density", "type": "f32"}]}]
	}`)

	reg, names, err := loadSchema(path)
	if err != nil {
		t.Fatalf("loadSchema: %v", err)
	}
	if len(names) != 1 || names[0] != "Cell" {
		t.Errorf("names = %v", names)
	}

	en, err := reg.Enum("Phase")
	if err != nil {
		t.Fatalf("Enum: %v", err)
	}
	if m, ok := en.MemberByName("Gas"); !ok || m.Value != 2 {
		t.Errorf("Gas = %+v, %v", m, ok)
	}

	cell, err := reg.Type("Cell")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if f := cell.Fields()[0]; f.Ref.IsPrimitive() || f.Ref.TypeName() != "Phase" {
		t.Errorf("phase field: %+v", f)
	}
}

func TestLoadSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty document", `{"types": []}`, "declares no types"},
		{"bad json", `{"types": [`, "parse schema"},
		{"unresolved reference", `{"types": [{"name": "A", "fields": [{"name": "x", "type": "Missing"}]}]}`, "Missing"},
		{"duplicate type", `{"types": [
			{"name": "A", "fields": [{"name": "x", "type": "u8"}]},
			{"name": "A", "fields": [{"name": "x", "type": "u8"}]}]}`, "duplicate"},
		{"duplicate enum member", `{"enums": [{"name": "P", "members": ["On", "On"]}]}`, "duplicate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSchema(t, tc.doc)
			_, _, err := loadSchema(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadSchemaMissingFile(t *testing.T) {
	if _, _, err := loadSchema(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
