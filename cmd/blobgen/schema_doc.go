package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blobforge/blobforge/schema"
)

// schemaDoc is the JSON shape blobgen reads. The core packages never parse
// JSON; the document is translated into registry calls here.
//
//	{"enums": [{"name": "Phase", "members": ["Solid", "Liquid"]}],
//	 "types": [{"name": "Vector3", "fields": [
//	    {"name": "x", "type": "f32"},
//	    {"name": "rows", "type": "Vector3", "len": 3}]}]}
type schemaDoc struct {
	Enums []enumDecl `json:"enums"`
	Types []typeDecl `json:"types"`
}

type typeDecl struct {
	Name   string      `json:"name"`
	Fields []fieldDecl `json:"fields"`
}

type fieldDecl struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Len  int    `json:"len,omitempty"`
}

// enumDecl lists members in value order: the first member is 0, the next 1,
// and so on.
type enumDecl struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// loadSchema reads a schema document, defines every type in declaration
// order, and returns the closed registry plus the declared type names.
func loadSchema(path string) (*schema.Registry, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema: %w", err)
	}

	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse schema: %w", err)
	}
	if len(doc.Types) == 0 && len(doc.Enums) == 0 {
		return nil, nil, fmt.Errorf("schema %q declares no types", path)
	}

	reg := schema.NewRegistry()
	for _, ed := range doc.Enums {
		members := make([]schema.EnumMember, 0, len(ed.Members))
		for i, m := range ed.Members {
			members = append(members, schema.EnumMember{Name: m, Value: int32(i)})
		}
		if _, err := reg.DefineEnum(ed.Name, members); err != nil {
			return nil, nil, err
		}
	}
	names := make([]string, 0, len(doc.Types))
	for _, td := range doc.Types {
		fields := make([]schema.Field, 0, len(td.Fields))
		for _, fd := range td.Fields {
			ref := schema.Named(fd.Type)
			if _, err := reg.Primitive(fd.Type); err == nil {
				ref = schema.Prim(fd.Type)
			}
			fields = append(fields, schema.Field{Name: fd.Name, Ref: ref, Len: fd.Len})
		}
		if _, err := reg.Define(td.Name, fields); err != nil {
			return nil, nil, err
		}
		names = append(names, td.Name)
	}
	reg.Close()
	return reg, names, nil
}
