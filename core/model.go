package core

import "reflect"

// Record is an in-memory struct declaration: a type name and its fields in
// declaration order.
type Record struct {
	Name   string
	Fields []*Field
}

// Field is one member of a Record.
//
// Type is the Go type expression as written (e.g. "bool", "*string") and Tag
// is the unquoted struct tag. Embedded fields carry the name they declare
// (`Base` for `*pkg.Base`) and are never eligible for rewriting.
type Field struct {
	Name     string
	Type     string
	Tag      string
	Embedded bool

	// rtype is set when the field was built from a reflect.Type.
	rtype reflect.Type
}

// Lookup returns the field called name, embedded or not, or nil.
func (r *Record) Lookup(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (r *Record) hasNamedFields() bool {
	for _, f := range r.Fields {
		if !f.Embedded {
			return true
		}
	}
	return false
}

func (f *Field) clone() *Field {
	c := *f
	return &c
}
