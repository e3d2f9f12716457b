package core

import (
	"fmt"
	"go/token"
	"reflect"

	"github.com/chriso345/clowncopterize/errors"
)

// FromStructType builds a Record describing the struct type t (or the struct
// t points to).
func FromStructType(t reflect.Type) (*Record, error) {
	if t == nil {
		return nil, errors.NewParseError("invalid type: nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NewParseError(fmt.Sprintf("invalid type: %s is not a struct", t))
	}

	rec := &Record{Name: t.Name(), Fields: make([]*Field, 0, t.NumField())}
	for i := range t.NumField() {
		sf := t.Field(i)
		rec.Fields = append(rec.Fields, &Field{
			Name:     sf.Name,
			Type:     sf.Type.String(),
			Tag:      string(sf.Tag),
			Embedded: sf.Anonymous,
			rtype:    sf.Type,
		})
	}
	return rec, nil
}

// StructOf builds the struct type described by r. Every field must come from
// FromStructType or Transform and be exported.
func (r *Record) StructOf() (t reflect.Type, err error) {
	sfs := make([]reflect.StructField, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.rtype == nil {
			return nil, errors.NewUnsupportedField(f.Name, f.Type)
		}
		if !token.IsExported(f.Name) {
			return nil, errors.NewUnsupportedField(f.Name, "unexported "+f.Type)
		}
		sfs = append(sfs, reflect.StructField{
			Name:      f.Name,
			Type:      f.rtype,
			Tag:       reflect.StructTag(f.Tag),
			Anonymous: f.Embedded,
		})
	}

	// reflect.StructOf panics on inputs it cannot represent
	defer func() {
		if rec := recover(); rec != nil {
			t, err = nil, errors.NewParseError(fmt.Sprintf("cannot build %s: %v", r.Name, rec))
		}
	}()
	return reflect.StructOf(sfs), nil
}
