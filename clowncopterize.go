package clowncopterize

import (
	"reflect"

	"github.com/chriso345/clowncopterize/core"
	"github.com/chriso345/clowncopterize/errors"
	"github.com/chriso345/clowncopterize/optparse"
	"github.com/chriso345/clowncopterize/source"
)

// Transform rewrites a struct declaration so that every boolean field whose
// name starts with "Clowntown" defaults to true when the aggregate flag is set,
// and appends the aggregate field itself.
//
// The payload is either empty, selecting the default aggregate flag
// `--clowncopterize`, or a single property naming it:
//
//	aggregate_flag_name = "i-live-in-clowntown"
//
// The input record is left untouched. When no field matches, the input is
// returned as is.
//
// Example:
//
//	rec := &clowncopterize.Record{Name: "Cli", Fields: []*clowncopterize.Field{
//		{Name: "ClowntownThis", Type: "bool", Tag: `arg:"long"`},
//	}}
//
//	out, err := clowncopterize.Transform(rec, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//	// out.Fields[0].Tag == `arg:"long,default_value_if=Clowncopterize:true:true"`
//	// out.Fields[1].Name == "Clowncopterize"
var Transform = core.TransformPayload

// ResolveConfig parses an aggregate flag configuration payload.
var ResolveConfig = core.ResolveConfig

// Rewrite transforms every struct declaration marked with a
// `//clowncopterize:aggregate` comment in a Go source file and returns the formatted
// result.
//
// Usage:
//
//	//clowncopterize:aggregate
//	type Cli struct {
//		Name          *string
//		ClowntownThis bool `arg:"long"`
//		ClowntownThat bool `arg:"long"`
//	}
var Rewrite = source.Rewrite

// Parse parses command-line arguments into a pointer to a struct whose fields
// carry `arg` option directives, honouring conditional defaults.
var Parse = optparse.Parse

// Usage renders a help message for the options of target.
var Usage = optparse.Usage

// New applies Transform to the struct type of prototype at run time and
// returns a pointer to a zero value of the rewritten type.
//
// prototype must be a struct or a pointer to one, with exported fields only.
// The result is meant to be handed to Parse and read back with reflection or
// the Lookup helper.
func New(prototype any, payload string) (any, error) {
	rec, err := core.FromStructType(reflect.TypeOf(prototype))
	if err != nil {
		return nil, err
	}
	out, err := core.TransformPayload(rec, payload)
	if err != nil {
		return nil, err
	}
	t, err := out.StructOf()
	if err != nil {
		return nil, err
	}
	return reflect.New(t).Interface(), nil
}

// Lookup returns the value of the named field of a struct pointer created by
// New.
func Lookup(target any, name string) (any, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, errors.NewParseError("invalid type: must pass pointer to struct")
	}
	f := v.Elem().FieldByName(name)
	if !f.IsValid() {
		return nil, errors.NewParseError("no field named " + name)
	}
	return f.Interface(), nil
}
