package clowncopterize

import (
	"github.com/chriso345/clowncopterize/core"
	"github.com/chriso345/clowncopterize/source"
)

// Record is an in-memory struct declaration: a type name and its fields in
// declaration order.
//
// A Record can be built by hand, from a reflect.Type with core.FromStructType,
// or from Go source by Rewrite.
type Record = core.Record

// Field is one member of a Record.
//
// Type holds the Go type expression as written, and Tag the unquoted struct
// tag. Option metadata lives under the `arg` key of the tag:
//
//	ClowntownThis bool `arg:"long" desc:"Turn debugging information on"`
//
// After Transform the directive gains a conditional default:
//
//	ClowntownThis bool `arg:"long,default_value_if=Clowncopterize:true:true" desc:"..."`
type Field = core.Field

// Config is the resolved aggregate flag: its long option name and the
// identifier of the field that holds it.
type Config = core.Config

// Directive is the decoded `arg` tag of a field, an ordered list of Args.
type Directive = core.Directive

// Arg is one directive argument, e.g. `long`, `short=v` or
// `default_value_if=Clowncopterize:true:true`.
type Arg = core.Arg

// Options select the declarations Rewrite touches in addition to those
// carrying a `//clowncopterize:aggregate` marker.
type Options = source.Options
