package core

import (
	"fmt"
	"strings"

	"github.com/fatih/structtag"
	"github.com/stoewer/go-strcase"

	"github.com/chriso345/clowncopterize/errors"
)

// Struct tag keys read from option fields.
const (
	DirectiveKey = "arg"
	DescKey      = "desc"
)

// Directive argument keys understood by the option parser.
const (
	ArgLong           = "long"
	ArgShort          = "short"
	ArgDefault        = "default"
	ArgRequired       = "required"
	ArgDefaultValueIf = "default_value_if"
)

// Arg is one argument of an option directive: a bare key such as `long`, or
// `key=value` where value may hold several parts separated by ':'.
type Arg struct {
	Key    string
	Values []string
}

func (a Arg) String() string {
	if len(a.Values) == 0 {
		return a.Key
	}
	return a.Key + "=" + strings.Join(a.Values, ":")
}

// Equal reports whether a and b have the same key and values.
func (a Arg) Equal(b Arg) bool {
	if a.Key != b.Key || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

// DefaultValueIf builds the conditional-default argument: when the field
// named ident resolves to match, the option defaults to value.
func DefaultValueIf(ident, match, value string) Arg {
	return Arg{Key: ArgDefaultValueIf, Values: []string{ident, match, value}}
}

// Directive is the decoded `arg` struct tag of a field.
type Directive struct {
	Args []Arg
}

// ParseDirective decodes the value of an `arg` tag, e.g. "long,short=v".
func ParseDirective(s string) (Directive, error) {
	if strings.TrimSpace(s) == "" {
		return Directive{}, fmt.Errorf("empty argument list")
	}
	var d Directive
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Directive{}, fmt.Errorf("empty argument at position %d", i+1)
		}
		key, value, hasValue := strings.Cut(part, "=")
		if !validKey(key) {
			return Directive{}, fmt.Errorf("invalid argument key %q", key)
		}
		arg := Arg{Key: key}
		if hasValue {
			if value == "" {
				return Directive{}, fmt.Errorf("argument %q has an empty value", key)
			}
			arg.Values = strings.Split(value, ":")
		}
		if arg.Key == ArgDefaultValueIf && len(arg.Values) != 3 {
			return Directive{}, fmt.Errorf("%s expects ident:match:value, got %q", ArgDefaultValueIf, value)
		}
		d.Args = append(d.Args, arg)
	}
	return d, nil
}

func validKey(key string) bool {
	if key == "" || key[0] < 'a' || key[0] > 'z' {
		return false
	}
	for _, r := range key {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

func (d Directive) String() string {
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

// Lookup returns the first argument with the given key.
func (d Directive) Lookup(key string) (Arg, bool) {
	for _, a := range d.Args {
		if a.Key == key {
			return a, true
		}
	}
	return Arg{}, false
}

// Contains reports whether d already carries an argument equal to a.
func (d Directive) Contains(a Arg) bool {
	for _, b := range d.Args {
		if b.Equal(a) {
			return true
		}
	}
	return false
}

// Append adds a after the existing arguments.
func (d *Directive) Append(a Arg) {
	d.Args = append(d.Args, a)
}

// LongName returns the long option name for a field called ident: the value
// of `long=name` if given, else the kebab-cased identifier.
func (d Directive) LongName(ident string) (string, bool) {
	a, ok := d.Lookup(ArgLong)
	if !ok {
		return "", false
	}
	if len(a.Values) > 0 {
		return a.Values[0], true
	}
	return strcase.KebabCase(ident), true
}

// Directive returns the decoded option directive of f and whether f has one.
func (f *Field) Directive() (Directive, bool, error) {
	tags, err := f.tags()
	if err != nil {
		return Directive{}, false, err
	}
	tag, err := tags.Get(DirectiveKey)
	if err != nil {
		return Directive{}, false, nil
	}
	d, err := ParseDirective(tag.Value())
	if err != nil {
		return Directive{}, false, errors.NewMalformedDirective(f.Name, err.Error())
	}
	return d, true, nil
}

// withDirective returns a copy of f whose `arg` tag is replaced by d. Other
// tag keys keep their order.
func (f *Field) withDirective(d Directive) (*Field, error) {
	tags, err := f.tags()
	if err != nil {
		return nil, err
	}
	if err := tags.Set(&structtag.Tag{Key: DirectiveKey, Name: d.String()}); err != nil {
		return nil, errors.NewMalformedDirective(f.Name, err.Error())
	}
	nf := f.clone()
	nf.Tag = tags.String()
	return nf, nil
}

func (f *Field) tags() (*structtag.Tags, error) {
	tags, err := structtag.Parse(f.Tag)
	if err != nil {
		return nil, errors.NewMalformedDirective(f.Name, err.Error())
	}
	if tags == nil {
		// whitespace-only tag
		return &structtag.Tags{}, nil
	}
	return tags, nil
}
