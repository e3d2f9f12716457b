package optparse

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/chriso345/clowncopterize/core"
	"github.com/chriso345/clowncopterize/errors"
	"github.com/chriso345/clowncopterize/internal/common"
)

// option describes one struct field as seen by the parser.
type option struct {
	index    int
	name     string
	long     string
	short    string
	desc     string
	def      string
	hasDef   bool
	required bool
	cond     *core.Arg
	typ      reflect.Type
}

func (o *option) isFlag() bool { return o.long != "" || o.short != "" }
func (o *option) isBool() bool { return o.typ.Kind() == reflect.Bool }

// display returns the name used for o in messages.
func (o *option) display() string {
	switch {
	case o.long != "":
		return common.LongFlag(o.long)
	case o.short != "":
		return common.ShortFlag(o.short)
	}
	return strings.ToUpper(o.name)
}

// collectOptions reads the options declared by the exported fields of t.
func collectOptions(t reflect.Type) ([]*option, error) {
	var opts []*option
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		if !supported(field.Type) {
			return nil, errors.NewUnsupportedField(field.Name, field.Type.Kind().String())
		}

		opt := &option{index: i, name: field.Name, desc: field.Tag.Get(core.DescKey), typ: field.Type}
		if raw, ok := field.Tag.Lookup(core.DirectiveKey); ok {
			d, err := core.ParseDirective(raw)
			if err != nil {
				return nil, errors.NewMalformedDirective(field.Name, err.Error())
			}
			opt.long, _ = d.LongName(field.Name)
			if a, ok := d.Lookup(core.ArgShort); ok && len(a.Values) > 0 {
				opt.short = a.Values[0]
			}
			if a, ok := d.Lookup(core.ArgDefault); ok && len(a.Values) > 0 {
				opt.def, opt.hasDef = strings.Join(a.Values, ":"), true
			}
			if a, ok := d.Lookup(core.ArgDefaultValueIf); ok {
				opt.cond = &a
			}
			_, opt.required = d.Lookup(core.ArgRequired)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func supported(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Float64:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.String
	}
	return false
}

// buildArgMaps processes the provided args and returns maps for flags and positionals.
// Boolean flags only take the following token as their value when it is "true" or "false".
func buildArgMaps(args []string, boolFlags map[string]bool) (map[string]string, map[string]int, []string) {
	argMap := map[string]string{}
	argIndex := map[string]int{}
	var positionals []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !common.IsFlag(arg) {
			positionals = append(positionals, arg)
			continue
		}

		name, value, inline := common.SplitFlag(arg)
		argIndex[name] = i
		if inline {
			argMap[name] = value
			continue
		}
		if i+1 < len(args) && !common.IsFlag(args[i+1]) && args[i+1] != "--" {
			next := args[i+1]
			if !boolFlags[name] || next == "true" || next == "false" {
				argMap[name] = next
				i++ // skip the value
			}
		}
	}
	return argMap, argIndex, positionals
}

// Parse parses args into target, which must be a pointer to a struct.
//
// Fields tagged with `arg` are options; other exported fields are filled from
// positional arguments in declaration order. A field whose directive carries
// default_value_if=Ident:match:value takes value when the field Ident resolves
// to match and the option itself was not given.
func Parse(target any, args []string) error {
	if !common.IsStructPtr(target) {
		return errors.NewParseError("invalid type: must pass pointer to struct")
	}

	v := reflect.ValueOf(target).Elem()
	opts, err := collectOptions(v.Type())
	if err != nil {
		return err
	}

	declared := map[string]*option{}
	boolFlags := map[string]bool{}
	for _, o := range opts {
		for _, flag := range flagNames(o) {
			declared[flag] = o
			boolFlags[flag] = o.isBool()
		}
	}

	argMap, argIndex, positionals := buildArgMaps(args, boolFlags)

	// Handle --help unless a field claims it
	for _, h := range []string{"-h", "--help"} {
		if _, ok := argIndex[h]; ok && declared[h] == nil {
			return errors.ErrHelp
		}
	}

	if err := checkUnknown(argIndex, declared); err != nil {
		return err
	}

	raw := map[int]string{}
	positionalIndex := 0
	for _, o := range opts {
		if !o.isFlag() {
			if positionalIndex < len(positionals) {
				raw[o.index] = positionals[positionalIndex]
				positionalIndex++
			}
			continue
		}
		value, found, err := lookupFlag(o, argMap, argIndex)
		if err != nil {
			return err
		}
		if found {
			raw[o.index] = value
		}
	}
	if positionalIndex < len(positionals) {
		return errors.NewParseError(fmt.Sprintf("unexpected argument: %s", positionals[positionalIndex]))
	}

	r := newResolver(opts, raw)
	for _, o := range opts {
		value, found, err := r.resolve(o)
		if err != nil {
			return err
		}
		if !found {
			if o.required {
				return errors.NewMissingArg(o.name)
			}
			continue
		}
		if err := setValue(v.Field(o.index), o, value); err != nil {
			return err
		}
	}

	return nil
}

func flagNames(o *option) []string {
	var names []string
	if o.long != "" {
		names = append(names, common.LongFlag(o.long))
	}
	if o.short != "" {
		names = append(names, common.ShortFlag(o.short))
	}
	return names
}

// checkUnknown reports the first flag, in command-line order, that no field declares.
func checkUnknown(argIndex map[string]int, declared map[string]*option) error {
	seen := make([]string, 0, len(argIndex))
	for name := range argIndex {
		seen = append(seen, name)
	}
	sort.Slice(seen, func(i, j int) bool { return argIndex[seen[i]] < argIndex[seen[j]] })

	candidates := make([]string, 0, len(declared))
	for name := range declared {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	for _, name := range seen {
		if declared[name] == nil {
			return errors.NewUnknownFlag(name, closestMatch(name, candidates))
		}
	}
	return nil
}

func lookupFlag(o *option, argMap map[string]string, argIndex map[string]int) (string, bool, error) {
	longFlag := common.LongFlag(o.long)
	shortFlag := common.ShortFlag(o.short)

	// Check long flag, then short flag
	if o.long != "" {
		if val, ok := argMap[longFlag]; ok {
			return val, true, nil
		}
	}
	if o.short != "" {
		if val, ok := argMap[shortFlag]; ok {
			return val, true, nil
		}
	}

	// Handle flags given without values
	_, longSeen := argIndex[longFlag]
	_, shortSeen := argIndex[shortFlag]
	if (o.long != "" && longSeen) || (o.short != "" && shortSeen) {
		if !o.isBool() {
			return "", false, errors.NewParseError(fmt.Sprintf("flag %s requires a value", o.display()))
		}
		return "true", true, nil
	}
	return "", false, nil
}

// resolver computes the effective raw value of each option: explicit, then
// conditional default, then plain default.
type resolver struct {
	byName   map[string]*option
	raw      map[int]string
	visiting map[string]bool
}

func newResolver(opts []*option, raw map[int]string) *resolver {
	byName := make(map[string]*option, len(opts))
	for _, o := range opts {
		byName[o.name] = o
	}
	return &resolver{byName: byName, raw: raw, visiting: map[string]bool{}}
}

func (r *resolver) resolve(o *option) (string, bool, error) {
	if v, ok := r.raw[o.index]; ok {
		return v, true, nil
	}

	if o.cond != nil {
		if r.visiting[o.name] {
			return "", false, errors.NewParseError(fmt.Sprintf("conditional default cycle through %s", o.name))
		}
		ref, ok := r.byName[o.cond.Values[0]]
		if !ok {
			return "", false, errors.NewMalformedDirective(o.name, fmt.Sprintf("%s references unknown field %s", core.ArgDefaultValueIf, o.cond.Values[0]))
		}

		r.visiting[o.name] = true
		refValue, _, err := r.resolve(ref)
		delete(r.visiting, o.name)
		if err != nil {
			return "", false, err
		}
		if sameValue(ref, refValue, o.cond.Values[1]) {
			return o.cond.Values[2], true, nil
		}
	}

	if o.hasDef {
		return o.def, true, nil
	}
	return "", false, nil
}

// sameValue compares a resolved value of o with a directive value. Booleans
// compare by meaning, so "1", "t" and "TRUE" all match "true".
func sameValue(o *option, value, want string) bool {
	if o.isBool() {
		got, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		w, err := strconv.ParseBool(want)
		return err == nil && got == w
	}
	return value == want
}

func setValue(field reflect.Value, o *option, value string) error {
	invalid := func(err error) error {
		return errors.NewParseError(fmt.Sprintf("invalid value %q for %s: %v", value, o.display(), err))
	}

	switch o.typ.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid(err)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid(err)
		}
		field.SetFloat(f)
	case reflect.Pointer:
		ptr := reflect.New(o.typ.Elem())
		ptr.Elem().SetString(value)
		field.Set(ptr)
	default:
		return errors.NewUnsupportedField(o.name, o.typ.Kind().String())
	}
	return nil
}
