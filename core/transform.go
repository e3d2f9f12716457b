package core

import (
	"reflect"
	"strings"

	"github.com/fatih/structtag"
	"github.com/stoewer/go-strcase"

	"github.com/chriso345/clowncopterize/errors"
)

// aggregateDesc is the help text attached to the synthesized field.
const aggregateDesc = "Turns all the clowntown flags on"

var boolType = reflect.TypeOf(false)

// Report summarises a single transformation.
type Report struct {
	// Matched lists the eligible fields, Rewritten the subset whose directive
	// was extended.
	Matched   []string
	Rewritten []string
	// Synthesized is set when the aggregate field was appended.
	Synthesized bool
}

// Changed reports whether the output differs from the input record.
func (r Report) Changed() bool {
	return len(r.Rewritten) > 0 || r.Synthesized
}

// IsEligible reports whether f belongs to the aggregate family: a named
// field of type bool whose identifier starts with ReservedPrefix.
func IsEligible(f *Field) bool {
	return !f.Embedded && f.Type == "bool" && strings.HasPrefix(f.Name, ReservedPrefix)
}

// TransformPayload resolves payload with ResolveConfig and transforms rec.
func TransformPayload(rec *Record, payload string) (*Record, error) {
	cfg, err := ResolveConfig(payload)
	if err != nil {
		return nil, err
	}
	return Transform(rec, cfg)
}

// Transform rewrites every eligible field of rec to default to true when the
// aggregate flag is set, then appends the aggregate field if anything matched.
// rec itself is not modified; unchanged fields are shared with the result.
func Transform(rec *Record, cfg Config) (*Record, error) {
	out, _, err := Run(rec, cfg)
	return out, err
}

// Run is Transform with a report of what happened.
func Run(rec *Record, cfg Config) (*Record, Report, error) {
	var rep Report
	if rec == nil {
		return nil, rep, errors.NewParseError("nil record")
	}
	if !rec.hasNamedFields() {
		return rec, rep, nil
	}

	cond := DefaultValueIf(cfg.Ident, "true", "true")
	fields := make([]*Field, 0, len(rec.Fields)+1)
	for _, f := range rec.Fields {
		// the aggregate field never defaults from itself
		if !IsEligible(f) || f.Name == cfg.Ident {
			fields = append(fields, f)
			continue
		}
		rep.Matched = append(rep.Matched, f.Name)

		nf, err := rewriteField(f, cond)
		if err != nil {
			return nil, Report{}, err
		}
		if nf != f {
			rep.Rewritten = append(rep.Rewritten, f.Name)
		}
		fields = append(fields, nf)
	}

	if len(rep.Matched) == 0 {
		return rec, rep, nil
	}

	if existing := rec.Lookup(cfg.Ident); existing != nil {
		if !isAggregate(existing, cfg) {
			return nil, Report{}, errors.NewDuplicateField(rec.Name, cfg.Ident)
		}
	} else {
		agg, err := aggregateField(cfg)
		if err != nil {
			return nil, Report{}, err
		}
		fields = append(fields, agg)
		rep.Synthesized = true
	}

	if !rep.Changed() {
		return rec, rep, nil
	}
	return &Record{Name: rec.Name, Fields: fields}, rep, nil
}

// rewriteField appends cond to the directive of f. Fields without a directive
// and fields already carrying cond are returned as is.
func rewriteField(f *Field, cond Arg) (*Field, error) {
	d, ok, err := f.Directive()
	if err != nil {
		return nil, err
	}
	if !ok || d.Contains(cond) {
		return f, nil
	}
	d.Append(cond)
	return f.withDirective(d)
}

func aggregateField(cfg Config) (*Field, error) {
	long := Arg{Key: ArgLong}
	if cfg.Name != strcase.KebabCase(cfg.Ident) {
		long.Values = []string{cfg.Name}
	}

	var tags structtag.Tags
	for _, tag := range []*structtag.Tag{
		{Key: DirectiveKey, Name: long.String()},
		{Key: DescKey, Name: aggregateDesc},
	} {
		if err := tags.Set(tag); err != nil {
			return nil, errors.NewMalformedDirective(cfg.Ident, err.Error())
		}
	}

	return &Field{Name: cfg.Ident, Type: "bool", Tag: tags.String(), rtype: boolType}, nil
}

// isAggregate reports whether f already has the shape of the synthesized
// aggregate field: a bool whose directive only marks a long option.
func isAggregate(f *Field, cfg Config) bool {
	if f.Embedded || f.Type != "bool" {
		return false
	}
	d, ok, err := f.Directive()
	if err != nil || !ok || len(d.Args) != 1 {
		return false
	}
	name, ok := d.LongName(f.Name)
	return ok && name == cfg.Name
}
