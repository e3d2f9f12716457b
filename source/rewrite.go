package source

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/chriso345/clowncopterize/core"
	"github.com/chriso345/clowncopterize/errors"
	"github.com/chriso345/clowncopterize/internal/logger"
)

// Marker is the comment directive that selects a struct declaration, e.g.
//
//	//clowncopterize:aggregate aggregate_flag_name = "i-live-in-clowntown"
//	type Cli struct { ... }
//
// Like //go:generate it is written without a space after the slashes, which
// gofmt leaves untouched.
const Marker = "clowncopterize:aggregate"

// Options control which declarations Rewrite touches.
type Options struct {
	// Types selects struct types by name, as if they carried a bare marker.
	Types []string
}

// Result is the outcome of rewriting one file.
type Result struct {
	Source []byte
	// Examined lists the selected struct types, Changed those rewritten.
	Examined []string
	Changed  []string
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// Rewrite transforms every marked struct declaration in src and returns the
// formatted file. A file without changes is returned byte for byte.
func Rewrite(filename string, src []byte, opts Options) (*Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	tf := fset.File(file.Pos())

	selected := map[string]bool{}
	for _, name := range opts.Types {
		selected[name] = true
	}

	res := &Result{}
	var edits []edit
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}

			payload, marked := findMarker(ts.Doc)
			if !marked && !gd.Lparen.IsValid() {
				payload, marked = findMarker(gd.Doc)
			}
			if !marked && selected[ts.Name.Name] {
				marked = true
			}
			if !marked {
				continue
			}

			es, rep, err := rewriteStruct(tf, src, ts.Name.Name, st, payload)
			if err != nil {
				return nil, fmt.Errorf("%s: type %s: %w", fset.Position(ts.Pos()), ts.Name.Name, err)
			}
			res.Examined = append(res.Examined, ts.Name.Name)
			logger.Debug("examined declaration",
				"file", filename,
				"type", ts.Name.Name,
				"matched", len(rep.Matched),
				"rewritten", len(rep.Rewritten),
				"synthesized", rep.Synthesized,
			)
			if len(es) > 0 {
				edits = append(edits, es...)
				res.Changed = append(res.Changed, ts.Name.Name)
			}
		}
	}

	if len(edits) == 0 {
		res.Source = src
		return res, nil
	}

	formatted, err := format.Source(applyEdits(src, edits))
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	res.Source = formatted
	return res, nil
}

// findMarker returns the payload of the first marker line in cg.
func findMarker(cg *ast.CommentGroup) (string, bool) {
	if cg == nil {
		return "", false
	}
	for _, c := range cg.List {
		text, ok := strings.CutPrefix(c.Text, "//"+Marker)
		if !ok {
			continue
		}
		if text == "" || text[0] == ' ' || text[0] == '\t' {
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

// rewriteStruct runs the transformation over st and returns the source edits
// that apply it.
func rewriteStruct(tf *token.File, src []byte, name string, st *ast.StructType, payload string) ([]edit, core.Report, error) {
	cfg, err := core.ResolveConfig(payload)
	if err != nil {
		return nil, core.Report{}, err
	}

	rec, owners, err := toRecord(name, st)
	if err != nil {
		return nil, core.Report{}, err
	}
	out, rep, err := core.Run(rec, cfg)
	if err != nil {
		return nil, core.Report{}, err
	}
	if !rep.Changed() {
		return nil, rep, nil
	}

	var edits []edit
	for _, af := range st.Fields.List {
		if len(af.Names) == 0 {
			continue
		}
		var before, after []string
		for i, f := range rec.Fields {
			if owners[i] == af {
				before = append(before, f.Tag)
				after = append(after, out.Fields[i].Tag)
			}
		}
		if e, ok := fieldEdit(tf, src, af, before, after); ok {
			logger.Trace("rewrote field", "type", name, "field", fieldLabel(af))
			edits = append(edits, e)
		}
	}

	if len(out.Fields) > len(rec.Fields) {
		agg := out.Fields[len(out.Fields)-1]
		at := tf.Offset(st.Fields.Closing)
		line := fmt.Sprintf("%s %s %s\n", agg.Name, agg.Type, quoteTag(agg.Tag))
		if !startsLine(src, at) {
			line = "\n" + line
		}
		edits = append(edits, edit{start: at, end: at, text: line})
	}
	return edits, rep, nil
}

// toRecord converts st into a Record with one Field per declared name.
// owners[i] is the ast.Field that declares rec.Fields[i].
func toRecord(name string, st *ast.StructType) (*core.Record, []*ast.Field, error) {
	rec := &core.Record{Name: name}
	var owners []*ast.Field
	for _, af := range st.Fields.List {
		typ := types.ExprString(af.Type)
		tag := ""
		if af.Tag != nil {
			var err error
			if tag, err = strconv.Unquote(af.Tag.Value); err != nil {
				return nil, nil, errors.NewMalformedDirective(fieldLabel(af), err.Error())
			}
		}

		if len(af.Names) == 0 {
			rec.Fields = append(rec.Fields, &core.Field{Name: embeddedName(af.Type), Type: typ, Tag: tag, Embedded: true})
			owners = append(owners, af)
			continue
		}
		for _, n := range af.Names {
			rec.Fields = append(rec.Fields, &core.Field{Name: n.Name, Type: typ, Tag: tag})
			owners = append(owners, af)
		}
	}
	return rec, owners, nil
}

// fieldEdit rewrites the tag of af. When the names of a multi-name field end
// up with different tags the field is split into one line per name.
func fieldEdit(tf *token.File, src []byte, af *ast.Field, before, after []string) (edit, bool) {
	changed := false
	uniform := true
	for i := range after {
		changed = changed || after[i] != before[i]
		uniform = uniform && after[i] == after[0]
	}
	if !changed {
		return edit{}, false
	}

	if uniform {
		if af.Tag != nil {
			return edit{start: tf.Offset(af.Tag.Pos()), end: tf.Offset(af.Tag.End()), text: quoteTag(after[0])}, true
		}
		at := tf.Offset(af.Type.End())
		return edit{start: at, end: at, text: " " + quoteTag(after[0])}, true
	}

	typ := string(src[tf.Offset(af.Type.Pos()):tf.Offset(af.Type.End())])
	lines := make([]string, len(af.Names))
	for i, n := range af.Names {
		lines[i] = n.Name + " " + typ
		if after[i] != "" {
			lines[i] += " " + quoteTag(after[i])
		}
	}
	return edit{
		start: tf.Offset(af.Names[0].Pos()),
		end:   tf.Offset(af.End()),
		text:  strings.Join(lines, "\n"),
	}, true
}

// embeddedName returns the field name an embedded type declares: T, *T,
// pkg.T and T[P] all embed as T.
func embeddedName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.Ident:
			return e.Name
		case *ast.SelectorExpr:
			return e.Sel.Name
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		default:
			return types.ExprString(expr)
		}
	}
}

func fieldLabel(af *ast.Field) string {
	if len(af.Names) > 0 {
		return af.Names[0].Name
	}
	return types.ExprString(af.Type)
}

// quoteTag renders a struct tag literal, preferring a raw string.
func quoteTag(tag string) string {
	if !strings.Contains(tag, "`") {
		return "`" + tag + "`"
	}
	return strconv.Quote(tag)
}

// startsLine reports whether only blanks precede offset on its line.
func startsLine(src []byte, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch src[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func applyEdits(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	out := append([]byte(nil), src...)
	for _, e := range edits {
		out = append(out[:e.start], append([]byte(e.text), out[e.end:]...)...)
	}
	return out
}
