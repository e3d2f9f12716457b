// Package clowncopterize makes setting all `clowntown` command-line flags
// easier.
//
// A `clowntown` flag hides a risky feature behind an explicit opt-in. As these
// flags multiply, command lines grow long. clowncopterize rewrites an options
// struct so that a single aggregate flag, `--clowncopterize` by default, turns
// every boolean `Clowntown*` option on, while each option can still be set on
// its own.
//
// The rewrite works on struct declarations: as Go source (Rewrite and the
// `clowncopterize` command, driven by a `//clowncopterize:aggregate` marker comment), as
// an in-memory Record (Transform), or on a prototype value at run time (New).
// Parse is the option parser that understands the directives it emits.
package clowncopterize

//go:generate gomarkdoc ./ -o docs/clowncopterize.md
