package core

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/stoewer/go-strcase"

	"github.com/chriso345/clowncopterize/errors"
)

const (
	// ConfigKey is the only key accepted in a configuration payload.
	ConfigKey = "aggregate_flag_name"

	// DefaultFlagName is the long form of the aggregate flag when no
	// configuration is given.
	DefaultFlagName = "clowncopterize"

	// ReservedPrefix marks a boolean field as a member of the aggregate family.
	ReservedPrefix = "Clowntown"
)

// Config is the resolved aggregate flag: its long option name and the Go
// identifier of the field that holds it.
type Config struct {
	Name  string
	Ident string
}

// DefaultConfig returns the configuration used when no payload is supplied.
func DefaultConfig() Config {
	return Config{Name: DefaultFlagName, Ident: strcase.UpperCamelCase(DefaultFlagName)}
}

// ResolveConfig parses a configuration payload of the form
//
//	aggregate_flag_name = "i-live-in-clowntown"
//
// An empty payload selects DefaultConfig. Anything else is a ConfigError.
func ResolveConfig(payload string) (Config, error) {
	if strings.TrimSpace(payload) == "" {
		return DefaultConfig(), nil
	}

	fail := func(format string, args ...any) (Config, error) {
		return Config{}, errors.NewConfigError(payload, fmt.Sprintf(format, args...))
	}

	var s scanner.Scanner
	var scanErr string
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(payload))
	s.Init(file, []byte(payload), func(_ token.Position, msg string) {
		if scanErr == "" {
			scanErr = msg
		}
	}, 0)

	next := func() (token.Token, string) {
		for {
			_, tok, lit := s.Scan()
			// automatic semicolon at end of input
			if tok == token.SEMICOLON && lit == "\n" {
				continue
			}
			return tok, lit
		}
	}

	tok, lit := next()
	if tok != token.IDENT {
		return fail("expected key %s", ConfigKey)
	}
	if lit != ConfigKey {
		return fail("unknown key %q, expected %s", lit, ConfigKey)
	}

	if tok, _ = next(); tok != token.ASSIGN {
		return fail("missing '=' after %s", ConfigKey)
	}

	tok, lit = next()
	switch {
	case tok == token.EOF:
		return fail("missing value for %s", ConfigKey)
	case tok != token.STRING:
		return fail("value of %s must be a string literal", ConfigKey)
	}
	value, err := strconv.Unquote(lit)
	if err != nil {
		return fail("value of %s must be a string literal", ConfigKey)
	}

	if tok, lit = next(); tok != token.EOF {
		if lit == "" {
			lit = tok.String()
		}
		return fail("unexpected %q after value", lit)
	}
	if scanErr != "" {
		return fail("%s", scanErr)
	}

	return normalize(payload, value)
}

// normalize turns a hyphenated flag name into the aggregate field identifier.
func normalize(payload, name string) (Config, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Config{}, errors.NewConfigError(payload, "empty flag name")
	}
	if c := name[0]; (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return Config{}, errors.NewConfigError(payload, "flag name must start with a letter")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return Config{}, errors.NewConfigError(payload, fmt.Sprintf("invalid character %q in flag name", r))
		}
	}
	ident := strcase.UpperCamelCase(name)
	if !token.IsIdentifier(ident) || !token.IsExported(ident) {
		return Config{}, errors.NewConfigError(payload, fmt.Sprintf("%q does not form an exported identifier", name))
	}
	return Config{Name: strcase.KebabCase(name), Ident: ident}, nil
}
