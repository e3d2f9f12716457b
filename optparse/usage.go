package optparse

import (
	"fmt"
	"strings"

	"github.com/chriso345/clowncopterize/errors"
	"github.com/chriso345/clowncopterize/internal/common"
)

// Usage generates a help message for the options declared by target.
//
// Positional fields are listed under "Arguments:" and options under
// "Options:". Options carrying a conditional default mention the flag that
// switches them on.
func Usage(target any, name string) (string, error) {
	if !common.IsStructPtr(target) {
		return "", errors.NewParseError("invalid type: must pass pointer to struct")
	}
	opts, err := collectOptions(common.GetStructType(target))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("Usage: " + name)

	var args, flags []*option
	for _, o := range opts {
		if o.isFlag() {
			flags = append(flags, o)
			continue
		}
		args = append(args, o)
		if o.required {
			builder.WriteString(fmt.Sprintf(" <%s>", strings.ToUpper(o.name)))
		} else {
			builder.WriteString(fmt.Sprintf(" [%s]", strings.ToUpper(o.name)))
		}
	}
	builder.WriteString(" [OPTIONS]\n")

	if len(args) > 0 {
		builder.WriteString("\nArguments:\n")
		builder.WriteString(argsHelp(args))
	}

	builder.WriteString("\nOptions:\n")
	builder.WriteString(optionsHelp(flags, opts))

	return builder.String(), nil
}

// argsHelp generates help text for positional arguments.
func argsHelp(args []*option) string {
	var lines []string
	maxLen := 0
	for _, o := range args {
		line := fmt.Sprintf("  %s", strings.ToUpper(o.name))
		if len(line) > maxLen {
			maxLen = len(line)
		}
		lines = append(lines, fmt.Sprintf("%s||%s", line, o.desc))
	}
	return align(lines, maxLen)
}

// optionsHelp generates help text for flag options, followed by --help.
func optionsHelp(flags, all []*option) string {
	byName := map[string]*option{}
	for _, o := range all {
		byName[o.name] = o
	}

	var lines []string
	maxLen := 0
	for _, o := range flags {
		var flag string
		switch {
		case o.short != "" && o.long != "":
			flag = fmt.Sprintf("  -%s, --%s", o.short, o.long)
		case o.short != "":
			flag = fmt.Sprintf("  -%s", o.short)
		default:
			flag = fmt.Sprintf("      --%s", o.long)
		}
		if !o.isBool() {
			flag += fmt.Sprintf(" <%s>", strings.ToUpper(o.name))
		}

		desc := o.desc
		if o.cond != nil {
			if ref, ok := byName[o.cond.Values[0]]; ok {
				desc = strings.TrimSpace(fmt.Sprintf("%s (default %s when %s=%s)", desc, o.cond.Values[2], ref.display(), o.cond.Values[1]))
			}
		}
		if o.hasDef {
			desc = strings.TrimSpace(fmt.Sprintf("%s [default: %s]", desc, o.def))
		}

		if len(flag) > maxLen {
			maxLen = len(flag)
		}
		lines = append(lines, fmt.Sprintf("%s||%s", flag, desc))
	}

	help := "  -h, --help"
	if len(help) > maxLen {
		maxLen = len(help)
	}
	lines = append(lines, help+"||Show this help message")
	return align(lines, maxLen)
}

// align pads the "flag||description" lines so descriptions start in one column.
func align(lines []string, maxLen int) string {
	var builder strings.Builder
	for _, line := range lines {
		parts := strings.SplitN(line, "||", 2)
		padding := strings.Repeat(" ", maxLen-len(parts[0]))
		builder.WriteString(strings.TrimRight(fmt.Sprintf("%s%s  %s", parts[0], padding, parts[1]), " "))
		builder.WriteString("\n")
	}
	return builder.String()
}
