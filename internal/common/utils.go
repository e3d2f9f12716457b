package common

import (
	"reflect"
	"strings"
)

// IsStructPtr checks if the provided value is a pointer to a struct.
func IsStructPtr(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

// GetStructType returns the reflect.Type of the underlying struct pointer.
func GetStructType(v any) reflect.Type {
	return reflect.TypeOf(v).Elem()
}

// IsFlag reports whether arg looks like an option rather than a value.
// A lone "-" is a value (conventionally stdin).
func IsFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// SplitFlag splits "--name=value" into its name and inline value.
func SplitFlag(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "--") {
		return arg, "", false
	}
	return strings.Cut(arg, "=")
}

// LongFlag and ShortFlag render option names as typed on the command line.
func LongFlag(name string) string  { return "--" + name }
func ShortFlag(name string) string { return "-" + name }
