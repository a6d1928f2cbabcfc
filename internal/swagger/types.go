package swagger

import "strings"

type swaggerType struct {
	typ    string
	format string
}

var metamodelTypes = map[string]swaggerType{
	"date_time":         {"string", "date-time"},
	"secret":            {"string", "password"},
	"any_error":         {"string", ""},
	"opaque":            {"object", ""},
	"dynamic_structure": {"object", ""},
	"uri":               {"string", "uri"},
	"id":                {"string", ""},
	"long":              {"integer", "int64"},
	"double":            {"number", "double"},
	"binary":            {"string", "binary"},
}

// ToSwaggerType converts a metamodel primitive type name to its Swagger type
// and format. The lookup is case-insensitive; an empty format means none.
// Unknown names, such as types that are already Swagger-shaped or structure
// references, pass through unchanged with no format.
func ToSwaggerType(input string) (typ, format string) {
	if t, ok := metamodelTypes[strings.ToLower(input)]; ok {
		return t.typ, t.format
	}
	return input, ""
}

var builtinTypes = map[string]struct{}{
	"binary":           {},
	"boolean":          {},
	"datetime":         {},
	"double":           {},
	"dynamicstructure": {},
	"exception":        {},
	"id":               {},
	"long":             {},
	"opaque":           {},
	"secret":           {},
	"string":           {},
	"uri":              {},
}

// IsBuiltin reports whether a type name is a metamodel primitive, i.e. one
// rendered inline rather than through a $ref.
func IsBuiltin(typ string) bool {
	_, ok := builtinTypes[strings.ToLower(typ)]
	return ok
}
