package metamodel

import (
	"fmt"
	"strings"
)

// Generic type constructors accepted in field type strings.
const (
	GenericList     = "list"
	GenericSet      = "set"
	GenericOptional = "optional"
	GenericMap      = "map"
)

// TypeRef is a parsed field type: either a named type (builtin or structure
// id) or a generic instantiation such as list<long> or map<string,VM.info>.
type TypeRef struct {
	Name    string
	Generic string
	Elem    *TypeRef
	Key     *TypeRef
}

// ParseType parses a field type string.
func ParseType(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeRef{}, fmt.Errorf("empty type")
	}
	open := strings.IndexByte(s, '<')
	if open < 0 {
		if strings.ContainsAny(s, ">,") {
			return TypeRef{}, fmt.Errorf("malformed type %q", s)
		}
		return TypeRef{Name: s}, nil
	}
	if !strings.HasSuffix(s, ">") {
		return TypeRef{}, fmt.Errorf("malformed type %q", s)
	}
	generic := strings.ToLower(strings.TrimSpace(s[:open]))
	inner := s[open+1 : len(s)-1]

	switch generic {
	case GenericList, GenericSet, GenericOptional:
		elem, err := ParseType(inner)
		if err != nil {
			return TypeRef{}, fmt.Errorf("%s element: %w", generic, err)
		}
		return TypeRef{Generic: generic, Elem: &elem}, nil
	case GenericMap:
		comma := topLevelComma(inner)
		if comma < 0 {
			return TypeRef{}, fmt.Errorf("map type %q needs a key and a value", s)
		}
		key, err := ParseType(inner[:comma])
		if err != nil {
			return TypeRef{}, fmt.Errorf("map key: %w", err)
		}
		val, err := ParseType(inner[comma+1:])
		if err != nil {
			return TypeRef{}, fmt.Errorf("map value: %w", err)
		}
		return TypeRef{Generic: generic, Key: &key, Elem: &val}, nil
	default:
		return TypeRef{}, fmt.Errorf("unknown generic %q in %q", generic, s)
	}
}

func topLevelComma(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (t TypeRef) String() string {
	switch t.Generic {
	case "":
		return t.Name
	case GenericMap:
		return fmt.Sprintf("map<%s,%s>", t.Key, t.Elem)
	default:
		return fmt.Sprintf("%s<%s>", t.Generic, t.Elem)
	}
}
