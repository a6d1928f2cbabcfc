package generator

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/vmware/vmware-openapi-generator/internal/metamodel"
	"github.com/vmware/vmware-openapi-generator/internal/swagger"
)

var openAPITypes = map[string]struct{}{
	"string":  {},
	"integer": {},
	"number":  {},
	"boolean": {},
	"object":  {},
	"array":   {},
}

// isPrimitive reports whether a named metamodel type is rendered inline.
func isPrimitive(name string) bool {
	if swagger.IsBuiltin(strings.ReplaceAll(name, "_", "")) {
		return true
	}
	switch strings.ToLower(name) {
	case "any_error", "void", "boolean", "string":
		return true
	}
	return false
}

// schemaSet tracks the structures referenced from one document so only those
// end up under components.schemas.
type schemaSet struct {
	structures map[string]metamodel.StructureInfo
	used       map[string]struct{}
}

func newSchemaSet(structures map[string]metamodel.StructureInfo) *schemaSet {
	return &schemaSet{structures: structures, used: map[string]struct{}{}}
}

// ref returns the schema for a type string, recording structure references.
// Unparseable types are kept verbatim as named references.
func (s *schemaSet) ref(typ string) *openapi3.SchemaRef {
	t, err := metamodel.ParseType(typ)
	if err != nil {
		t = metamodel.TypeRef{Name: strings.TrimSpace(typ)}
	}
	return s.schemaFor(t)
}

func (s *schemaSet) schemaFor(t metamodel.TypeRef) *openapi3.SchemaRef {
	switch t.Generic {
	case metamodel.GenericOptional:
		return s.schemaFor(*t.Elem)
	case metamodel.GenericList, metamodel.GenericSet:
		arr := openapi3.NewArraySchema()
		arr.Items = s.schemaFor(*t.Elem)
		arr.UniqueItems = t.Generic == metamodel.GenericSet
		return arr.NewRef()
	case metamodel.GenericMap:
		obj := openapi3.NewObjectSchema()
		obj.AdditionalProperties = openapi3.AdditionalProperties{Schema: s.schemaFor(*t.Elem)}
		return obj.NewRef()
	}

	if isPrimitive(t.Name) {
		typ, format := swagger.ToSwaggerType(t.Name)
		typ = strings.ToLower(typ)
		if _, ok := openAPITypes[typ]; !ok {
			typ = "object"
		}
		return (&openapi3.Schema{Type: typ, Format: format}).NewRef()
	}

	s.use(t.Name)
	return openapi3.NewSchemaRef(SchemasRefPrefix+SchemaName(t.Name), nil)
}

// use marks a structure and, transitively, the structures its fields need.
func (s *schemaSet) use(id string) {
	if _, ok := s.used[id]; ok {
		return
	}
	s.used[id] = struct{}{}
	if st, ok := s.structures[id]; ok {
		for _, f := range st.Fields {
			s.ref(f.Type)
		}
	}
}

// components renders every used structure. Referenced ids with no
// declaration get an empty object schema so the $ref still resolves.
func (s *schemaSet) components() openapi3.Schemas {
	ids := make([]string, 0, len(s.used))
	for id := range s.used {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(openapi3.Schemas, len(ids))
	for _, id := range ids {
		st, ok := s.structures[id]
		if !ok {
			out[SchemaName(id)] = openapi3.NewObjectSchema().NewRef()
			continue
		}
		out[SchemaName(id)] = s.structureSchema(st).NewRef()
	}
	return out
}

func (s *schemaSet) structureSchema(st metamodel.StructureInfo) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Description = st.Documentation
	obj.Properties = s.properties(st.Fields, nil)
	obj.Required = required(st.Fields, nil)
	return obj
}

// properties builds an object's properties from fields. nameOf overrides the
// property name of a field, e.g. with its BodyField name.
func (s *schemaSet) properties(fields []metamodel.FieldInfo, nameOf func(metamodel.FieldInfo) string) openapi3.Schemas {
	props := make(openapi3.Schemas, len(fields))
	for _, f := range fields {
		ref := s.ref(f.Type)
		if f.Documentation != "" && ref.Ref == "" {
			ref.Value.Description = f.Documentation
		}
		props[propertyName(f, nameOf)] = ref
	}
	return props
}

func required(fields []metamodel.FieldInfo, nameOf func(metamodel.FieldInfo) string) []string {
	var out []string
	for _, f := range fields {
		if !f.Optional() {
			out = append(out, propertyName(f, nameOf))
		}
	}
	return out
}

func propertyName(f metamodel.FieldInfo, nameOf func(metamodel.FieldInfo) string) string {
	if nameOf != nil {
		if n := nameOf(f); n != "" {
			return n
		}
	}
	return f.Name
}

// indexStructures keys every declared structure by id.
func indexStructures(doc *metamodel.Document) map[string]metamodel.StructureInfo {
	out := map[string]metamodel.StructureInfo{}
	for _, st := range doc.Structures() {
		out[st.Name] = st
	}
	return out
}
