package metamodel

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// Annotation names understood by the generator.
const (
	PathVariableTag   = "PathVariable"
	QueryTag          = "Query"
	BodyTag           = "Body"
	BodyFieldTag      = "BodyField"
	ResponseTag       = "Response"
	RequestMappingTag = "RequestMapping"

	ChangingTag    = "Changing"
	ProposedTag    = "Proposed"
	TechPreviewTag = "TechPreview"
)

// ElementValue is a single named value carried by an annotation.
type ElementValue struct {
	Type        string   `yaml:"type,omitempty"`
	StringValue string   `yaml:"string_value,omitempty"`
	ListValue   []string `yaml:"list_value,omitempty"`
}

// Annotation is a raw metadata tag with its named elements.
type Annotation struct {
	Name     string
	Elements map[string]ElementValue
}

// Annotate builds an Annotation from plain string elements.
func Annotate(name string, elements map[string]string) Annotation {
	a := Annotation{Name: name}
	if len(elements) > 0 {
		a.Elements = make(map[string]ElementValue, len(elements))
		for k, v := range elements {
			a.Elements[k] = ElementValue{Type: "String", StringValue: v}
		}
	}
	return a
}

// PathVariable binds a parameter to a URL placeholder whose text may differ
// from the parameter name.
type PathVariable struct {
	Value string
}

// Query binds a parameter to the query string.
type Query struct {
	Name string
}

// Body marks a parameter as the whole request body.
type Body struct{}

// BodyField marks a parameter as one field of the request body.
type BodyField struct {
	Name string
}

// Response carries the HTTP status of an error structure. HasCode is false
// when the annotation has no code element.
type Response struct {
	Code    string
	HasCode bool
}

// RequestMapping carries operation level routing hints.
type RequestMapping struct {
	Value  string
	Method string
	Params string
}

// Metadata is the set of annotations attached to a field, operation, service
// or structure. Known annotations are exposed as typed fields; every
// annotation, known or not, stays reachable by name.
type Metadata struct {
	PathVariable   *PathVariable
	Query          *Query
	Body           *Body
	BodyField      *BodyField
	Response       *Response
	RequestMapping *RequestMapping

	tags map[string]Annotation
}

// NewMetadata classifies the given annotations.
func NewMetadata(annotations ...Annotation) Metadata {
	var md Metadata
	for _, a := range annotations {
		md.add(a)
	}
	return md
}

func (m *Metadata) add(a Annotation) {
	if m.tags == nil {
		m.tags = make(map[string]Annotation)
	}
	m.tags[a.Name] = a

	str := func(name string) string { return a.Elements[name].StringValue }
	switch a.Name {
	case PathVariableTag:
		m.PathVariable = &PathVariable{Value: str("value")}
	case QueryTag:
		m.Query = &Query{Name: str("value")}
	case BodyTag:
		m.Body = &Body{}
	case BodyFieldTag:
		m.BodyField = &BodyField{Name: str("name")}
	case ResponseTag:
		code, ok := a.Elements["code"]
		m.Response = &Response{Code: code.StringValue, HasCode: ok}
	case RequestMappingTag:
		m.RequestMapping = &RequestMapping{Value: str("value"), Method: str("method"), Params: str("params")}
	}
}

// Has reports whether an annotation with the given name is present.
func (m Metadata) Has(name string) bool {
	_, ok := m.tags[name]
	return ok
}

// Element returns the string payload of a named element of an annotation.
func (m Metadata) Element(tag, element string) (string, bool) {
	a, ok := m.tags[tag]
	if !ok {
		return "", false
	}
	v, ok := a.Elements[element]
	if !ok {
		return "", false
	}
	return v.StringValue, true
}

// Names returns the annotation names in sorted order.
func (m Metadata) Names() []string {
	if len(m.tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(m.tags))
	for name := range m.tags {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of annotations.
func (m Metadata) Len() int { return len(m.tags) }

// Binding is where a non-path parameter travels in the HTTP request.
type Binding int

const (
	BindingNone Binding = iota
	BindingBody
	BindingQuery
)

func (b Binding) String() string {
	switch b {
	case BindingBody:
		return "body"
	case BindingQuery:
		return "query"
	default:
		return "none"
	}
}

// Binding classifies the metadata. Body and BodyField win over Query.
func (m Metadata) Binding() Binding {
	switch {
	case m.Body != nil, m.BodyField != nil:
		return BindingBody
	case m.Query != nil:
		return BindingQuery
	default:
		return BindingNone
	}
}

// UnmarshalYAML decodes the {tag: {elements: {name: {string_value: ...}}}} form.
func (m *Metadata) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]struct {
		Elements map[string]ElementValue `yaml:"elements"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	*m = Metadata{}
	for _, name := range names {
		m.add(Annotation{Name: name, Elements: raw[name].Elements})
	}
	return nil
}
