package metamodel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestMetadata_UnmarshalYAML(t *testing.T) {
	t.Parallel()
	src := `
PathVariable:
  elements:
    value:
      type: String
      string_value: resource-pool
Query:
  elements:
    value:
      string_value: filter.names
BodyField:
  elements:
    name:
      string_value: spec
Response:
  elements:
    code:
      string_value: "404"
RequestMapping:
  elements:
    value:
      string_value: /vcenter/vm
    params:
      string_value: action=start
TechPreview: {}
`
	var md Metadata
	if err := yaml.Unmarshal([]byte(src), &md); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if md.PathVariable == nil || md.PathVariable.Value != "resource-pool" {
		t.Fatalf("unexpected PathVariable: %+v", md.PathVariable)
	}
	if md.Query == nil || md.Query.Name != "filter.names" {
		t.Fatalf("unexpected Query: %+v", md.Query)
	}
	if md.BodyField == nil || md.BodyField.Name != "spec" || md.Body != nil {
		t.Fatalf("unexpected body annotations: %+v %+v", md.Body, md.BodyField)
	}
	if md.Response == nil || !md.Response.HasCode || md.Response.Code != "404" {
		t.Fatalf("unexpected Response: %+v", md.Response)
	}
	if md.RequestMapping == nil || md.RequestMapping.Params != "action=start" || md.RequestMapping.Value != "/vcenter/vm" {
		t.Fatalf("unexpected RequestMapping: %+v", md.RequestMapping)
	}
	want := []string{"BodyField", "PathVariable", "Query", "RequestMapping", "Response", "TechPreview"}
	if diff := cmp.Diff(want, md.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if v, ok := md.Element(ResponseTag, "code"); !ok || v != "404" {
		t.Fatalf("Element lookup failed: %q %v", v, ok)
	}
	if _, ok := md.Element(TechPreviewTag, "anything"); ok {
		t.Fatalf("expected missing element")
	}
	if md.Binding() != BindingBody {
		t.Fatalf("expected body binding to win over query, got %s", md.Binding())
	}
}

func TestMetadata_ResponseWithoutCode(t *testing.T) {
	t.Parallel()
	md := NewMetadata(Annotate(ResponseTag, nil))
	if md.Response == nil || md.Response.HasCode {
		t.Fatalf("expected Response without code, got %+v", md.Response)
	}
}

func TestMetadata_Binding(t *testing.T) {
	t.Parallel()
	cases := []struct {
		md   Metadata
		want Binding
	}{
		{NewMetadata(), BindingNone},
		{NewMetadata(Annotate(BodyTag, nil)), BindingBody},
		{NewMetadata(Annotate(QueryTag, map[string]string{"value": "q"})), BindingQuery},
		{NewMetadata(Annotate("Unknown", nil)), BindingNone},
	}
	for _, c := range cases {
		if got := c.md.Binding(); got != c.want {
			t.Errorf("Binding(%v) = %s, want %s", c.md.Names(), got, c.want)
		}
	}
}

func TestIsFiltered(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		md   Metadata
		want bool
	}{
		{"empty", NewMetadata(), false},
		{"released", NewMetadata(Annotate(RequestMappingTag, nil)), false},
		{"changing", NewMetadata(Annotate(ChangingTag, nil)), true},
		{"proposed", NewMetadata(Annotate(ProposedTag, nil)), true},
		{"tech preview", NewMetadata(Annotate(ProposedTag, nil), Annotate(TechPreviewTag, nil)), false},
	}
	for _, c := range cases {
		if got := IsFiltered(c.md); got != c.want {
			t.Errorf("%s: IsFiltered = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()
	cases := []string{
		"string",
		"com.vmware.vcenter.VM.info",
		"list<long>",
		"optional<set<string>>",
		"map<string,list<com.vmware.vcenter.VM.summary>>",
	}
	for _, in := range cases {
		got, err := ParseType(in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", in, err)
		}
		if got.String() != in {
			t.Errorf("ParseType(%q).String() = %q", in, got.String())
		}
	}

	m, _ := ParseType("map<string, long>")
	if m.Generic != GenericMap || m.Key.Name != "string" || m.Elem.Name != "long" {
		t.Fatalf("unexpected map parse: %+v", m)
	}

	for _, bad := range []string{"", "list<", "list<>", "map<string>", "tuple<a>", "a>b"} {
		if _, err := ParseType(bad); err == nil {
			t.Errorf("ParseType(%q): expected error", bad)
		}
	}
}

func TestFieldInfo_Optional(t *testing.T) {
	t.Parallel()
	if !(FieldInfo{Type: "optional<id>"}).Optional() {
		t.Fatalf("expected optional")
	}
	if (FieldInfo{Type: "list<optional<id>>"}).Optional() {
		t.Fatalf("expected required")
	}
}
