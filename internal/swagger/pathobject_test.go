package swagger

import (
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
)

func TestTagsFromServiceName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"com.vmware.vcenter.VM":       "VM",
		"com.vmware.a.b.c":            "b/c",
		"com.vmware.vcenter.vm.power": "vm/power",
		"com.vmware.cis":              "",
		"":                            "",
	}
	for in, want := range cases {
		got := TagsFromServiceName(in)
		if diff := cmp.Diff([]string{want}, got); diff != "" {
			t.Errorf("TagsFromServiceName(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestBuild_OmitsAbsentFields(t *testing.T) {
	t.Parallel()
	po := Build("com.vmware.vcenter.VM", "get", "/vcenter/vm", "", nil, "", nil)
	raw, err := json.Marshal(po)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"summary", "parameters", "responses", "consumes", "produces", "requestBody", "security", "operationId"} {
		if _, ok := got[k]; ok {
			t.Errorf("expected %q to be omitted, got %v", k, got[k])
		}
	}
	if got["method"] != "get" || got["path"] != "/vcenter/vm" {
		t.Fatalf("unexpected method/path: %v", got)
	}
	if tags, ok := got["tags"].([]any); !ok || len(tags) != 1 || tags[0] != "VM" {
		t.Fatalf("unexpected tags: %v", got["tags"])
	}
}

func TestBuild_Options(t *testing.T) {
	t.Parallel()
	po := Build("com.vmware.vcenter.VM", "post", "/vcenter/vm", "Creates a VM.", nil, "createVm", nil,
		WithConsumes("application/json"), WithProduces("application/json"))
	if diff := cmp.Diff([]string{"application/json"}, po.Consumes); diff != "" {
		t.Fatalf("consumes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"application/json"}, po.Produces); diff != "" {
		t.Fatalf("produces mismatch (-want +got):\n%s", diff)
	}
	if po.Summary != "Creates a VM." || po.OperationID != "createVm" {
		t.Fatalf("unexpected summary/operationId: %+v", po)
	}
}

func TestExtractRequestBody_HoistsFirstRef(t *testing.T) {
	t.Parallel()
	query := &openapi3.ParameterRef{Value: openapi3.NewQueryParameter("force")}
	params := openapi3.Parameters{
		query,
		{Ref: RequestBodiesRefPrefix + "VcenterVmCreate"},
		{Ref: RequestBodiesRefPrefix + "Other"},
	}
	in := Build("com.vmware.vcenter.VM", "post", "/vcenter/vm", "", params, "", nil)
	out := ExtractRequestBody(in)

	if out.RequestBody == nil || out.RequestBody.Ref != RequestBodiesRefPrefix+"VcenterVmCreate" {
		t.Fatalf("unexpected request body: %+v", out.RequestBody)
	}
	if len(out.Parameters) != 2 || out.Parameters[0] != query || out.Parameters[1].Ref != RequestBodiesRefPrefix+"Other" {
		t.Fatalf("unexpected parameters: %+v", out.Parameters)
	}
	if len(in.Parameters) != 3 || in.RequestBody != nil {
		t.Fatalf("input was modified: %+v", in)
	}
}

func TestExtractRequestBody_NoRef(t *testing.T) {
	t.Parallel()
	params := openapi3.Parameters{{Value: openapi3.NewPathParameter("vm")}}
	in := Build("com.vmware.vcenter.VM", "get", "/vcenter/vm/{vm}", "", params, "", nil)
	out := ExtractRequestBody(in)
	if out.RequestBody != nil || len(out.Parameters) != 1 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestAddBasicAuth(t *testing.T) {
	t.Parallel()
	session := AddBasicAuth(Build("com.vmware.cis.session", "post", SessionPath, "", nil, "", nil))
	if session.Security == nil {
		t.Fatalf("expected security on session creation")
	}
	want := openapi3.SecurityRequirements{{BasicAuthScheme: []string{}}}
	if diff := cmp.Diff(want, *session.Security); diff != "" {
		t.Fatalf("security mismatch (-want +got):\n%s", diff)
	}

	del := AddBasicAuth(Build("com.vmware.cis.session", "delete", SessionPath, "", nil, "", nil))
	if del.Security != nil {
		t.Fatalf("expected no security on session delete")
	}
	other := AddBasicAuth(Build("com.vmware.vcenter.VM", "post", "/vcenter/vm", "", nil, "", nil))
	if other.Security != nil {
		t.Fatalf("expected no security on other paths")
	}
}

func TestFinalize_AppliesBothTransforms(t *testing.T) {
	t.Parallel()
	params := openapi3.Parameters{{Ref: RequestBodiesRefPrefix + "CisSessionCreate"}}
	po := Finalize(Build("com.vmware.cis.session", "post", SessionPath, "", params, "", nil))
	if po.RequestBody == nil || po.Security == nil {
		t.Fatalf("expected request body and security, got %+v", po)
	}
	if len(po.Parameters) != 0 {
		t.Fatalf("expected parameters emptied, got %d", len(po.Parameters))
	}
}

func TestPipeline_Order(t *testing.T) {
	t.Parallel()
	appendTag := func(tag string) Transform {
		return func(po PathObject) PathObject {
			po.Tags = append(append([]string(nil), po.Tags...), tag)
			return po
		}
	}
	po := Pipeline(appendTag("a"), appendTag("b"))(PathObject{})
	if diff := cmp.Diff([]string{"a", "b"}, po.Tags); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOperation(t *testing.T) {
	t.Parallel()
	responses := openapi3.Responses{"204": &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("No content")}}
	po := Build("com.vmware.cis", "get", "/x", "Does x.", nil, "getX", responses)
	op := po.Operation()
	if len(op.Tags) != 0 {
		t.Fatalf("expected empty tags dropped, got %v", op.Tags)
	}
	if op.Summary != "Does x." || op.OperationID != "getX" {
		t.Fatalf("unexpected operation: %+v", op)
	}
	if op.Responses["204"] == nil {
		t.Fatalf("responses not carried over")
	}
}
