package swagger

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// TagSeparator joins the service name segments that form a tag.
	TagSeparator = "/"
	// RequestBodiesRefPrefix is the component collection request bodies live in.
	RequestBodiesRefPrefix = "#/components/requestBodies/"
	// SessionPath is the session creation endpoint, the only one using basic auth.
	SessionPath = "/com/vmware/cis/session"
	// BasicAuthScheme names the HTTP basic security scheme.
	BasicAuthScheme = "basic_auth"
)

// PathObject describes one HTTP operation on one path before it is placed
// into a document. Absent inputs are omitted when serialized.
type PathObject struct {
	Tags        []string                       `json:"tags"`
	Method      string                         `json:"method,omitempty"`
	Path        string                         `json:"path,omitempty"`
	Summary     string                         `json:"summary,omitempty"`
	Parameters  openapi3.Parameters            `json:"parameters,omitempty"`
	Responses   openapi3.Responses             `json:"responses,omitempty"`
	Consumes    []string                       `json:"consumes,omitempty"`
	Produces    []string                       `json:"produces,omitempty"`
	RequestBody *openapi3.RequestBodyRef       `json:"requestBody,omitempty"`
	Security    *openapi3.SecurityRequirements `json:"security,omitempty"`
	OperationID string                         `json:"operationId,omitempty"`
}

// BuildOption sets the optional media types of a PathObject.
type BuildOption func(*PathObject)

// WithConsumes sets the media types the operation accepts.
func WithConsumes(mediaTypes ...string) BuildOption {
	return func(po *PathObject) {
		if len(mediaTypes) > 0 {
			po.Consumes = append([]string(nil), mediaTypes...)
		}
	}
}

// WithProduces sets the media types the operation returns.
func WithProduces(mediaTypes ...string) BuildOption {
	return func(po *PathObject) {
		if len(mediaTypes) > 0 {
			po.Produces = append([]string(nil), mediaTypes...)
		}
	}
}

// Build assembles a path object. serviceName is the fully qualified service,
// e.g. com.vmware.vcenter.VM, and only feeds the tags. The parameters slice is
// copied, so later transforms never touch the caller's slice.
func Build(serviceName, method, path, documentation string, parameters openapi3.Parameters, operationID string, responses openapi3.Responses, opts ...BuildOption) PathObject {
	po := PathObject{
		Tags:        TagsFromServiceName(serviceName),
		Method:      method,
		Path:        path,
		Summary:     documentation,
		Responses:   responses,
		OperationID: operationID,
	}
	if parameters != nil {
		po.Parameters = append(openapi3.Parameters{}, parameters...)
	}
	for _, opt := range opts {
		opt(&po)
	}
	return po
}

// TagsFromServiceName derives the single tag of a service by dropping the
// three segment namespace prefix: com.vmware.vcenter.VM yields ["VM"] and
// com.vmware.a.b.c yields ["b/c"]. Shorter names yield [""].
func TagsFromServiceName(serviceName string) []string {
	segments := strings.Split(serviceName, ".")
	if len(segments) <= 3 {
		return []string{""}
	}
	return []string{strings.Join(segments[3:], TagSeparator)}
}

// Transform is one post-processing step over a path object. Transforms return
// a new value and leave their input untouched.
type Transform func(PathObject) PathObject

// Pipeline chains transforms, applied in the given order.
func Pipeline(transforms ...Transform) Transform {
	return func(po PathObject) PathObject {
		for _, t := range transforms {
			po = t(po)
		}
		return po
	}
}

// DefaultTransforms is the post-processing every generated path object goes
// through.
var DefaultTransforms = []Transform{ExtractRequestBody, AddBasicAuth}

// Finalize applies DefaultTransforms.
func Finalize(po PathObject) PathObject {
	return Pipeline(DefaultTransforms...)(po)
}

// ExtractRequestBody hoists the first parameter that references a request
// body component into RequestBody and drops it from Parameters.
func ExtractRequestBody(po PathObject) PathObject {
	for i, p := range po.Parameters {
		if p == nil || !strings.HasPrefix(p.Ref, RequestBodiesRefPrefix) {
			continue
		}
		params := make(openapi3.Parameters, 0, len(po.Parameters)-1)
		params = append(params, po.Parameters[:i]...)
		params = append(params, po.Parameters[i+1:]...)
		po.Parameters = params
		po.RequestBody = &openapi3.RequestBodyRef{Ref: p.Ref}
		return po
	}
	return po
}

// AddBasicAuth requires basic auth on session creation (POST SessionPath).
func AddBasicAuth(po PathObject) PathObject {
	if po.Path != SessionPath || po.Method != "post" {
		return po
	}
	security := openapi3.SecurityRequirements{
		openapi3.SecurityRequirement{BasicAuthScheme: []string{}},
	}
	po.Security = &security
	return po
}

// Operation converts the path object into an OpenAPI 3 operation. Method and
// path become the operation's position in the document; consumes and produces
// have no operation level field in OpenAPI 3 and are expected to be reflected
// in the request body and response content instead.
func (po PathObject) Operation() *openapi3.Operation {
	op := &openapi3.Operation{
		Summary:     po.Summary,
		OperationID: po.OperationID,
		Parameters:  po.Parameters,
		RequestBody: po.RequestBody,
		Responses:   po.Responses,
		Security:    po.Security,
	}
	for _, t := range po.Tags {
		if t != "" {
			op.Tags = append(op.Tags, t)
		}
	}
	if op.Responses == nil {
		op.Responses = openapi3.Responses{}
	}
	return op
}
