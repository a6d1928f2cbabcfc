package generator

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/vmware/vmware-openapi-generator/internal/metamodel"
	"github.com/vmware/vmware-openapi-generator/internal/swagger"
)

const jsonMediaType = "application/json"

// Methods whose unbound parameters travel in the request body. Elsewhere they
// become query parameters.
var bodyMethods = map[string]bool{
	"post":  true,
	"put":   true,
	"patch": true,
}

// Methods a path item can hold.
var operationMethods = map[string]bool{
	"connect": true,
	"delete":  true,
	"get":     true,
	"head":    true,
	"options": true,
	"patch":   true,
	"post":    true,
	"put":     true,
	"trace":   true,
}

func supportedMethod(op metamodel.OperationInfo) (swagger.Diagnostic, bool) {
	if operationMethods[strings.ToLower(op.Method)] {
		return swagger.Diagnostic{}, true
	}
	return swagger.Diagnostic{
		Kind:    swagger.UnsupportedMethod,
		Subject: op.Method,
		Message: fmt.Sprintf("operation %s of %s has unsupported HTTP method %q", op.Name, op.URL, op.Method),
	}, false
}

type namedRequestBody struct {
	name string
	body *openapi3.RequestBody
}

// operationBuilder turns one metamodel operation into a path object.
type operationBuilder struct {
	service metamodel.ServiceInfo
	op      metamodel.OperationInfo
	errMap  *swagger.HTTPErrorMap
	schemas *schemaSet

	// requestBody is set by build when the operation takes a body.
	requestBody *namedRequestBody
}

func (b *operationBuilder) build() (swagger.PathObject, swagger.Diagnostics) {
	method := strings.ToLower(b.op.Method)
	cl := swagger.Classify(b.op.Params, b.op.URL)

	path := cl.URL
	if rm := b.op.Metadata.RequestMapping; rm != nil && rm.Params != "" {
		path = swagger.AddQueryParam(path, rm.Params)
	}

	var params openapi3.Parameters
	for _, f := range cl.Path {
		p := openapi3.NewPathParameter(f.Name)
		p.Description = f.Documentation
		p.Schema = b.schemas.ref(f.Type)
		params = append(params, &openapi3.ParameterRef{Value: p})
	}

	query, body := cl.Query, cl.Body
	if bodyMethods[method] {
		body = append(body, cl.Unbound...)
	} else {
		query = append(query, cl.Unbound...)
	}
	for _, f := range query {
		name := f.Name
		if q := f.Metadata.Query; q != nil && q.Name != "" {
			name = q.Name
		}
		p := openapi3.NewQueryParameter(name)
		p.Description = f.Documentation
		p.Required = !f.Optional()
		p.Schema = b.schemas.ref(f.Type)
		params = append(params, &openapi3.ParameterRef{Value: p})
	}
	if len(body) > 0 {
		b.requestBody = b.buildRequestBody(body)
		params = append(params, &openapi3.ParameterRef{Ref: swagger.RequestBodiesRefPrefix + b.requestBody.name})
	}

	opID := b.op.OperationID
	if opID == "" {
		opID = OperationID(method, path)
	}
	po := swagger.Build(b.service.Name, method, path, b.op.Documentation, params, opID, b.responses(),
		swagger.WithConsumes(b.op.Consumes...),
		swagger.WithProduces(b.op.Produces...),
	)
	return swagger.Finalize(po), cl.Diagnostics
}

func bodyFieldName(f metamodel.FieldInfo) string {
	if bf := f.Metadata.BodyField; bf != nil {
		return bf.Name
	}
	return ""
}

func (b *operationBuilder) buildRequestBody(fields []metamodel.FieldInfo) *namedRequestBody {
	obj := openapi3.NewObjectSchema()
	obj.Properties = b.schemas.properties(fields, bodyFieldName)
	obj.Required = required(fields, bodyFieldName)
	return &namedRequestBody{
		name: RequestBodyName(b.service.Name, b.op.Name),
		body: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchema(obj, mediaTypes(b.op.Consumes))),
	}
}

// responses declares the success response and one response per error
// status. When several errors share a status the first one declared wins.
func (b *operationBuilder) responses() openapi3.Responses {
	produces := mediaTypes(b.op.Produces)
	out := openapi3.Responses{}

	if o := b.op.Output; o == nil || o.Type == "" || strings.EqualFold(o.Type, "void") {
		out[strconv.Itoa(http.StatusNoContent)] = &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(http.StatusText(http.StatusNoContent)),
		}
	} else {
		desc := o.Documentation
		if desc == "" {
			desc = http.StatusText(http.StatusOK)
		}
		out[strconv.Itoa(http.StatusOK)] = &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(desc).
				WithContent(openapi3.NewContentWithSchemaRef(b.schemas.ref(o.Type), produces)),
		}
	}

	for _, e := range b.op.Errors {
		status, ok := b.errMap.StatusFor(e.StructureID)
		if !ok {
			status = http.StatusInternalServerError
		}
		key := strconv.Itoa(status)
		if _, exists := out[key]; exists {
			continue
		}
		desc := e.Documentation
		if desc == "" {
			desc = http.StatusText(status)
		}
		out[key] = &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(desc).
				WithContent(openapi3.NewContentWithSchemaRef(b.schemas.ref(e.StructureID), produces)),
		}
	}
	return out
}

func mediaTypes(declared []string) []string {
	if len(declared) == 0 {
		return []string{jsonMediaType}
	}
	return declared
}
