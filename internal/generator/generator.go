// Package generator turns a vAPI metamodel into one OpenAPI 3 document per
// product. The per operation work is delegated to the swagger package; this
// package decides what is generated and assembles the documents.
package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-hclog"

	"github.com/vmware/vmware-openapi-generator/internal/logging"
	"github.com/vmware/vmware-openapi-generator/internal/metamodel"
	"github.com/vmware/vmware-openapi-generator/internal/swagger"
)

const (
	openAPIVersion = "3.0.0"
	apiVersion     = "2.0.0"
)

// Option configures Generate.
type Option func(*config)

type config struct {
	logger            hclog.Logger
	includeTags       map[string]struct{}
	excludeTags       map[string]struct{}
	includeUnreleased bool
}

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l hclog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIncludeTags keeps only operations tagged with one of tags.
func WithIncludeTags(tags []string) Option {
	return func(c *config) { c.includeTags = addTags(c.includeTags, tags) }
}

// WithExcludeTags drops operations tagged with any of tags.
func WithExcludeTags(tags []string) Option {
	return func(c *config) { c.excludeTags = addTags(c.excludeTags, tags) }
}

// WithIncludeUnreleased keeps services and operations marked Changing or
// Proposed.
func WithIncludeUnreleased(v bool) Option {
	return func(c *config) { c.includeUnreleased = v }
}

func addTags(set map[string]struct{}, tags []string) map[string]struct{} {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(tags))
		}
		set[t] = struct{}{}
	}
	return set
}

// Result holds the generated documents keyed by product, together with every
// diagnostic raised while building them.
type Result struct {
	Documents   map[string]*openapi3.T
	Diagnostics swagger.Diagnostics
	// Skipped counts operations left out by release or tag filtering, or
	// because they could not be placed in a document.
	Skipped int
}

// Products returns the product names in sorted order.
func (r *Result) Products() []string {
	out := make([]string, 0, len(r.Documents))
	for p := range r.Documents {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// product accumulates one document.
type product struct {
	doc     *openapi3.T
	schemas *schemaSet
	tags    map[string]string
}

// Generate builds the documents. Inconsistencies in the input are logged,
// collected in Result.Diagnostics and skipped over; only an empty input is an
// error.
func Generate(doc *metamodel.Document, opts ...Option) (*Result, error) {
	if doc == nil || len(doc.Components) == 0 {
		return nil, fmt.Errorf("generate: metamodel has no components")
	}
	cfg := config{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger

	res := &Result{Documents: map[string]*openapi3.T{}}
	errMap := swagger.NewHTTPErrorMap(doc)
	report(log, errMap.Diagnostics, "component", swagger.ErrorsComponent)
	res.Diagnostics = append(res.Diagnostics, errMap.Diagnostics...)

	structures := indexStructures(doc)
	products := map[string]*product{}

	for _, svc := range doc.Services() {
		if !cfg.includeUnreleased && metamodel.IsFiltered(svc.Metadata) {
			log.Debug("skipping unreleased service", "service", svc.Name)
			res.Skipped += len(svc.Operations)
			continue
		}
		if !cfg.keep(swagger.TagsFromServiceName(svc.Name)) {
			log.Debug("skipping filtered tag", "service", svc.Name)
			res.Skipped += len(svc.Operations)
			continue
		}
		name := ProductOf(svc.Name)
		p, ok := products[name]
		if !ok {
			p = newProduct(name, structures)
			products[name] = p
		}

		for _, op := range svc.SortedOperations() {
			if !cfg.includeUnreleased && metamodel.IsFiltered(op.Metadata) {
				log.Debug("skipping unreleased operation", "service", svc.Name, "operation", op.Name)
				res.Skipped++
				continue
			}
			if d, ok := supportedMethod(op); !ok {
				report(log, swagger.Diagnostics{d}, "service", svc.Name, "operation", op.Name)
				res.Diagnostics = append(res.Diagnostics, d)
				res.Skipped++
				continue
			}
			b := operationBuilder{service: svc.ServiceInfo, op: op, errMap: errMap, schemas: p.schemas}
			po, diags := b.build()
			added := true
			if d, ok := p.add(po, b.requestBody); !ok {
				diags = append(diags, d)
				added = false
			}
			report(log, diags, "service", svc.Name, "operation", op.Name)
			res.Diagnostics = append(res.Diagnostics, diags...)
			if !added {
				res.Skipped++
				continue
			}
			for _, t := range po.Tags {
				if _, seen := p.tags[t]; !seen && t != "" {
					p.tags[t] = svc.Documentation
				}
			}
			log.Debug("generated operation", "method", po.Method, "path", po.Path, "operation_id", po.OperationID)
		}
	}

	for name, p := range products {
		if len(p.doc.Paths) == 0 {
			continue
		}
		res.Documents[name] = p.finish()
		log.Info("built document", "product", name, "paths", len(p.doc.Paths))
	}
	return res, nil
}

func (c config) keep(tags []string) bool {
	if len(c.includeTags) > 0 {
		found := false
		for _, t := range tags {
			if _, ok := c.includeTags[t]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, t := range tags {
		if _, ok := c.excludeTags[t]; ok {
			return false
		}
	}
	return true
}

func newProduct(name string, structures map[string]metamodel.StructureInfo) *product {
	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:       name,
			Description: ProductDescription(name),
			Version:     apiVersion,
		},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{},
	}
	return &product{doc: doc, schemas: newSchemaSet(structures), tags: map[string]string{}}
}

// add places a finalized path object into the document. An operation whose
// path and method are already taken is left out and reported; the first one
// added is kept.
func (p *product) add(po swagger.PathObject, body *namedRequestBody) (swagger.Diagnostic, bool) {
	method := strings.ToUpper(po.Method)
	item, ok := p.doc.Paths[po.Path]
	if !ok {
		item = &openapi3.PathItem{}
		p.doc.Paths[po.Path] = item
	}
	if prev := item.GetOperation(method); prev != nil {
		return swagger.Diagnostic{
			Kind:    swagger.DuplicateOperation,
			Subject: method + " " + po.Path,
			Message: fmt.Sprintf("%s %s is already defined by operation %s; dropping %s", method, po.Path, prev.OperationID, po.OperationID),
		}, false
	}
	if body != nil {
		if p.doc.Components.RequestBodies == nil {
			p.doc.Components.RequestBodies = openapi3.RequestBodies{}
		}
		p.doc.Components.RequestBodies[body.name] = &openapi3.RequestBodyRef{Value: body.body}
	}
	if po.Security != nil {
		if p.doc.Components.SecuritySchemes == nil {
			p.doc.Components.SecuritySchemes = openapi3.SecuritySchemes{}
		}
		p.doc.Components.SecuritySchemes[swagger.BasicAuthScheme] = &openapi3.SecuritySchemeRef{
			Value: openapi3.NewSecurityScheme().WithType("http").WithScheme("basic"),
		}
	}
	item.SetOperation(method, po.Operation())
	return swagger.Diagnostic{}, true
}

func (p *product) finish() *openapi3.T {
	if schemas := p.schemas.components(); len(schemas) > 0 {
		p.doc.Components.Schemas = schemas
	}
	names := make([]string, 0, len(p.tags))
	for t := range p.tags {
		names = append(names, t)
	}
	sort.Strings(names)
	for _, t := range names {
		p.doc.Tags = append(p.doc.Tags, &openapi3.Tag{Name: t, Description: p.tags[t]})
	}
	return p.doc
}

func report(log hclog.Logger, diags swagger.Diagnostics, args ...interface{}) {
	for _, d := range diags {
		log.Warn(d.Message, append([]interface{}{"kind", string(d.Kind), "subject", d.Subject}, args...)...)
	}
}
