package swagger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vmware/vmware-openapi-generator/internal/metamodel"
)

// placeholderRe matches {token} placeholders; group 1 is the token text.
var placeholderRe = regexp.MustCompile(`{(.+?)}`)

// PathResult is the outcome of path placeholder reconciliation.
type PathResult struct {
	// Path holds the matched path parameters in URL appearance order.
	Path []metamodel.FieldInfo
	// Other holds the remaining parameters in declaration order.
	Other []metamodel.FieldInfo
	// URL is the input URL with placeholders renamed to parameter names.
	URL string
	// Diagnostics lists placeholders no parameter could satisfy.
	Diagnostics Diagnostics
}

// ExtractPathParameters matches every {placeholder} of url against params.
// A parameter matches when its name equals the placeholder or when its
// PathVariable value does; the first match in declaration order wins and is
// removed from the pool. When the matched name differs from the placeholder,
// the placeholder is renamed, e.g. /vcenter/resource-pool/{resource-pool}
// becomes /vcenter/resource-pool/{resource_pool}. Placeholders without a
// match are reported and left as they are.
func ExtractPathParameters(params []metamodel.FieldInfo, url string) PathResult {
	res := PathResult{
		Other: append([]metamodel.FieldInfo(nil), params...),
	}

	var b strings.Builder
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(url, -1) {
		placeholder := url[m[2]:m[3]]
		b.WriteString(url[last:m[0]])
		last = m[1]

		idx := -1
		for i, p := range res.Other {
			if IsPathVariable(p, placeholder) {
				idx = i
				break
			}
		}
		if idx < 0 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    UnresolvedPlaceholder,
				Subject: placeholder,
				Message: fmt.Sprintf("%s parameter from %s is not found among the operation's parameters", placeholder, url),
			})
			b.WriteString(url[m[0]:m[1]])
			continue
		}

		matched := res.Other[idx]
		res.Path = append(res.Path, matched)
		res.Other = append(res.Other[:idx:idx], res.Other[idx+1:]...)
		b.WriteString("{" + matched.Name + "}")
	}
	b.WriteString(url[last:])
	res.URL = b.String()
	return res
}

// IsPathVariable reports whether param satisfies the given URL placeholder.
func IsPathVariable(param metamodel.FieldInfo, placeholder string) bool {
	if param.Name == placeholder {
		return true
	}
	pv := param.Metadata.PathVariable
	return pv != nil && pv.Value == placeholder
}

// ExtractBodyParameters splits params into those carrying a Body or BodyField
// annotation and the rest.
func ExtractBodyParameters(params []metamodel.FieldInfo) (body, other []metamodel.FieldInfo) {
	for _, p := range params {
		if p.Metadata.Binding() == metamodel.BindingBody {
			body = append(body, p)
		} else {
			other = append(other, p)
		}
	}
	return body, other
}

// ExtractQueryParameters splits params into those carrying a Query annotation
// and the rest.
func ExtractQueryParameters(params []metamodel.FieldInfo) (query, other []metamodel.FieldInfo) {
	for _, p := range params {
		if p.Metadata.Query != nil {
			query = append(query, p)
		} else {
			other = append(other, p)
		}
	}
	return query, other
}

// Classified is the full split of an operation's parameters. Path matching
// runs first, so a path parameter is never also a body or query parameter.
type Classified struct {
	Path  []metamodel.FieldInfo
	Query []metamodel.FieldInfo
	Body  []metamodel.FieldInfo
	// Unbound holds parameters with no path match and no binding annotation.
	Unbound []metamodel.FieldInfo
	URL     string

	Diagnostics Diagnostics
}

// Classify runs path reconciliation, then the body split, then the query
// split over what is left.
func Classify(params []metamodel.FieldInfo, url string) Classified {
	pr := ExtractPathParameters(params, url)
	body, rest := ExtractBodyParameters(pr.Other)
	query, unbound := ExtractQueryParameters(rest)
	return Classified{
		Path:        pr.Path,
		Query:       query,
		Body:        body,
		Unbound:     unbound,
		URL:         pr.URL,
		Diagnostics: pr.Diagnostics,
	}
}
