package swagger

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/vmware/vmware-openapi-generator/internal/metamodel"
)

const (
	// ErrorsComponent is the component declaring the standard errors.
	ErrorsComponent = "com.vmware.vapi"
	// ErrorsPackage is the package holding the standard error structures.
	ErrorsPackage = "com.vmware.vapi.std.errors"
	// ResponseCodeElement is the Response annotation element carrying the status.
	ResponseCodeElement = "code"
)

// ComponentService looks components up by id. *metamodel.Document satisfies it.
type ComponentService interface {
	Get(componentID string) (*metamodel.ComponentInfo, error)
}

// DefaultErrorStatuses returns the static status of every standard error.
// The map is a fresh copy on each call.
func DefaultErrorStatuses() map[string]int {
	const p = ErrorsPackage + "."
	return map[string]int{
		p + "already_exists":                http.StatusBadRequest,
		p + "already_in_desired_state":      http.StatusBadRequest,
		p + "feature_in_use":                http.StatusBadRequest,
		p + "internal_server_error":         http.StatusInternalServerError,
		p + "invalid_argument":              http.StatusBadRequest,
		p + "invalid_element_configuration": http.StatusBadRequest,
		p + "invalid_element_type":          http.StatusBadRequest,
		p + "invalid_request":               http.StatusBadRequest,
		p + "not_found":                     http.StatusNotFound,
		p + "operation_not_found":           http.StatusNotFound,
		p + "not_allowed_in_current_state":  http.StatusBadRequest,
		p + "resource_busy":                 http.StatusBadRequest,
		p + "resource_in_use":               http.StatusBadRequest,
		p + "resource_inaccessible":         http.StatusBadRequest,
		p + "service_unavailable":           http.StatusServiceUnavailable,
		p + "timed_out":                     http.StatusGatewayTimeout,
		p + "unable_to_allocate_resource":   http.StatusBadRequest,
		p + "unauthenticated":               http.StatusUnauthorized,
		p + "unauthorized":                  http.StatusForbidden,
		p + "unexpected_input":              http.StatusBadRequest,
		p + "unsupported":                   http.StatusBadRequest,
		p + "error":                         http.StatusBadRequest,
		p + "concurrent_change":             http.StatusBadRequest,
		p + "canceled":                      http.StatusBadRequest,
		p + "unverified_peer":               http.StatusBadRequest,
	}
}

// HTTPErrorMap resolves error structure ids to HTTP statuses. Statuses
// declared on the error structures themselves take precedence over the
// static table.
type HTTPErrorMap struct {
	defaults   map[string]int
	discovered map[string]int

	// Diagnostics lists error structures whose status could not be read.
	Diagnostics Diagnostics
}

// NewHTTPErrorMap scans the standard error structures of svc for Response
// annotations. Structures without a usable code are reported and skipped; a
// missing component or package leaves only the static table.
func NewHTTPErrorMap(svc ComponentService) *HTTPErrorMap {
	m := &HTTPErrorMap{
		defaults:   DefaultErrorStatuses(),
		discovered: map[string]int{},
	}

	var comp *metamodel.ComponentInfo
	var err error
	if svc != nil {
		comp, err = svc.Get(ErrorsComponent)
	} else {
		err = fmt.Errorf("%w: %s", metamodel.ErrComponentNotFound, ErrorsComponent)
	}
	if err != nil {
		m.Diagnostics = append(m.Diagnostics, Diagnostic{
			Kind:    MissingComponent,
			Subject: ErrorsComponent,
			Message: err.Error(),
		})
		return m
	}
	pkg, ok := comp.Packages[ErrorsPackage]
	if !ok {
		m.Diagnostics = append(m.Diagnostics, Diagnostic{
			Kind:    MissingComponent,
			Subject: ErrorsPackage,
			Message: fmt.Sprintf("package %s not found in component %s", ErrorsPackage, ErrorsComponent),
		})
		return m
	}

	names := make([]string, 0, len(pkg.Structures))
	for name := range pkg.Structures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		resp := pkg.Structures[name].Metadata.Response
		if resp == nil || !resp.HasCode {
			m.Diagnostics = append(m.Diagnostics, Diagnostic{
				Kind:    MissingErrorCode,
				Subject: name,
				Message: name + " does not have an error code",
			})
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(resp.Code))
		if err != nil {
			m.Diagnostics = append(m.Diagnostics, Diagnostic{
				Kind:    MalformedErrorCode,
				Subject: name,
				Message: fmt.Sprintf("%s has a non-integer error code %q", name, resp.Code),
			})
			continue
		}
		m.discovered[name] = code
	}
	return m
}

// StatusFor returns the HTTP status of the named error structure.
func (m *HTTPErrorMap) StatusFor(name string) (int, bool) {
	if code, ok := m.discovered[name]; ok {
		return code, true
	}
	code, ok := m.defaults[name]
	return code, ok
}

// Discovered returns a copy of the statuses read from the input.
func (m *HTTPErrorMap) Discovered() map[string]int {
	return copyStatuses(m.discovered)
}

// Defaults returns a copy of the static table.
func (m *HTTPErrorMap) Defaults() map[string]int {
	return copyStatuses(m.defaults)
}

func copyStatuses(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
