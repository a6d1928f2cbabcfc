package metamodel

import (
	"errors"
	"fmt"
	"sort"
)

// Input model: the subset of the vAPI metamodel the generator consumes.

// ErrComponentNotFound is returned by Document.Get for unknown components.
var ErrComponentNotFound = errors.New("component not found")

type Document struct {
	Components []ComponentInfo `yaml:"components"`
}

type ComponentInfo struct {
	Name          string                 `yaml:"name"`
	Documentation string                 `yaml:"documentation,omitempty"`
	Packages      map[string]PackageInfo `yaml:"packages"`
}

type PackageInfo struct {
	Name          string                   `yaml:"-"`
	Documentation string                   `yaml:"documentation,omitempty"`
	Structures    map[string]StructureInfo `yaml:"structures,omitempty"`
	Services      map[string]ServiceInfo   `yaml:"services,omitempty"`
}

type StructureInfo struct {
	Name          string      `yaml:"-"`
	Documentation string      `yaml:"documentation,omitempty"`
	Fields        []FieldInfo `yaml:"fields,omitempty"`
	Metadata      Metadata    `yaml:"metadata,omitempty"`
}

type ServiceInfo struct {
	Name          string                   `yaml:"-"`
	Documentation string                   `yaml:"documentation,omitempty"`
	Operations    map[string]OperationInfo `yaml:"operations,omitempty"`
	Metadata      Metadata                 `yaml:"metadata,omitempty"`
}

type OperationInfo struct {
	Name          string      `yaml:"-"`
	Documentation string      `yaml:"documentation,omitempty"`
	Method        string      `yaml:"method"`
	URL           string      `yaml:"url"`
	OperationID   string      `yaml:"operation_id,omitempty"`
	Params        []FieldInfo `yaml:"params,omitempty"`
	Output        *OutputInfo `yaml:"output,omitempty"`
	Errors        []ErrorInfo `yaml:"errors,omitempty"`
	Consumes      []string    `yaml:"consumes,omitempty"`
	Produces      []string    `yaml:"produces,omitempty"`
	Metadata      Metadata    `yaml:"metadata,omitempty"`
}

type OutputInfo struct {
	Type          string `yaml:"type"`
	Documentation string `yaml:"documentation,omitempty"`
}

type ErrorInfo struct {
	StructureID   string `yaml:"structure_id"`
	Documentation string `yaml:"documentation,omitempty"`
}

// FieldInfo is an operation parameter or a structure field.
type FieldInfo struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Documentation string   `yaml:"documentation,omitempty"`
	Metadata      Metadata `yaml:"metadata,omitempty"`
}

// Optional reports whether the field type is optional<...>.
func (f FieldInfo) Optional() bool {
	t, err := ParseType(f.Type)
	return err == nil && t.Generic == GenericOptional
}

// Get returns the named component. It is the components service lookup used
// by the error status mapper.
func (d *Document) Get(componentID string) (*ComponentInfo, error) {
	if d != nil {
		for i := range d.Components {
			if d.Components[i].Name == componentID {
				return &d.Components[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, componentID)
}

// QualifiedService is a service together with the component and package that
// declare it.
type QualifiedService struct {
	Component string
	Package   string
	ServiceInfo
}

// Services lists every service of the document in a stable order.
func (d *Document) Services() []QualifiedService {
	var out []QualifiedService
	for _, c := range d.sortedComponents() {
		for _, pkgName := range sortedKeys(c.Packages) {
			pkg := c.Packages[pkgName]
			for _, svcName := range sortedKeys(pkg.Services) {
				out = append(out, QualifiedService{
					Component:   c.Name,
					Package:     pkgName,
					ServiceInfo: pkg.Services[svcName],
				})
			}
		}
	}
	return out
}

// Structures lists every structure of the document in a stable order.
func (d *Document) Structures() []StructureInfo {
	var out []StructureInfo
	for _, c := range d.sortedComponents() {
		for _, pkgName := range sortedKeys(c.Packages) {
			pkg := c.Packages[pkgName]
			for _, name := range sortedKeys(pkg.Structures) {
				out = append(out, pkg.Structures[name])
			}
		}
	}
	return out
}

// SortedOperations returns the operations of a service ordered by name.
func (s ServiceInfo) SortedOperations() []OperationInfo {
	out := make([]OperationInfo, 0, len(s.Operations))
	for _, name := range sortedKeys(s.Operations) {
		out = append(out, s.Operations[name])
	}
	return out
}

func (d *Document) sortedComponents() []ComponentInfo {
	if d == nil {
		return nil
	}
	out := append([]ComponentInfo(nil), d.Components...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// fillNames copies map keys into the Name fields after decoding.
func (d *Document) fillNames() {
	for ci := range d.Components {
		c := &d.Components[ci]
		for pkgName, pkg := range c.Packages {
			pkg.Name = pkgName
			for name, st := range pkg.Structures {
				st.Name = name
				pkg.Structures[name] = st
			}
			for name, svc := range pkg.Services {
				svc.Name = name
				for opName, op := range svc.Operations {
					op.Name = opName
					svc.Operations[opName] = op
				}
				pkg.Services[name] = svc
			}
			c.Packages[pkgName] = pkg
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
