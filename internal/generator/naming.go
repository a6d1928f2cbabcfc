package generator

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/vmware/vmware-openapi-generator/internal/swagger"
)

const (
	// SchemasRefPrefix is where structure schemas live.
	SchemasRefPrefix = "#/components/schemas/"

	defaultProduct = "vapi"
)

// productDescriptions titles the per-product documents.
var productDescriptions = map[string]string{
	"content":   "VMware vSphere® Content Library empowers vSphere Admins to effectively manage VM templates, vApps, ISO images and scripts with ease.",
	"spbm":      "SPBM",
	"vapi":      "vAPI is an extensible API Platform for modelling and delivering APIs/SDKs/CLIs.",
	"vcenter":   "VMware vCenter Server provides a centralized platform for managing your VMware vSphere environments",
	"appliance": "The vCenter Server Appliance is a preconfigured Linux-based virtual machine optimized for running vCenter Server and associated services.",
}

// ProductDescription returns the description of a product, or "" when none
// is known.
func ProductDescription(product string) string {
	return productDescriptions[product]
}

// ProductOf returns the product a service belongs to: the third segment of
// its name, e.g. vcenter for com.vmware.vcenter.VM.
func ProductOf(serviceName string) string {
	segments := strings.Split(serviceName, ".")
	if len(segments) < 3 || segments[2] == "" {
		return defaultProduct
	}
	return segments[2]
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9]+`)

// SchemaName turns a structure id into a component name:
// com.vmware.vcenter.vm.hardware.disk_info becomes VcenterVmHardwareDiskInfo.
func SchemaName(structureID string) string {
	return strcase.ToCamel(nonIdent.ReplaceAllString(trimNamespace(structureID), "_"))
}

// RequestBodyName names the request body component of an operation.
func RequestBodyName(serviceName, operation string) string {
	return strcase.ToCamel(nonIdent.ReplaceAllString(trimNamespace(serviceName)+"_"+operation, "_"))
}

// OperationID derives an operation id from the method and the path, braces
// and query separators included: post /vcenter/vm/{vm}/power?action=start
// becomes postVcenterVmVmPowerActionStart.
func OperationID(method, path string) string {
	s := strings.ToLower(method) + "_" + swagger.RemoveCurlyBraces(path)
	return strcase.ToLowerCamel(strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(s), "_"), "_"))
}

func trimNamespace(id string) string {
	for _, prefix := range []string{"com.vmware.", "com."} {
		if strings.HasPrefix(id, prefix) {
			return strings.TrimPrefix(id, prefix)
		}
	}
	return id
}
