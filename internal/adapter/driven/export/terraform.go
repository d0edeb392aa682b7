package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

const (
	firewallResourceType = "google_compute_firewall"
	subnetResourceType   = "google_compute_subnetwork"

	defaultLogMetadata         = "INCLUDE_ALL_METADATA"
	defaultAggregationInterval = "INTERVAL_5_SEC"
	defaultFlowSampling        = 0.5
)

var invalidLabelChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ExportTerraform gera um arquivo HCL com um bloco import e um resource para cada recurso
// reportado, já com log_config habilitado. Recursos cujo nome contém qualquer um dos
// excludes (ex.: "gke-", regras gerenciadas pelo GKE) são ignorados.
func (r *ExportRepositoryImpl) ExportTerraform(report entity.ComplianceReport, outputPath string, excludes []string) (string, error) {
	if err := prepareOutputPath(outputPath); err != nil {
		return "", err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.AppendUnstructuredTokens(hclwrite.Tokens{
		{Type: hclsyntax.TokenComment, Bytes: []byte("# Generated by gcp-flowlog-audit. Review each resource before running terraform plan.\n")},
		{Type: hclsyntax.TokenComment, Bytes: []byte("# Resource stubs only declare the attributes needed to enable logging.\n")},
	})

	labels := newLabelSet()
	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]

		for _, fw := range findings.Firewalls {
			if isExcluded(fw.Name, excludes) {
				continue
			}
			label := labels.next(fw.ProjectID, fw.Name)
			body.AppendNewline()
			appendImportBlock(body, firewallResourceType, label,
				fmt.Sprintf("projects/%s/global/firewalls/%s", fw.ProjectID, fw.Name))
			body.AppendNewline()

			rb := body.AppendNewBlock("resource", []string{firewallResourceType, label}).Body()
			rb.SetAttributeValue("project", cty.StringVal(fw.ProjectID))
			rb.SetAttributeValue("name", cty.StringVal(fw.Name))
			rb.SetAttributeValue("network", cty.StringVal(fw.VPC))
			lb := rb.AppendNewBlock("log_config", nil).Body()
			lb.SetAttributeValue("metadata", cty.StringVal(defaultLogMetadata))
		}

		for _, sn := range findings.Subnets {
			if isExcluded(sn.Name, excludes) {
				continue
			}
			label := labels.next(sn.ProjectID, sn.Region, sn.Name)
			body.AppendNewline()
			appendImportBlock(body, subnetResourceType, label,
				fmt.Sprintf("projects/%s/regions/%s/subnetworks/%s", sn.ProjectID, sn.Region, sn.Name))
			body.AppendNewline()

			interval := defaultAggregationInterval
			if sn.LoggingInterval != nil && *sn.LoggingInterval != "" {
				interval = *sn.LoggingInterval
			}
			sampling := defaultFlowSampling
			if sn.LoggingSamplePercentage != nil && *sn.LoggingSamplePercentage > 0 {
				sampling = *sn.LoggingSamplePercentage
			}

			rb := body.AppendNewBlock("resource", []string{subnetResourceType, label}).Body()
			rb.SetAttributeValue("project", cty.StringVal(sn.ProjectID))
			rb.SetAttributeValue("name", cty.StringVal(sn.Name))
			rb.SetAttributeValue("region", cty.StringVal(sn.Region))
			rb.SetAttributeValue("network", cty.StringVal(sn.VPC))
			lb := rb.AppendNewBlock("log_config", nil).Body()
			lb.SetAttributeValue("aggregation_interval", cty.StringVal(interval))
			lb.SetAttributeValue("flow_sampling", cty.NumberFloatVal(sampling))
			lb.SetAttributeValue("metadata", cty.StringVal(defaultLogMetadata))
		}
	}

	if err := os.WriteFile(outputPath, hclwrite.Format(f.Bytes()), 0644); err != nil {
		return "", fmt.Errorf("error writing Terraform file: %w", err)
	}

	return filepath.Abs(outputPath)
}

func appendImportBlock(body *hclwrite.Body, resourceType, label, id string) {
	ib := body.AppendNewBlock("import", nil).Body()
	ib.SetAttributeTraversal("to", hcl.Traversal{
		hcl.TraverseRoot{Name: resourceType},
		hcl.TraverseAttr{Name: label},
	})
	ib.SetAttributeValue("id", cty.StringVal(id))
}

func isExcluded(name string, excludes []string) bool {
	for _, ex := range excludes {
		if ex != "" && strings.Contains(name, ex) {
			return true
		}
	}
	return false
}

// labelSet gera labels de resource válidos e únicos dentro do arquivo.
type labelSet map[string]int

func newLabelSet() labelSet {
	return labelSet{}
}

func (s labelSet) next(parts ...string) string {
	label := invalidLabelChars.ReplaceAllString(strings.Join(parts, "_"), "_")
	if label == "" || (label[0] >= '0' && label[0] <= '9') || label[0] == '-' {
		label = "r_" + label
	}

	s[label]++
	if n := s[label]; n > 1 {
		return fmt.Sprintf("%s_%d", label, n)
	}
	return label
}
