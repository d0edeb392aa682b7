package gcp

import (
	"fmt"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/diillson/gcp-flowlog-audit/pkg/resourcepath"
	crm "google.golang.org/api/cloudresourcemanager/v3"
	compute "google.golang.org/api/compute/v1"
)

func malformed(kind, name, field string) error {
	return fmt.Errorf("%w: %s %q has no usable %q", types.ErrMalformedRecord, kind, name, field)
}

// normalizeProject converte um projeto da Resource Manager v3 (name = "projects/{number}").
func normalizeProject(p *crm.Project) (entity.Project, error) {
	if p == nil {
		return entity.Project{}, fmt.Errorf("%w: nil project", types.ErrMalformedRecord)
	}
	number, ok := resourcepath.Segment(p.Name, resourcepath.ProjectsMarker)
	if !ok {
		return entity.Project{}, malformed("project", p.ProjectId, "name")
	}
	if p.ProjectId == "" {
		return entity.Project{}, malformed("project", p.Name, "projectId")
	}
	return entity.Project{ProjectNumber: number, ProjectID: p.ProjectId}, nil
}

// normalizeFirewall exige name, network e logConfig; não há default para nenhum deles.
func normalizeFirewall(fw *compute.Firewall) (entity.Firewall, error) {
	if fw == nil {
		return entity.Firewall{}, fmt.Errorf("%w: nil firewall", types.ErrMalformedRecord)
	}
	if fw.Name == "" {
		return entity.Firewall{}, malformed("firewall", fw.SelfLink, "name")
	}
	projectID, ok := resourcepath.Segment(fw.Network, resourcepath.ProjectsMarker)
	if !ok {
		return entity.Firewall{}, malformed("firewall", fw.Name, "network")
	}
	vpc, ok := resourcepath.Segment(fw.Network, resourcepath.NetworksMarker)
	if !ok {
		return entity.Firewall{}, malformed("firewall", fw.Name, "network")
	}
	if fw.LogConfig == nil {
		return entity.Firewall{}, malformed("firewall", fw.Name, "logConfig")
	}

	return entity.Firewall{
		Name:           fw.Name,
		ProjectID:      projectID,
		VPC:            vpc,
		LoggingEnabled: fw.LogConfig.Enable,
	}, nil
}

// normalizeSubnetwork exige name, network e region. Sem logConfig, cai para o campo
// legado enableFlowLogs; intervalo e amostragem ficam nil.
func normalizeSubnetwork(sn *compute.Subnetwork) (entity.Subnetwork, error) {
	if sn == nil {
		return entity.Subnetwork{}, fmt.Errorf("%w: nil subnetwork", types.ErrMalformedRecord)
	}
	if sn.Name == "" {
		return entity.Subnetwork{}, malformed("subnetwork", sn.SelfLink, "name")
	}
	projectID, ok := resourcepath.Segment(sn.Network, resourcepath.ProjectsMarker)
	if !ok {
		return entity.Subnetwork{}, malformed("subnetwork", sn.Name, "network")
	}
	vpc, ok := resourcepath.Segment(sn.Network, resourcepath.NetworksMarker)
	if !ok {
		return entity.Subnetwork{}, malformed("subnetwork", sn.Name, "network")
	}
	region, ok := resourcepath.Segment(sn.Region, resourcepath.RegionsMarker)
	if !ok {
		return entity.Subnetwork{}, malformed("subnetwork", sn.Name, "region")
	}

	subnet := entity.Subnetwork{
		Name:           sn.Name,
		ProjectID:      projectID,
		VPC:            vpc,
		Region:         region,
		LoggingEnabled: sn.EnableFlowLogs,
	}
	if lc := sn.LogConfig; lc != nil {
		subnet.LoggingEnabled = lc.Enable
		if lc.AggregationInterval != "" {
			interval := lc.AggregationInterval
			subnet.LoggingInterval = &interval
		}
		if lc.FlowSampling != 0 || lc.Enable {
			sampling := lc.FlowSampling
			subnet.LoggingSamplePercentage = &sampling
		}
	}
	return subnet, nil
}
