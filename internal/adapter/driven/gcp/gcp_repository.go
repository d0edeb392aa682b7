package gcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
	"github.com/diillson/gcp-flowlog-audit/internal/domain/repository"
	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/diillson/gcp-flowlog-audit/pkg/pagination"
	"github.com/diillson/gcp-flowlog-audit/pkg/resourcepath"
	"golang.org/x/oauth2/google"
	crm "google.golang.org/api/cloudresourcemanager/v3"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/serviceusage/v1"
)

const userAgent = "gcp-flowlog-audit"

// GCPRepositoryImpl implementa o GCPRepository com cache de clientes.
type GCPRepositoryImpl struct {
	logger        *slog.Logger
	clientOptions []option.ClientOption

	mu           sync.Mutex
	rmService    *crm.Service
	usageService *serviceusage.Service
	computeSvc   *compute.Service
}

// NewGCPRepository cria uma nova implementação do GCPRepository. As opções extras são
// repassadas a todos os clientes (endpoint, http client, credenciais).
func NewGCPRepository(logger *slog.Logger, opts ...option.ClientOption) repository.GCPRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &GCPRepositoryImpl{
		logger:        logger,
		clientOptions: append([]option.ClientOption{option.WithUserAgent(userAgent)}, opts...),
	}
}

// InitSession resolve as credenciais: arquivo explícito ou Application Default Credentials.
func (r *GCPRepositoryImpl) InitSession(ctx context.Context, credentialsFile string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if credentialsFile != "" {
		r.logger.Debug("using credentials file", "path", credentialsFile)
		r.clientOptions = append(r.clientOptions, option.WithCredentialsFile(credentialsFile))
		return nil
	}

	if _, err := google.FindDefaultCredentials(ctx, crm.CloudPlatformReadOnlyScope); err != nil {
		return fmt.Errorf("%w: %v", types.ErrNoCredentials, err)
	}
	r.logger.Debug("using application default credentials")
	return nil
}

func (r *GCPRepositoryImpl) resourceManager(ctx context.Context) (*crm.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rmService == nil {
		svc, err := crm.NewService(ctx, r.clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create resource manager service: %w", err)
		}
		r.rmService = svc
	}
	return r.rmService, nil
}

func (r *GCPRepositoryImpl) serviceUsage(ctx context.Context) (*serviceusage.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.usageService == nil {
		svc, err := serviceusage.NewService(ctx, r.clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create service usage service: %w", err)
		}
		r.usageService = svc
	}
	return r.usageService, nil
}

func (r *GCPRepositoryImpl) computeService(ctx context.Context) (*compute.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.computeSvc == nil {
		svc, err := compute.NewService(ctx, r.clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create compute service: %w", err)
		}
		r.computeSvc = svc
	}
	return r.computeSvc, nil
}

// ListFolderProjects lista os projetos filhos diretos de folders/{folderID}.
func (r *GCPRepositoryImpl) ListFolderProjects(ctx context.Context, folderID string) ([]entity.Project, error) {
	svc, err := r.resourceManager(ctx)
	if err != nil {
		return nil, err
	}
	parent := resourcepath.FoldersMarker + folderID
	r.logger.Debug("listing projects", "parent", parent)

	raw, err := pagination.Walk(ctx,
		func(ctx context.Context, token string) (*crm.ListProjectsResponse, error) {
			return svc.Projects.List().Parent(parent).PageToken(token).Context(ctx).Do()
		},
		func(resp *crm.ListProjectsResponse) string { return resp.NextPageToken },
		func(resp *crm.ListProjectsResponse) []*crm.Project { return resp.Projects },
	)
	if err != nil {
		return nil, wrapAPIError(err, "listing projects in %s", parent)
	}

	projects := make([]entity.Project, 0, len(raw))
	for _, p := range raw {
		project, err := normalizeProject(p)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	r.logger.Debug("projects listed", "parent", parent, "count", len(projects))
	return projects, nil
}

// ListSubFolders retorna os IDs numéricos das pastas filhas diretas de folders/{folderID}.
func (r *GCPRepositoryImpl) ListSubFolders(ctx context.Context, folderID string) ([]string, error) {
	svc, err := r.resourceManager(ctx)
	if err != nil {
		return nil, err
	}
	parent := resourcepath.FoldersMarker + folderID
	r.logger.Debug("listing sub-folders", "parent", parent)

	raw, err := pagination.Walk(ctx,
		func(ctx context.Context, token string) (*crm.ListFoldersResponse, error) {
			return svc.Folders.List().Parent(parent).PageToken(token).Context(ctx).Do()
		},
		func(resp *crm.ListFoldersResponse) string { return resp.NextPageToken },
		func(resp *crm.ListFoldersResponse) []*crm.Folder { return resp.Folders },
	)
	if err != nil {
		return nil, wrapAPIError(err, "listing folders in %s", parent)
	}

	ids := make([]string, 0, len(raw))
	for _, f := range raw {
		id, ok := resourcepath.Segment(f.Name, resourcepath.FoldersMarker)
		if !ok {
			return nil, fmt.Errorf("%w: folder %q has no usable %q", types.ErrMalformedRecord, f.DisplayName, "name")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetServiceState consulta diretamente o estado de um serviço (ex.: compute.googleapis.com)
// em projects/{projectNumber}, sem listar todos os serviços habilitados.
func (r *GCPRepositoryImpl) GetServiceState(ctx context.Context, projectNumber, service string) (string, error) {
	svc, err := r.serviceUsage(ctx)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("projects/%s/services/%s", projectNumber, service)
	r.logger.Debug("getting service state", "name", name)

	result, err := svc.Services.Get(name).Context(ctx).Do()
	if err != nil {
		return "", wrapAPIError(err, "getting state of %s", name)
	}
	return result.State, nil
}

// ListEnabledServices lista os nomes curtos dos serviços habilitados no projeto.
func (r *GCPRepositoryImpl) ListEnabledServices(ctx context.Context, projectID string) ([]string, error) {
	svc, err := r.serviceUsage(ctx)
	if err != nil {
		return nil, err
	}
	parent := resourcepath.ProjectsMarker + projectID
	r.logger.Debug("listing enabled services", "parent", parent)

	raw, err := pagination.Walk(ctx,
		func(ctx context.Context, token string) (*serviceusage.ListServicesResponse, error) {
			return svc.Services.List(parent).Filter("state:ENABLED").PageToken(token).Context(ctx).Do()
		},
		func(resp *serviceusage.ListServicesResponse) string { return resp.NextPageToken },
		func(resp *serviceusage.ListServicesResponse) []*serviceusage.GoogleApiServiceusageV1Service {
			return resp.Services
		},
	)
	if err != nil {
		return nil, wrapAPIError(err, "listing enabled services in %s", parent)
	}

	names := make([]string, 0, len(raw))
	for _, s := range raw {
		names = append(names, resourcepath.Last(s.Name))
	}
	return names, nil
}

// ListFirewalls lista as regras de firewall do projeto. filter é uma expressão de filtro
// da Compute API (ex.: "logConfig.enable=false"); vazio lista todas.
func (r *GCPRepositoryImpl) ListFirewalls(ctx context.Context, projectID, filter string) ([]entity.Firewall, error) {
	svc, err := r.computeService(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("listing firewalls", "project", projectID, "filter", filter)

	raw, err := pagination.Walk(ctx,
		func(ctx context.Context, token string) (*compute.FirewallList, error) {
			call := svc.Firewalls.List(projectID).PageToken(token).Context(ctx)
			if filter != "" {
				call = call.Filter(filter)
			}
			return call.Do()
		},
		func(resp *compute.FirewallList) string { return resp.NextPageToken },
		func(resp *compute.FirewallList) []*compute.Firewall { return resp.Items },
	)
	if err != nil {
		return nil, wrapAPIError(err, "listing firewalls for project %s", projectID)
	}

	firewalls := make([]entity.Firewall, 0, len(raw))
	for _, fw := range raw {
		firewall, err := normalizeFirewall(fw)
		if err != nil {
			return nil, err
		}
		firewalls = append(firewalls, firewall)
	}
	return firewalls, nil
}

// ListSubnetworks percorre o aggregatedList de sub-redes, que vem particionado por região.
// As regiões de cada página são visitadas em ordem alfabética para manter a saída estável.
func (r *GCPRepositoryImpl) ListSubnetworks(ctx context.Context, projectID string) ([]entity.Subnetwork, error) {
	svc, err := r.computeService(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("listing subnetworks", "project", projectID)

	raw, err := pagination.Walk(ctx,
		func(ctx context.Context, token string) (*compute.SubnetworkAggregatedList, error) {
			return svc.Subnetworks.AggregatedList(projectID).PageToken(token).Context(ctx).Do()
		},
		func(resp *compute.SubnetworkAggregatedList) string { return resp.NextPageToken },
		flattenScopedSubnetworks,
	)
	if err != nil {
		return nil, wrapAPIError(err, "listing subnetworks for project %s", projectID)
	}

	subnets := make([]entity.Subnetwork, 0, len(raw))
	for _, sn := range raw {
		subnet, err := normalizeSubnetwork(sn)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, subnet)
	}
	return subnets, nil
}

func flattenScopedSubnetworks(resp *compute.SubnetworkAggregatedList) []*compute.Subnetwork {
	scopes := make([]string, 0, len(resp.Items))
	for scope := range resp.Items {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)

	var out []*compute.Subnetwork
	for _, scope := range scopes {
		out = append(out, resp.Items[scope].Subnetworks...)
	}
	return out
}
