package repository

import (
	"context"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
)

// GCPRepository defines the interface for GCP API interactions.
// Todas as listagens percorrem todas as páginas antes de retornar.
type GCPRepository interface {
	// Session
	InitSession(ctx context.Context, credentialsFile string) error

	// Resource hierarchy
	ListFolderProjects(ctx context.Context, folderID string) ([]entity.Project, error)
	ListSubFolders(ctx context.Context, folderID string) ([]string, error)

	// Service Usage
	GetServiceState(ctx context.Context, projectNumber, service string) (string, error)
	ListEnabledServices(ctx context.Context, projectID string) ([]string, error)

	// Networking
	ListFirewalls(ctx context.Context, projectID, filter string) ([]entity.Firewall, error)
	ListSubnetworks(ctx context.Context, projectID string) ([]entity.Subnetwork, error)
}
