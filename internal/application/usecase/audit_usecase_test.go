package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diillson/gcp-flowlog-audit/internal/adapter/driven/export"
	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
	"github.com/diillson/gcp-flowlog-audit/internal/domain/repository"
	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/diillson/gcp-flowlog-audit/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGCPRepository é um GCPRepository em memória.
type fakeGCPRepository struct {
	projects   map[string][]entity.Project
	subFolders map[string][]string
	states     map[string]string
	firewalls  map[string][]entity.Firewall
	subnets    map[string][]entity.Subnetwork
	services   map[string][]string
	errs       map[string]error

	credentialsFile string
	firewallFilters []string
	scanned         []string
}

func newFakeGCPRepository() *fakeGCPRepository {
	return &fakeGCPRepository{
		projects:   map[string][]entity.Project{},
		subFolders: map[string][]string{},
		states:     map[string]string{},
		firewalls:  map[string][]entity.Firewall{},
		subnets:    map[string][]entity.Subnetwork{},
		services:   map[string][]string{},
		errs:       map[string]error{},
	}
}

func (f *fakeGCPRepository) InitSession(ctx context.Context, credentialsFile string) error {
	f.credentialsFile = credentialsFile
	return f.errs["init"]
}

func (f *fakeGCPRepository) ListFolderProjects(ctx context.Context, folderID string) ([]entity.Project, error) {
	if err := f.errs["projects:"+folderID]; err != nil {
		return nil, err
	}
	return append([]entity.Project(nil), f.projects[folderID]...), nil
}

func (f *fakeGCPRepository) ListSubFolders(ctx context.Context, folderID string) ([]string, error) {
	return f.subFolders[folderID], nil
}

func (f *fakeGCPRepository) GetServiceState(ctx context.Context, projectNumber, service string) (string, error) {
	if err := f.errs["state:"+projectNumber]; err != nil {
		return "", err
	}
	return f.states[projectNumber], nil
}

func (f *fakeGCPRepository) ListEnabledServices(ctx context.Context, projectID string) ([]string, error) {
	return f.services[projectID], nil
}

func (f *fakeGCPRepository) ListFirewalls(ctx context.Context, projectID, filter string) ([]entity.Firewall, error) {
	f.firewallFilters = append(f.firewallFilters, filter)
	f.scanned = append(f.scanned, projectID)
	if err := f.errs["firewalls:"+projectID]; err != nil {
		return nil, err
	}
	return f.firewalls[projectID], nil
}

func (f *fakeGCPRepository) ListSubnetworks(ctx context.Context, projectID string) ([]entity.Subnetwork, error) {
	if err := f.errs["subnets:"+projectID]; err != nil {
		return nil, err
	}
	return f.subnets[projectID], nil
}

type fakeConfigRepository struct {
	cfg *types.Config
	err error
}

func (f fakeConfigRepository) LoadConfigFile(string) (*types.Config, error) {
	return f.cfg, f.err
}

func newTestUseCase(repo *fakeGCPRepository, cfg *types.Config) (*AuditUseCase, *bytes.Buffer) {
	var out bytes.Buffer
	uc := NewAuditUseCase(
		repo,
		export.NewExportRepository(),
		fakeConfigRepository{cfg: cfg},
		console.NewConsoleWithWriters(&out, &out),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return uc, &out
}

// pasta 42 com três projetos: p1 (fw1 sem logging), p2 (tudo conforme) e p3 (sem compute API).
func seededRepository() *fakeGCPRepository {
	repo := newFakeGCPRepository()
	repo.projects["42"] = []entity.Project{
		{ProjectNumber: "1", ProjectID: "p1"},
		{ProjectNumber: "2", ProjectID: "p2"},
		{ProjectNumber: "3", ProjectID: "p3"},
	}
	repo.states["1"] = "ENABLED"
	repo.states["2"] = "ENABLED"
	repo.states["3"] = "DISABLED"
	repo.firewalls["p1"] = []entity.Firewall{
		{Name: "fw1", ProjectID: "p1", VPC: "vpc-a", LoggingEnabled: false},
		{Name: "fw-logged", ProjectID: "p1", VPC: "vpc-a", LoggingEnabled: true},
	}
	repo.subnets["p1"] = []entity.Subnetwork{
		{Name: "sn1", ProjectID: "p1", VPC: "vpc-a", Region: "us-east1", LoggingEnabled: true},
	}
	repo.firewalls["p2"] = []entity.Firewall{{Name: "fw2", ProjectID: "p2", VPC: "default", LoggingEnabled: true}}
	repo.subnets["p2"] = []entity.Subnetwork{{Name: "sn2", ProjectID: "p2", VPC: "default", Region: "us-east1", LoggingEnabled: true}}
	repo.firewalls["p3"] = []entity.Firewall{{Name: "never-seen", ProjectID: "p3", VPC: "default"}}
	return repo
}

func TestBuildReport(t *testing.T) {
	repo := seededRepository()
	uc, _ := newTestUseCase(repo, nil)

	report, err := uc.BuildReport(context.Background(), "42", false)

	require.NoError(t, err)
	assert.Equal(t, entity.ComplianceReport{
		"p1": {
			Firewalls: []entity.Firewall{{Name: "fw1", ProjectID: "p1", VPC: "vpc-a"}},
			Subnets:   []entity.Subnetwork{},
		},
	}, report)
	assert.Equal(t, []string{"p1", "p2"}, repo.scanned)
	for _, filter := range repo.firewallFilters {
		assert.Equal(t, "logConfig.enable=false", filter)
	}
}

func TestBuildReport_AppliesLocalFilterOverServerFilter(t *testing.T) {
	repo := newFakeGCPRepository()
	repo.projects["42"] = []entity.Project{{ProjectNumber: "1", ProjectID: "p1"}}
	repo.states["1"] = "ENABLED"
	repo.firewalls["p1"] = []entity.Firewall{{Name: "fw-logged", ProjectID: "p1", VPC: "vpc-a", LoggingEnabled: true}}
	uc, _ := newTestUseCase(repo, nil)

	report, err := uc.BuildReport(context.Background(), "42", false)

	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestBuildReport_Recursive(t *testing.T) {
	repo := newFakeGCPRepository()
	repo.projects["1"] = []entity.Project{{ProjectNumber: "10", ProjectID: "root-a"}}
	repo.projects["2"] = []entity.Project{{ProjectNumber: "20", ProjectID: "child-b"}}
	repo.projects["3"] = []entity.Project{{ProjectNumber: "30", ProjectID: "grandchild-c"}}
	repo.projects["4"] = []entity.Project{{ProjectNumber: "40", ProjectID: "child-d"}}
	repo.subFolders["1"] = []string{"2", "4"}
	repo.subFolders["2"] = []string{"3"}
	for _, n := range []string{"10", "20", "30", "40"} {
		repo.states[n] = "ENABLED"
	}
	uc, _ := newTestUseCase(repo, nil)

	_, err := uc.BuildReport(context.Background(), "1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"root-a", "child-b", "grandchild-c", "child-d"}, repo.scanned)

	repo.scanned = nil
	_, err = uc.BuildReport(context.Background(), "1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"root-a"}, repo.scanned)
}

func TestBuildReport_ErrorsAbort(t *testing.T) {
	boom := errors.New("listing firewalls for project p1: HTTP 403")

	tests := []struct {
		name string
		key  string
	}{
		{"project listing", "projects:42"},
		{"capability gate", "state:1"},
		{"firewalls", "firewalls:p1"},
		{"subnets", "subnets:p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seededRepository()
			repo.errs[tt.key] = boom
			uc, _ := newTestUseCase(repo, nil)

			report, err := uc.BuildReport(context.Background(), "42", false)

			assert.ErrorIs(t, err, boom)
			assert.Nil(t, report)
		})
	}
}

func TestRun_WritesOutputsAndConsole(t *testing.T) {
	dir := t.TempDir()
	repo := seededRepository()
	uc, out := newTestUseCase(repo, nil)

	args := &types.CLIArgs{
		FolderID:         "42",
		OutputCSVPath:    filepath.Join(dir, "report.csv"),
		OutputJSONPath:   filepath.Join(dir, "report.json"),
		TerraformExclude: []string{"gke-"},
	}
	require.NoError(t, uc.Run(context.Background(), args))

	csvData, err := os.ReadFile(args.OutputCSVPath)
	require.NoError(t, err)
	assert.Equal(t,
		"project_id,vpc,region,resource_name,resource_type,logging_enabled\np1,vpc-a,,fw1,firewall,false\n",
		string(csvData))

	_, err = os.Stat(args.OutputJSONPath)
	assert.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "------------------------------\np1\n------------------------------\n:FIREWALLS:\np1/vpc-a/fw1\n\n:SUBNETS:\n")
	assert.NotContains(t, text, "p2/")
	assert.NotContains(t, text, "never-seen")
}

func TestRun_QuietSuppressesConsoleButWritesFiles(t *testing.T) {
	dir := t.TempDir()
	uc, out := newTestUseCase(seededRepository(), nil)

	args := &types.CLIArgs{FolderID: "42", Quiet: true, OutputCSVPath: filepath.Join(dir, "report.csv")}
	require.NoError(t, uc.Run(context.Background(), args))

	assert.Empty(t, out.String())
	_, err := os.Stat(args.OutputCSVPath)
	assert.NoError(t, err)
}

func TestRun_ErrorWritesNoFiles(t *testing.T) {
	dir := t.TempDir()
	repo := seededRepository()
	repo.errs["subnets:p2"] = errors.New("quota exceeded")
	uc, _ := newTestUseCase(repo, nil)

	args := &types.CLIArgs{
		FolderID:       "42",
		OutputCSVPath:  filepath.Join(dir, "report.csv"),
		OutputJSONPath: filepath.Join(dir, "report.json"),
	}
	err := uc.Run(context.Background(), args)

	assert.ErrorContains(t, err, "quota exceeded")
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRun_FolderRequired(t *testing.T) {
	uc, _ := newTestUseCase(seededRepository(), nil)

	err := uc.Run(context.Background(), &types.CLIArgs{})

	assert.ErrorIs(t, err, types.ErrFolderRequired)
}

func TestRun_FolderAndCredentialsFromConfig(t *testing.T) {
	repo := seededRepository()
	uc, _ := newTestUseCase(repo, &types.Config{Folder: "42", CredentialsFile: "/tmp/sa.json"})

	args := &types.CLIArgs{ConfigFile: "audit.yaml", Quiet: true}
	require.NoError(t, uc.ResolveArgs(args))
	err := uc.Run(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/sa.json", repo.credentialsFile)
	assert.Equal(t, []string{"p1", "p2"}, repo.scanned)
}

func TestResolveArgs(t *testing.T) {
	t.Run("quiet from config file", func(t *testing.T) {
		uc, _ := newTestUseCase(seededRepository(), &types.Config{Folder: "42", Quiet: boolPtr(true)})
		args := &types.CLIArgs{ConfigFile: "audit.yaml"}

		require.NoError(t, uc.ResolveArgs(args))
		assert.Equal(t, "42", args.FolderID)
		assert.True(t, args.Quiet)
	})

	t.Run("load error is wrapped", func(t *testing.T) {
		uc := NewAuditUseCase(seededRepository(), export.NewExportRepository(),
			fakeConfigRepository{err: types.ErrUnsupportedConfig},
			console.NewConsoleWithWriters(io.Discard, io.Discard), nil)

		err := uc.ResolveArgs(&types.CLIArgs{FolderID: "42", ConfigFile: "audit.ini"})
		assert.ErrorIs(t, err, types.ErrUnsupportedConfig)
		assert.ErrorContains(t, err, "loading config file")
	})

	t.Run("folder still required", func(t *testing.T) {
		uc, _ := newTestUseCase(seededRepository(), &types.Config{Quiet: boolPtr(true)})
		err := uc.ResolveArgs(&types.CLIArgs{ConfigFile: "audit.yaml"})
		assert.ErrorIs(t, err, types.ErrFolderRequired)
	})
}

// failingPDFExporter grava CSV e JSON normalmente e falha no PDF.
type failingPDFExporter struct {
	repository.ExportRepository
}

func (failingPDFExporter) ExportPDF(entity.ComplianceReport, string) (string, error) {
	return "", errors.New("disk full")
}

func TestRun_ExportFailureRemovesEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	uc := NewAuditUseCase(
		seededRepository(),
		failingPDFExporter{export.NewExportRepository()},
		fakeConfigRepository{},
		console.NewConsoleWithWriters(&out, &out),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	args := &types.CLIArgs{
		FolderID:       "42",
		OutputCSVPath:  filepath.Join(dir, "report.csv"),
		OutputJSONPath: filepath.Join(dir, "report.json"),
		OutputPDFPath:  filepath.Join(dir, "report.pdf"),
	}
	err := uc.Run(context.Background(), args)

	assert.ErrorContains(t, err, "exporting PDF report: disk full")
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
	assert.NotContains(t, out.String(), "Successfully exported")
}

func TestRun_InitSessionError(t *testing.T) {
	repo := seededRepository()
	repo.errs["init"] = types.ErrNoCredentials
	uc, _ := newTestUseCase(repo, nil)

	err := uc.Run(context.Background(), &types.CLIArgs{FolderID: "42"})

	assert.ErrorIs(t, err, types.ErrNoCredentials)
	assert.Empty(t, repo.scanned)
}

func TestRunListServices(t *testing.T) {
	repo := seededRepository()
	repo.services["p1"] = []string{"compute.googleapis.com", "logging.googleapis.com"}
	uc, out := newTestUseCase(repo, nil)

	require.NoError(t, uc.Run(context.Background(), &types.CLIArgs{FolderID: "42", ListServices: true}))

	text := out.String()
	assert.Contains(t, text, "p1 (1)\n  compute.googleapis.com\n  logging.googleapis.com\n")
	assert.Contains(t, text, "p3 (3)\n")
	assert.Empty(t, repo.scanned)
}

func TestRenderConsole(t *testing.T) {
	report := entity.ComplianceReport{
		"p2": {Subnets: []entity.Subnetwork{{Name: "sn", ProjectID: "p2", VPC: "v", Region: "r"}}},
		"p1": {Firewalls: []entity.Firewall{{Name: "fw1", ProjectID: "p1", VPC: "vpc-a"}}},
	}
	var b strings.Builder

	RenderConsole(&b, report)

	assert.Equal(t, "\n------------------------------\np1\n------------------------------\n"+
		":FIREWALLS:\np1/vpc-a/fw1\n\n:SUBNETS:\n"+
		"\n------------------------------\np2\n------------------------------\n"+
		":FIREWALLS:\n\n:SUBNETS:\np2/v/r/sn\n", b.String())
}
