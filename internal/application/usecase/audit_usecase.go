package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
	"github.com/diillson/gcp-flowlog-audit/internal/domain/repository"
	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/diillson/gcp-flowlog-audit/pkg/logs"
)

const (
	computeAPI     = "compute.googleapis.com"
	serviceEnabled = "ENABLED"

	// Filtro server-side da Compute API; o filtro local ainda é aplicado.
	firewallNoLoggingFilter = "logConfig.enable=false"
)

// AuditUseCase audita o flow logging de firewalls e sub-redes dos projetos de uma pasta.
type AuditUseCase struct {
	gcpRepo    repository.GCPRepository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
	logger     *slog.Logger
}

// NewAuditUseCase creates a new audit use case.
func NewAuditUseCase(
	gcpRepo repository.GCPRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
	logger *slog.Logger,
) *AuditUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditUseCase{
		gcpRepo:    gcpRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
		logger:     logger,
	}
}

// ResolveArgs carrega o arquivo de configuração (se houver) e o mescla nos argumentos.
// Deve rodar antes de qualquer saída, já que o arquivo pode ligar o modo quiet.
func (uc *AuditUseCase) ResolveArgs(args *types.CLIArgs) error {
	if args.ConfigFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return fmt.Errorf("loading config file: %w", err)
		}
		MergeConfig(args, cfg)
	}
	if args.FolderID == "" {
		return types.ErrFolderRequired
	}
	return nil
}

// Run executa a auditoria com argumentos já resolvidos: credenciais, agregação,
// exports e saída no console. Qualquer erro interrompe a execução sem deixar arquivos.
func (uc *AuditUseCase) Run(ctx context.Context, args *types.CLIArgs) error {
	if args.FolderID == "" {
		return types.ErrFolderRequired
	}

	logs.SetDebug(args.Debug)
	uc.console.SetQuiet(args.Quiet)

	if err := uc.gcpRepo.InitSession(ctx, args.CredentialsFile); err != nil {
		return err
	}

	if args.ListServices {
		return uc.RunListServices(ctx, args.FolderID, args.Recursive)
	}

	uc.console.LogInfo("Auditing flow logging under folders/%s", args.FolderID)
	report, err := uc.BuildReport(ctx, args.FolderID, args.Recursive)
	if err != nil {
		return err
	}

	if err := uc.exportReport(report, args); err != nil {
		return err
	}

	if args.Quiet {
		return nil
	}

	var out strings.Builder
	RenderConsole(&out, report)
	uc.console.Print(out.String())

	if len(report) == 0 {
		uc.console.LogSuccess("No firewalls or subnetworks without flow logging were found")
		return nil
	}
	uc.console.Println()
	uc.console.Print(uc.summaryTable(report).Render())
	uc.console.LogWarning("%d resource(s) without flow logging in %d project(s)", report.TotalFindings(), len(report))
	return nil
}

// BuildReport lista os projetos da pasta, aplica o gate de capacidade e monta o
// relatório apenas com os projetos que têm ao menos um recurso sem logging.
func (uc *AuditUseCase) BuildReport(ctx context.Context, folderID string, recursive bool) (entity.ComplianceReport, error) {
	status := uc.console.Status("Listing projects...")
	projects, err := uc.collectProjects(ctx, folderID, recursive)
	status.Stop()
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("projects collected", "folder", folderID, "recursive", recursive, "count", len(projects))

	progress := uc.console.ProgressWithTotal(len(projects), "Scanning projects")
	defer progress.Stop()

	report := entity.ComplianceReport{}
	for _, project := range projects {
		findings, include, err := uc.scanProject(ctx, project)
		if err != nil {
			return nil, err
		}
		if include {
			report[project.ProjectID] = findings
		}
		progress.Increment()
	}

	return report, nil
}

func (uc *AuditUseCase) scanProject(ctx context.Context, project entity.Project) (entity.ProjectFindings, bool, error) {
	capable, err := uc.hasComputeCapability(ctx, project)
	if err != nil {
		return entity.ProjectFindings{}, false, err
	}
	if !capable {
		uc.logger.Debug("skipping project without compute API", "project", project.ProjectID)
		return entity.ProjectFindings{}, false, nil
	}

	firewalls, err := uc.gcpRepo.ListFirewalls(ctx, project.ProjectID, firewallNoLoggingFilter)
	if err != nil {
		return entity.ProjectFindings{}, false, err
	}
	subnets, err := uc.gcpRepo.ListSubnetworks(ctx, project.ProjectID)
	if err != nil {
		return entity.ProjectFindings{}, false, err
	}

	findings := entity.ProjectFindings{
		Firewalls: entity.FilterNonCompliant(firewalls),
		Subnets:   entity.FilterNonCompliant(subnets),
	}
	uc.logger.Debug("project scanned", "project", project.ProjectID,
		"firewalls", len(findings.Firewalls), "subnets", len(findings.Subnets))

	return findings, findings.Count() > 0, nil
}

// hasComputeCapability consulta o estado do compute.googleapis.com pelo número do projeto.
func (uc *AuditUseCase) hasComputeCapability(ctx context.Context, project entity.Project) (bool, error) {
	state, err := uc.gcpRepo.GetServiceState(ctx, project.ProjectNumber, computeAPI)
	if err != nil {
		return false, err
	}
	return state == serviceEnabled, nil
}

// collectProjects lista os projetos filhos diretos; com recursive, desce nas sub-pastas
// em profundidade, anexando seus projetos depois dos da pasta atual.
func (uc *AuditUseCase) collectProjects(ctx context.Context, folderID string, recursive bool) ([]entity.Project, error) {
	projects, err := uc.gcpRepo.ListFolderProjects(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !recursive {
		return projects, nil
	}

	subFolders, err := uc.gcpRepo.ListSubFolders(ctx, folderID)
	if err != nil {
		return nil, err
	}
	for _, sub := range subFolders {
		nested, err := uc.collectProjects(ctx, sub, true)
		if err != nil {
			return nil, err
		}
		projects = append(projects, nested...)
	}
	return projects, nil
}

// RunListServices imprime os serviços habilitados de cada projeto da pasta.
func (uc *AuditUseCase) RunListServices(ctx context.Context, folderID string, recursive bool) error {
	projects, err := uc.collectProjects(ctx, folderID, recursive)
	if err != nil {
		return err
	}

	for _, project := range projects {
		services, err := uc.gcpRepo.ListEnabledServices(ctx, project.ProjectID)
		if err != nil {
			return err
		}
		uc.console.Printf("%s (%s)\n", project.ProjectID, project.ProjectNumber)
		for _, service := range services {
			uc.console.Printf("  %s\n", service)
		}
	}
	return nil
}

func (uc *AuditUseCase) exportReport(report entity.ComplianceReport, args *types.CLIArgs) error {
	exports := []struct {
		format string
		path   string
		run    func() (string, error)
	}{
		{"CSV", args.OutputCSVPath, func() (string, error) { return uc.exportRepo.ExportCSV(report, args.OutputCSVPath) }},
		{"JSON", args.OutputJSONPath, func() (string, error) { return uc.exportRepo.ExportJSON(report, args.OutputJSONPath) }},
		{"PDF", args.OutputPDFPath, func() (string, error) { return uc.exportRepo.ExportPDF(report, args.OutputPDFPath) }},
		{"Terraform", args.OutputTerraformPath, func() (string, error) {
			return uc.exportRepo.ExportTerraform(report, args.OutputTerraformPath, args.TerraformExclude)
		}},
	}

	// Os avisos de sucesso só saem depois que todos os formatos foram gravados.
	type output struct{ format, path string }
	var written []output
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		path, err := e.run()
		if err != nil {
			for _, w := range written {
				if rmErr := os.Remove(w.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
					uc.logger.Warn("removing partial export", "path", w.path, "error", rmErr)
				}
			}
			return fmt.Errorf("exporting %s report: %w", e.format, err)
		}
		written = append(written, output{e.format, path})
	}

	for _, w := range written {
		uc.console.LogSuccess("Successfully exported to %s: %s", w.format, w.path)
	}
	return nil
}

func (uc *AuditUseCase) summaryTable(report entity.ComplianceReport) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("Project")
	table.AddColumn("Firewalls")
	table.AddColumn("Subnets")

	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]
		table.AddRow(projectID, len(findings.Firewalls), len(findings.Subnets))
	}
	return table
}

const separator = "------------------------------"

// RenderConsole escreve o relatório em texto, um bloco por projeto.
func RenderConsole(w io.Writer, report entity.ComplianceReport) {
	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]

		fmt.Fprintf(w, "\n%s\n%s\n%s\n", separator, projectID, separator)
		fmt.Fprintln(w, ":FIREWALLS:")
		for _, fw := range findings.Firewalls {
			fmt.Fprintln(w, fw.String())
		}
		fmt.Fprintln(w, "\n:SUBNETS:")
		for _, sn := range findings.Subnets {
			fmt.Fprintln(w, sn.String())
		}
	}
}
