package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
	"github.com/diillson/gcp-flowlog-audit/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

var csvHeader = []string{"project_id", "vpc", "region", "resource_name", "resource_type", "logging_enabled"}

// ExportCSV grava uma linha por recurso sem logging. O cabeçalho é sempre escrito,
// mesmo com o relatório vazio.
func (r *ExportRepositoryImpl) ExportCSV(report entity.ComplianceReport, outputPath string) (string, error) {
	if err := prepareOutputPath(outputPath); err != nil {
		return "", err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]
		for _, fw := range findings.Firewalls {
			record := []string{projectID, fw.VPC, "", fw.Name, "firewall", strconv.FormatBool(fw.LoggingEnabled)}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
		for _, sn := range findings.Subnets {
			record := []string{projectID, sn.VPC, sn.Region, sn.Name, "subnet", strconv.FormatBool(sn.LoggingEnabled)}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputPath)
}

// Campos declarados em ordem alfabética: o encoding/json segue a ordem da struct.
type firewallRecord struct {
	LoggingEnabled bool   `json:"logging_enabled"`
	ResourceName   string `json:"resource_name"`
	VPC            string `json:"vpc"`
}

type subnetRecord struct {
	LoggingEnabled bool   `json:"logging_enabled"`
	Region         string `json:"region"`
	ResourceName   string `json:"resource_name"`
	VPC            string `json:"vpc"`
}

type projectRecord struct {
	Firewalls []firewallRecord `json:"firewalls"`
	ProjectID string           `json:"project_id"`
	Subnets   []subnetRecord   `json:"subnets"`
}

func toProjectRecords(report entity.ComplianceReport) []projectRecord {
	records := make([]projectRecord, 0, len(report))
	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]

		rec := projectRecord{
			Firewalls: make([]firewallRecord, 0, len(findings.Firewalls)),
			ProjectID: projectID,
			Subnets:   make([]subnetRecord, 0, len(findings.Subnets)),
		}
		for _, fw := range findings.Firewalls {
			rec.Firewalls = append(rec.Firewalls, firewallRecord{
				LoggingEnabled: fw.LoggingEnabled,
				ResourceName:   fw.Name,
				VPC:            fw.VPC,
			})
		}
		for _, sn := range findings.Subnets {
			rec.Subnets = append(rec.Subnets, subnetRecord{
				LoggingEnabled: sn.LoggingEnabled,
				Region:         sn.Region,
				ResourceName:   sn.Name,
				VPC:            sn.VPC,
			})
		}
		records = append(records, rec)
	}
	return records
}

// ExportJSON grava o relatório como um array de projetos, indentado com 4 espaços.
func (r *ExportRepositoryImpl) ExportJSON(report entity.ComplianceReport, outputPath string) (string, error) {
	if err := prepareOutputPath(outputPath); err != nil {
		return "", err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(toProjectRecords(report)); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputPath)
}

// ExportPDF gera uma página de resumo seguida de uma página por projeto.
func (r *ExportRepositoryImpl) ExportPDF(report entity.ComplianceReport, outputPath string) (string, error) {
	if err := prepareOutputPath(outputPath); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := r.now().Format("2006-01-02")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated by GCP Flow Log Audit | %s", generated)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	drawHeader := func(title, subtitle string) {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		pdf.CellFormat(0, 12, tr("  "+title), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, tr("  "+subtitle), "", 1, "L", true, 0, "")
		pdf.Ln(10)
	}

	drawSection := func(title string, lines []string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%d)", title, len(lines))))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		if len(lines) == 0 {
			lines = []string{"None"}
		}
		for _, line := range lines {
			pdf.MultiCell(190, 5, tr(line), "", "L", false)
		}
		pdf.Ln(8)
	}

	// Resumo
	drawHeader("Flow Logging Audit", fmt.Sprintf("Projects with findings: %d | Resources without logging: %d",
		len(report), report.TotalFindings()))
	summary := make([]string, 0, len(report))
	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]
		summary = append(summary, fmt.Sprintf("%s: %d firewall(s), %d subnet(s)",
			projectID, len(findings.Firewalls), len(findings.Subnets)))
	}
	drawSection("Projects", summary)

	for _, projectID := range report.ProjectIDs() {
		findings := report[projectID]
		drawHeader(projectID, fmt.Sprintf("Resources without logging: %d", findings.Count()))

		firewalls := make([]string, 0, len(findings.Firewalls))
		for _, fw := range findings.Firewalls {
			firewalls = append(firewalls, fmt.Sprintf("%s  (vpc: %s)", fw.Name, fw.VPC))
		}
		drawSection("Firewall rules", firewalls)

		subnets := make([]string, 0, len(findings.Subnets))
		for _, sn := range findings.Subnets {
			subnets = append(subnets, fmt.Sprintf("%s  (vpc: %s, region: %s)", sn.Name, sn.VPC, sn.Region))
		}
		drawSection("Subnetworks", subnets)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputPath)
}

// --- Funções Auxiliares ---

// prepareOutputPath garante que o diretório do arquivo exista.
func prepareOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is empty")
	}
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return nil
}
