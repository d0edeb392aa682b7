package repository

import (
	"github.com/diillson/gcp-flowlog-audit/internal/domain/entity"
)

// ExportRepository grava o relatório de conformidade em arquivos.
// Cada método retorna o caminho absoluto do arquivo gerado.
type ExportRepository interface {
	ExportCSV(report entity.ComplianceReport, outputPath string) (string, error)
	ExportJSON(report entity.ComplianceReport, outputPath string) (string, error)
	ExportPDF(report entity.ComplianceReport, outputPath string) (string, error)
	ExportTerraform(report entity.ComplianceReport, outputPath string, excludes []string) (string, error)
}
