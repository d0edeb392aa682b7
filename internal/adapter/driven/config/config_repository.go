package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/gcp-flowlog-audit/internal/domain/repository"
	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/diillson/gcp-flowlog-audit/pkg/resourcepath"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// decoder decodifica o conteúdo do arquivo rejeitando chaves desconhecidas.
type decoder struct {
	format string
	decode func(r io.Reader, cfg *types.Config) error
}

var decoders = map[string]decoder{
	".toml": {"TOML", func(r io.Reader, cfg *types.Config) error {
		return toml.NewDecoder(r).Strict(true).Decode(cfg)
	}},
	".yaml": {"YAML", decodeYAML},
	".yml":  {"YAML", decodeYAML},
	".json": {"JSON", func(r io.Reader, cfg *types.Config) error {
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}},
}

func decodeYAML(r io.Reader, cfg *types.Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Campos ausentes ficam com o valor zero (ou nil, para os booleanos); chaves
// desconhecidas e valores inválidos são rejeitados antes de qualquer chamada à API.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (use .toml, .yaml, .yml or .json)", types.ErrUnsupportedConfig, ext)
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg types.Config
	// Arquivo vazio equivale a nenhuma chave definida
	if err := dec.decode(bytes.NewReader(fileData), &cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing %s file: %w", dec.format, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return &cfg, nil
}

// validate normaliza "folders/123" para "123" e confere os valores que a CLI não revalida.
func validate(cfg *types.Config) error {
	cfg.Folder = strings.TrimPrefix(strings.TrimSpace(cfg.Folder), resourcepath.FoldersMarker)
	if cfg.Folder != "" && !isNumeric(cfg.Folder) {
		return fmt.Errorf("%w: folder must be a numeric folder ID, got %q", types.ErrInvalidConfig, cfg.Folder)
	}

	// Um padrão vazio casaria com todo recurso e esvaziaria o Terraform gerado
	for i, pattern := range cfg.TerraformExclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w: terraform_exclude[%d] is empty", types.ErrInvalidConfig, i)
		}
	}

	for key, path := range map[string]string{
		"output_csv_path":       cfg.OutputCSVPath,
		"output_json_path":      cfg.OutputJSONPath,
		"output_pdf_path":       cfg.OutputPDFPath,
		"output_terraform_path": cfg.OutputTerraformPath,
	} {
		if path != "" && strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: %s is blank", types.ErrInvalidConfig, key)
		}
	}
	return nil
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
