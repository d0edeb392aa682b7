package usecase

import "github.com/diillson/gcp-flowlog-audit/internal/shared/types"

// MergeConfig aplica os valores do arquivo de configuração sobre os argumentos.
// Flags passadas explicitamente na linha de comando têm precedência; campos
// vazios no arquivo não alteram nada.
func MergeConfig(args *types.CLIArgs, cfg *types.Config) {
	if cfg == nil {
		return
	}
	explicit := func(flag string) bool {
		return args.ExplicitFlags[flag]
	}

	if args.FolderID == "" && cfg.Folder != "" {
		args.FolderID = cfg.Folder
	}

	if cfg.Quiet != nil && !explicit("quiet") {
		args.Quiet = *cfg.Quiet
	}
	if cfg.Recursive != nil && !explicit("recursive") {
		args.Recursive = *cfg.Recursive
	}
	if cfg.Debug != nil && !explicit("debug") {
		args.Debug = *cfg.Debug
	}

	mergeString(&args.OutputCSVPath, cfg.OutputCSVPath, explicit("output_csv_path"))
	mergeString(&args.OutputJSONPath, cfg.OutputJSONPath, explicit("output_json_path"))
	mergeString(&args.OutputPDFPath, cfg.OutputPDFPath, explicit("output_pdf_path"))
	mergeString(&args.OutputTerraformPath, cfg.OutputTerraformPath, explicit("output_terraform_path"))
	mergeString(&args.CredentialsFile, cfg.CredentialsFile, explicit("creds-file"))

	if len(cfg.TerraformExclude) > 0 && !explicit("terraform-exclude") {
		args.TerraformExclude = cfg.TerraformExclude
	}
}

func mergeString(dst *string, value string, explicit bool) {
	if value != "" && !explicit {
		*dst = value
	}
}
