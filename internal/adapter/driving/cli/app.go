package cli

import (
	"context"

	"github.com/diillson/gcp-flowlog-audit/internal/application/usecase"
	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/diillson/gcp-flowlog-audit/pkg/version"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	auditUseCase *usecase.AuditUseCase
	version      string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:   "gcp-flowlog-audit [FOLDER_ID]",
		Short: "Report GCP firewalls and subnetworks without flow logging",
		Long: `Lists the projects under a GCP folder, checks which of them have the Compute API
enabled and reports the firewall rules and subnetworks that have logging disabled.

FOLDER_ID is the numeric folder ID. It may also come from the config file (key "folder").`,
		Version:       version.FormatVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "gcp-flowlog-audit version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.Flags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.BoolP("quiet", "q", false, "Do not print the report to stdout")
	flags.String("output_csv_path", "", "Path and filename for CSV file output")
	flags.String("output_json_path", "", "Path and filename for JSON file output")
	flags.String("output_pdf_path", "", "Path and filename for PDF file output")
	flags.String("output_terraform_path", "", "Path and filename for a Terraform file that enables logging on the reported resources")
	flags.StringSlice("terraform-exclude", []string{"gke-"}, "Skip resources whose name contains any of these substrings in the Terraform output")
	flags.BoolP("recursive", "r", false, "Also scan projects in nested sub-folders")
	flags.String("creds-file", "", "Service account key file (default: Application Default Credentials)")
	flags.Bool("debug", false, "Log every API call to stderr")
	flags.Bool("list-services", false, "List the enabled services of each project instead of auditing")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetArgs substitui os argumentos da linha de comando (usado nos testes).
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command, positional []string) *types.CLIArgs {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	quiet, _ := flags.GetBool("quiet")
	outputCSV, _ := flags.GetString("output_csv_path")
	outputJSON, _ := flags.GetString("output_json_path")
	outputPDF, _ := flags.GetString("output_pdf_path")
	outputTerraform, _ := flags.GetString("output_terraform_path")
	terraformExclude, _ := flags.GetStringSlice("terraform-exclude")
	recursive, _ := flags.GetBool("recursive")
	credsFile, _ := flags.GetString("creds-file")
	debug, _ := flags.GetBool("debug")
	listServices, _ := flags.GetBool("list-services")

	args := &types.CLIArgs{
		ConfigFile:          configFile,
		Quiet:               quiet,
		Recursive:           recursive,
		OutputCSVPath:       outputCSV,
		OutputJSONPath:      outputJSON,
		OutputPDFPath:       outputPDF,
		OutputTerraformPath: outputTerraform,
		TerraformExclude:    terraformExclude,
		CredentialsFile:     credsFile,
		Debug:               debug,
		ListServices:        listServices,
		ExplicitFlags:       map[string]bool{},
	}
	if len(positional) > 0 {
		args.FolderID = positional[0]
	}

	for _, name := range []string{
		"quiet", "recursive", "output_csv_path", "output_json_path", "output_pdf_path",
		"output_terraform_path", "terraform-exclude", "creds-file", "debug",
	} {
		if flags.Changed(name) {
			args.ExplicitFlags[name] = true
		}
	}

	return args
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, positional []string) error {
	cliArgs := app.parseArgs(cmd, positional)

	// O arquivo de configuração pode ligar o quiet, então é mesclado antes de qualquer saída
	if err := app.auditUseCase.ResolveArgs(cliArgs); err != nil {
		return err
	}

	// Banner e checagem de versão só fazem sentido fora do modo quiet
	if !cliArgs.Quiet {
		displayWelcomeBanner(cmd.OutOrStdout())
		go version.CheckLatestVersion(cmd.Context(), app.version)
	}

	return app.auditUseCase.Run(cmd.Context(), cliArgs)
}

// SetAuditUseCase sets the audit use case for the CLI app.
func (app *CLIApp) SetAuditUseCase(useCase *usecase.AuditUseCase) {
	app.auditUseCase = useCase
}
