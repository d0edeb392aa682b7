package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile          string
	FolderID            string
	Quiet               bool
	Recursive           bool
	OutputCSVPath       string
	OutputJSONPath      string
	OutputPDFPath       string
	OutputTerraformPath string
	TerraformExclude    []string
	CredentialsFile     string
	Debug               bool
	ListServices        bool

	// ExplicitFlags guarda os nomes das flags passadas na linha de comando;
	// essas sempre vencem os valores do arquivo de configuração.
	ExplicitFlags map[string]bool
}
