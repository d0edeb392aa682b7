package types

// Config represents the application configuration that can be loaded from a file.
// Ponteiros distinguem "ausente no arquivo" de "false".
type Config struct {
	Folder              string   `json:"folder" yaml:"folder" toml:"folder"`
	Quiet               *bool    `json:"quiet" yaml:"quiet" toml:"quiet"`
	Recursive           *bool    `json:"recursive" yaml:"recursive" toml:"recursive"`
	OutputCSVPath       string   `json:"output_csv_path" yaml:"output_csv_path" toml:"output_csv_path"`
	OutputJSONPath      string   `json:"output_json_path" yaml:"output_json_path" toml:"output_json_path"`
	OutputPDFPath       string   `json:"output_pdf_path" yaml:"output_pdf_path" toml:"output_pdf_path"`
	OutputTerraformPath string   `json:"output_terraform_path" yaml:"output_terraform_path" toml:"output_terraform_path"`
	TerraformExclude    []string `json:"terraform_exclude" yaml:"terraform_exclude" toml:"terraform_exclude"`
	CredentialsFile     string   `json:"creds_file" yaml:"creds_file" toml:"creds_file"`
	Debug               *bool    `json:"debug" yaml:"debug" toml:"debug"`
}
