package entity

import "fmt"

// Firewall representa uma regra de firewall VPC e o estado do seu logging.
type Firewall struct {
	Name           string `json:"name"`
	ProjectID      string `json:"project_id"`
	VPC            string `json:"vpc"`
	LoggingEnabled bool   `json:"logging_enabled"`
}

// IsLoggingEnabled implementa LoggingAware.
func (f Firewall) IsLoggingEnabled() bool { return f.LoggingEnabled }

// String retorna a identidade da regra no formato project/vpc/name.
func (f Firewall) String() string {
	return fmt.Sprintf("%s/%s/%s", f.ProjectID, f.VPC, f.Name)
}
