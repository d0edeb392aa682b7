package entity

import "fmt"

// Subnetwork representa uma sub-rede regional e sua configuração de VPC Flow Logs.
// LoggingInterval e LoggingSamplePercentage são nil quando a API não os retorna.
type Subnetwork struct {
	Name                    string   `json:"name"`
	ProjectID               string   `json:"project_id"`
	VPC                     string   `json:"vpc"`
	Region                  string   `json:"region"`
	LoggingEnabled          bool     `json:"logging_enabled"`
	LoggingInterval         *string  `json:"logging_interval,omitempty"`
	LoggingSamplePercentage *float64 `json:"logging_sample_percentage,omitempty"`
}

// IsLoggingEnabled implementa LoggingAware.
func (s Subnetwork) IsLoggingEnabled() bool { return s.LoggingEnabled }

// String retorna a identidade da sub-rede no formato project/vpc/region/name.
func (s Subnetwork) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", s.ProjectID, s.VPC, s.Region, s.Name)
}
