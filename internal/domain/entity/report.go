package entity

import "sort"

// ProjectFindings agrupa os recursos de um projeto que estão sem logging.
type ProjectFindings struct {
	Firewalls []Firewall   `json:"firewalls"`
	Subnets   []Subnetwork `json:"subnets"`
}

// Count retorna o total de recursos não conformes do projeto.
func (p ProjectFindings) Count() int {
	return len(p.Firewalls) + len(p.Subnets)
}

// ComplianceReport mapeia project ID -> achados. Só contém projetos com ao menos
// um recurso sem logging; é montado uma vez por execução e apenas lido depois.
type ComplianceReport map[string]ProjectFindings

// ProjectIDs retorna as chaves em ordem alfabética, a ordem usada por todos os exports.
func (r ComplianceReport) ProjectIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalFindings soma os achados de todos os projetos.
func (r ComplianceReport) TotalFindings() int {
	total := 0
	for _, f := range r {
		total += f.Count()
	}
	return total
}
