package entity

// Project representa um projeto GCP listado sob uma pasta.
type Project struct {
	ProjectNumber string `json:"project_number"`
	ProjectID     string `json:"project_id"`
}
