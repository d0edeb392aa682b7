// Package resourcepath decodes identifiers embedded in GCP resource paths and self links,
// e.g. https://www.googleapis.com/compute/v1/projects/p1/global/networks/vpc-a.
package resourcepath

import "strings"

// Markers usados nos self links da Compute API.
const (
	ProjectsMarker = "projects/"
	NetworksMarker = "networks/"
	RegionsMarker  = "regions/"
	FoldersMarker  = "folders/"
)

// Segment retorna o trecho após a primeira ocorrência de marker, truncado na próxima "/".
// O segundo valor é false quando o marker não existe ou o segmento é vazio.
func Segment(path, marker string) (string, bool) {
	idx := strings.Index(path, marker)
	if idx < 0 {
		return "", false
	}
	rest := path[idx+len(marker):]
	if end := strings.IndexByte(rest, '/'); end >= 0 {
		rest = rest[:end]
	}
	return rest, rest != ""
}

// Last retorna o último segmento de um caminho separado por "/".
// Ex.: "projects/123/services/compute.googleapis.com" -> "compute.googleapis.com".
func Last(path string) string {
	path = strings.TrimRight(path, "/")
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
