package entity

// LoggingAware é implementado por recursos que podem ter logging habilitado.
type LoggingAware interface {
	IsLoggingEnabled() bool
}

// FilterNonCompliant mantém, na ordem original, apenas os recursos sem logging.
// Nunca retorna nil.
func FilterNonCompliant[T LoggingAware](resources []T) []T {
	out := make([]T, 0, len(resources))
	for _, r := range resources {
		if !r.IsLoggingEnabled() {
			out = append(out, r)
		}
	}
	return out
}
