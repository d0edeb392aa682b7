// Package pagination walks cursor-paginated list APIs (request -> response -> next page token).
package pagination

import "context"

// FetchFunc busca uma página. pageToken vazio indica a primeira página.
type FetchFunc[P any] func(ctx context.Context, pageToken string) (P, error)

// Walk busca todas as páginas e concatena os itens na ordem em que o provedor os retornou.
// O laço termina quando next devolve um token vazio. Erros de fetch são devolvidos sem
// alteração e descartam os itens já acumulados.
func Walk[P, T any](ctx context.Context, fetch FetchFunc[P], next func(P) string, items func(P) []T) ([]T, error) {
	var (
		all   []T
		token string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		all = append(all, items(page)...)

		token = next(page)
		if token == "" {
			return all, nil
		}
	}
}
