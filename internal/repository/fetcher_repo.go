package repository

import (
	"context"

	"github.com/user/page-loader/internal/entity"
)

// FetcherRepository defines the contract for retrieving a remote resource.
// Non-2xx responses are reported as *StatusError.
type FetcherRepository interface {
	// Fetch retrieves the resource at url and reads its body fully.
	Fetch(ctx context.Context, url string) (*entity.Resource, error)
}
