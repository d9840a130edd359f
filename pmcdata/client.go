package pmcdata

import (
	"context"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

//go:generate mockgen -source=client.go -destination=mock/mock_client.go -package=mock

// Client is the part of the Confluence REST API the pipeline talks to.
type Client interface {
	GetSpace(ctx context.Context, key string) (*confluence.Space, error)
	Search(ctx context.Context, opts confluence.SearchQuery) (*confluence.SearchResponse, error)
	SearchContent(ctx context.Context, opts confluence.ContentSearchQuery) (*confluence.ContentSearchResponse, error)
	GetProcessPages(ctx context.Context, opts confluence.ProcessPagesQuery) (*confluence.ProcessPagesResponse, error)
	CreateContent(ctx context.Context, content confluence.NewContent) (*confluence.Content, error)
	SearchUsers(ctx context.Context, opts confluence.UserSearchQuery) (*confluence.SearchResponse, error)
	CreateUser(ctx context.Context, user confluence.NewUser) error
}

var _ Client = (*confluence.API)(nil)
