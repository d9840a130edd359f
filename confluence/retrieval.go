package confluence

import (
	"context"
	"fmt"
	"time"
)

// ListAllSpaces pages through /rest/api/space.  Personal spaces are skipped unless asked for.
func (api *API) ListAllSpaces(ctx context.Context, includePersonal bool) (map[string]Space, error) {
	spaces := map[string]Space{}

	query := SpacesQuery{
		Limit: 50,
	}

	if !includePersonal {
		// The `type` parameter may be "global", "personal", or nothing at all for both, so we
		// only set it if we _do not_ intend to include personal spaces.
		query.Type = "global"
	}

	for {
		allspaces, err := api.listSpacesPage(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range allspaces.Results {
			spaces[space.Key] = space
		}

		if len(allspaces.Results) < query.Limit {
			break
		}
		query.Start += len(allspaces.Results)
	}

	return spaces, nil
}

func (api *API) listSpacesPage(ctx context.Context, query SpacesQuery) (*AllSpaces, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return api.getSpaces(ctx, query)
}

// SearchAllContent runs a CQL content search and keeps fetching batches of batchSize until a
// short batch signals the end of the results.
func (api *API) SearchAllContent(ctx context.Context, cql string, batchSize int) ([]Content, error) {
	return SearchAllContent(ctx, api, cql, batchSize)
}

// ContentSearcher is anything that can run a single content search, e.g. *API or a mock.
type ContentSearcher interface {
	SearchContent(ctx context.Context, opts ContentSearchQuery) (*ContentSearchResponse, error)
}

// SearchAllContent is the paging loop behind (*API).SearchAllContent, usable with any
// ContentSearcher.
func SearchAllContent(ctx context.Context, searcher ContentSearcher, cql string, batchSize int) ([]Content, error) {
	if batchSize < 1 {
		batchSize = DefaultContentSearchBatchSize
	}

	results := []Content{}
	query := ContentSearchQuery{
		CQL:   cql,
		Start: 0,
		Limit: batchSize,
	}

	for {
		page, err := searcher.SearchContent(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: content search at offset %d failed: %w", query.Start, err)
		}

		results = append(results, page.Results...)

		if len(page.Results) < batchSize {
			return results, nil
		}
		query.Start += batchSize
	}
}
