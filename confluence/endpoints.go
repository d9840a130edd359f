package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getContentSearchEndpoint returns the endpoint to run a CQL query over content:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/content-search
func (a *API) getContentSearchEndpoint(opts ContentSearchQuery) (*url.URL, error) {
	if opts.CQL == "" {
		return nil, fmt.Errorf("confluence: please provide CQL to search content")
	}
	return a.endpointWithQuery("rest/api/content/search", opts)
}

// getSearchEndpoint returns the generic search endpoint:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/search-search
func (a *API) getSearchEndpoint(opts SearchQuery) (*url.URL, error) {
	if opts.CQL == "" {
		return nil, fmt.Errorf("confluence: please provide CQL to search")
	}
	return a.endpointWithQuery("rest/api/search", opts)
}

// getUserSearchEndpoint returns the user search endpoint:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/search-userSearch
func (a *API) getUserSearchEndpoint(opts UserSearchQuery) (*url.URL, error) {
	if opts.CQL == "" {
		return nil, fmt.Errorf("confluence: please provide CQL to search users")
	}
	return a.endpointWithQuery("rest/api/search/user", opts)
}

// getSpaceByKeyEndpoint returns the endpoint for a single space:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/space-space
func (a *API) getSpaceByKeyEndpoint(key string) (*url.URL, error) {
	if key == "" {
		return nil, fmt.Errorf("confluence: please provide space key")
	}
	return a.resolveEndpoint("rest/api/space/" + url.PathEscape(key))
}

// getSpacesEndpoint returns the endpoint to list spaces:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/space-spaces
func (a *API) getSpacesEndpoint(opts SpacesQuery) (*url.URL, error) {
	return a.endpointWithQuery("rest/api/space", opts)
}

// getDeleteContentEndpoint returns the endpoint that trashes content, or purges already-trashed
// content when opts.Status is "trashed":
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/content-delete
func (a *API) getDeleteContentEndpoint(opts DeleteContentQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to delete content")
	}
	return a.endpointWithQuery("rest/api/content/"+url.PathEscape(opts.ID), opts)
}

// getCreateContentEndpoint returns the endpoint to create pages and blogposts:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/content-createContent
func (a *API) getCreateContentEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("rest/api/content")
}

// getCreateUserEndpoint returns the admin endpoint to create users (Confluence 7.x+).
func (a *API) getCreateUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("rest/api/admin/user")
}

// getProcessPagesEndpoint returns the PMC plugin's process search endpoint, as used by the
// Process Search macro.
func (a *API) getProcessPagesEndpoint(opts ProcessPagesQuery) (*url.URL, error) {
	if opts.ProcessTypePageID == "" {
		return nil, fmt.Errorf("confluence: please provide process type page ID")
	}
	return a.endpointWithQuery("rest/communardo/qms/latest/process-search/process-pages", opts)
}

// getCurrentUserEndpoint returns the endpoint to query current user
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/user-getCurrent
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("rest/api/user/current")
}

func (a *API) endpointWithQuery(endpoint string, opts any) (*url.URL, error) {
	ep, err := a.resolveEndpoint(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
// Endpoints are relative (no leading slash) so that a context path in the base URI survives.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
