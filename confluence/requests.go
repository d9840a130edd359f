package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var (
	ErrNotFound     = errors.New("confluence: not found")
	ErrUnauthorized = errors.New("confluence: authentication failed")
)

// StatusError is returned whenever Confluence answers with a status code the caller didn't
// expect.  Body is kept so it can be logged.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("confluence: %s %s: unexpected HTTP response status: %s: %s", e.Method, e.URL, e.Status, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

func (api *API) SearchContent(ctx context.Context, opts ContentSearchQuery) (*ContentSearchResponse, error) {
	ep, err := api.getContentSearchEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get content search endpoint: %w", err)
	}

	var result ContentSearchResponse
	if err := api.getJSON(ctx, ep, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (api *API) Search(ctx context.Context, opts SearchQuery) (*SearchResponse, error) {
	ep, err := api.getSearchEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get search endpoint: %w", err)
	}

	var result SearchResponse
	if err := api.getJSON(ctx, ep, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (api *API) SearchUsers(ctx context.Context, opts UserSearchQuery) (*SearchResponse, error) {
	ep, err := api.getUserSearchEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get user search endpoint: %w", err)
	}

	var result SearchResponse
	if err := api.getJSON(ctx, ep, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetSpace fetches a space by key.  A missing space yields an error matching ErrNotFound.
func (api *API) GetSpace(ctx context.Context, key string) (*Space, error) {
	ep, err := api.getSpaceByKeyEndpoint(key)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get space endpoint: %w", err)
	}

	var space Space
	if err := api.getJSON(ctx, ep, &space); err != nil {
		return nil, err
	}

	return &space, nil
}

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*AllSpaces, error) {
	ep, err := api.getSpacesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	var allSpaces AllSpaces
	if err := api.getJSON(ctx, ep, &allSpaces); err != nil {
		return nil, err
	}

	return &allSpaces, nil
}

func (api *API) GetProcessPages(ctx context.Context, opts ProcessPagesQuery) (*ProcessPagesResponse, error) {
	ep, err := api.getProcessPagesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get process pages endpoint: %w", err)
	}

	var result ProcessPagesResponse
	if err := api.getJSON(ctx, ep, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (api *API) CreateContent(ctx context.Context, content NewContent) (*Content, error) {
	ep, err := api.getCreateContentEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get create content endpoint: %w", err)
	}

	payload, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't marshal content: %w", err)
	}

	body, err := api.request(ctx, http.MethodPost, ep, payload)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var created Content
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &created, nil
}

func (api *API) CreateUser(ctx context.Context, user NewUser) error {
	ep, err := api.getCreateUserEndpoint()
	if err != nil {
		return fmt.Errorf("confluence: couldn't get create user endpoint: %w", err)
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("confluence: couldn't marshal user: %w", err)
	}

	if _, err := api.request(ctx, http.MethodPost, ep, payload); err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	return nil
}

// DeleteContent issues one DELETE.  Anything but 204 No Content is a *StatusError.
func (api *API) DeleteContent(ctx context.Context, opts DeleteContentQuery) error {
	ep, err := api.getDeleteContentEndpoint(opts)
	if err != nil {
		return fmt.Errorf("confluence: couldn't get delete endpoint: %w", err)
	}

	statusCode, status, body, err := api.do(ctx, http.MethodDelete, ep, nil)
	if err != nil {
		return err
	}

	if statusCode != http.StatusNoContent {
		return &StatusError{
			Method:     http.MethodDelete,
			URL:        ep.String(),
			StatusCode: statusCode,
			Status:     status,
			Body:       string(body),
		}
	}

	return nil
}

// CurrentUser return current user information
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get current user endpoint: %w", err)
	}

	var user User
	if err := api.getJSON(ctx, ep, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (api *API) getJSON(ctx context.Context, ep *url.URL, into any) error {
	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return nil
}

// request performs the call and insists on a 2xx answer.
func (api *API) request(ctx context.Context, method string, url *url.URL, payload []byte) ([]byte, error) {
	statusCode, status, body, err := api.do(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}

	switch statusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return body, nil
	}

	return nil, &StatusError{
		Method:     method,
		URL:        url.String(),
		StatusCode: statusCode,
		Status:     status,
		Body:       string(body),
	}
}

func (api *API) do(ctx context.Context, method string, url *url.URL, payload []byte) (int, string, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), reqBody)
	if err != nil {
		return 0, "", nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// if user & token are not set, do not add authorization header
	if api.username != "" && api.token != "" {
		req.SetBasicAuth(api.username, api.token)
	} else if api.token != "" {
		req.Header.Set("Authorization", "Bearer "+api.token)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return 0, "", nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		response.Body.Close()
		return 0, "", nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return 0, "", nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	return response.StatusCode, response.Status, body, nil
}
