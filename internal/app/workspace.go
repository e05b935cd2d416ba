package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	mePath             = "/api/2.0/preview/scim/v2/Me"
	defaultHTTPTimeout = 12 * time.Second
	maxResponseBytes   = 2 * 1024 * 1024
)

// WorkspaceClient is a minimal client for the workspace REST API, enough
// to supply the identity check and authentication headers the OAuth
// provider consumes.
type WorkspaceClient struct {
	host       string
	authHeader string
	httpClient *http.Client
}

func NewWorkspaceClient(profile Profile) (*WorkspaceClient, error) {
	host := strings.TrimRight(strings.TrimSpace(profile.Host), "/")
	if host == "" {
		return nil, fmt.Errorf("workspace host is required")
	}
	if !strings.HasPrefix(host, "https://") && !strings.HasPrefix(host, "http://") {
		return nil, fmt.Errorf("workspace host %q must be an http(s) URL", host)
	}
	header, err := profile.authorizationHeader()
	if err != nil {
		return nil, err
	}
	return &WorkspaceClient{
		host:       host,
		authHeader: header,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

func (c *WorkspaceClient) Host() string {
	return c.host
}

// AuthHeaders returns the request headers the client authenticates with.
func (c *WorkspaceClient) AuthHeaders() (map[string]string, error) {
	return map[string]string{"Authorization": c.authHeader}, nil
}

// Me performs the SCIM identity check. 401/403 responses surface as
// permission-denied APIErrors.
func (c *WorkspaceClient) Me(ctx context.Context) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+mePath, nil)
	if err != nil {
		return User{}, err
	}
	headers, err := c.AuthHeaders()
	if err != nil {
		return User{}, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "databricks-mcp")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return User{}, &APIError{
			StatusCode: res.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return User{}, fmt.Errorf("failed to parse identity response: %w", err)
	}
	return user, nil
}
