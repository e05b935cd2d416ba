package app

import "context"

// WorkspaceAPI is the slice of the workspace client the OAuth provider
// depends on: an identity check and the derived authentication headers.
type WorkspaceAPI interface {
	Me(ctx context.Context) (User, error)
	AuthHeaders() (map[string]string, error)
}

// User is the SCIM identity returned by the workspace Me endpoint.
type User struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	DisplayName string `json:"displayName,omitempty"`
	Active      bool   `json:"active"`
}

// OAuthToken is the credential handed to token-storage consumers.
// Immutable once materialized; never persisted.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type WhoAmIResult struct {
	Profile string `json:"profile,omitempty"`
	Host    string `json:"host"`
	User    User   `json:"user"`
}

type TokenResult struct {
	Profile string     `json:"profile,omitempty"`
	Host    string     `json:"host"`
	Token   OAuthToken `json:"token"`
}

type WorkflowResult struct {
	Package string `json:"package"`
	Path    string `json:"path"`
	Status  string `json:"status"`
}

const (
	WorkflowWritten  = "written"
	WorkflowUpToDate = "up_to_date"
	WorkflowStale    = "stale"
	WorkflowMissing  = "missing"
)
