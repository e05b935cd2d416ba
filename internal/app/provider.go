package app

import (
	"context"
	"fmt"
	"strings"
)

// DefaultTokenExpirySeconds is the advertised lifetime of tokens handed
// out by the provider. Externally configured, not derived from any
// token-issuing protocol.
const DefaultTokenExpirySeconds = 60

const bearerPrefix = "Bearer "

type ProviderOptions struct {
	// ExpirySeconds overrides DefaultTokenExpirySeconds when positive.
	ExpirySeconds int
}

// OAuthClientProvider bridges an already-authenticated workspace client
// to a token-storage consumer. Construction is atomic: the permission
// preflight and bearer extraction both succeed, or no provider exists.
type OAuthClientProvider struct {
	client WorkspaceAPI
	token  OAuthToken
}

func NewOAuthClientProvider(ctx context.Context, client WorkspaceAPI, opts ProviderOptions) (*OAuthClientProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("workspace client is required")
	}

	if _, err := client.Me(ctx); err != nil {
		if IsPermissionDenied(err) {
			return nil, fmt.Errorf("%w: %v", ErrWorkspacePermission, err)
		}
		return nil, err
	}

	headers, err := client.AuthHeaders()
	if err != nil {
		return nil, err
	}
	raw := headers["Authorization"]
	value, ok := strings.CutPrefix(raw, bearerPrefix)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, ErrInvalidTokenFormat
	}

	expiry := opts.ExpirySeconds
	if expiry <= 0 {
		expiry = DefaultTokenExpirySeconds
	}
	return &OAuthClientProvider{
		client: client,
		token: OAuthToken{
			AccessToken: value,
			TokenType:   "bearer",
			ExpiresIn:   expiry,
		},
	}, nil
}

// GetTokens returns the token materialized at construction. No network
// call, no refresh; it resolves immediately with the cached value.
func (p *OAuthClientProvider) GetTokens(ctx context.Context) (OAuthToken, error) {
	if err := ctx.Err(); err != nil {
		return OAuthToken{}, err
	}
	return p.token, nil
}
