package app

import (
	"context"
	"errors"
)

// Service ties the config file, workspace client, OAuth provider, and
// workflow generator together behind the CLI.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) resolveProfile(o ProfileOverrides) (Profile, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return Profile{}, "", WrapExit(ExitIOFailure, err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return Profile{}, "", WrapExit(ExitIOFailure, err)
	}
	profile, name, err := cfg.resolve(o)
	if err != nil {
		return Profile{}, "", WrapExit(ExitUserError, err)
	}
	return profile, name, nil
}

// WhoAmI runs the identity check against the configured workspace.
func (s *Service) WhoAmI(ctx context.Context, o ProfileOverrides) (WhoAmIResult, error) {
	profile, name, err := s.resolveProfile(o)
	if err != nil {
		return WhoAmIResult{}, err
	}
	client, err := NewWorkspaceClient(profile)
	if err != nil {
		return WhoAmIResult{}, WrapExit(ExitUserError, err)
	}
	user, err := client.Me(ctx)
	if err != nil {
		if IsPermissionDenied(err) {
			return WhoAmIResult{}, WrapExit(ExitAuthFailure, err)
		}
		return WhoAmIResult{}, WrapExit(ExitIOFailure, err)
	}
	return WhoAmIResult{Profile: name, Host: client.Host(), User: user}, nil
}

// Token constructs the OAuth client provider and reads its cached token.
func (s *Service) Token(ctx context.Context, o ProfileOverrides) (TokenResult, error) {
	profile, name, err := s.resolveProfile(o)
	if err != nil {
		return TokenResult{}, err
	}
	client, err := NewWorkspaceClient(profile)
	if err != nil {
		return TokenResult{}, WrapExit(ExitUserError, err)
	}
	provider, err := NewOAuthClientProvider(ctx, client, ProviderOptions{
		ExpirySeconds: profile.ExpirySeconds,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrWorkspacePermission):
			return TokenResult{}, WrapExit(ExitAuthFailure, err)
		case errors.Is(err, ErrInvalidTokenFormat):
			return TokenResult{}, WrapExit(ExitUserError, err)
		default:
			return TokenResult{}, WrapExit(ExitIOFailure, err)
		}
	}
	token, err := provider.GetTokens(ctx)
	if err != nil {
		return TokenResult{}, WrapExit(ExitIOFailure, err)
	}
	return TokenResult{Profile: name, Host: client.Host(), Token: token}, nil
}

// ListProfiles returns the config profile names and the default profile.
func (s *Service) ListProfiles() ([]string, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", WrapExit(ExitIOFailure, err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, "", WrapExit(ExitIOFailure, err)
	}
	return cfg.profileNames(), cfg.DefaultProfile, nil
}

// Workflows renders the release workflows; with check set it only
// reports drift against the files on disk.
func (s *Service) Workflows(opts GenerateOptions, check bool) ([]WorkflowResult, error) {
	if check {
		results, err := CheckWorkflows(opts)
		if err != nil {
			return nil, WrapExit(ExitIOFailure, err)
		}
		return results, nil
	}
	results, err := GenerateWorkflows(opts)
	if err != nil {
		return nil, WrapExit(ExitIOFailure, err)
	}
	return results, nil
}
