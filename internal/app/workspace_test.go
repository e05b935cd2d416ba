package app

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newMeServer(t *testing.T, status int, body string, gotAuth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != mePath {
			http.NotFound(w, r)
			return
		}
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMeSuccess(t *testing.T) {
	var gotAuth string
	srv := newMeServer(t, http.StatusOK, `{"id":"1","userName":"tester@example.com","active":true}`, &gotAuth)

	client, err := NewWorkspaceClient(Profile{Host: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.UserName != "tester@example.com" {
		t.Fatalf("expected tester@example.com, got %q", user.UserName)
	}
	if !user.Active {
		t.Fatalf("expected active user")
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestMePermissionDenied(t *testing.T) {
	srv := newMeServer(t, http.StatusForbidden, `{"error_code":"PERMISSION_DENIED"}`, nil)

	client, err := NewWorkspaceClient(Profile{Host: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err = client.Me(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsPermissionDenied(err) {
		t.Fatalf("expected permission-denied, got %v", err)
	}
}

func TestMeServerError(t *testing.T) {
	srv := newMeServer(t, http.StatusInternalServerError, "boom", nil)

	client, err := NewWorkspaceClient(Profile{Host: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err = client.Me(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiErr.StatusCode)
	}
	if IsPermissionDenied(err) {
		t.Fatalf("500 must not report as permission error")
	}
}

func TestAuthHeadersBasic(t *testing.T) {
	client, err := NewWorkspaceClient(Profile{Host: "https://test-databricks.com", Username: "user", Password: "pass"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	headers, err := client.AuthHeaders()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
	if headers["Authorization"] != want {
		t.Fatalf("expected %q, got %q", want, headers["Authorization"])
	}
}

func TestNewWorkspaceClientValidation(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
	}{
		{"missing host", Profile{Token: "t"}},
		{"bad scheme", Profile{Host: "test-databricks.com", Token: "t"}},
		{"no credentials", Profile{Host: "https://test-databricks.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewWorkspaceClient(tc.profile); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewWorkspaceClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewWorkspaceClient(Profile{Host: "https://test-databricks.com/", Token: "t"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.Host() != "https://test-databricks.com" {
		t.Fatalf("expected trimmed host, got %q", client.Host())
	}
}

func TestProviderOverLiveClient(t *testing.T) {
	srv := newMeServer(t, http.StatusOK, `{"id":"1","userName":"tester@example.com","active":true}`, nil)

	client, err := NewWorkspaceClient(Profile{Host: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	provider, err := NewOAuthClientProvider(context.Background(), client, ProviderOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	token, err := provider.GetTokens(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token.AccessToken != "test-token" || token.ExpiresIn != 60 || token.TokenType != "bearer" {
		t.Fatalf("unexpected token %+v", token)
	}
}

func TestProviderOverLiveClientBasicAuth(t *testing.T) {
	srv := newMeServer(t, http.StatusOK, `{"id":"1","userName":"tester@example.com","active":true}`, nil)

	client, err := NewWorkspaceClient(Profile{Host: srv.URL, Username: "user", Password: "pass"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err = NewOAuthClientProvider(context.Background(), client, ProviderOptions{})
	if !errors.Is(err, ErrInvalidTokenFormat) {
		t.Fatalf("expected ErrInvalidTokenFormat, got %v", err)
	}
}

func TestProviderOverLiveClientPermissionDenied(t *testing.T) {
	srv := newMeServer(t, http.StatusForbidden, `{"error_code":"PERMISSION_DENIED"}`, nil)

	client, err := NewWorkspaceClient(Profile{Host: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err = NewOAuthClientProvider(context.Background(), client, ProviderOptions{})
	if !errors.Is(err, ErrWorkspacePermission) {
		t.Fatalf("expected ErrWorkspacePermission, got %v", err)
	}
}
