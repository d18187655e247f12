package gcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"
)

const scopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"

// Client wraps GCP credentials and the HTTP connection pool shared by every
// API service built from it.
type Client struct {
	credentials    *google.Credentials
	httpClient     *http.Client
	serviceAccount string
	project        string
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithServiceAccount selects the credentials: a path to a service account key
// file, or a service account email to impersonate. Empty means ADC.
func WithServiceAccount(serviceAccount string) Option {
	return func(c *Client) {
		c.serviceAccount = serviceAccount
	}
}

// WithProject sets the GCP project ID used when credentials carry none.
func WithProject(project string) Option {
	return func(c *Client) {
		c.project = project
	}
}

// NewClient creates a new GCP client.
// Credentials are resolved in this order:
//  1. --service-account pointing at a key file on disk
//  2. --service-account holding an email, impersonated from ADC
//  3. Application Default Credentials
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	creds, err := c.resolveCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c.credentials = creds

	// Prefer the project from credentials when caller did not set one
	if c.project == "" && creds.ProjectID != "" {
		c.project = creds.ProjectID
	}

	c.httpClient = oauth2.NewClient(ctx, creds.TokenSource)
	return c, nil
}

func (c *Client) resolveCredentials(ctx context.Context) (*google.Credentials, error) {
	sa := strings.TrimSpace(c.serviceAccount)

	if sa == "" {
		creds, err := google.FindDefaultCredentials(ctx, scopeCloudPlatform)
		if err != nil {
			return nil, fmt.Errorf(
				"no GCP application default credentials found "+
					"(run 'gcloud auth application-default login'): %w",
				err,
			)
		}
		return creds, nil
	}

	if data, err := os.ReadFile(sa); err == nil {
		creds, err := google.CredentialsFromJSON(ctx, data, scopeCloudPlatform)
		if err != nil {
			return nil, fmt.Errorf("parse service account key file %s: %w", sa, err)
		}
		return creds, nil
	}

	if !strings.Contains(sa, "@") {
		return nil, fmt.Errorf("service account %q is neither a readable key file nor an email address", sa)
	}

	ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
		TargetPrincipal: sa,
		Scopes:          []string{scopeCloudPlatform},
	})
	if err != nil {
		return nil, fmt.Errorf("impersonate service account %s: %w", sa, err)
	}
	return &google.Credentials{TokenSource: ts}, nil
}

// Project returns the configured GCP project ID.
func (c *Client) Project() string {
	return c.project
}

// Credentials returns the underlying google.Credentials.
func (c *Client) Credentials() *google.Credentials {
	return c.credentials
}

// ClientOptions returns the options that route an API client through the
// shared connection pool.
func (c *Client) ClientOptions() []option.ClientOption {
	return []option.ClientOption{option.WithHTTPClient(c.httpClient)}
}
