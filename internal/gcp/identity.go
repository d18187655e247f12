package gcp

import (
	"context"
	"fmt"

	oauth2api "google.golang.org/api/oauth2/v2"
)

// CallerIdentity holds the resolved GCP identity behind the client credentials.
type CallerIdentity struct {
	// Email is the account email: service account address or user email.
	Email string
	// ProjectID is the GCP project associated with the credentials.
	ProjectID string
}

// GetCallerIdentity refreshes the client token and resolves who it belongs to.
func GetCallerIdentity(ctx context.Context, c *Client) (*CallerIdentity, error) {
	// Obtain a token to confirm the credentials are actually valid and not expired.
	token, err := c.Credentials().TokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to refresh GCP credentials (run 'gcloud auth application-default login'): %w",
			err,
		)
	}
	if !token.Valid() {
		return nil, fmt.Errorf("GCP credentials are expired (run 'gcloud auth application-default login')")
	}

	identity := &CallerIdentity{ProjectID: c.Project()}

	svc, err := oauth2api.NewService(ctx, c.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}
	info, err := svc.Tokeninfo().AccessToken(token.AccessToken).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("token info: %w", err)
	}
	identity.Email = info.Email

	return identity, nil
}
