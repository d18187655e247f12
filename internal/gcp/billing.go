package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudbilling/v1"
)

// BillingService implements provider.BillingProvider on the Cloud Billing API.
type BillingService struct {
	svc *cloudbilling.APIService
}

// NewBillingService creates a Cloud Billing client on the shared connection pool.
func NewBillingService(ctx context.Context, client *Client) (*BillingService, error) {
	svc, err := cloudbilling.NewService(ctx, client.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create cloud billing client: %w", err)
	}
	return &BillingService{svc: svc}, nil
}

// BillingEnabled reports whether billing is enabled for the project.
func (b *BillingService) BillingEnabled(ctx context.Context, projectID string) (bool, error) {
	info, err := b.svc.Projects.GetBillingInfo(projectName(projectID)).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("get billing info for %s: %w", projectID, err)
	}
	return info.BillingEnabled, nil
}

func projectName(projectID string) string {
	return "projects/" + projectID
}
