package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/serviceusage/v1"
)

// ServiceUsage implements provider.ServiceUsageProvider.
type ServiceUsage struct {
	svc *serviceusage.Service
}

// NewServiceUsage creates a Service Usage client on the shared connection pool.
func NewServiceUsage(ctx context.Context, client *Client) (*ServiceUsage, error) {
	svc, err := serviceusage.NewService(ctx, client.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create service usage client: %w", err)
	}
	return &ServiceUsage{svc: svc}, nil
}

// EnabledServices returns the names of all services enabled on the project.
func (s *ServiceUsage) EnabledServices(ctx context.Context, projectID string) ([]string, error) {
	var names []string
	err := s.svc.Services.List(projectName(projectID)).
		Filter("state:ENABLED").
		Pages(ctx, func(resp *serviceusage.ListServicesResponse) error {
			for _, svc := range resp.Services {
				if svc.Config != nil && svc.Config.Name != "" {
					names = append(names, svc.Config.Name)
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list enabled services for %s: %w", projectID, err)
	}
	return names, nil
}
