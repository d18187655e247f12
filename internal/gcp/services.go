package gcp

import (
	"context"

	"github.com/vietdv277/bucketscope/pkg/provider"
)

// Services holds one client per Google Cloud API used by the inventory,
// all multiplexed over the connection pool of a single Client.
type Services struct {
	Billing      *BillingService
	ServiceUsage *ServiceUsage
	Projects     *ProjectDirectory
	Monitoring   *Monitoring
	Storage      *Storage
}

// NewServices creates every API client from client
func NewServices(ctx context.Context, client *Client) (*Services, error) {
	var (
		s   Services
		err error
	)
	if s.Billing, err = NewBillingService(ctx, client); err != nil {
		return nil, err
	}
	if s.ServiceUsage, err = NewServiceUsage(ctx, client); err != nil {
		return nil, err
	}
	if s.Projects, err = NewProjectDirectory(ctx, client); err != nil {
		return nil, err
	}
	if s.Monitoring, err = NewMonitoring(ctx, client); err != nil {
		return nil, err
	}
	if s.Storage, err = NewStorage(ctx, client); err != nil {
		return nil, err
	}
	return &s, nil
}

// Provider exposes the clients through the provider interfaces
func (s *Services) Provider() provider.Services {
	return provider.Services{
		Billing:      s.Billing,
		ServiceUsage: s.ServiceUsage,
		Projects:     s.Projects,
		Monitoring:   s.Monitoring,
		Storage:      s.Storage,
	}
}

// Close releases clients that hold resources
func (s *Services) Close() error {
	return s.Storage.Close()
}
