package provider

import (
	"context"
	"errors"
	"io"

	"github.com/vietdv277/bucketscope/pkg/types"
)

// Common errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrNotConfigured    = errors.New("provider not configured")
	ErrPermissionDenied = errors.New("permission denied")
)

// BillingProvider looks up a project's billing status
type BillingProvider interface {
	// BillingEnabled reports whether billing is enabled for the project
	BillingEnabled(ctx context.Context, projectID string) (bool, error)
}

// ServiceUsageProvider lists the APIs enabled on a project
type ServiceUsageProvider interface {
	// EnabledServices returns service names such as "storage-api.googleapis.com"
	EnabledServices(ctx context.Context, projectID string) ([]string, error)
}

// ProjectDirectory covers project discovery and the resource hierarchy
type ProjectDirectory interface {
	// ListActiveProjects returns every active project visible to the caller
	ListActiveProjects(ctx context.Context) ([]types.Project, error)

	// TestPermissions returns the subset of permissions the caller holds
	TestPermissions(ctx context.Context, projectID string, permissions []string) ([]string, error)

	// Ancestry returns the project's ancestors, project first, organization last
	Ancestry(ctx context.Context, projectID string) ([]types.Ancestor, error)

	// Folder returns a folder by numeric ID
	Folder(ctx context.Context, folderID string) (*types.Folder, error)
}

// MonitoringProvider queries metric time series
type MonitoringProvider interface {
	// ListTimeSeries returns the series matching the query, possibly none
	ListTimeSeries(ctx context.Context, q types.TimeSeriesQuery) ([]types.TimeSeries, error)
}

// StorageProvider defines the interface for object storage operations
type StorageProvider interface {
	// ListBuckets returns all buckets of a project
	ListBuckets(ctx context.Context, projectID string) ([]types.Bucket, error)

	// ListObjects returns live objects in a bucket with optional prefix
	ListObjects(ctx context.Context, bucket, prefix string) ([]types.Object, error)
}

// UploadOptions describes an object being uploaded
type UploadOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Uploader stores a finished report under a destination key
type Uploader interface {
	// Name identifies the destination in logs, e.g. "gs://bucket"
	Name() string

	// Upload writes the content to key
	Upload(ctx context.Context, key string, r io.Reader, opts *UploadOptions) error
}

// Services bundles every collaborator the inventory pipeline consumes
type Services struct {
	Billing      BillingProvider
	ServiceUsage ServiceUsageProvider
	Projects     ProjectDirectory
	Monitoring   MonitoringProvider
	Storage      StorageProvider
}
