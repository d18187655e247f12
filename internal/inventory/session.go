// Package inventory collects a Cloud Storage bucket inventory across
// projects and publishes it as a CSV report.
package inventory

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/pkg/provider"
)

// Defaults for the run configuration
const (
	DefaultRequiredAPI   = "storage-api.googleapis.com"
	DefaultReportPrefix  = "gcp-cost-analysis"
	DefaultFilePrefix    = "gcp-bucket-details"
	PermissionListBucket = "storage.buckets.list"
	ContentTypeCSV       = "text/csv"
)

// Configuration errors abort a run before any collection starts.
var (
	ErrNoUploadBucket     = errors.New("no storage bucket name was found for the report upload")
	ErrNoActiveProjects   = errors.New("failed to list any active projects")
	ErrNoServices         = errors.New("inventory services are not configured")
	ErrNoIntermediateFile = errors.New("intermediate file name is empty")
)

// RunConfig is the resolved configuration of a single run
type RunConfig struct {
	RunID               string
	ProjectIDs          []string // Explicit scope; empty means discover active projects
	RequiredAPI         string
	RequiredPermissions []string
	TextFileName        string // Intermediate JSON lines file
	CSVFileName         string // Final report file
	UploadBucket        string
	ReportPrefix        string
	BuildNo             string
	MaxConcurrency      int // 0 means one goroutine per project
}

// Session is threaded through every pipeline call. It replaces process-wide
// state: collaborators, logger and run configuration all live here.
type Session struct {
	Config   RunConfig
	Services provider.Services
	Logger   *zap.Logger
	Observer Observer
	Now      func() time.Time
}

// logger returns the session logger, or a no-op logger
func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// observer returns the session observer, or a no-op observer
func (s *Session) observer() Observer {
	if s.Observer == nil {
		return NopObserver{}
	}
	return s.Observer
}

// now returns the current time in UTC
func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// requiredAPI returns the API that must be enabled on an admitted project
func (c *RunConfig) requiredAPI() string {
	if c.RequiredAPI == "" {
		return DefaultRequiredAPI
	}
	return c.RequiredAPI
}

// requiredPermissions returns the permissions an admitted project must grant
func (c *RunConfig) requiredPermissions() []string {
	if len(c.RequiredPermissions) == 0 {
		return []string{PermissionListBucket}
	}
	return c.RequiredPermissions
}

// reportPrefix returns the object prefix for uploaded reports
func (c *RunConfig) reportPrefix() string {
	if c.ReportPrefix == "" {
		return DefaultReportPrefix
	}
	return c.ReportPrefix
}

// validate checks the configuration errors that must fail a run up front
func (c *RunConfig) validate() error {
	if c.UploadBucket == "" {
		return ErrNoUploadBucket
	}
	if c.TextFileName == "" {
		return ErrNoIntermediateFile
	}
	return nil
}
