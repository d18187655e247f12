package inventory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/pkg/provider"
	"github.com/vietdv277/bucketscope/pkg/types"
)

var errTransport = errors.New("transport failure")

// testNow is the fixed collection instant used across tests
var testNow = time.Date(2026, 10, 19, 13, 45, 30, 0, time.UTC)

// fakeCloud implements every provider interface from in-memory tables
type fakeCloud struct {
	mu sync.Mutex

	billing     map[string]bool
	billingErr  map[string]error
	apis        map[string][]string
	perms       map[string][]string
	active      []types.Project
	activeErr   error
	ancestry    map[string][]types.Ancestor
	folders     map[string]string
	buckets     map[string][]types.Bucket
	bucketsErr  map[string]error
	objects     map[string][]types.Object
	objectsErr  map[string]error
	series      map[string]map[string][]types.TimeSeries // bucket -> metric -> series
	queries     []types.TimeSeriesQuery
	objectCalls []string
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{
		billing:    map[string]bool{},
		billingErr: map[string]error{},
		apis:       map[string][]string{},
		perms:      map[string][]string{},
		ancestry:   map[string][]types.Ancestor{},
		folders:    map[string]string{},
		buckets:    map[string][]types.Bucket{},
		bucketsErr: map[string]error{},
		objects:    map[string][]types.Object{},
		objectsErr: map[string]error{},
		series:     map[string]map[string][]types.TimeSeries{},
	}
}

// addProject registers a project that passes every admission check
func (f *fakeCloud) addProject(id string, buckets ...types.Bucket) {
	f.billing[id] = true
	f.apis[id] = []string{"compute.googleapis.com", DefaultRequiredAPI}
	f.perms[id] = []string{PermissionListBucket}
	f.buckets[id] = buckets
	f.active = append(f.active, types.Project{ID: id})
}

// setSeries registers one series per storage class for a bucket metric
func (f *fakeCloud) setSeries(bucket, metric string, values map[string]float64) {
	if f.series[bucket] == nil {
		f.series[bucket] = map[string][]types.TimeSeries{}
	}
	var list []types.TimeSeries
	for class, v := range values {
		v := v
		point := types.MetricPoint{Double: &v}
		if metric == types.MetricObjectCount {
			n := int64(v)
			point = types.MetricPoint{Int64: &n}
		}
		list = append(list, types.TimeSeries{
			MetricLabels: map[string]string{types.LabelStorageClass: class},
			Points:       []types.MetricPoint{point},
		})
	}
	f.series[bucket][metric] = list
}

func (f *fakeCloud) services() provider.Services {
	return provider.Services{
		Billing:      f,
		ServiceUsage: f,
		Projects:     f,
		Monitoring:   f,
		Storage:      f,
	}
}

func (f *fakeCloud) BillingEnabled(_ context.Context, projectID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.billing[projectID], f.billingErr[projectID]
}

func (f *fakeCloud) EnabledServices(_ context.Context, projectID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apis[projectID], nil
}

func (f *fakeCloud) ListActiveProjects(context.Context) ([]types.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, f.activeErr
}

func (f *fakeCloud) TestPermissions(_ context.Context, projectID string, permissions []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var granted []string
	for _, want := range permissions {
		for _, have := range f.perms[projectID] {
			if want == have {
				granted = append(granted, want)
			}
		}
	}
	return granted, nil
}

func (f *fakeCloud) Ancestry(_ context.Context, projectID string) ([]types.Ancestor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ancestry[projectID], nil
}

func (f *fakeCloud) Folder(_ context.Context, folderID string) (*types.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.folders[folderID]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &types.Folder{ID: folderID, DisplayName: name}, nil
}

func (f *fakeCloud) ListTimeSeries(_ context.Context, q types.TimeSeriesQuery) ([]types.TimeSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.series[q.Bucket][q.Metric], nil
}

func (f *fakeCloud) ListBuckets(_ context.Context, projectID string) ([]types.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[projectID], f.bucketsErr[projectID]
}

func (f *fakeCloud) ListObjects(_ context.Context, bucket, _ string) ([]types.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objectCalls = append(f.objectCalls, bucket)
	return f.objects[bucket], f.objectsErr[bucket]
}

// fakeUploader captures uploaded reports
type fakeUploader struct {
	name string
	err  error

	mu      sync.Mutex
	key     string
	content []byte
	opts    *provider.UploadOptions
}

func (u *fakeUploader) Name() string { return u.name }

func (u *fakeUploader) Upload(_ context.Context, key string, r io.Reader, opts *provider.UploadOptions) error {
	if u.err != nil {
		return u.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.key = key
	u.content = buf.Bytes()
	u.opts = opts
	return nil
}

// memorySink collects records in memory
type memorySink struct {
	mu      sync.Mutex
	records []types.OutputRecord
	err     error
}

func (m *memorySink) Write(rec *types.OutputRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func newTestSession(t *testing.T, cloud *fakeCloud, logger *zap.Logger) *Session {
	t.Helper()
	dir := t.TempDir()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		Config: RunConfig{
			RunID:        "run-1",
			TextFileName: filepath.Join(dir, "details.jsonl"),
			CSVFileName:  filepath.Join(dir, "details.csv"),
			UploadBucket: "automation-bucket",
		},
		Services: cloud.services(),
		Logger:   logger,
		Now:      func() time.Time { return testNow },
	}
}

func testBucket(name string) types.Bucket {
	return types.Bucket{
		ID:            name,
		Name:          name,
		ProjectNumber: "123456",
		Location:      "EU",
		LocationType:  "multi-region",
		StorageClass:  "STANDARD",
		Created:       time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC),
		Updated:       time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC),
	}
}

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }
