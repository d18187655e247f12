package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/vietdv277/bucketscope/pkg/provider"
	"github.com/vietdv277/bucketscope/pkg/types"
)

// Storage implements provider.StorageProvider for Cloud Storage.
type Storage struct {
	client *storage.Client
}

// NewStorage creates a Cloud Storage client on the shared connection pool.
func NewStorage(ctx context.Context, client *Client) (*Storage, error) {
	sc, err := storage.NewClient(ctx, client.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Storage{client: sc}, nil
}

// Close releases the underlying storage client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// ListBuckets returns every bucket in the project.
func (s *Storage) ListBuckets(ctx context.Context, projectID string) ([]types.Bucket, error) {
	var buckets []types.Bucket
	it := s.client.Buckets(ctx, projectID)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list buckets for %s: %w", projectID, err)
		}
		buckets = append(buckets, gcsToBucket(attrs))
	}
	return buckets, nil
}

// ListObjects returns the live objects of a bucket under prefix.
func (s *Storage) ListObjects(ctx context.Context, bucket, prefix string) ([]types.Object, error) {
	q := &storage.Query{Prefix: prefix}
	if err := q.SetAttrSelection([]string{"Name", "Size", "StorageClass"}); err != nil {
		return nil, fmt.Errorf("select object attributes: %w", err)
	}

	var objects []types.Object
	it := s.client.Bucket(bucket).Objects(ctx, q)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", bucket, err)
		}
		objects = append(objects, types.Object{
			Key:          attrs.Name,
			Size:         attrs.Size,
			StorageClass: attrs.StorageClass,
		})
	}
	return objects, nil
}

// gcsToBucket converts storage.BucketAttrs to the unified Bucket type.
// The JSON API bucket id is the bucket name, so ID mirrors Name.
func gcsToBucket(attrs *storage.BucketAttrs) types.Bucket {
	b := types.Bucket{
		ID:                attrs.Name,
		Name:              attrs.Name,
		ProjectNumber:     strconv.FormatUint(attrs.ProjectNumber, 10),
		Location:          attrs.Location,
		LocationType:      attrs.LocationType,
		StorageClass:      attrs.StorageClass,
		Created:           attrs.Created,
		Updated:           attrs.Updated,
		VersioningEnabled: attrs.VersioningEnabled,
	}

	if rp := attrs.RetentionPolicy; rp != nil {
		b.RetentionPolicy = &types.RetentionPolicy{Period: rp.RetentionPeriod}
	}
	if sd := attrs.SoftDeletePolicy; sd != nil {
		b.SoftDeletePolicy = &types.SoftDeletePolicy{RetentionDuration: sd.RetentionDuration}
	}

	for _, rule := range attrs.Lifecycle.Rules {
		b.Lifecycle = append(b.Lifecycle, gcsToLifecycleRule(rule))
	}

	return b
}

// gcsToLifecycleRule maps a storage lifecycle rule, turning zero-valued
// optional conditions into nil so absence survives the conversion.
func gcsToLifecycleRule(rule storage.LifecycleRule) types.LifecycleRule {
	out := types.LifecycleRule{
		Action: types.LifecycleAction{
			Type:         rule.Action.Type,
			StorageClass: rule.Action.StorageClass,
		},
	}

	c := rule.Condition
	switch c.Liveness {
	case storage.Live:
		live := true
		out.Condition.IsLive = &live
	case storage.Archived:
		live := false
		out.Condition.IsLive = &live
	}
	if c.DaysSinceNoncurrentTime > 0 {
		days := c.DaysSinceNoncurrentTime
		out.Condition.DaysSinceNoncurrentTime = &days
	}
	if !c.NoncurrentTimeBefore.IsZero() {
		before := c.NoncurrentTimeBefore
		out.Condition.NoncurrentTimeBefore = &before
	}
	if c.NumNewerVersions > 0 {
		n := c.NumNewerVersions
		out.Condition.NumNewerVersions = &n
	}
	return out
}

// GCSUploader uploads reports into one Cloud Storage bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewUploader returns an uploader writing into bucket.
func (s *Storage) NewUploader(bucket string) *GCSUploader {
	return &GCSUploader{client: s.client, bucket: bucket}
}

// Name implements provider.Uploader.
func (u *GCSUploader) Name() string {
	return "gs://" + u.bucket
}

// Upload implements provider.Uploader.
func (u *GCSUploader) Upload(ctx context.Context, key string, r io.Reader, opts *provider.UploadOptions) error {
	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	if opts != nil {
		w.ContentType = opts.ContentType
		w.Metadata = opts.Metadata
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload gs://%s/%s: %w", u.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
