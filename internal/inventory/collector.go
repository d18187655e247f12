package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/pkg/types"
)

// metricWindow is the width of the monitoring interval queried per bucket
const metricWindow = time.Minute

// ProjectResult counts what one project contributed to the report
type ProjectResult struct {
	Buckets int
	Records int
}

// CollectProject lists the buckets of an admitted project and writes one
// record per bucket and storage class to sink as soon as it is built.
func CollectProject(ctx context.Context, s *Session, projectID string, sink RecordSink) (ProjectResult, error) {
	var result ProjectResult
	log := s.logger().With(zap.String("project", projectID))

	buckets, err := s.Services.Storage.ListBuckets(ctx, projectID)
	if err != nil {
		return result, err
	}
	if len(buckets) == 0 {
		log.Debug("No storage buckets were found in the project")
		return result, nil
	}

	hierarchy, err := ResolveHierarchy(ctx, s, projectID)
	if err != nil {
		log.Warn("Unable to resolve folder hierarchy, leaving folders empty", zap.Error(err))
	}

	for i := range buckets {
		n, err := collectBucket(ctx, s, log, projectID, hierarchy, &buckets[i], sink)
		result.Records += n
		if err != nil {
			return result, err
		}
		result.Buckets++
	}
	return result, nil
}

// collectBucket emits the records of a single bucket and returns how many
// were written.
func collectBucket(
	ctx context.Context,
	s *Session,
	log *zap.Logger,
	projectID string,
	hierarchy types.FolderHierarchy,
	bucket *types.Bucket,
	sink RecordSink,
) (int, error) {
	log = log.With(zap.String("bucket", bucket.Name))
	log.Info("Collecting bucket",
		zap.String("bucket_id", bucket.ID),
		zap.String("location", bucket.Location))

	now := s.now()
	rc := &recordContext{
		Timestamp: now.Format(types.TimestampLayout),
		ProjectID: projectID,
		Hierarchy: hierarchy,
		Bucket:    bucket,
		Lifecycle: SummarizeLifecycle(bucket.Lifecycle),
	}

	samples, err := bucketSamples(ctx, s, log, projectID, bucket, now)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, smp := range samples {
		rec := newRecord(rc, smp)
		if err := sink.Write(&rec); err != nil {
			return written, err
		}
		written++
		s.observer().RecordWritten(projectID, &rec)
	}
	return written, nil
}

// bucketSamples returns one sample per storage class from Cloud Monitoring,
// or a single sample summed from the object listing when neither metric
// has data.
func bucketSamples(
	ctx context.Context,
	s *Session,
	log *zap.Logger,
	projectID string,
	bucket *types.Bucket,
	now time.Time,
) ([]sample, error) {
	start := now.Truncate(24 * time.Hour)
	query := types.TimeSeriesQuery{
		Project: projectID,
		Bucket:  bucket.Name,
		Start:   start,
		End:     start.Add(metricWindow),
	}

	query.Metric = types.MetricObjectCount
	countSeries, err := s.Services.Monitoring.ListTimeSeries(ctx, query)
	if err != nil {
		return nil, err
	}

	query.Metric = types.MetricTotalBytes
	sizeSeries, err := s.Services.Monitoring.ListTimeSeries(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(countSeries) == 0 && len(sizeSeries) == 0 {
		return []sample{fallbackSample(ctx, s, log, bucket)}, nil
	}

	counts := make(types.MetricSample)
	for i := range countSeries {
		counts[countSeries[i].StorageClass()] = countSeries[i].LatestInt64()
	}
	sizes := make(types.MetricSample)
	for i := range sizeSeries {
		sizes[sizeSeries[i].StorageClass()] = int64(math.Round(sizeSeries[i].LatestDouble()))
	}

	return mergeSamples(counts, sizes), nil
}

// mergeSamples emits one sample per storage class in the union of both
// series, sorted by class, with missing values defaulting to zero.
func mergeSamples(counts, sizes types.MetricSample) []sample {
	classes := make(map[string]struct{}, len(counts)+len(sizes))
	for class := range counts {
		classes[class] = struct{}{}
	}
	for class := range sizes {
		classes[class] = struct{}{}
	}

	out := make([]sample, 0, len(classes))
	for class := range classes {
		out = append(out, sample{
			StorageClass: class,
			ObjectCount:  counts[class],
			SizeBytes:    sizes[class],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StorageClass < out[j].StorageClass })
	return out
}

// fallbackSample sums the object listing of a bucket. A listing failure is
// logged and reported as zero objects and zero bytes.
func fallbackSample(ctx context.Context, s *Session, log *zap.Logger, bucket *types.Bucket) sample {
	smp := sample{StorageClass: bucket.StorageClass}

	objects, err := s.Services.Storage.ListObjects(ctx, bucket.Name, "")
	if err != nil {
		log.Error("Unable to extract objects for bucket", zap.Error(fmt.Errorf("fallback listing: %w", err)))
		return smp
	}

	smp.ObjectCount = int64(len(objects))
	for _, obj := range objects {
		smp.SizeBytes += obj.Size
	}
	return smp
}
