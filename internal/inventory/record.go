package inventory

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vietdv277/bucketscope/pkg/types"
)

const secondsPerDay = 86400

// sample is one storage class slice of a bucket
type sample struct {
	StorageClass string
	ObjectCount  int64
	SizeBytes    int64
}

// recordContext is the per-project and per-bucket data shared by every
// record emitted for a bucket.
type recordContext struct {
	Timestamp string
	ProjectID string
	Hierarchy types.FolderHierarchy
	Bucket    *types.Bucket
	Lifecycle LifecycleSummary
}

// newRecord joins project, bucket and one storage class sample
func newRecord(rc *recordContext, s sample) types.OutputRecord {
	b := rc.Bucket
	return types.OutputRecord{
		Timestamp:                       rc.Timestamp,
		ParentFolder:                    rc.Hierarchy.ParentFolder,
		SubFolder:                       rc.Hierarchy.SubFolder,
		ProjectID:                       rc.ProjectID,
		BucketID:                        b.ID,
		BucketName:                      b.Name,
		Location:                        b.Location,
		LocationType:                    b.LocationType,
		StorageClass:                    s.StorageClass,
		ObjectCount:                     s.ObjectCount,
		BucketSizeBytes:                 s.SizeBytes,
		BucketSizeFormatted:             formatBytes(s.SizeBytes),
		Versioning:                      b.VersioningEnabled,
		RetentionPolicy:                 b.RetentionPolicy != nil,
		RetentionPolicyPeriodDays:       retentionDays(b.RetentionPolicy),
		TimeCreated:                     formatTime(b.Created),
		Updated:                         formatTime(b.Updated),
		SoftDeleteEnabled:               softDeleteEnabled(b.SoftDeletePolicy),
		ProjectNumber:                   b.ProjectNumber,
		LifecycleRulesCount:             rc.Lifecycle.RulesCount,
		DeletionRule:                    rc.Lifecycle.DeletionRule,
		TransitionRule:                  rc.Lifecycle.TransitionRule,
		NonCurrentVersionTransitionRule: rc.Lifecycle.NonCurrentVersionTransitionRule,
		NonCurrentVersionDeletionRule:   rc.Lifecycle.NonCurrentVersionDeletionRule,
	}
}

// formatBytes renders a byte count in SI units, e.g. "83 MB"
func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// retentionDays converts the retention period to whole days, rounded to
// the nearest integer; nil when the bucket has no retention policy.
func retentionDays(rp *types.RetentionPolicy) *int64 {
	if rp == nil {
		return nil
	}
	days := int64(math.Round(rp.Period.Seconds() / secondsPerDay))
	return &days
}

func softDeleteEnabled(sd *types.SoftDeletePolicy) bool {
	return sd != nil && sd.RetentionDuration > 0
}

// formatTime renders t in the record timestamp layout, empty when unset
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(types.TimestampLayout)
}
