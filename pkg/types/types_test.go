package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleConditionTargetsNoncurrent(t *testing.T) {
	live, archived := true, false
	days := int64(10)
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, LifecycleCondition{}.TargetsNoncurrent())
	assert.False(t, LifecycleCondition{IsLive: &live}.TargetsNoncurrent())
	assert.True(t, LifecycleCondition{IsLive: &archived}.TargetsNoncurrent())
	assert.True(t, LifecycleCondition{DaysSinceNoncurrentTime: &days}.TargetsNoncurrent())
	assert.True(t, LifecycleCondition{NoncurrentTimeBefore: &before}.TargetsNoncurrent())
	assert.True(t, LifecycleCondition{NumNewerVersions: &days}.TargetsNoncurrent())
	assert.True(t, LifecycleCondition{IsLive: &live, NumNewerVersions: &days}.TargetsNoncurrent())
}

func TestProjectChecks(t *testing.T) {
	p := &Project{
		EnabledAPIs: []string{"compute.googleapis.com", "storage-api.googleapis.com"},
		Permissions: []string{"storage.buckets.list"},
	}

	assert.True(t, p.HasAPI("storage-api.googleapis.com"))
	assert.False(t, p.HasAPI("monitoring.googleapis.com"))

	assert.True(t, p.HasPermissions(nil))
	assert.True(t, p.HasPermissions([]string{"storage.buckets.list"}))
	assert.False(t, p.HasPermissions([]string{"storage.buckets.list", "storage.objects.list"}))
}

func TestTimeSeriesLatest(t *testing.T) {
	n := int64(7)
	f := 9.6

	ts := &TimeSeries{
		MetricLabels: map[string]string{LabelStorageClass: "COLDLINE"},
		Points:       []MetricPoint{{Int64: &n}, {Double: &f}},
	}
	assert.Equal(t, "COLDLINE", ts.StorageClass())
	assert.Equal(t, int64(7), ts.LatestInt64())
	assert.Equal(t, 7.0, ts.LatestDouble())

	doubles := &TimeSeries{Points: []MetricPoint{{Double: &f}}}
	assert.Equal(t, int64(10), doubles.LatestInt64())
	assert.Equal(t, 9.6, doubles.LatestDouble())
	assert.Empty(t, doubles.StorageClass())

	empty := &TimeSeries{}
	assert.Zero(t, empty.LatestInt64())
	assert.Zero(t, empty.LatestDouble())
}
