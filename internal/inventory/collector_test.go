package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"github.com/vietdv277/bucketscope/pkg/types"
)

func TestCollectProjectEmitsStorageClassUnion(t *testing.T) {
	cloud := newFakeCloud()
	cloud.addProject("prj-a", testBucket("logs"))
	cloud.setSeries("logs", types.MetricObjectCount, map[string]float64{"STANDARD": 3, "NEARLINE": 1})
	cloud.setSeries("logs", types.MetricTotalBytes, map[string]float64{"STANDARD": 100.4, "COLDLINE": 50})

	sink := &memorySink{}
	result, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-a", sink)
	require.NoError(t, err)

	assert.Equal(t, ProjectResult{Buckets: 1, Records: 3}, result)
	require.Len(t, sink.records, 3)

	got := make([]sample, 0, len(sink.records))
	for _, rec := range sink.records {
		got = append(got, sample{StorageClass: rec.StorageClass, ObjectCount: rec.ObjectCount, SizeBytes: rec.BucketSizeBytes})
		assert.Equal(t, "prj-a", rec.ProjectID)
		assert.Equal(t, "logs", rec.BucketName)
		assert.Equal(t, "2026-10-19 13:45:30", rec.Timestamp)
	}
	assert.Equal(t, []sample{
		{StorageClass: "COLDLINE", ObjectCount: 0, SizeBytes: 50},
		{StorageClass: "NEARLINE", ObjectCount: 1, SizeBytes: 0},
		{StorageClass: "STANDARD", ObjectCount: 3, SizeBytes: 100},
	}, got)
	assert.Empty(t, cloud.objectCalls, "object listing is only used without metrics")
}

func TestCollectProjectQueriesDailyWindow(t *testing.T) {
	cloud := newFakeCloud()
	cloud.addProject("prj-a", testBucket("logs"))
	cloud.setSeries("logs", types.MetricObjectCount, map[string]float64{"STANDARD": 1})

	_, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-a", &memorySink{})
	require.NoError(t, err)

	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	require.Len(t, cloud.queries, 2)
	assert.Equal(t, types.TimeSeriesQuery{
		Project: "prj-a",
		Metric:  types.MetricObjectCount,
		Bucket:  "logs",
		Start:   start,
		End:     start.Add(time.Minute),
	}, cloud.queries[0])
	assert.Equal(t, types.MetricTotalBytes, cloud.queries[1].Metric)
}

func TestCollectProjectFallsBackToObjectListing(t *testing.T) {
	cloud := newFakeCloud()
	b := testBucket("archive")
	b.StorageClass = "ARCHIVE"
	cloud.addProject("prj-a", b)
	cloud.objects["archive"] = []types.Object{
		{Key: "a", Size: 10},
		{Key: "b", Size: 32},
	}

	sink := &memorySink{}
	result, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-a", sink)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Records)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "ARCHIVE", sink.records[0].StorageClass)
	assert.Equal(t, int64(2), sink.records[0].ObjectCount)
	assert.Equal(t, int64(42), sink.records[0].BucketSizeBytes)
	assert.Equal(t, "42 B", sink.records[0].BucketSizeFormatted)
}

func TestCollectProjectFallbackListingFailure(t *testing.T) {
	cloud := newFakeCloud()
	cloud.addProject("prj-a", testBucket("b2"))
	cloud.objectsErr["b2"] = errTransport

	core, logs := zapobserver.New(zapcore.ErrorLevel)
	sink := &memorySink{}
	result, err := CollectProject(context.Background(), newTestSession(t, cloud, zap.New(core)), "prj-a", sink)
	require.NoError(t, err)

	assert.Equal(t, ProjectResult{Buckets: 1, Records: 1}, result)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "STANDARD", sink.records[0].StorageClass)
	assert.Zero(t, sink.records[0].ObjectCount)
	assert.Zero(t, sink.records[0].BucketSizeBytes)

	entries := logs.FilterField(zap.String("bucket", "b2")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestCollectProjectWithoutBuckets(t *testing.T) {
	cloud := newFakeCloud()
	cloud.addProject("prj-empty")

	sink := &memorySink{}
	result, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-empty", sink)
	require.NoError(t, err)

	assert.Equal(t, ProjectResult{}, result)
	assert.Empty(t, sink.records)
	assert.Empty(t, cloud.queries)
}

func TestCollectProjectPropagatesErrors(t *testing.T) {
	t.Run("bucket listing", func(t *testing.T) {
		cloud := newFakeCloud()
		cloud.addProject("prj-a", testBucket("logs"))
		cloud.bucketsErr["prj-a"] = errTransport

		_, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-a", &memorySink{})
		assert.ErrorIs(t, err, errTransport)
	})

	t.Run("sink", func(t *testing.T) {
		cloud := newFakeCloud()
		cloud.addProject("prj-a", testBucket("logs"), testBucket("more"))

		result, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-a", &memorySink{err: errTransport})
		assert.ErrorIs(t, err, errTransport)
		assert.Equal(t, ProjectResult{}, result)
	})
}

func TestCollectProjectLabelsFolders(t *testing.T) {
	cloud := newFakeCloud()
	cloud.addProject("prj-a", testBucket("logs"))
	cloud.ancestry["prj-a"] = []types.Ancestor{
		{Type: types.AncestorProject, ID: "prj-a"},
		{Type: types.AncestorFolder, ID: "200"},
		{Type: types.AncestorFolder, ID: "100"},
		{Type: types.AncestorOrganization, ID: "1"},
	}
	cloud.folders["100"] = "Engineering"
	cloud.folders["200"] = "Data Platform"

	sink := &memorySink{}
	_, err := CollectProject(context.Background(), newTestSession(t, cloud, nil), "prj-a", sink)
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	assert.Equal(t, "Engineering", sink.records[0].ParentFolder)
	assert.Equal(t, "Data Platform", sink.records[0].SubFolder)
}

func TestCollectProjectHierarchyFailure(t *testing.T) {
	cloud := newFakeCloud()
	cloud.addProject("prj-a", testBucket("logs"))
	cloud.ancestry["prj-a"] = []types.Ancestor{
		{Type: types.AncestorFolder, ID: "200"},
		{Type: types.AncestorFolder, ID: "100"},
	}
	cloud.folders["100"] = "Engineering"

	core, logs := zapobserver.New(zapcore.WarnLevel)
	sink := &memorySink{}
	_, err := CollectProject(context.Background(), newTestSession(t, cloud, zap.New(core)), "prj-a", sink)
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	assert.Empty(t, sink.records[0].ParentFolder)
	assert.Empty(t, sink.records[0].SubFolder)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestResolveHierarchy(t *testing.T) {
	tests := []struct {
		name      string
		ancestors []types.Ancestor
		want      types.FolderHierarchy
	}{
		{
			name: "project directly under organization",
			ancestors: []types.Ancestor{
				{Type: types.AncestorProject, ID: "prj"},
				{Type: types.AncestorOrganization, ID: "1"},
			},
		},
		{
			name: "single folder",
			ancestors: []types.Ancestor{
				{Type: types.AncestorProject, ID: "prj"},
				{Type: types.AncestorFolder, ID: "100"},
				{Type: types.AncestorOrganization, ID: "1"},
			},
			want: types.FolderHierarchy{ParentFolder: "Engineering"},
		},
		{
			name: "deep nesting keeps the two topmost folders",
			ancestors: []types.Ancestor{
				{Type: types.AncestorProject, ID: "prj"},
				{Type: types.AncestorFolder, ID: "300"},
				{Type: types.AncestorFolder, ID: "200"},
				{Type: types.AncestorFolder, ID: "100"},
				{Type: types.AncestorOrganization, ID: "1"},
			},
			want: types.FolderHierarchy{ParentFolder: "Engineering", SubFolder: "Data Platform"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud := newFakeCloud()
			cloud.ancestry["prj"] = tt.ancestors
			cloud.folders = map[string]string{"100": "Engineering", "200": "Data Platform", "300": "Pipelines"}

			got, err := ResolveHierarchy(context.Background(), newTestSession(t, cloud, nil), "prj")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeSamplesSorted(t *testing.T) {
	got := mergeSamples(
		types.MetricSample{"STANDARD": 5},
		types.MetricSample{"ARCHIVE": 7, "STANDARD": 9},
	)
	assert.Equal(t, []sample{
		{StorageClass: "ARCHIVE", SizeBytes: 7},
		{StorageClass: "STANDARD", ObjectCount: 5, SizeBytes: 9},
	}, got)
}
