package gcp

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/monitoring/v3"

	"github.com/vietdv277/bucketscope/pkg/types"
)

// Monitoring implements provider.MonitoringProvider on Cloud Monitoring.
type Monitoring struct {
	svc *monitoring.Service
}

// NewMonitoring creates a Cloud Monitoring client on the shared connection pool.
func NewMonitoring(ctx context.Context, client *Client) (*Monitoring, error) {
	svc, err := monitoring.NewService(ctx, client.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create monitoring client: %w", err)
	}
	return &Monitoring{svc: svc}, nil
}

// buildTimeSeriesFilter converts a query into a Monitoring filter string
// scoped to one bucket.
func buildTimeSeriesFilter(q types.TimeSeriesQuery) string {
	return fmt.Sprintf(`metric.type=%q AND resource.labels.bucket_name=%q`, q.Metric, q.Bucket)
}

// ListTimeSeries returns the series for one metric and bucket in the query interval.
func (m *Monitoring) ListTimeSeries(ctx context.Context, q types.TimeSeriesQuery) ([]types.TimeSeries, error) {
	var series []types.TimeSeries
	err := m.svc.Projects.TimeSeries.List(projectName(q.Project)).
		Filter(buildTimeSeriesFilter(q)).
		IntervalStartTime(q.Start.UTC().Format(time.RFC3339)).
		IntervalEndTime(q.End.UTC().Format(time.RFC3339)).
		Pages(ctx, func(resp *monitoring.ListTimeSeriesResponse) error {
			for _, ts := range resp.TimeSeries {
				series = append(series, toTimeSeries(ts))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list time series %s for bucket %s: %w", q.Metric, q.Bucket, err)
	}
	return series, nil
}

// toTimeSeries converts a Monitoring API series to the typed model.
func toTimeSeries(ts *monitoring.TimeSeries) types.TimeSeries {
	out := types.TimeSeries{MetricLabels: map[string]string{}}
	if ts.Metric != nil {
		for k, v := range ts.Metric.Labels {
			out.MetricLabels[k] = v
		}
	}
	for _, p := range ts.Points {
		if p == nil || p.Value == nil {
			continue
		}
		out.Points = append(out.Points, types.MetricPoint{
			Int64:  p.Value.Int64Value,
			Double: p.Value.DoubleValue,
		})
	}
	return out
}
