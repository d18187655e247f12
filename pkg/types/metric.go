package types

import (
	"math"
	"time"
)

// Storage metric types published by Cloud Monitoring
const (
	MetricObjectCount = "storage.googleapis.com/storage/object_count"
	MetricTotalBytes  = "storage.googleapis.com/storage/total_bytes"
)

// LabelStorageClass is the metric label that partitions storage series
const LabelStorageClass = "storage_class"

// TimeSeriesQuery selects one metric for one bucket over an interval
type TimeSeriesQuery struct {
	Project string
	Metric  string
	Bucket  string
	Start   time.Time
	End     time.Time
}

// TimeSeries is one returned series; Points are newest first
type TimeSeries struct {
	MetricLabels map[string]string `json:"metric_labels"`
	Points       []MetricPoint     `json:"points"`
}

// MetricPoint holds a typed point value. Exactly one field is normally set.
type MetricPoint struct {
	Int64  *int64   `json:"int64,omitempty"`
	Double *float64 `json:"double,omitempty"`
}

// StorageClass returns the storage class label of the series
func (ts *TimeSeries) StorageClass() string {
	if ts.MetricLabels == nil {
		return ""
	}
	return ts.MetricLabels[LabelStorageClass]
}

// LatestInt64 returns the newest point as an integer, or 0 without points
func (ts *TimeSeries) LatestInt64() int64 {
	if len(ts.Points) == 0 {
		return 0
	}
	p := ts.Points[0]
	switch {
	case p.Int64 != nil:
		return *p.Int64
	case p.Double != nil:
		return int64(math.Round(*p.Double))
	}
	return 0
}

// LatestDouble returns the newest point as a float, or 0 without points
func (ts *TimeSeries) LatestDouble() float64 {
	if len(ts.Points) == 0 {
		return 0
	}
	p := ts.Points[0]
	switch {
	case p.Double != nil:
		return *p.Double
	case p.Int64 != nil:
		return float64(*p.Int64)
	}
	return 0
}

// MetricSample maps storage class to a value for one bucket at one instant
type MetricSample map[string]int64
