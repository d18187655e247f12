package inventory

import "github.com/vietdv277/bucketscope/pkg/types"

// Observer receives pipeline progress events. Methods are called from
// concurrent project goroutines and must be safe for concurrent use.
type Observer interface {
	ProjectQueued(projectID string)
	ProjectStarted(projectID string)
	RecordWritten(projectID string, rec *types.OutputRecord)
	ProjectFinished(projectID string, result ProjectResult, err error)
	Finalizing()
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) ProjectQueued(string) {}
func (NopObserver) ProjectStarted(string) {}
func (NopObserver) RecordWritten(string, *types.OutputRecord) {}
func (NopObserver) ProjectFinished(string, ProjectResult, error) {}
func (NopObserver) Finalizing() {}
