package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vietdv277/bucketscope/pkg/provider"
)

// ProjectStatus is the final state of a candidate project in a run
type ProjectStatus string

const (
	StatusAdmitted  ProjectStatus = "admitted"
	StatusCollected ProjectStatus = "collected"
	StatusFailed    ProjectStatus = "failed"
	StatusSkipped   ProjectStatus = "skipped"
)

// ProjectReport summarizes one candidate project
type ProjectReport struct {
	ProjectID  string
	Status     ProjectStatus
	SkipReason SkipReason
	Buckets    int
	Records    int
	Err        error
}

// Report summarizes a whole run
type Report struct {
	RunID    string
	Projects []ProjectReport
	Records  int
	Final    *FinalizeResult
}

// Run executes the inventory pipeline: resolve the project scope, collect
// every admitted project concurrently, then finalize exactly once whether or
// not collection failed. The first collection error is returned after all
// projects have finished, joined with any finalization error.
func Run(ctx context.Context, s *Session, uploaders []provider.Uploader) (report *Report, err error) {
	if err := s.Config.validate(); err != nil {
		return nil, err
	}
	if s.Services.Storage == nil || s.Services.Monitoring == nil {
		return nil, ErrNoServices
	}
	log := s.logger()

	// Records left by an earlier run must not reach this report
	if err := os.Remove(s.Config.TextFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale intermediate file: %w", err)
	}

	res, err := Resolve(ctx, s)
	if err != nil {
		return nil, err
	}

	report = &Report{RunID: s.Config.RunID, Projects: skippedProjects(res)}

	writer := NewWriter(s.Config.TextFileName)
	log.Info("Writing records", zap.String("file", writer.Path()))

	defer func() {
		if cerr := writer.Close(); cerr != nil {
			log.Error("Closing intermediate file failed", zap.Error(cerr))
		}
		s.observer().Finalizing()
		final, ferr := Finalize(ctx, s, uploaders)
		report.Final = final
		report.Records = writer.Records()
		sortProjects(report.Projects)
		err = errors.Join(err, ferr)
	}()

	var mu sync.Mutex
	var g errgroup.Group
	if s.Config.MaxConcurrency > 0 {
		g.SetLimit(s.Config.MaxConcurrency)
	}

	if len(res.Admitted) > 0 {
		log.Info("Project tasks created, awaiting", zap.Int("tasks", len(res.Admitted)))
	}
	for _, p := range res.Admitted {
		s.observer().ProjectQueued(p.ID)
	}

	for _, p := range res.Admitted {
		projectID := p.ID
		g.Go(func() error {
			s.observer().ProjectStarted(projectID)
			result, cerr := CollectProject(ctx, s, projectID, writer)
			s.observer().ProjectFinished(projectID, result, cerr)

			pr := ProjectReport{
				ProjectID: projectID,
				Status:    StatusCollected,
				Buckets:   result.Buckets,
				Records:   result.Records,
			}
			if cerr != nil {
				pr.Status = StatusFailed
				pr.Err = cerr
				log.Error("Project collection failed", zap.String("project", projectID), zap.Error(cerr))
			}

			mu.Lock()
			report.Projects = append(report.Projects, pr)
			mu.Unlock()

			if cerr != nil {
				return fmt.Errorf("project %s: %w", projectID, cerr)
			}
			return nil
		})
	}

	return report, g.Wait()
}

// ResolutionReport describes an admission pass without collection, listing
// admitted and skipped projects.
func ResolutionReport(runID string, res *Resolution) *Report {
	report := &Report{RunID: runID, Projects: skippedProjects(res)}
	for _, p := range res.Admitted {
		report.Projects = append(report.Projects, ProjectReport{ProjectID: p.ID, Status: StatusAdmitted})
	}
	sortProjects(report.Projects)
	return report
}

func skippedProjects(res *Resolution) []ProjectReport {
	projects := make([]ProjectReport, 0, len(res.Candidates))
	for _, skip := range res.Skipped {
		projects = append(projects, ProjectReport{
			ProjectID:  skip.ProjectID,
			Status:     StatusSkipped,
			SkipReason: skip.Reason,
			Err:        skip.Err,
		})
	}
	return projects
}

// sortProjects orders the report by project ID
func sortProjects(projects []ProjectReport) {
	sort.Slice(projects, func(i, j int) bool { return projects[i].ProjectID < projects[j].ProjectID })
}
