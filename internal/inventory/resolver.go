package inventory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/pkg/provider"
	"github.com/vietdv277/bucketscope/pkg/types"
)

// SkipReason explains why a candidate project was not admitted
type SkipReason string

const (
	SkipBilling    SkipReason = "billing disabled"
	SkipAPI        SkipReason = "api disabled"
	SkipPermission SkipReason = "permission missing"
)

// Skip is a candidate project that failed an admission check
type Skip struct {
	ProjectID string
	Reason    SkipReason
	Err       error // Lookup failure behind the skip, if any
}

// Resolution is the outcome of resolving the project scope
type Resolution struct {
	Candidates []string
	Admitted   []types.Project
	Skipped    []Skip
}

// Resolve produces the admitted project set. An explicit project list is used
// verbatim; otherwise all active projects are discovered, and an empty
// discovery is a fatal configuration error. Each candidate is then checked
// sequentially for billing, the required API and the required permissions.
func Resolve(ctx context.Context, s *Session) (*Resolution, error) {
	if s.Services.Billing == nil || s.Services.ServiceUsage == nil || s.Services.Projects == nil {
		return nil, ErrNoServices
	}
	log := s.logger()

	candidates, err := candidateProjects(ctx, s)
	if err != nil {
		return nil, err
	}
	log.Info("Processing projects", zap.Int("count", len(candidates)))

	res := &Resolution{Candidates: candidates}
	for i, id := range candidates {
		log.Info("Checking project",
			zap.String("project", id),
			zap.Int("index", i+1),
			zap.Int("total", len(candidates)))

		project, skip := admit(ctx, s, id)
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		res.Admitted = append(res.Admitted, *project)
	}
	return res, nil
}

// candidateProjects returns the explicit scope, or every active project
func candidateProjects(ctx context.Context, s *Session) ([]string, error) {
	log := s.logger()

	if len(s.Config.ProjectIDs) > 0 {
		log.Info("Project(s) specified in arguments, scoping to these projects only",
			zap.Int("count", len(s.Config.ProjectIDs)))
		return append([]string(nil), s.Config.ProjectIDs...), nil
	}

	log.Info("All projects required, listing active projects")
	active, err := s.Services.Projects.ListActiveProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoActiveProjects, err)
	}
	if len(active) == 0 {
		return nil, ErrNoActiveProjects
	}

	ids := make([]string, 0, len(active))
	for _, p := range active {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// admit runs the three admission checks for one project. A lookup error is
// treated like a failed check: the project is skipped, the run continues.
func admit(ctx context.Context, s *Session, id string) (*types.Project, *Skip) {
	log := s.logger().With(zap.String("project", id))
	project := &types.Project{ID: id}

	enabled, err := s.Services.Billing.BillingEnabled(ctx, id)
	if err != nil || !enabled {
		log.Warn("Billing is not enabled for the project. Enable billing to enable API access", zap.Error(err))
		return nil, &Skip{ProjectID: id, Reason: SkipBilling, Err: err}
	}
	project.BillingEnabled = true

	api := s.Config.requiredAPI()
	services, err := s.Services.ServiceUsage.EnabledServices(ctx, id)
	project.EnabledAPIs = services
	if err != nil || !project.HasAPI(api) {
		log.Warn("Required API is not enabled for the project", zap.String("api", api), zap.Error(err))
		return nil, &Skip{ProjectID: id, Reason: SkipAPI, Err: err}
	}
	log.Debug("Required API enabled", zap.String("api", api))

	permissions := s.Config.requiredPermissions()
	granted, err := s.Services.Projects.TestPermissions(ctx, id, permissions)
	project.Permissions = granted
	if err == nil && !project.HasPermissions(permissions) {
		err = fmt.Errorf("%w: %s", provider.ErrPermissionDenied, strings.Join(missing(permissions, granted), ", "))
	}
	if err != nil {
		log.Warn("Required permissions were not found for the project",
			zap.Strings("permissions", permissions), zap.Error(err))
		return nil, &Skip{ProjectID: id, Reason: SkipPermission, Err: err}
	}

	return project, nil
}

// missing returns the entries of want absent from granted
func missing(want, granted []string) []string {
	have := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		have[g] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := have[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
