package gcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	crmv1 "google.golang.org/api/cloudresourcemanager/v1"
	crmv3 "google.golang.org/api/cloudresourcemanager/v3"

	"github.com/vietdv277/bucketscope/pkg/types"
)

// ProjectDirectory implements provider.ProjectDirectory on the Resource
// Manager API. Projects use v1 (ancestry is only exposed there) and folders
// use v3.
type ProjectDirectory struct {
	projects *crmv1.Service
	folders  *crmv3.Service
}

// NewProjectDirectory creates Resource Manager clients on the shared connection pool.
func NewProjectDirectory(ctx context.Context, client *Client) (*ProjectDirectory, error) {
	v1, err := crmv1.NewService(ctx, client.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create resource manager v1 client: %w", err)
	}
	v3, err := crmv3.NewService(ctx, client.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create resource manager v3 client: %w", err)
	}
	return &ProjectDirectory{projects: v1, folders: v3}, nil
}

// ListActiveProjects returns every ACTIVE project visible to the caller.
func (d *ProjectDirectory) ListActiveProjects(ctx context.Context) ([]types.Project, error) {
	var projects []types.Project
	err := d.projects.Projects.List().
		Filter("lifecycleState:ACTIVE").
		Pages(ctx, func(resp *crmv1.ListProjectsResponse) error {
			for _, p := range resp.Projects {
				projects = append(projects, types.Project{
					ID:     p.ProjectId,
					Number: strconv.FormatInt(p.ProjectNumber, 10),
					Name:   p.Name,
				})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list active projects: %w", err)
	}
	return projects, nil
}

// TestPermissions returns the subset of permissions the caller holds on the project.
func (d *ProjectDirectory) TestPermissions(ctx context.Context, projectID string, permissions []string) ([]string, error) {
	resp, err := d.projects.Projects.TestIamPermissions(projectID, &crmv1.TestIamPermissionsRequest{
		Permissions: permissions,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("test iam permissions for %s: %w", projectID, err)
	}
	return resp.Permissions, nil
}

// Ancestry returns the project's ancestors, project first, organization last.
func (d *ProjectDirectory) Ancestry(ctx context.Context, projectID string) ([]types.Ancestor, error) {
	resp, err := d.projects.Projects.GetAncestry(projectID, &crmv1.GetAncestryRequest{}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get ancestry for %s: %w", projectID, err)
	}

	ancestors := make([]types.Ancestor, 0, len(resp.Ancestor))
	for _, a := range resp.Ancestor {
		if a.ResourceId == nil {
			continue
		}
		ancestors = append(ancestors, types.Ancestor{
			Type: a.ResourceId.Type,
			ID:   a.ResourceId.Id,
		})
	}
	return ancestors, nil
}

// Folder returns a folder by numeric ID.
func (d *ProjectDirectory) Folder(ctx context.Context, folderID string) (*types.Folder, error) {
	name := folderID
	if !strings.HasPrefix(name, "folders/") {
		name = "folders/" + folderID
	}
	f, err := d.folders.Folders.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get folder %s: %w", folderID, err)
	}
	return &types.Folder{
		ID:          strings.TrimPrefix(f.Name, "folders/"),
		DisplayName: f.DisplayName,
	}, nil
}
