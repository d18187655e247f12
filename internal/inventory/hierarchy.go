package inventory

import (
	"context"
	"fmt"

	"github.com/vietdv277/bucketscope/pkg/types"
)

// ResolveHierarchy returns the top-level folder and its immediate sub-folder
// for a project. Ancestry runs project first and organization last, so the
// top-level folder is the last folder seen before the organization.
func ResolveHierarchy(ctx context.Context, s *Session, projectID string) (types.FolderHierarchy, error) {
	var h types.FolderHierarchy

	ancestors, err := s.Services.Projects.Ancestry(ctx, projectID)
	if err != nil {
		return h, err
	}

	var folderIDs []string
	for _, a := range ancestors {
		if a.Type == types.AncestorFolder {
			folderIDs = append(folderIDs, a.ID)
		}
	}

	n := len(folderIDs)
	if n == 0 {
		return h, nil
	}

	top, err := s.Services.Projects.Folder(ctx, folderIDs[n-1])
	if err != nil {
		return types.FolderHierarchy{}, fmt.Errorf("resolve top-level folder: %w", err)
	}
	h.ParentFolder = top.DisplayName

	if n > 1 {
		sub, err := s.Services.Projects.Folder(ctx, folderIDs[n-2])
		if err != nil {
			return types.FolderHierarchy{}, fmt.Errorf("resolve sub-folder: %w", err)
		}
		h.SubFolder = sub.DisplayName
	}

	return h, nil
}
