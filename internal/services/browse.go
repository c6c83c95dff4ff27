package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/models"
)

// maxBreadcrumbDepth caps the upward walk. The tree never cycles by
// construction, but corrupted data must not hang a request.
const maxBreadcrumbDepth = 1000

// BrowseService answers "what's inside folder X": current folder info,
// breadcrumb, and the child folders and files as two name-sorted lists.
type BrowseService struct {
	folders FolderStore
	files   FileStore
	users   UserStore
	access  *AccessResolver
}

func NewBrowseService(folders FolderStore, files FileStore, users UserStore, access *AccessResolver) *BrowseService {
	return &BrowseService{folders: folders, files: files, users: users, access: access}
}

// Browse lists the contents of parentID (nil for root) for the effective
// owner. Admins may pass targetUserID to browse another user's tree.
func (s *BrowseService) Browse(ctx context.Context, caller Caller, parentID *uuid.UUID, targetUserID string) (*BrowseResponse, error) {
	ownerID, err := s.access.ResolveEffectiveOwner(ctx, caller, targetUserID)
	if err != nil {
		return nil, err
	}

	resp := &BrowseResponse{
		Breadcrumb: []BreadcrumbItem{rootBreadcrumb()},
	}

	if parentID != nil {
		folder, err := s.folders.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if folder.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: folder does not belong to the target user", apperrors.ErrPermissionDenied)
		}
		if err := s.access.CheckEntityAccess(caller, folder.OwnerID); err != nil {
			return nil, err
		}

		current := folderResponse(folder, ownerEmail(ctx, s.users, folder.OwnerID))
		resp.CurrentFolder = &current

		trail, err := s.buildBreadcrumb(ctx, folder)
		if err != nil {
			return nil, err
		}
		resp.Breadcrumb = append(resp.Breadcrumb, trail...)
	}

	folders, err := s.folders.ListByParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	resp.Folders = make([]FolderResponse, 0, len(folders))
	for i := range folders {
		resp.Folders = append(resp.Folders, folderResponse(&folders[i], ownerEmail(ctx, s.users, folders[i].OwnerID)))
	}

	files, err := s.files.ListByFolder(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	resp.Files = make([]FileResponse, 0, len(files))
	for i := range files {
		resp.Files = append(resp.Files, fileResponse(&files[i], ownerEmail(ctx, s.users, files[i].OwnerID)))
	}

	return resp, nil
}

// buildBreadcrumb walks parent pointers up from folder and returns the
// chain in root-to-leaf order, without the synthetic root entry. A parent
// that cannot be found ends the walk instead of failing it, so a broken
// link still renders a partial trail.
func (s *BrowseService) buildBreadcrumb(ctx context.Context, folder *models.Folder) ([]BreadcrumbItem, error) {
	var chain []BreadcrumbItem

	current := folder
	for hops := 0; current != nil; hops++ {
		if hops >= maxBreadcrumbDepth {
			return nil, fmt.Errorf("%w: folder ancestry exceeds %d levels", apperrors.ErrStorageFailure, maxBreadcrumbDepth)
		}

		id := current.ID
		chain = append(chain, BreadcrumbItem{ID: &id, Name: current.Name})

		if current.ParentID == nil {
			break
		}
		parent, err := s.folders.GetByID(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				break
			}
			return nil, err
		}
		current = parent
	}

	// Walked leaf-to-root; flip it.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
