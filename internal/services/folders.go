package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/models"
)

// Name rules match what the UI enforces: path-segment safe, 1-100 chars.
var folderNamePattern = regexp.MustCompile(`^[^/\\:*?"<>|]+$`)

// FolderService owns the folder tree: creation, rename with cascading
// path rewrite, recursive deletion and listings. Structural mutations are
// serialized per owner so two renames of overlapping subtrees cannot
// interleave their descendant rewrites.
type FolderService struct {
	folders FolderStore
	files   FileStore
	users   UserStore
	access  *AccessResolver
	blobs   ObjectStore
	locks   ownerLocks
}

func NewFolderService(folders FolderStore, files FileStore, users UserStore, access *AccessResolver, blobs ObjectStore) *FolderService {
	return &FolderService{folders: folders, files: files, users: users, access: access, blobs: blobs}
}

// ownerLocks hands out one mutex per owner id, created on first use.
type ownerLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sync.Mutex
}

func (l *ownerLocks) forOwner(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[uuid.UUID]*sync.Mutex)
	}
	lock, ok := l.m[id]
	if !ok {
		lock = &sync.Mutex{}
		l.m[id] = lock
	}
	return lock
}

// Create makes a folder under parentID (nil for root) owned by the caller.
func (s *FolderService) Create(ctx context.Context, caller Caller, name string, parentID *uuid.UUID) (*FolderResponse, error) {
	if err := validateFolderName(name); err != nil {
		return nil, err
	}

	lock := s.locks.forOwner(caller.ID)
	lock.Lock()
	defer lock.Unlock()

	parentPath := ""
	if parentID != nil {
		parent, err := s.getWithAccessCheck(ctx, caller, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.OwnerID != caller.ID {
			return nil, fmt.Errorf("%w: parent folder does not belong to you", apperrors.ErrPermissionDenied)
		}
		parentPath = parent.Path
	}

	exists, err := s.folders.ExistsInParent(ctx, caller.ID, parentID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: a folder named %q already exists in this location", apperrors.ErrDuplicateName, name)
	}

	folder := &models.Folder{
		Name:     name,
		ParentID: parentID,
		Path:     parentPath + "/" + name,
		OwnerID:  caller.ID,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	log.Printf("Folder created: %s by user %s", folder.ID, caller.ID)

	resp := folderResponse(folder, ownerEmail(ctx, s.users, folder.OwnerID))
	return &resp, nil
}

// Rename changes a folder's name and rewrites the materialized path of
// every descendant folder and file. Descendants are matched on the old
// path prefix, so the renamed folder itself is persisted last.
func (s *FolderService) Rename(ctx context.Context, caller Caller, folderID uuid.UUID, newName string) (*FolderResponse, error) {
	if err := validateFolderName(newName); err != nil {
		return nil, err
	}

	folder, err := s.getWithAccessCheck(ctx, caller, folderID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.forOwner(folder.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	// Reload under the lock: a mutation that won the lock first may have
	// moved this folder, and the cascade keys on the current path.
	folder, err = s.getWithAccessCheck(ctx, caller, folderID)
	if err != nil {
		return nil, err
	}

	exists, err := s.folders.ExistsInParentExcluding(ctx, folder.OwnerID, folder.ParentID, newName, folderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: a folder named %q already exists in this location", apperrors.ErrDuplicateName, newName)
	}

	oldPath := folder.Path
	newPath := oldPath[:strings.LastIndex(oldPath, "/")+1] + newName

	if err := s.rewriteDescendantPaths(ctx, folder.OwnerID, oldPath, newPath); err != nil {
		return nil, err
	}

	folder.Name = newName
	folder.Path = newPath
	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	log.Printf("Folder renamed: %s to %q by user %s", folderID, newName, caller.ID)

	resp := folderResponse(folder, ownerEmail(ctx, s.users, folder.OwnerID))
	return &resp, nil
}

// rewriteDescendantPaths substitutes oldPath for newPath on every row
// whose path starts with oldPath + "/". The materialized path already
// encodes full ancestry, so one flat pass covers all depths.
func (s *FolderService) rewriteDescendantPaths(ctx context.Context, ownerID uuid.UUID, oldPath, newPath string) error {
	descendants, err := s.folders.ListByPathPrefix(ctx, ownerID, oldPath+"/")
	if err != nil {
		return err
	}
	for i := range descendants {
		descendants[i].Path = newPath + descendants[i].Path[len(oldPath):]
		if err := s.folders.Update(ctx, &descendants[i]); err != nil {
			return err
		}
	}

	files, err := s.files.ListByPathPrefix(ctx, ownerID, oldPath+"/")
	if err != nil {
		return err
	}
	for i := range files {
		files[i].Path = newPath + files[i].Path[len(oldPath):]
		if err := s.files.Update(ctx, &files[i]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a folder and everything under it.
func (s *FolderService) Delete(ctx context.Context, caller Caller, folderID uuid.UUID) error {
	folder, err := s.getWithAccessCheck(ctx, caller, folderID)
	if err != nil {
		return err
	}

	lock := s.locks.forOwner(folder.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	folder, err = s.getWithAccessCheck(ctx, caller, folderID)
	if err != nil {
		return err
	}

	if err := s.deleteRecursive(ctx, folder); err != nil {
		return err
	}

	log.Printf("Folder deleted: %s by user %s", folderID, caller.ID)
	return nil
}

// deleteRecursive walks depth-first: subfolders, then this folder's files
// (blob first, then the metadata row), then the folder row itself. A blob
// that fails to delete is logged and skipped so one bad key cannot leave
// the rest of the subtree orphaned.
func (s *FolderService) deleteRecursive(ctx context.Context, folder *models.Folder) error {
	subfolders, err := s.folders.ListChildren(ctx, folder.ID)
	if err != nil {
		return err
	}
	for i := range subfolders {
		if err := s.deleteRecursive(ctx, &subfolders[i]); err != nil {
			return err
		}
	}

	files, err := s.files.ListByParentFolder(ctx, folder.ID)
	if err != nil {
		return err
	}
	for i := range files {
		if err := s.blobs.Delete(ctx, files[i].StorageKey); err != nil {
			log.Printf("Blob delete failed for key %s: %v", files[i].StorageKey, err)
		}
		if err := s.files.Delete(ctx, files[i].ID); err != nil {
			return err
		}
	}

	return s.folders.Delete(ctx, folder.ID)
}

// Get returns folder details after an access check.
func (s *FolderService) Get(ctx context.Context, caller Caller, folderID uuid.UUID) (*FolderResponse, error) {
	folder, err := s.getWithAccessCheck(ctx, caller, folderID)
	if err != nil {
		return nil, err
	}
	resp := folderResponse(folder, ownerEmail(ctx, s.users, folder.OwnerID))
	return &resp, nil
}

// List returns the folders directly under parentID for the effective
// owner, name-ascending. Admins may pass targetUserID to list another
// user's tree.
func (s *FolderService) List(ctx context.Context, caller Caller, parentID *uuid.UUID, targetUserID string) ([]FolderResponse, error) {
	ownerID, err := s.access.ResolveEffectiveOwner(ctx, caller, targetUserID)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.folders.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: folder does not belong to the target user", apperrors.ErrPermissionDenied)
		}
	}

	folders, err := s.folders.ListByParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	responses := make([]FolderResponse, 0, len(folders))
	for i := range folders {
		responses = append(responses, folderResponse(&folders[i], ownerEmail(ctx, s.users, folders[i].OwnerID)))
	}
	return responses, nil
}

// getWithAccessCheck loads a folder and verifies the caller may touch it.
func (s *FolderService) getWithAccessCheck(ctx context.Context, caller Caller, folderID uuid.UUID) (*models.Folder, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckEntityAccess(caller, folder.OwnerID); err != nil {
		return nil, err
	}
	return folder, nil
}

func validateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: folder name is required", apperrors.ErrInvalidArgument)
	}
	err := validation.Validate(name,
		validation.RuneLength(1, 100).Error("folder name must be between 1 and 100 characters"),
		validation.Match(folderNamePattern).Error(`folder name cannot contain / \ : * ? " < > |`),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

// ParseOptionalID turns a query/body id into a nullable uuid, treating
// blank as "root level".
func ParseOptionalID(raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed id %q", apperrors.ErrInvalidArgument, raw)
	}
	return &id, nil
}
