package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/models"
)

const (
	bytesPerMB     = 1 << 20
	presignExpires = 15 * time.Minute
)

var storageKeyUnsafe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// FileService handles upload, download, listing and deletion of files.
// Bytes go to the object store; the logical location (parent folder and
// materialized path) is metadata kept alongside.
type FileService struct {
	files   FileStore
	folders FolderStore
	users   UserStore
	access  *AccessResolver
	blobs   ObjectStore
	policy  config.UploadConfig
}

func NewFileService(files FileStore, folders FolderStore, users UserStore, access *AccessResolver, blobs ObjectStore, policy config.UploadConfig) *FileService {
	return &FileService{files: files, folders: folders, users: users, access: access, blobs: blobs, policy: policy}
}

type UploadInput struct {
	Name           string
	ContentType    string
	Size           int64
	Content        io.Reader
	ParentFolderID *uuid.UUID // nil = root level
}

// Upload validates the policy, stores the bytes, then persists metadata.
// The policy check runs before anything is written so a rejected upload
// leaves no trace.
func (s *FileService) Upload(ctx context.Context, caller Caller, in UploadInput) (*FileResponse, error) {
	if err := s.validateUpload(in); err != nil {
		return nil, err
	}

	parentPath := ""
	if in.ParentFolderID != nil {
		parent, err := s.folders.GetByID(ctx, *in.ParentFolderID)
		if err != nil {
			return nil, err
		}
		if err := s.access.CheckEntityAccess(caller, parent.OwnerID); err != nil {
			return nil, err
		}
		if parent.OwnerID != caller.ID {
			return nil, fmt.Errorf("%w: parent folder does not belong to you", apperrors.ErrPermissionDenied)
		}
		parentPath = parent.Path
	}

	key := buildStorageKey(caller.ID, in.Name)
	if err := s.blobs.Put(ctx, key, in.Content, in.Size, in.ContentType); err != nil {
		return nil, err
	}

	file := &models.File{
		OriginalName:   in.Name,
		StorageKey:     key,
		ContentType:    in.ContentType,
		Size:           in.Size,
		OwnerID:        caller.ID,
		ParentFolderID: in.ParentFolderID,
		Path:           parentPath + "/" + in.Name,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}

	log.Printf("File uploaded: %s (%s) by user %s", file.ID, key, caller.ID)

	resp := fileResponse(file, ownerEmail(ctx, s.users, file.OwnerID))
	return &resp, nil
}

// Get returns file metadata after an access check.
func (s *FileService) Get(ctx context.Context, caller Caller, fileID uuid.UUID) (*FileResponse, error) {
	file, err := s.getWithAccessCheck(ctx, caller, fileID)
	if err != nil {
		return nil, err
	}
	resp := fileResponse(file, ownerEmail(ctx, s.users, file.OwnerID))
	return &resp, nil
}

// Download fetches the stored bytes along with the metadata needed to
// serve them (name, content type).
func (s *FileService) Download(ctx context.Context, caller Caller, fileID uuid.UUID) (*models.File, []byte, error) {
	file, err := s.getWithAccessCheck(ctx, caller, fileID)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.blobs.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return file, content, nil
}

// PresignDownload returns a short-lived URL the client can fetch the blob
// from directly.
func (s *FileService) PresignDownload(ctx context.Context, caller Caller, fileID uuid.UUID) (string, *models.File, error) {
	file, err := s.getWithAccessCheck(ctx, caller, fileID)
	if err != nil {
		return "", nil, err
	}
	url, err := s.blobs.PresignGet(ctx, file.StorageKey, presignExpires)
	if err != nil {
		return "", nil, err
	}
	return url, file, nil
}

// List returns all files the caller may see, newest first: everything for
// admins, own files otherwise.
func (s *FileService) List(ctx context.Context, caller Caller) ([]FileResponse, error) {
	var (
		files []models.File
		err   error
	)
	if caller.IsAdmin() {
		files, err = s.files.ListAll(ctx)
	} else {
		files, err = s.files.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]FileResponse, 0, len(files))
	for i := range files {
		responses = append(responses, fileResponse(&files[i], ownerEmail(ctx, s.users, files[i].OwnerID)))
	}
	return responses, nil
}

// Delete removes the blob and then the metadata row.
func (s *FileService) Delete(ctx context.Context, caller Caller, fileID uuid.UUID) error {
	file, err := s.getWithAccessCheck(ctx, caller, fileID)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, file.StorageKey); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, file.ID); err != nil {
		return err
	}
	log.Printf("File deleted: %s by user %s", fileID, caller.ID)
	return nil
}

func (s *FileService) getWithAccessCheck(ctx context.Context, caller Caller, fileID uuid.UUID) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckEntityAccess(caller, file.OwnerID); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *FileService) validateUpload(in UploadInput) error {
	if in.Size <= 0 {
		return fmt.Errorf("%w: file is empty", apperrors.ErrUploadRejected)
	}
	maxBytes := int64(s.policy.MaxSizeMB) * bytesPerMB
	if in.Size > maxBytes {
		return fmt.Errorf("%w: file size exceeds maximum limit of %d MB", apperrors.ErrUploadRejected, s.policy.MaxSizeMB)
	}
	if !s.isAllowedType(in.ContentType, in.Name) {
		return fmt.Errorf("%w: file type not allowed (allowed: %s)", apperrors.ErrUploadRejected, strings.Join(s.policy.AllowedTypes, ", "))
	}
	return nil
}

// isAllowedType accepts a file when either its extension or its MIME type
// maps to the configured allowlist.
func (s *FileService) isAllowedType(contentType, filename string) bool {
	allowed := make(map[string]bool, len(s.policy.AllowedTypes))
	for _, t := range s.policy.AllowedTypes {
		allowed[t] = true
	}

	if ext := fileExtension(filename); ext != "" && allowed[ext] {
		return true
	}

	switch contentType {
	case "text/plain":
		return allowed["txt"]
	case "application/json":
		return allowed["json"]
	case "application/pdf":
		return allowed["pdf"]
	case "image/jpeg":
		return allowed["jpg"] || allowed["jpeg"]
	case "image/png":
		return allowed["png"]
	case "image/gif":
		return allowed["gif"]
	case "image/webp":
		return allowed["webp"]
	}
	return false
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// buildStorageKey derives the opaque blob key. The key is unrelated to the
// logical path, so renames never touch the object store.
// Format: vaultbox/{ownerId}/{8-char-random}_{sanitizedName}
func buildStorageKey(ownerID uuid.UUID, originalName string) string {
	name := storageKeyUnsafe.ReplaceAllString(originalName, "_")
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("vaultbox/%s/%s_%s", ownerID, uuid.NewString()[:8], name)
}
