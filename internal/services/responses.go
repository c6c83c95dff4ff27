package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/models"
)

type FolderResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parentId"`
	Path       string     `json:"path"`
	OwnerID    uuid.UUID  `json:"ownerId"`
	OwnerEmail string     `json:"ownerEmail"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func folderResponse(f *models.Folder, ownerEmail string) FolderResponse {
	return FolderResponse{
		ID:         f.ID,
		Name:       f.Name,
		ParentID:   f.ParentID,
		Path:       f.Path,
		OwnerID:    f.OwnerID,
		OwnerEmail: ownerEmail,
		CreatedAt:  f.CreatedAt,
	}
}

type FileResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Path        string    `json:"path"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OwnerEmail  string    `json:"ownerEmail"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Viewable    bool      `json:"viewable"`
}

func fileResponse(f *models.File, ownerEmail string) FileResponse {
	return FileResponse{
		ID:          f.ID,
		Name:        f.OriginalName,
		ContentType: f.ContentType,
		Size:        f.Size,
		Path:        f.Path,
		OwnerID:     f.OwnerID,
		OwnerEmail:  ownerEmail,
		UploadedAt:  f.UploadedAt,
		Viewable:    IsViewableType(f.ContentType),
	}
}

// BreadcrumbItem is one hop of the root-to-folder chain. A nil ID marks
// the synthetic root entry.
type BreadcrumbItem struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name"`
}

func rootBreadcrumb() BreadcrumbItem { return BreadcrumbItem{Name: "Root"} }

type BrowseResponse struct {
	CurrentFolder *FolderResponse  `json:"currentFolder"`
	Breadcrumb    []BreadcrumbItem `json:"breadcrumb"`
	Folders       []FolderResponse `json:"folders"`
	Files         []FileResponse   `json:"files"`
}

const (
	ItemTypeFolder = "folder"
	ItemTypeFile   = "file"
)

// SearchResultItem is the unified shape for folder and file matches.
// ContentType, Size and Viewable are only meaningful for files.
type SearchResultItem struct {
	Type        string    `json:"type"`
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OwnerEmail  string    `json:"ownerEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	ContentType string    `json:"contentType,omitempty"`
	Size        *int64    `json:"size,omitempty"`
	Viewable    bool      `json:"viewable"`
}

type SearchResponse struct {
	Results    []SearchResultItem `json:"results"`
	TotalCount int64              `json:"totalCount"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	TotalPages int                `json:"totalPages"`
}

type UserInfo struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IsViewableType reports whether content of this type renders inline in a
// browser rather than forcing a download.
func IsViewableType(contentType string) bool {
	if contentType == "" {
		return false
	}
	return strings.HasPrefix(contentType, "image/") ||
		contentType == "text/plain" ||
		contentType == "application/json" ||
		contentType == "application/pdf"
}
