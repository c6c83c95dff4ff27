package models

import (
	"time"

	"github.com/google/uuid"
)

// File is uploaded content: bytes live in the object store under
// StorageKey, the logical location lives here. Path mirrors the folder
// convention, ending in OriginalName.
type File struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OriginalName   string     `json:"originalName" gorm:"not null;index:idx_files_owner_name,priority:2"`
	StorageKey     string     `json:"-" gorm:"uniqueIndex;not null"`
	ContentType    string     `json:"contentType"`
	Size           int64      `json:"size" gorm:"not null"`
	OwnerID        uuid.UUID  `json:"ownerId" gorm:"type:uuid;not null;index:idx_files_owner_folder,priority:1;index:idx_files_owner_name,priority:1"`
	ParentFolderID *uuid.UUID `json:"parentFolderId" gorm:"type:uuid;index:idx_files_owner_folder,priority:2"` // nil = root level
	Path           string     `json:"path" gorm:"index"`
	UploadedAt     time.Time  `json:"uploadedAt" gorm:"autoCreateTime"`
}
