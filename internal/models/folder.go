package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder is one node of a user's tree. The tree is stored twice: as an
// adjacency pointer (ParentID) and as a materialized path. Path is always
// "/" + the slash-joined ancestor names + the folder's own name; rename
// cascades the prefix to every descendant row.
type Folder struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string     `json:"name" gorm:"not null;index:idx_folders_owner_name,priority:2"`
	ParentID  *uuid.UUID `json:"parentId" gorm:"type:uuid;index:idx_folders_owner_parent,priority:2"` // nil = root level
	Path      string     `json:"path" gorm:"not null;index"`
	OwnerID   uuid.UUID  `json:"ownerId" gorm:"type:uuid;not null;index:idx_folders_owner_parent,priority:1;index:idx_folders_owner_name,priority:1"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}
