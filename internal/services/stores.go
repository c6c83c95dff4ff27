package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/models"
)

// Caller is the authenticated identity the transport layer resolved from
// the request. Services never authenticate; they only authorize against it.
type Caller struct {
	ID   uuid.UUID
	Role models.Role
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// FolderStore is the folder half of the hierarchy store. Listings are
// ordered by name ascending (case-sensitive); SearchByName matches a
// case-insensitive substring and returns one page plus the total count.
type FolderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Folder, error)
	Create(ctx context.Context, folder *models.Folder) error
	Update(ctx context.Context, folder *models.Folder) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]models.Folder, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Folder, error)
	ListByPathPrefix(ctx context.Context, ownerID uuid.UUID, prefix string) ([]models.Folder, error)
	ExistsInParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string) (bool, error)
	ExistsInParentExcluding(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	SearchByName(ctx context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]models.Folder, int64, error)
}

// FileStore is the file half of the hierarchy store.
type FileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	Create(ctx context.Context, file *models.File) error
	Update(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByFolder(ctx context.Context, ownerID uuid.UUID, parentFolderID *uuid.UUID) ([]models.File, error)
	ListByParentFolder(ctx context.Context, parentFolderID uuid.UUID) ([]models.File, error)
	ListByPathPrefix(ctx context.Context, ownerID uuid.UUID, prefix string) ([]models.File, error)
	ListAll(ctx context.Context) ([]models.File, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.File, error)
	SearchByName(ctx context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]models.File, int64, error)
}

// UserStore is the user directory collaborator.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	ListAll(ctx context.Context) ([]models.User, error)
}

// ObjectStore is the blob collaborator. Delete is idempotent: removing a
// key that is already gone is not an error.
type ObjectStore interface {
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
