package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/models"
	"gorm.io/gorm"
)

// FolderRepo is the gorm-backed folder half of the hierarchy store.
type FolderRepo struct {
	db *gorm.DB
}

func NewFolderRepo(db *gorm.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

func (r *FolderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, storageErr("get folder", err)
	}
	return &folder, nil
}

func (r *FolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		return storageErr("create folder", err)
	}
	return nil
}

func (r *FolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Save(folder).Error; err != nil {
		return storageErr("update folder", err)
	}
	return nil
}

func (r *FolderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Folder{}, "id = ?", id).Error; err != nil {
		return storageErr("delete folder", err)
	}
	return nil
}

func (r *FolderRepo) ListByParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	tx := scopeParent(r.db.WithContext(ctx).Where("owner_id = ?", ownerID), "parent_id", parentID)
	if err := tx.Order("name ASC").Find(&folders).Error; err != nil {
		return nil, storageErr("list folders", err)
	}
	return folders, nil
}

func (r *FolderRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Find(&folders).Error; err != nil {
		return nil, storageErr("list subfolders", err)
	}
	return folders, nil
}

func (r *FolderRepo) ListByPathPrefix(ctx context.Context, ownerID uuid.UUID, prefix string) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND path LIKE ?", ownerID, escapeLike(prefix)+"%").
		Find(&folders).Error
	if err != nil {
		return nil, storageErr("list folders by path prefix", err)
	}
	return folders, nil
}

func (r *FolderRepo) ExistsInParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string) (bool, error) {
	var count int64
	tx := scopeParent(r.db.WithContext(ctx).Model(&models.Folder{}).
		Where("owner_id = ? AND name = ?", ownerID, name), "parent_id", parentID)
	if err := tx.Count(&count).Error; err != nil {
		return false, storageErr("check folder name", err)
	}
	return count > 0, nil
}

func (r *FolderRepo) ExistsInParentExcluding(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	tx := scopeParent(r.db.WithContext(ctx).Model(&models.Folder{}).
		Where("owner_id = ? AND name = ? AND id <> ?", ownerID, name, excludeID), "parent_id", parentID)
	if err := tx.Count(&count).Error; err != nil {
		return false, storageErr("check folder name", err)
	}
	return count > 0, nil
}

func (r *FolderRepo) SearchByName(ctx context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]models.Folder, int64, error) {
	pattern := "%" + escapeLike(query) + "%"
	base := r.db.WithContext(ctx).Model(&models.Folder{}).
		Where("owner_id = ? AND name ILIKE ?", ownerID, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, storageErr("count folder matches", err)
	}

	var folders []models.Folder
	if err := base.Order("name ASC").Limit(limit).Offset(offset).Find(&folders).Error; err != nil {
		return nil, 0, storageErr("search folders", err)
	}
	return folders, total, nil
}

// scopeParent adds the nullable parent filter: nil means root level.
func scopeParent(tx *gorm.DB, column string, parentID *uuid.UUID) *gorm.DB {
	if parentID == nil {
		return tx.Where(column + " IS NULL")
	}
	return tx.Where(column+" = ?", *parentID)
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrStorageFailure, op, err)
}
