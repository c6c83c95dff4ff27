package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/models"
	"gorm.io/gorm"
)

// FileRepo is the gorm-backed file half of the hierarchy store.
type FileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) *FileRepo {
	return &FileRepo{db: db}
}

func (r *FileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: file %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, storageErr("get file", err)
	}
	return &file, nil
}

func (r *FileRepo) Create(ctx context.Context, file *models.File) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return storageErr("create file", err)
	}
	return nil
}

func (r *FileRepo) Update(ctx context.Context, file *models.File) error {
	if err := r.db.WithContext(ctx).Save(file).Error; err != nil {
		return storageErr("update file", err)
	}
	return nil
}

func (r *FileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.File{}, "id = ?", id).Error; err != nil {
		return storageErr("delete file", err)
	}
	return nil
}

func (r *FileRepo) ListByFolder(ctx context.Context, ownerID uuid.UUID, parentFolderID *uuid.UUID) ([]models.File, error) {
	var files []models.File
	tx := scopeParent(r.db.WithContext(ctx).Where("owner_id = ?", ownerID), "parent_folder_id", parentFolderID)
	if err := tx.Order("original_name ASC").Find(&files).Error; err != nil {
		return nil, storageErr("list files", err)
	}
	return files, nil
}

func (r *FileRepo) ListByParentFolder(ctx context.Context, parentFolderID uuid.UUID) ([]models.File, error) {
	var files []models.File
	if err := r.db.WithContext(ctx).Where("parent_folder_id = ?", parentFolderID).Find(&files).Error; err != nil {
		return nil, storageErr("list folder files", err)
	}
	return files, nil
}

func (r *FileRepo) ListByPathPrefix(ctx context.Context, ownerID uuid.UUID, prefix string) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND path LIKE ?", ownerID, escapeLike(prefix)+"%").
		Find(&files).Error
	if err != nil {
		return nil, storageErr("list files by path prefix", err)
	}
	return files, nil
}

func (r *FileRepo) ListAll(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, storageErr("list all files", err)
	}
	return files, nil
}

func (r *FileRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, storageErr("list owner files", err)
	}
	return files, nil
}

func (r *FileRepo) SearchByName(ctx context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]models.File, int64, error) {
	pattern := "%" + escapeLike(query) + "%"
	base := r.db.WithContext(ctx).Model(&models.File{}).
		Where("owner_id = ? AND original_name ILIKE ?", ownerID, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, storageErr("count file matches", err)
	}

	var files []models.File
	if err := base.Order("original_name ASC").Limit(limit).Offset(offset).Find(&files).Error; err != nil {
		return nil, 0, storageErr("search files", err)
	}
	return files, total, nil
}
