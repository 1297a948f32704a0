package folder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-discussions/internal/domain"
	"gorm.io/gorm"
)

var ErrFolderNotFound = errors.New("folder not found")

type gormFolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &gormFolderRepository{db: db}
}

func (r *gormFolderRepository) Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error) {
	if err := r.validateFolderInput(folder); err != nil {
		log.Printf("[FolderRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		log.Printf("[FolderRepository] Database error during folder creation for user ID %d: %v", folder.UserID, err)
		return nil, errors.New("database error creating folder")
	}

	log.Printf("[FolderRepository] Folder created successfully with ID: %d for user: %d", folder.ID, folder.UserID)
	return folder, nil
}

// FindByIDAndUserID scopes the lookup to the owner; other users get a
// not-found, never a peek at someone else's folder.
func (r *gormFolderRepository) FindByIDAndUserID(ctx context.Context, folderID, userID uint) (*domain.Folder, error) {
	if folderID == 0 || userID == 0 {
		return nil, errors.New("invalid folder ID or user ID")
	}

	var folder domain.Folder
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", folderID, userID).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		log.Printf("[FolderRepository] FindByIDAndUserID database error: %v", err)
		return nil, errors.New("database query failed")
	}

	return &folder, nil
}

func (r *gormFolderRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Folder, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var folders []domain.Folder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&folders).Error
	if err != nil {
		log.Printf("[FolderRepository] Database error finding folders for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching folders")
	}

	return folders, nil
}

func (r *gormFolderRepository) Update(ctx context.Context, folder *domain.Folder) error {
	if folder.ID == 0 {
		return errors.New("invalid folder ID")
	}

	if err := r.validateFolderInput(folder); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Folder{}).
		Where("id = ? AND user_id = ?", folder.ID, folder.UserID).
		Update("name", folder.Name)

	if result.Error != nil {
		log.Printf("[FolderRepository] Database error updating folder ID %d: %v", folder.ID, result.Error)
		return errors.New("database error updating folder")
	}

	if result.RowsAffected == 0 {
		return ErrFolderNotFound
	}

	return nil
}

// Delete removes the folder row only. Detaching the recipient rows that
// point at it is the service's job and must happen first.
func (r *gormFolderRepository) Delete(ctx context.Context, folderID, userID uint) error {
	if folderID == 0 || userID == 0 {
		return errors.New("invalid folder ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", folderID, userID).
		Delete(&domain.Folder{})

	if result.Error != nil {
		log.Printf("[FolderRepository] Database error deleting folder ID %d for user ID %d: %v", folderID, userID, result.Error)
		return errors.New("database error deleting folder")
	}

	if result.RowsAffected == 0 {
		return ErrFolderNotFound
	}

	log.Printf("[FolderRepository] Folder deleted successfully: ID %d for user %d", folderID, userID)
	return nil
}

func (r *gormFolderRepository) validateFolderInput(folder *domain.Folder) error {
	if folder == nil {
		return errors.New("folder cannot be nil")
	}

	if folder.UserID == 0 {
		return errors.New("user ID is required")
	}

	if strings.TrimSpace(folder.Name) == "" {
		return errors.New("folder name cannot be empty")
	}

	if len(folder.Name) > 255 {
		return errors.New("folder name must be 255 characters or less")
	}

	return nil
}
