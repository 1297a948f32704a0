package folder

import (
	"context"

	"go-discussions/internal/domain"
)

// FolderRepository handles user-owned folder labels.
type FolderRepository interface {
	Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error)
	FindByIDAndUserID(ctx context.Context, folderID, userID uint) (*domain.Folder, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Folder, error)
	Update(ctx context.Context, folder *domain.Folder) error
	Delete(ctx context.Context, folderID, userID uint) error
}
