package services

import (
	"context"
	"strings"

	"go-discussions/internal/domain"
	folderrepo "go-discussions/internal/repository/folder"
	recipientrepo "go-discussions/internal/repository/recipient"
	discussionservice "go-discussions/internal/services/discussion"
)

// FolderService manages user-owned folders over the recipient ledger.
type FolderService struct {
	folderRepo    folderrepo.FolderRepository
	recipientRepo recipientrepo.RecipientRepository
	logger        Logger
}

func NewFolderService(folderRepo folderrepo.FolderRepository, recipientRepo recipientrepo.RecipientRepository, logger Logger) *FolderService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &FolderService{
		folderRepo:    folderRepo,
		recipientRepo: recipientRepo,
		logger:        logger,
	}
}

func (s *FolderService) Create(ctx context.Context, userID uint, name string) (*domain.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, discussionservice.NewValidationError("create_folder", "folder name cannot be empty")
	}

	created, err := s.folderRepo.Create(ctx, &domain.Folder{UserID: userID, Name: name})
	if err != nil {
		return nil, discussionservice.NewStorageError("create_folder", "could not create folder", err)
	}

	s.logger.Info("folder created", "folder_id", created.ID, "user_id", userID)
	return created, nil
}

func (s *FolderService) Get(ctx context.Context, userID, folderID uint) (*domain.Folder, error) {
	folderRecord, err := s.folderRepo.FindByIDAndUserID(ctx, folderID, userID)
	if err != nil {
		return nil, discussionservice.NewNotFoundError(userID, 0)
	}
	return folderRecord, nil
}

func (s *FolderService) List(ctx context.Context, userID uint) ([]domain.Folder, error) {
	folders, err := s.folderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, discussionservice.NewStorageError("list_folders", "could not load folders", err)
	}
	return folders, nil
}

func (s *FolderService) Update(ctx context.Context, userID, folderID uint, name string) (*domain.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, discussionservice.NewValidationError("update_folder", "folder name cannot be empty")
	}

	folderRecord, err := s.folderRepo.FindByIDAndUserID(ctx, folderID, userID)
	if err != nil {
		return nil, discussionservice.NewNotFoundError(userID, 0)
	}

	folderRecord.Name = name
	if err := s.folderRepo.Update(ctx, folderRecord); err != nil {
		return nil, discussionservice.NewStorageError("update_folder", "could not update folder", err)
	}

	return folderRecord, nil
}

// Delete removes a folder after detaching every recipient row that points at
// it. The rows themselves always survive the folder.
func (s *FolderService) Delete(ctx context.Context, userID, folderID uint) error {
	if _, err := s.folderRepo.FindByIDAndUserID(ctx, folderID, userID); err != nil {
		return discussionservice.NewNotFoundError(userID, 0)
	}

	if err := s.recipientRepo.DetachFolder(ctx, folderID); err != nil {
		return discussionservice.NewStorageError("delete_folder", "could not detach recipients", err)
	}

	if err := s.folderRepo.Delete(ctx, folderID, userID); err != nil {
		return discussionservice.NewStorageError("delete_folder", "could not delete folder", err)
	}

	s.logger.Info("folder deleted", "folder_id", folderID, "user_id", userID)
	return nil
}
