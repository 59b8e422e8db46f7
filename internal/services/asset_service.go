package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/vault"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrServiceNameRequired = errors.New("service name is required")

// AssetService serves the files and credentials a user can see.
type AssetService struct {
	db    *gorm.DB
	vault *vault.Vault
}

func NewAssetService(db *gorm.DB, v *vault.Vault) *AssetService {
	return &AssetService{db: db, vault: v}
}

// visibleProjectIDs is a subquery over the projects user may see.
func (s *AssetService) visibleProjectIDs(user *models.User) *gorm.DB {
	return s.db.Model(&models.Project{}).Select("id").Scopes(VisibleProjects(user))
}

// Files lists files on visible projects plus the user's own uploads.
func (s *AssetService) Files(user *models.User) ([]models.File, error) {
	files := []models.File{}
	query := s.db.Scopes(database.Newest)
	if user.Role != models.RoleAdmin {
		query = query.Where("project_id IN (?) OR uploader_id = ?", s.visibleProjectIDs(user), user.ID)
	}
	if err := query.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Credentials lists visible credentials with passwords decrypted. A row
// that fails to decrypt is returned with an empty password.
func (s *AssetService) Credentials(user *models.User) ([]dto.CredentialResponse, error) {
	var creds []models.Credential
	query := s.db.Scopes(database.Newest)
	if user.Role != models.RoleAdmin {
		query = query.Where("project_id IN (?)", s.visibleProjectIDs(user))
	}
	if err := query.Find(&creds).Error; err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	out := make([]dto.CredentialResponse, 0, len(creds))
	for _, c := range creds {
		password, err := s.vault.Decrypt(c.Password)
		if err != nil {
			slog.Warn("failed to decrypt credential", "credential_id", c.ID, "error", err)
			password = ""
		}
		out = append(out, dto.CredentialResponse{
			ID:             c.ID,
			ServiceName:    c.ServiceName,
			Username:       c.Username,
			Password:       password,
			AdditionalInfo: c.AdditionalInfo,
			ProjectID:      c.ProjectID,
			CreatedAt:      c.CreatedAt,
		})
	}
	return out, nil
}

func (s *AssetService) AddCredential(user *models.User, req *dto.CreateCredentialRequest) (*dto.CredentialResponse, error) {
	name := strings.TrimSpace(req.ServiceName)
	if name == "" {
		return nil, ErrServiceNameRequired
	}
	if req.ProjectID != nil {
		if _, err := visibleProject(s.db, user, *req.ProjectID); err != nil {
			return nil, err
		}
	} else if user.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	sealed, err := s.vault.Encrypt(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credential: %w", err)
	}

	cred := models.Credential{
		ServiceName:    name,
		Username:       req.Username,
		Password:       sealed,
		AdditionalInfo: req.AdditionalInfo,
		ProjectID:      req.ProjectID,
	}
	if err := s.db.Create(&cred).Error; err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	return &dto.CredentialResponse{
		ID:             cred.ID,
		ServiceName:    cred.ServiceName,
		Username:       cred.Username,
		Password:       req.Password,
		AdditionalInfo: cred.AdditionalInfo,
		ProjectID:      cred.ProjectID,
		CreatedAt:      cred.CreatedAt,
	}, nil
}

// RecordUpload stores the descriptor of a file the upload host accepted.
func (s *AssetService) RecordUpload(user *models.User, req *dto.UploadCompleteRequest) (*models.File, error) {
	file, err := newUploadedFile(user, req)
	if err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		if _, err := visibleProject(s.db, user, *req.ProjectID); err != nil {
			return nil, err
		}
	}
	if err := s.db.Create(file).Error; err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	slog.Info("upload recorded", "file_id", file.ID, "route", req.Route, "size", req.Size)
	return file, nil
}

func newUploadedFile(user *models.User, req *dto.UploadCompleteRequest) (*models.File, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.URL) == "" {
		return nil, ErrInvalidUpload
	}
	if err := CheckUpload(req.Route, req.Type, req.Size); err != nil {
		return nil, err
	}
	uploader := user.ID
	return &models.File{
		FileName:   req.Name,
		FileURL:    req.URL,
		FileType:   req.Type,
		FileSize:   req.Size,
		UploaderID: &uploader,
		ProjectID:  req.ProjectID,
		TaskID:     nilIfZero(req.TaskID),
	}, nil
}

func nilIfZero(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
